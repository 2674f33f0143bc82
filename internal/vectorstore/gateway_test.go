package vectorstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/embedding"
)

// memBackend is an in-memory Backend with injectable failures.
type memBackend struct {
	records []Record
	fail    error
	closed  bool
}

func (m *memBackend) Insert(_ context.Context, records []Record) error {
	if m.fail != nil {
		return m.fail
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *memBackend) FetchByDocument(_ context.Context, id string, limit int) ([]Record, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []Record
	for _, r := range m.records {
		if r.DocumentID == id && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memBackend) FetchAll(_ context.Context, limit int) ([]Record, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *memBackend) VectorCandidates(_ context.Context, q []float32, k int) ([]Candidate, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []Candidate
	for _, r := range m.records {
		out = append(out, Candidate{Record: r, Score: embedding.Cosine(q, r.Embedding)})
	}
	return topK(out, k), nil
}

func (m *memBackend) KeywordCandidates(_ context.Context, query string, k int) ([]Candidate, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []Candidate
	for _, r := range m.records {
		if s := keywordScore(terms(query), r.Content); s > 0 {
			out = append(out, Candidate{Record: r, Score: s})
		}
	}
	return topK(out, k), nil
}

func (m *memBackend) Ping(context.Context) error { return m.fail }

func (m *memBackend) Close() error {
	m.closed = true
	return nil
}

func newTestGateway(b Backend, uploadDir string) *Gateway {
	return NewGateway(b, embedding.NewHashEmbedder(1024), Options{UploadDir: uploadDir, HybridAlpha: DefaultAlpha}, nil)
}

func sampleChunks() []domain.Chunk {
	return []domain.Chunk{
		{Index: 0, Text: "RMX-207 lipid nanoparticle formulation overview", Metadata: map[string]any{"start_offset": 0}},
		{Index: 1, Text: "Ethanol recovery target and CO2 emissions per vial"},
		{Index: 2, Text: "Payment milestones and cost structure per batch"},
	}
}

func TestDegradedGateway(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(nil, filepath.Join(t.TempDir(), "missing"))

	assert.False(t, g.IsConnected(ctx))
	assert.False(t, g.StoreDocument(ctx, "doc", "doc.pdf", sampleChunks(), domain.NewEntities()))

	doc, err := g.GetDocument(ctx, "anything")
	require.NoError(t, err)
	assert.Equal(t, "anything", doc.ID)
	assert.Equal(t, DemoFilename, doc.Filename)
	assert.Contains(t, doc.Content, "CO₂ emissions: <0.5 kg per vial")
	assert.Equal(t, []string{"RMX-207"}, doc.Entities.Products)

	docs, err := g.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.NoError(t, g.Close())
}

func TestDegradedSearchLiterature(t *testing.T) {
	g := newTestGateway(nil, "")

	got := g.SearchLiterature(context.Background(), "LNP formulation", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "fda-guidance-001", got[0].DocumentID)
	assert.Equal(t, 0.92, got[0].Score)
	assert.Equal(t, "gmp-mRNA-002", got[1].DocumentID)
	assert.Equal(t, 0.87, got[1].Score)

	assert.Len(t, g.SearchLiterature(context.Background(), "anything", 0), 3)
}

func TestDegradedListScansUploads(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt", "REPORT.PDF"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "dir.pdf"), 0o755))

	docs, err := newTestGateway(nil, dir).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].Filename)
	assert.Equal(t, UploadID("a.pdf"), docs[0].DocumentID)
	assert.Equal(t, "6f48c255b95233664489270fac54e807", UploadID("b.pdf"))
}

func TestStoreThenGetDocument(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	g := newTestGateway(backend, "")

	entities := domain.NewEntities()
	entities.Products = []string{"RMX-207"}
	chunks := sampleChunks()

	require.True(t, g.StoreDocument(ctx, "doc-1", "rmx.pdf", chunks, entities))
	require.Len(t, backend.records, 3)
	assert.Contains(t, backend.records[0].Metadata, `"node_metadata":{"start_offset":0}`)
	assert.Len(t, backend.records[0].Embedding, 1024)

	// Stored out of order to prove reconstruction sorts by chunk index.
	backend.records[0], backend.records[2] = backend.records[2], backend.records[0]

	doc, err := g.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	want := []string{chunks[0].Text, chunks[1].Text, chunks[2].Text}
	assert.Equal(t, strings.Join(want, "\n\n"), doc.Content)
	assert.Equal(t, "rmx.pdf", doc.Filename)
	assert.Equal(t, []string{"RMX-207"}, doc.Entities.Products)
	assert.Contains(t, doc.Metadata, "entities")

	_, err = g.GetDocument(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, g.IsConnected(ctx))
	require.NoError(t, g.Close())
	assert.True(t, backend.closed)
}

func TestGetDocumentCorruptMetadata(t *testing.T) {
	backend := &memBackend{records: []Record{
		{DocumentID: "doc-1", Filename: "rmx.pdf", Content: "second", ChunkIndex: 1},
		{DocumentID: "doc-1", Filename: "rmx.pdf", Content: "first", ChunkIndex: 0, Metadata: `{"entities":`},
	}}

	doc, err := newTestGateway(backend, "").GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "first\n\nsecond", doc.Content)
	assert.Empty(t, doc.Metadata)
	assert.Equal(t, domain.NewEntities(), doc.Entities)
}

func TestDecodeMetadata(t *testing.T) {
	meta, entities, err := decodeMetadata(`{"entities":{"products":["RMX-207"]},"node_metadata":{"start_offset":0}}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"RMX-207"}, entities.Products)
	assert.Equal(t, []string{}, entities.Costs)
	assert.Equal(t, map[string]any{"start_offset": float64(0)}, meta["node_metadata"])

	meta, entities, err = decodeMetadata("")
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, domain.NewEntities(), entities)

	_, _, err = decodeMetadata("not json")
	assert.Error(t, err)
}

// shortEmbedder claims one more dimension than the vectors it returns.
type shortEmbedder struct{ *embedding.HashEmbedder }

func (s shortEmbedder) Dimension() int { return s.HashEmbedder.Dimension() + 1 }

func TestStoreDocumentRejectsDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	g := NewGateway(backend, shortEmbedder{embedding.NewHashEmbedder(16)}, Options{HybridAlpha: DefaultAlpha}, nil)

	assert.False(t, g.StoreDocument(ctx, "doc-1", "rmx.pdf", sampleChunks(), domain.NewEntities()))
	assert.Empty(t, backend.records)
}

func TestSearchLiteratureSkipsMismatchedQueryVector(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	require.True(t, newTestGateway(backend, "").StoreDocument(ctx, "doc-1", "rmx.pdf", sampleChunks(), domain.NewEntities()))

	g := NewGateway(backend, shortEmbedder{embedding.NewHashEmbedder(16)}, Options{HybridAlpha: DefaultAlpha}, nil)
	got := g.SearchLiterature(ctx, "payment milestones", 3)
	require.Len(t, got, 1)
	assert.Equal(t, "doc-1", got[0].DocumentID)
	assert.Equal(t, "Payment milestones and cost structure per batch", got[0].Content)
}

func TestListDocumentsDedupes(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	g := newTestGateway(backend, "")

	require.True(t, g.StoreDocument(ctx, "doc-1", "first.pdf", sampleChunks(), domain.NewEntities()))
	require.True(t, g.StoreDocument(ctx, "doc-2", "second.pdf", sampleChunks()[:1], domain.NewEntities()))
	backend.records = append(backend.records, Record{DocumentID: "doc-1", Filename: "renamed.pdf"})

	docs, err := g.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.DocumentSummary{
		{DocumentID: "doc-1", Filename: "first.pdf"},
		{DocumentID: "doc-2", Filename: "second.pdf"},
	}, docs)
}

func TestSearchLiteratureHybrid(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{}
	g := newTestGateway(backend, "")
	require.True(t, g.StoreDocument(ctx, "doc-1", "rmx.pdf", sampleChunks(), domain.NewEntities()))

	got := g.SearchLiterature(ctx, "ethanol recovery", 2)
	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), 2)
	assert.Equal(t, "Ethanol recovery target and CO2 emissions per vial", got[0].Content)
	assert.True(t, sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Score > got[j].Score }))
}

func TestSearchLiteratureEmptyStore(t *testing.T) {
	got := newTestGateway(&memBackend{}, "").SearchLiterature(context.Background(), "LNP formulation", 2)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBackendFailuresFallBack(t *testing.T) {
	ctx := context.Background()
	backend := &memBackend{fail: errors.New("connection refused")}
	g := newTestGateway(backend, "")

	assert.False(t, g.IsConnected(ctx))
	assert.False(t, g.StoreDocument(ctx, "doc", "doc.pdf", sampleChunks(), domain.NewEntities()))

	doc, err := g.GetDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, DemoFilename, doc.Filename)

	docs, err := g.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	got := g.SearchLiterature(ctx, "LNP formulation", 2)
	require.Len(t, got, 2)
	assert.Equal(t, "fda-guidance-001", got[0].DocumentID)
}
