package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/embedding"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

const (
	// DefaultFetchLimit bounds the records read per document or listing.
	DefaultFetchLimit = 100
	// DefaultSearchLimit is the result count when a search passes limit <= 0.
	DefaultSearchLimit = 5
	minCandidatePool   = 20
)

// Options tunes the gateway.
type Options struct {
	UploadDir   string
	FetchLimit  int
	HybridAlpha float64
}

// Gateway fronts a Backend and converts its failures into fallbacks.
// A nil backend runs the gateway in degraded mode.
type Gateway struct {
	backend  Backend
	embedder embedding.Embedder
	opts     Options
	logger   *observability.Logger
}

// NewGateway creates a gateway. backend may be nil.
func NewGateway(backend Backend, embedder embedding.Embedder, opts Options, logger *observability.Logger) *Gateway {
	if opts.FetchLimit <= 0 {
		opts.FetchLimit = DefaultFetchLimit
	}
	if opts.HybridAlpha < 0 || opts.HybridAlpha > 1 {
		opts.HybridAlpha = DefaultAlpha
	}
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	if embedder == nil {
		embedder = embedding.NewHashEmbedder(0)
	}
	return &Gateway{
		backend:  backend,
		embedder: embedder,
		opts:     opts,
		logger:   observability.OrNop(logger).WithComponent("vectorstore"),
	}
}

// Close releases the backend.
func (g *Gateway) Close() error {
	if g.backend == nil {
		return nil
	}
	return g.backend.Close()
}

// IsConnected reports whether the backend is reachable.
func (g *Gateway) IsConnected(ctx context.Context) bool {
	return g.backend != nil && g.backend.Ping(ctx) == nil
}

type metadataBundle struct {
	Entities     domain.Entities `json:"entities"`
	NodeMetadata map[string]any  `json:"node_metadata"`
}

// decodeMetadata parses a stored metadata bundle. An empty or corrupt bundle
// yields an empty map and no entities.
func decodeMetadata(raw string) (map[string]any, domain.Entities, error) {
	if raw == "" {
		return map[string]any{}, domain.NewEntities(), nil
	}
	bundle := metadataBundle{Entities: domain.NewEntities()}
	if err := json.Unmarshal([]byte(raw), &bundle); err != nil {
		return map[string]any{}, domain.NewEntities(), fmt.Errorf("decode metadata: %w", err)
	}
	return map[string]any{
		"entities":      bundle.Entities,
		"node_metadata": bundle.NodeMetadata,
	}, bundle.Entities, nil
}

// StoreDocument embeds and inserts one record per chunk. Every vector must
// have the embedder's dimension. It returns false when the document could not
// be indexed; inserted records are not rolled back.
func (g *Gateway) StoreDocument(ctx context.Context, documentID, filename string, chunks []domain.Chunk, entities domain.Entities) bool {
	log := g.logger.WithOperation("store_document")
	if g.backend == nil {
		log.Warn().Str("document_id", documentID).Msg("Vector store not connected, skipping storage")
		return false
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vectors, err := g.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(chunks) {
		log.Warn().Err(err).Str("document_id", documentID).Msg("Embedding failed, document not indexed")
		return false
	}
	for i, v := range vectors {
		if len(v) != g.embedder.Dimension() {
			log.Warn().
				Str("document_id", documentID).
				Int("chunk_index", i).
				Int("dimension", len(v)).
				Int("want_dimension", g.embedder.Dimension()).
				Msg("Embedding dimension mismatch, document not indexed")
			return false
		}
	}

	records := make([]Record, len(chunks))
	for i, ch := range chunks {
		meta, err := json.Marshal(metadataBundle{Entities: entities, NodeMetadata: ch.Metadata})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to encode chunk metadata")
			return false
		}
		records[i] = Record{
			DocumentID: documentID,
			Filename:   filename,
			Content:    ch.Text,
			ChunkIndex: i,
			Metadata:   string(meta),
			Embedding:  vectors[i],
		}
	}

	if err := g.backend.Insert(ctx, records); err != nil {
		log.Warn().Err(err).Str("document_id", documentID).Msg("Failed to store document")
		return false
	}

	log.Debug().Str("document_id", documentID).Int("chunks", len(records)).Msg("Document stored")
	return true
}

// GetDocument reconstructs a document from its chunks. It returns
// domain.ErrNotFound when the store holds no chunks for the id, and the demo
// document when the store is unavailable.
func (g *Gateway) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	if g.backend == nil {
		return DemoDocument(documentID), nil
	}

	records, err := g.backend.FetchByDocument(ctx, documentID, g.opts.FetchLimit)
	if err != nil {
		g.logger.WithOperation("get_document").Warn().Err(err).Str("document_id", documentID).Msg("Retrieval failed, serving demo document")
		return DemoDocument(documentID), nil
	}
	if len(records) == 0 {
		return nil, domain.ErrNotFound
	}

	sort.SliceStable(records, func(i, j int) bool { return records[i].ChunkIndex < records[j].ChunkIndex })

	parts := make([]string, len(records))
	for i, r := range records {
		parts[i] = r.Content
	}

	meta, entities, err := decodeMetadata(records[0].Metadata)
	if err != nil {
		g.logger.WithOperation("get_document").Warn().Err(err).Str("document_id", documentID).Msg("Corrupt chunk metadata, ignoring it")
	}

	return &domain.Document{
		ID:       documentID,
		Filename: records[0].Filename,
		Content:  strings.Join(parts, "\n\n"),
		Metadata: meta,
		Entities: entities,
	}, nil
}

// ListDocuments returns one entry per distinct document id, first filename
// wins. Without a backend the upload directory is listed instead.
func (g *Gateway) ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error) {
	if g.backend == nil {
		return scanUploads(g.opts.UploadDir)
	}

	records, err := g.backend.FetchAll(ctx, g.opts.FetchLimit)
	if err != nil {
		g.logger.WithOperation("list_documents").Warn().Err(err).Msg("Listing failed")
		return []domain.DocumentSummary{}, nil
	}

	docs := []domain.DocumentSummary{}
	seen := map[string]struct{}{}
	for _, r := range records {
		if _, ok := seen[r.DocumentID]; ok {
			continue
		}
		seen[r.DocumentID] = struct{}{}
		docs = append(docs, domain.DocumentSummary{DocumentID: r.DocumentID, Filename: r.Filename})
	}
	return docs, nil
}

// SearchLiterature runs a hybrid search across all stored chunks. Without a
// backend, or when the backend fails, the demo literature is returned.
func (g *Gateway) SearchLiterature(ctx context.Context, query string, limit int) []domain.SearchResult {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if g.backend == nil {
		return demoLiterature(limit)
	}

	log := g.logger.WithOperation("search_literature")
	pool := limit * 4
	if pool < minCandidatePool {
		pool = minCandidatePool
	}

	var vector []Candidate
	if qv, err := g.embedder.EmbedSingle(ctx, query); err != nil {
		log.Warn().Err(err).Msg("Query embedding failed, using keyword ranking only")
	} else if len(qv) != g.embedder.Dimension() {
		log.Warn().Int("dimension", len(qv)).Msg("Query embedding has the wrong dimension, using keyword ranking only")
	} else if vector, err = g.backend.VectorCandidates(ctx, qv, pool); err != nil {
		log.Warn().Err(err).Msg("Vector search failed, serving demo literature")
		return demoLiterature(limit)
	}

	keyword, err := g.backend.KeywordCandidates(ctx, query, pool)
	if err != nil {
		log.Warn().Err(err).Msg("Keyword search failed, serving demo literature")
		return demoLiterature(limit)
	}

	return Fuse(vector, keyword, g.opts.HybridAlpha, limit)
}

func demoLiterature(limit int) []domain.SearchResult {
	results := DemoLiterature()
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}
