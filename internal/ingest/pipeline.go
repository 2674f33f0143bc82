// Package ingest turns uploaded PDF specifications into chunked, entity
// annotated documents and hands them to the vector store.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// DocumentStore persists chunked documents. It reports false when the
// document could not be indexed.
type DocumentStore interface {
	StoreDocument(ctx context.Context, documentID, filename string, chunks []domain.Chunk, entities domain.Entities) bool
}

// PipelineConfig holds pipeline configuration.
type PipelineConfig struct {
	UploadDir    string
	ChunkSize    int
	ChunkOverlap int
}

// ProcessedDocument is an extracted, chunked and annotated upload.
type ProcessedDocument struct {
	DocumentID string
	Filename   string
	Pages      int
	Text       string
	Chunks     []domain.Chunk
	Entities   domain.Entities
	Metadata   map[string]any
}

// Pipeline orchestrates PDF ingestion.
type Pipeline struct {
	logger    *observability.Logger
	config    PipelineConfig
	extractor TextExtractor
	chunker   *Chunker
	store     DocumentStore
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(logger *observability.Logger, cfg PipelineConfig, extractor TextExtractor, store DocumentStore) *Pipeline {
	return &Pipeline{
		logger:    observability.OrNop(logger).WithComponent("ingest"),
		config:    cfg,
		extractor: extractor,
		chunker:   NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		store:     store,
	}
}

// SaveUpload writes an uploaded file into the upload directory and returns
// its path. Only names ending in lowercase .pdf are accepted, matching what
// the upload listing picks up.
func (p *Pipeline) SaveUpload(filename string, r io.Reader) (string, error) {
	name := filepath.Base(strings.TrimSpace(filename))
	if name == "." || name == string(filepath.Separator) || !domain.IsPDFName(name) {
		return "", domain.ValidationError("Only PDF files are supported", nil)
	}

	if err := os.MkdirAll(p.config.UploadDir, 0o755); err != nil {
		return "", domain.IOError("create upload directory", err)
	}

	path := filepath.Join(p.config.UploadDir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", domain.IOError("create upload file", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", domain.IOError("write upload file", err)
	}
	return path, nil
}

// Process extracts, chunks and annotates the PDF at path.
func (p *Pipeline) Process(ctx context.Context, path, filename string) (*ProcessedDocument, error) {
	text, err := p.extractor.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.ProcessText(filename, text), nil
}

// ProcessText chunks and annotates already extracted text.
func (p *Pipeline) ProcessText(filename, text string) *ProcessedDocument {
	documentID := uuid.New().String()
	return &ProcessedDocument{
		DocumentID: documentID,
		Filename:   filename,
		Pages:      PageCount(text),
		Text:       text,
		Chunks:     p.chunker.Split(text),
		Entities:   ExtractEntities(text),
		Metadata: map[string]any{
			"filename":    filename,
			"document_id": documentID,
		},
	}
}

// Ingest processes the PDF at path and stores its chunks. A store failure
// does not fail ingestion; the result reports the document as not indexed.
func (p *Pipeline) Ingest(ctx context.Context, path, filename string) (*domain.IngestionResult, error) {
	started := time.Now()

	doc, err := p.Process(ctx, path, filename)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", filename, err)
	}

	indexed := p.store.StoreDocument(ctx, doc.DocumentID, doc.Filename, doc.Chunks, doc.Entities)

	result := &domain.IngestionResult{
		DocumentID: doc.DocumentID,
		Filename:   doc.Filename,
		Pages:      doc.Pages,
		Chunks:     len(doc.Chunks),
		Indexed:    indexed,
		Duration:   time.Since(started),
	}

	evt := p.logger.Info()
	if !indexed {
		evt = p.logger.Warn()
	}
	evt.Str("document_id", result.DocumentID).
		Str("filename", result.Filename).
		Int("pages", result.Pages).
		Int("chunks", result.Chunks).
		Bool("indexed", indexed).
		Dur("duration", result.Duration).
		Msg("Ingestion completed")

	return result, nil
}
