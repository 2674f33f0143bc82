// Package vectorstore owns every interaction with the chunk store: inserting
// chunks, reconstructing documents, listing and hybrid search. The Gateway
// degrades to built-in demonstration data or the local upload directory
// whenever the backend is unavailable.
package vectorstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// Record is one stored chunk.
type Record struct {
	DocumentID string
	Filename   string
	Content    string
	ChunkIndex int
	// Metadata is the JSON bundle {"entities": ..., "node_metadata": ...}.
	Metadata  string
	Embedding []float32
}

// Candidate is a record with a backend-specific raw relevance score.
type Candidate struct {
	Record
	Score float64
}

// Backend is a chunk store capable of vector and keyword retrieval.
type Backend interface {
	Insert(ctx context.Context, records []Record) error
	// FetchByDocument returns at most limit records of one document.
	FetchByDocument(ctx context.Context, documentID string, limit int) ([]Record, error)
	// FetchAll returns at most limit records in insertion order.
	FetchAll(ctx context.Context, limit int) ([]Record, error)
	// VectorCandidates returns the k records most similar to the embedding.
	VectorCandidates(ctx context.Context, embedding []float32, k int) ([]Candidate, error)
	// KeywordCandidates returns the k records ranking best for the query terms.
	KeywordCandidates(ctx context.Context, query string, k int) ([]Candidate, error)
	Ping(ctx context.Context) error
	Close() error
}

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func validTable(name string) (string, error) {
	if name == "" {
		name = "pharma_document_chunks"
	}
	if !tableName.MatchString(name) {
		return "", fmt.Errorf("invalid collection name %q", name)
	}
	return name, nil
}

// Open connects the configured backend and bootstraps its schema.
func Open(ctx context.Context, cfg config.StoreConfig, logger *observability.Logger) (Backend, error) {
	logger = observability.OrNop(logger)

	var (
		backend Backend
		err     error
	)
	switch cfg.Driver {
	case "postgres":
		backend, err = OpenPostgres(ctx, cfg.Postgres, cfg.Collection)
	case "sqlite", "":
		backend, err = OpenSQLite(ctx, cfg.SQLite, cfg.Collection)
	default:
		err = fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("driver", cfg.Driver).
		Str("collection", cfg.Collection).
		Msg("Vector store connected")
	return backend, nil
}
