package vectorstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/MilanLasica/DrugsDataroom/internal/config"
)

// PostgresBackend stores chunks in Postgres with pgvector embeddings and a
// generated tsvector column for keyword ranking.
type PostgresBackend struct {
	db    *sql.DB
	table string
}

// OpenPostgres connects to Postgres and creates the chunk table if needed.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig, collection string) (*PostgresBackend, error) {
	table, err := validTable(collection)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	b := &PostgresBackend{db: db, table: table}
	if err := b.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := b.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *PostgresBackend) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			document_id TEXT NOT NULL,
			filename    TEXT NOT NULL,
			content     TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			metadata    JSONB NOT NULL DEFAULT '{}'::jsonb,
			embedding   vector,
			content_tsv tsvector GENERATED ALWAYS AS (to_tsvector('english', content)) STORED,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, b.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_document_idx ON %s (document_id, chunk_index)`, b.table, b.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_tsv_idx ON %s USING GIN (content_tsv)`, b.table, b.table),
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", b.table, err)
		}
	}
	return nil
}

// Insert implements Backend.
func (b *PostgresBackend) Insert(ctx context.Context, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (document_id, filename, content, chunk_index, metadata, embedding)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6)`, b.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var vec any
		if len(r.Embedding) > 0 {
			vec = pgvector.NewVector(r.Embedding)
		}
		meta := r.Metadata
		if meta == "" {
			meta = "{}"
		}
		if _, err := stmt.ExecContext(ctx, r.DocumentID, r.Filename, r.Content, r.ChunkIndex, meta, vec); err != nil {
			return fmt.Errorf("insert chunk %d: %w", r.ChunkIndex, err)
		}
	}
	return tx.Commit()
}

const pgColumns = `document_id, filename, content, chunk_index, metadata::text`

// FetchByDocument implements Backend.
func (b *PostgresBackend) FetchByDocument(ctx context.Context, documentID string, limit int) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE document_id = $1 ORDER BY chunk_index LIMIT $2`, pgColumns, b.table),
		documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return scanRecords(rows)
}

// FetchAll implements Backend.
func (b *PostgresBackend) FetchAll(ctx context.Context, limit int) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY id LIMIT $1`, pgColumns, b.table), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}
	return scanRecords(rows)
}

// VectorCandidates implements Backend. Scores are cosine similarities. Rows
// embedded with a different dimension are skipped.
func (b *PostgresBackend) VectorCandidates(ctx context.Context, embedding []float32, k int) ([]Candidate, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, 1 - (embedding <=> $1) AS score
		 FROM %s WHERE embedding IS NOT NULL AND vector_dims(embedding) = $3
		 ORDER BY embedding <=> $1 LIMIT $2`, pgColumns, b.table),
		pgvector.NewVector(embedding), k, len(embedding))
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return scanCandidates(rows)
}

// KeywordCandidates implements Backend. Scores are ts_rank_cd ranks.
func (b *PostgresBackend) KeywordCandidates(ctx context.Context, query string, k int) ([]Candidate, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s, ts_rank_cd(content_tsv, q) AS score
		 FROM %s, plainto_tsquery('english', $1) q
		 WHERE content_tsv @@ q
		 ORDER BY score DESC, id LIMIT $2`, pgColumns, b.table),
		query, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	return scanCandidates(rows)
}

// Ping implements Backend.
func (b *PostgresBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close implements Backend.
func (b *PostgresBackend) Close() error {
	return b.db.Close()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.DocumentID, &r.Filename, &r.Content, &r.ChunkIndex, &r.Metadata); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanCandidates(rows *sql.Rows) ([]Candidate, error) {
	defer rows.Close()
	var out []Candidate
	for rows.Next() {
		var c Candidate
		if err := rows.Scan(&c.DocumentID, &c.Filename, &c.Content, &c.ChunkIndex, &c.Metadata, &c.Score); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

var _ Backend = (*PostgresBackend)(nil)
