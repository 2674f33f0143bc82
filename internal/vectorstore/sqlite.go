package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/embedding"
)

// maxScan bounds the rows the SQLite backend ranks in process.
const maxScan = 10000

// SQLiteBackend stores chunks in a single SQLite table. Embeddings are kept
// as JSON arrays and both rankings are computed in process.
type SQLiteBackend struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens (creating if needed) the database at cfg.Path.
func OpenSQLite(ctx context.Context, cfg config.SQLiteConfig, collection string) (*SQLiteBackend, error) {
	table, err := validTable(collection)
	if err != nil {
		return nil, err
	}

	dsn := cfg.Path
	if cfg.JournalMode != "" && dsn != ":memory:" {
		dsn += "?_journal_mode=" + cfg.JournalMode
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	b := &SQLiteBackend{db: db, table: table}
	if err := b.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			document_id TEXT NOT NULL,
			filename    TEXT NOT NULL,
			content     TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			metadata    TEXT NOT NULL DEFAULT '{}',
			embedding   TEXT,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, b.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_document_idx ON %s (document_id, chunk_index)`, b.table, b.table),
	}
	for _, stmt := range stmts {
		if _, err := b.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", b.table, err)
		}
	}
	return nil
}

// Insert implements Backend.
func (b *SQLiteBackend) Insert(ctx context.Context, records []Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (document_id, filename, content, chunk_index, metadata, embedding) VALUES (?, ?, ?, ?, ?, ?)`, b.table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var vec any
		if len(r.Embedding) > 0 {
			data, err := json.Marshal(r.Embedding)
			if err != nil {
				return fmt.Errorf("encode embedding: %w", err)
			}
			vec = string(data)
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

const sqliteColumns = `document_id, filename, content, chunk_index, metadata`

// FetchByDocument implements Backend.
func (b *SQLiteBackend) FetchByDocument(ctx context.Context, documentID string, limit int) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE document_id = ? ORDER BY chunk_index LIMIT ?`, sqliteColumns, b.table),
		documentID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch document: %w", err)
	}
	return scanRecords(rows)
}

// FetchAll implements Backend.
func (b *SQLiteBackend) FetchAll(ctx context.Context, limit int) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY id LIMIT ?`, sqliteColumns, b.table), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch all: %w", err)
	}
	return scanRecords(rows)
}

func (b *SQLiteBackend) scan(ctx context.Context, withEmbedding bool) ([]Record, error) {
	cols := sqliteColumns
	if withEmbedding {
		cols += ", embedding"
	}
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY id LIMIT ?`, cols, b.table), maxScan)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var vec sql.NullString
		dest := []any{&r.DocumentID, &r.Filename, &r.Content, &r.ChunkIndex, &r.Metadata}
		if withEmbedding {
			dest = append(dest, &vec)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if vec.Valid {
			if err := json.Unmarshal([]byte(vec.String), &r.Embedding); err != nil {
				return nil, fmt.Errorf("decode embedding: %w", err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// VectorCandidates implements Backend. Scores are cosine similarities. Rows
// embedded with a different dimension are skipped.
func (b *SQLiteBackend) VectorCandidates(ctx context.Context, query []float32, k int) ([]Candidate, error) {
	records, err := b.scan(ctx, true)
	if err != nil {
		return nil, err
	}
	cands := make([]Candidate, 0, len(records))
	for _, r := range records {
		if len(r.Embedding) == 0 || len(r.Embedding) != len(query) {
			continue
		}
		cands = append(cands, Candidate{Record: r, Score: embedding.Cosine(query, r.Embedding)})
	}
	return topK(cands, k), nil
}

// KeywordCandidates implements Backend. Scores are the summed frequency of
// query terms, damped by the square root of the chunk length.
func (b *SQLiteBackend) KeywordCandidates(ctx context.Context, query string, k int) ([]Candidate, error) {
	qt := terms(query)
	if len(qt) == 0 {
		return nil, nil
	}
	records, err := b.scan(ctx, false)
	if err != nil {
		return nil, err
	}

	var cands []Candidate
	for _, r := range records {
		if score := keywordScore(qt, r.Content); score > 0 {
			cands = append(cands, Candidate{Record: r, Score: score})
		}
	}
	return topK(cands, k), nil
}

// Ping implements Backend.
func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close implements Backend.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func terms(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func keywordScore(queryTerms []string, content string) float64 {
	words := terms(content)
	if len(words) == 0 {
		return 0
	}
	freq := make(map[string]int, len(words))
	for _, w := range words {
		freq[w]++
	}
	var hits int
	seen := map[string]struct{}{}
	for _, t := range queryTerms {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		hits += freq[t]
	}
	return float64(hits) / math.Sqrt(float64(len(words)))
}

func topK(cands []Candidate, k int) []Candidate {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })
	if k > 0 && len(cands) > k {
		cands = cands[:k]
	}
	return cands
}

var _ Backend = (*SQLiteBackend)(nil)
