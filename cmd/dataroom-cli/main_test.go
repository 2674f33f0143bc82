package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	for _, key := range []string{"VECTOR_STORE_DSN", "DATABASE_URL", "REDIS_URL", "FRIENDLI_TOKEN", "EMBEDDING_API_KEY", "OPENROUTER_API_KEY", "UPLOAD_DIR", "PDF_BACKEND"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	cfg := fmt.Sprintf(`store:
  driver: sqlite
  sqlite:
    path: %s
ingestion:
  upload_dir: %s
  pdf_backend: native
observability:
  log_level: error
`, filepath.Join(dir, "dataroom.db"), filepath.Join(dir, "uploads"))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", writeTestConfig(t), "--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dataroom-cli dev\n", out)

	out, err = run(t, "version", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"dev"}`, out)
}

func TestDocuments_Empty(t *testing.T) {
	out, err := run(t, "documents", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)

	out, err = run(t, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents found")
}

func TestSearch(t *testing.T) {
	out, err := run(t, "search", "--json", "lipid", "mixing")
	require.NoError(t, err)
	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Empty(t, results)

	_, err = run(t, "search", "--limit", "0", "lipid")
	assert.Error(t, err)
}

func TestAsk_UnknownDocument(t *testing.T) {
	out, err := run(t, "ask", "--json", "missing", "what", "is", "the", "batch", "size?")
	require.NoError(t, err)

	var answer map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &answer))
	assert.Equal(t, "Document not found.", answer["answer"])
	assert.Empty(t, answer["citations"])
}

func TestAnalyze_UnknownDocument(t *testing.T) {
	_, err := run(t, "analyze", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIngest_RejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	_, err := run(t, "ingest", "--json", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 files failed")
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "a; b", formatValue([]string{"a", "b"}))
	assert.Equal(t, "x=1, y=Not specified", formatValue(map[string]any{"y": "Not specified", "x": "1"}))
	assert.Equal(t, "2", formatValue(2.0))
}
