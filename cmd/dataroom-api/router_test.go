package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MilanLasica/DrugsDataroom/internal/app"
	"github.com/MilanLasica/DrugsDataroom/internal/config"
)

func newTestApp(t *testing.T, driver string) *app.App {
	t.Helper()
	cfg := config.DefaultConfig()
	dir := t.TempDir()
	cfg.Store.Driver = driver
	cfg.Store.SQLite.Path = filepath.Join(dir, "dataroom.db")
	cfg.Ingestion.UploadDir = filepath.Join(dir, "uploads")
	cfg.Ingestion.PDFBackend = "native"

	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	var body map[string]any
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestRouter_RootAndHealth(t *testing.T) {
	h := NewRouter(newTestApp(t, "offline"))

	w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PharmaFlow API", body["message"])
	assert.Equal(t, "running", body["status"])

	w, body = do(t, h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	services := body["services"].(map[string]any)
	assert.Equal(t, false, services["vector_store"])
	assert.Equal(t, true, services["document_processor"])
	assert.Equal(t, false, services["llm"])
}

func TestRouter_DemoMode(t *testing.T) {
	h := NewRouter(newTestApp(t, "offline"))

	t.Run("search", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/search?query=mixing&limit=2", nil))
		require.Equal(t, http.StatusOK, w.Code)
		results := body["results"].([]any)
		require.Len(t, results, 2)
		assert.Equal(t, "fda-guidance-001", results[0].(map[string]any)["document_id"])
		assert.InDelta(t, 0.87, results[1].(map[string]any)["score"], 1e-9)
	})

	t.Run("search default limit", func(t *testing.T) {
		_, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/search?query=mixing", nil))
		assert.Len(t, body["results"], 3)
	})

	t.Run("search requires query", func(t *testing.T) {
		w, _ := do(t, h, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("documents from empty upload dir", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/documents", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, body["documents"])
	})

	t.Run("analysis serves demo document", func(t *testing.T) {
		w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/documents/abc", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "abc", body["document_id"])
		assert.Equal(t, "$19", body["finance"].(map[string]any)["total_cost"])
		graph := body["graph_data"].(map[string]any)
		assert.Len(t, graph["nodes"], 11)
	})

	t.Run("chat", func(t *testing.T) {
		payload := `{"document_id":"abc","message":"What is the CO2 limit?","conversation_history":[{"role":"user","content":"hi"}]}`
		w, body := do(t, h, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, body["response"], "<0.5 kg per vial")
		citations := body["citations"].([]any)
		require.Len(t, citations, 4)
		assert.Equal(t, "primary", citations[0].(map[string]any)["relevance"])
		assert.NotContains(t, citations[0].(map[string]any), "score")
		assert.Len(t, body["sources"], 3)
	})

	t.Run("chat validation", func(t *testing.T) {
		w, _ := do(t, h, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"document_id":"abc"}`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w, _ = do(t, h, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`not json`)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRouter_UnknownDocument(t *testing.T) {
	h := NewRouter(newTestApp(t, "sqlite"))

	w, body := do(t, h, httptest.NewRequest(http.MethodGet, "/api/documents/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Document not found", body["detail"])

	payload := `{"document_id":"missing","message":"anything"}`
	w, body = do(t, h, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(payload)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Document not found.", body["response"])
	assert.Empty(t, body["citations"])
	assert.Empty(t, body["sources"])
}

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRouter_Upload(t *testing.T) {
	h := NewRouter(newTestApp(t, "sqlite"))

	t.Run("rejects non-pdf", func(t *testing.T) {
		w, body := do(t, h, multipartUpload(t, "notes.txt", []byte("hello")))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Only PDF files are supported", body["detail"])
	})

	t.Run("missing file field", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("other", "x"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())

		w, _ := do(t, h, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unreadable pdf", func(t *testing.T) {
		w, _ := do(t, h, multipartUpload(t, "broken.pdf", []byte("not really a pdf")))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := NewRouter(newTestApp(t, "offline"))

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
