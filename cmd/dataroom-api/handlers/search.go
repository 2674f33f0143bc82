package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const defaultSearchLimit = 5

// Searcher runs literature searches.
type Searcher interface {
	SearchLiterature(ctx context.Context, query string, limit int) []domain.SearchResult
}

// SearchHandler handles literature search.
type SearchHandler struct {
	searcher Searcher
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /api/search?query=...&limit=...
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query is required", "")
		return
	}

	limit := defaultSearchLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer", "")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": h.searcher.SearchLiterature(r.Context(), query, limit)})
}
