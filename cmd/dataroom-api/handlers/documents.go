package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/ingest"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

const multipartMemory = 32 << 20

// DocumentService is the document surface the handler needs.
type DocumentService interface {
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)
}

// Analyzer produces the perspective analysis of a stored document.
type Analyzer interface {
	Analyze(ctx context.Context, documentID string) (*domain.Analysis, error)
}

// DocumentHandler handles upload, listing and analysis requests.
type DocumentHandler struct {
	logger        *observability.Logger
	pipeline      *ingest.Pipeline
	documents     DocumentService
	analyzer      Analyzer
	maxUploadSize int64
}

// NewDocumentHandler creates a document handler.
func NewDocumentHandler(logger *observability.Logger, pipeline *ingest.Pipeline, documents DocumentService, analyzer Analyzer, maxUploadSize int64) *DocumentHandler {
	return &DocumentHandler{
		logger:        observability.OrNop(logger),
		pipeline:      pipeline,
		documents:     documents,
		analyzer:      analyzer,
		maxUploadSize: maxUploadSize,
	}
}

// UploadResponse is the response of POST /api/upload.
type UploadResponse struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Pages      int    `json:"pages"`
	Status     string `json:"status"`
}

// Upload handles POST /api/upload.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithContext(ctx).WithOperation("upload")

	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large", err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required", err.Error())
		return
	}
	defer file.Close()

	path, err := h.pipeline.SaveUpload(header.Filename, file)
	if err != nil {
		if domain.IsValidation(err) {
			writeError(w, http.StatusBadRequest, "Only PDF files are supported", "")
			return
		}
		log.Error().Err(err).Str("filename", header.Filename).Msg("Saving upload failed")
		writeError(w, http.StatusInternalServerError, "upload failed", err.Error())
		return
	}

	result, err := h.pipeline.Ingest(ctx, path, header.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", header.Filename).Msg("Processing upload failed")
		writeError(w, http.StatusInternalServerError, "processing failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, UploadResponse{
		DocumentID: result.DocumentID,
		Filename:   header.Filename,
		Pages:      result.Pages,
		Status:     result.Status(),
	})
}

// List handles GET /api/documents.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.ListDocuments(r.Context())
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Msg("Listing documents failed")
		writeError(w, http.StatusInternalServerError, "listing failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// Get handles GET /api/documents/{documentId}.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	documentID := chi.URLParam(r, "documentId")

	analysis, err := h.analyzer.Analyze(r.Context(), documentID)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found", "")
		return
	}
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Str("document_id", documentID).Msg("Analysis failed")
		writeError(w, http.StatusInternalServerError, "analysis failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
