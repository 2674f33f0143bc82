package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// Answerer answers questions about a document.
type Answerer interface {
	Answer(ctx context.Context, documentID, message string, history []domain.Turn) (*domain.Answer, error)
}

// ChatHandler handles chat requests.
type ChatHandler struct {
	logger   *observability.Logger
	answerer Answerer
}

// NewChatHandler creates a chat handler.
func NewChatHandler(logger *observability.Logger, answerer Answerer) *ChatHandler {
	return &ChatHandler{logger: observability.OrNop(logger), answerer: answerer}
}

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	DocumentID          string        `json:"document_id"`
	Message             string        `json:"message"`
	ConversationHistory []domain.Turn `json:"conversation_history"`
}

// ChatResponse is the response of POST /api/chat.
type ChatResponse struct {
	Response  string            `json:"response"`
	Citations []domain.Citation `json:"citations"`
	Sources   []string          `json:"sources"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		writeError(w, http.StatusBadRequest, "document_id is required", "")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.DocumentID, req.Message, req.ConversationHistory)
	if err != nil {
		h.logger.WithContext(r.Context()).Error().Err(err).Str("document_id", req.DocumentID).Msg("Chat failed")
		writeError(w, http.StatusInternalServerError, "chat failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:  answer.Answer,
		Citations: answer.Citations,
		Sources:   answer.Sources,
	})
}
