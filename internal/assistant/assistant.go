// Package assistant answers questions about a document using its text and
// related literature as grounding.
package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/llm"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

const (
	relatedLimit  = 3
	historyWindow = 5
	chatMaxTokens = 800
	chatTemp      = 0.7

	notFoundAnswer = "Document not found."

	systemPrompt = `You are a pharmaceutical manufacturing expert assistant.
Answer questions about drug manufacturing specifications, processes, and requirements.
Always cite specific sections when providing information.
Be precise and technical when appropriate.`
)

// Library resolves documents and searches the stored literature.
type Library interface {
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
	SearchLiterature(ctx context.Context, query string, limit int) []domain.SearchResult
}

// Assistant answers questions about stored documents.
type Assistant struct {
	library   Library
	generator llm.Generator
	logger    *observability.Logger
}

// New creates an assistant. A nil generator answers from canned responses.
func New(library Library, generator llm.Generator, logger *observability.Logger) *Assistant {
	if generator == nil {
		generator = llm.Deterministic{}
	}
	return &Assistant{
		library:   library,
		generator: generator,
		logger:    observability.OrNop(logger).WithComponent("assistant"),
	}
}

// Answer responds to message in the context of the document.
func (a *Assistant) Answer(ctx context.Context, documentID, message string, history []domain.Turn) (*domain.Answer, error) {
	doc, err := a.library.GetDocument(ctx, documentID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && doc == nil) {
		return &domain.Answer{Answer: notFoundAnswer, Citations: []domain.Citation{}, Sources: []string{}}, nil
	}
	if err != nil {
		return nil, domain.StoreError(fmt.Sprintf("resolve document %s", documentID), err)
	}

	related := a.library.SearchLiterature(ctx, message, relatedLimit)
	grounding := buildContext(doc, related)

	return &domain.Answer{
		Answer:    a.respond(ctx, message, grounding, history),
		Citations: citations(doc, related),
		Sources:   sources(related),
	}, nil
}

func (a *Assistant) respond(ctx context.Context, message, grounding string, history []domain.Turn) string {
	if !a.generator.Available() {
		return cannedResponse(message, grounding)
	}
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	answer, err := a.generator.Generate(ctx, llm.Request{
		System:      systemPrompt,
		History:     history,
		Prompt:      fmt.Sprintf("Context:\n%s\n\nQuestion: %s", grounding, message),
		MaxTokens:   chatMaxTokens,
		Temperature: llm.Temperature(chatTemp),
	})
	if err != nil {
		a.logger.WithContext(ctx).Warn().Err(err).Msg("Generation failed, using canned response")
		return cannedResponse(message, grounding)
	}
	return answer
}
