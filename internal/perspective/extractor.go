package perspective

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/llm"
	"github.com/MilanLasica/DrugsDataroom/internal/observability"
)

// Extractor produces the multi-perspective analysis of a document.
type Extractor struct {
	generator llm.Generator
	logger    *observability.Logger
}

// NewExtractor creates an extractor. A nil generator means rules only.
func NewExtractor(generator llm.Generator, logger *observability.Logger) *Extractor {
	if generator == nil {
		generator = llm.Deterministic{}
	}
	return &Extractor{
		generator: generator,
		logger:    observability.OrNop(logger).WithComponent("perspective"),
	}
}

// Extract analyses doc. The three perspectives are computed concurrently;
// failures inside a perspective degrade to its rule-based result, so the
// only error returned is a cancelled context.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (*domain.Analysis, error) {
	if doc == nil {
		return nil, domain.ValidationError("document is required", nil)
	}
	perspectives := []Perspective{Finance, Sustainability, Chemistry}
	results := make([]domain.PerspectiveResult, len(perspectives))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range perspectives {
		g.Go(func() error {
			results[i] = e.analyse(gctx, p, doc)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &domain.Analysis{
		DocumentID:     doc.ID,
		Finance:        results[0],
		Sustainability: results[1],
		Chemistry:      results[2],
		GraphData:      BuildGraph(results[0], results[1], results[2]),
	}, nil
}

func (e *Extractor) analyse(ctx context.Context, p Perspective, doc *domain.Document) domain.PerspectiveResult {
	fallback := p.Fallback(doc.Content, doc.Entities)
	if !e.generator.Available() {
		return fallback
	}

	text, err := e.generator.Generate(ctx, llm.Request{
		System:    systemPrompt,
		Prompt:    p.Prompt(doc.Content),
		MaxTokens: analysisMaxTokens,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			e.logger.Warn().Err(err).Str("perspective", p.Name).Str("document_id", doc.ID).Msg("Generator failed, using rule-based analysis")
		}
		return fallback
	}

	parsed := parseJSONObject(text)
	if len(parsed) == 0 {
		e.logger.Debug().Str("perspective", p.Name).Msg("Generator returned no JSON object")
	}
	return merge(fallback, parsed)
}
