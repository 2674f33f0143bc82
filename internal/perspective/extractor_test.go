package perspective

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
	"github.com/MilanLasica/DrugsDataroom/internal/llm"
)

type scriptedGenerator struct {
	mu       sync.Mutex
	requests []llm.Request
	reply    func(req llm.Request) (string, error)
}

func (g *scriptedGenerator) Generate(_ context.Context, req llm.Request) (string, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	return g.reply(req)
}

func (g *scriptedGenerator) Available() bool { return true }

func sampleDocument() *domain.Document {
	entities := domain.NewEntities()
	entities.Products = []string{"RMX-207"}
	entities.Costs = []string{"$45,000", "$19"}
	return &domain.Document{
		ID:       "doc-1",
		Filename: "rmx.pdf",
		Content:  "Raw materials: $45,000 per batch. Target cost: $19 per vial. Purity: ≥95% by HPLC.",
		Entities: entities,
	}
}

func TestExtractor_RulesOnly(t *testing.T) {
	ex := NewExtractor(nil, nil)

	got, err := ex.Extract(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, "$19", got.Finance["total_cost"])
	assert.Equal(t, []string{"$45,000", "$19"}, got.Finance["milestones"])
	assert.Contains(t, got.Sustainability, "waste_recovery")
	assert.Equal(t, "95%", got.Chemistry["quality_specs"].(map[string]any)["purity"])
	assert.Len(t, got.GraphData.Nodes, 11)
}

func TestExtractor_Deterministic(t *testing.T) {
	ex := NewExtractor(llm.Deterministic{}, nil)

	first, err := ex.Extract(context.Background(), sampleDocument())
	require.NoError(t, err)
	second, err := ex.Extract(context.Background(), sampleDocument())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestExtractor_GeneratorOverlaysFallback(t *testing.T) {
	gen := &scriptedGenerator{reply: func(req llm.Request) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "financial information"):
			return "Sure.\n```json\n{\"total_cost\": \"$2,000,000\", \"milestones\": [], \"extra\": \"kept\"}\n```", nil
		case strings.Contains(req.Prompt, "sustainability metrics"):
			return "", errors.New("upstream 502")
		default:
			return "no json here", nil
		}
	}}
	ex := NewExtractor(gen, nil)

	got, err := ex.Extract(context.Background(), sampleDocument())
	require.NoError(t, err)

	assert.Equal(t, "$2,000,000", got.Finance["total_cost"])
	assert.Equal(t, "kept", got.Finance["extra"])
	assert.Equal(t, []string{"$45,000", "$19"}, got.Finance["milestones"], "empty generator values keep the fallback")
	assert.Contains(t, got.Finance["summary"], "milestone-based payments")

	fallback := Sustainability.Fallback(sampleDocument().Content, sampleDocument().Entities)
	assert.Equal(t, fallback, got.Sustainability)
	assert.Equal(t, "95%", got.Chemistry["quality_specs"].(map[string]any)["purity"])

	require.Len(t, gen.requests, 3)
	for _, req := range gen.requests {
		assert.Equal(t, systemPrompt, req.System)
		assert.Equal(t, analysisMaxTokens, req.MaxTokens)
	}
}

func TestExtractor_NilDocument(t *testing.T) {
	_, err := NewExtractor(nil, nil).Extract(context.Background(), nil)
	assert.True(t, domain.IsValidation(err))
}

func TestExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor(nil, nil).Extract(ctx, sampleDocument())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPerspective_Prompt(t *testing.T) {
	content := strings.Repeat("é", promptContentLimit+50)

	prompt := Finance.Prompt(content)

	assert.True(t, strings.HasPrefix(prompt, Finance.Intro))
	assert.Contains(t, prompt, "Focus on: costs, pricing, payment milestones")
	assert.Contains(t, prompt, strings.Repeat("é", promptContentLimit)+"\n\n")
	assert.NotContains(t, prompt, strings.Repeat("é", promptContentLimit+1))
	assert.True(t, strings.HasSuffix(prompt, "keys: total_cost, cost_breakdown, milestones, roi_considerations."))
}
