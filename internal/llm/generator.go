// Package llm provides the text generators used for perspective analysis and
// chat. The variant is chosen once at startup: a remote chat-completions
// client when a token is configured, otherwise a deterministic generator
// that always reports ErrUnavailable so callers take their fallback path.
package llm

import (
	"context"
	"errors"

	"github.com/MilanLasica/DrugsDataroom/internal/config"
	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// ErrUnavailable is returned by generators that cannot produce text.
var ErrUnavailable = errors.New("llm: generator unavailable")

// Request is a single generation request.
type Request struct {
	System      string
	History     []domain.Turn
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// Generator produces text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	// Available reports whether Generate can succeed at all.
	Available() bool
}

// Deterministic is the generator used when no model is configured.
type Deterministic struct{}

// Generate always fails with ErrUnavailable.
func (Deterministic) Generate(context.Context, Request) (string, error) {
	return "", ErrUnavailable
}

// Available implements Generator.
func (Deterministic) Available() bool { return false }

// New selects the generator for cfg.
func New(cfg config.LLMConfig) Generator {
	if cfg.Token == "" {
		return Deterministic{}
	}
	return NewClient(ClientConfig{
		Token:   cfg.Token,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
}

// Temperature returns a pointer for Request.Temperature.
func Temperature(t float64) *float64 { return &t }
