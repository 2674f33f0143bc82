// Package perspective derives finance, sustainability and chemistry views of
// a document. Each view is requested from the configured generator and falls
// back to rule-based extraction over the document text.
package perspective

import (
	"fmt"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const (
	promptContentLimit = 2000
	analysisMaxTokens  = 1000

	systemPrompt = "You are an expert pharmaceutical manufacturing analyst. Provide structured, accurate analysis."
)

// Perspective describes one analytical view of a document.
type Perspective struct {
	Name  string
	Intro string
	Focus string
	// Keys are the fields the generator is asked to return.
	Keys     []string
	Fallback func(content string, entities domain.Entities) domain.PerspectiveResult
}

// Prompt renders the generator prompt for content.
func (p Perspective) Prompt(content string) string {
	var b strings.Builder
	b.WriteString(p.Intro)
	fmt.Fprintf(&b, "\nFocus on: %s.\n\n", p.Focus)
	fmt.Fprintf(&b, "Document content:\n%s\n\n", domain.Truncate(content, promptContentLimit))
	fmt.Fprintf(&b, "Provide a structured JSON response with keys: %s.", strings.Join(p.Keys, ", "))
	return b.String()
}

// merge overlays the non-empty fields of parsed onto the fallback result.
func merge(fallback, parsed domain.PerspectiveResult) domain.PerspectiveResult {
	for k, v := range parsed {
		if present(v) {
			fallback[k] = v
		}
	}
	return fallback
}
