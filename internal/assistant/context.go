package assistant

import (
	"fmt"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const (
	mainContentLimit    = 1500
	relatedContentLimit = 300
	citationLimit       = 200
	maxSupporting       = 3
)

// buildContext renders the document and related chunks as generator context.
func buildContext(doc *domain.Document, related []domain.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Document: %s\n\n", doc.Filename)
	fmt.Fprintf(&b, "Main Content:\n%s\n\n", domain.Truncate(doc.Content, mainContentLimit))
	if len(related) > 0 {
		b.WriteString("Related Information:\n")
		for i, r := range related {
			fmt.Fprintf(&b, "%d. %s...\n\n", i+1, domain.Truncate(r.Content, relatedContentLimit))
		}
	}
	return b.String()
}

func citations(doc *domain.Document, related []domain.SearchResult) []domain.Citation {
	out := []domain.Citation{{
		Source:    doc.Filename,
		Content:   domain.Truncate(doc.Content, citationLimit) + "...",
		Relevance: domain.RelevancePrimary,
	}}
	for i, r := range related {
		if i == maxSupporting {
			break
		}
		source := r.Filename
		if source == "" {
			source = "Related Document"
		}
		score := r.Score
		out = append(out, domain.Citation{
			Source:    source,
			Content:   domain.Truncate(r.Content, citationLimit) + "...",
			Relevance: domain.RelevanceSupporting,
			Score:     &score,
		})
	}
	return out
}

func sources(related []domain.SearchResult) []string {
	out := make([]string, 0, len(related))
	for _, r := range related {
		if r.Filename == "" {
			out = append(out, "Unknown")
			continue
		}
		out = append(out, r.Filename)
	}
	return out
}
