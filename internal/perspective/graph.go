package perspective

import (
	"strings"
	"unicode"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const (
	categoryLinkValue = 2
	metricLinkValue   = 1
)

type graphCategory struct {
	label  string
	group  int
	fields []string
}

var graphCategories = []graphCategory{
	{label: "Financial", group: 1, fields: []string{"total_cost", "cost_breakdown"}},
	{label: "Sustainability", group: 2, fields: []string{"waste_recovery", "emissions"}},
	{label: "Chemistry/Process", group: 3, fields: []string{"formulation", "process_parameters", "quality_specs"}},
}

// BuildGraph summarises the three perspectives as a star graph around the
// document node. Node ids are assigned sequentially from 0.
func BuildGraph(finance, sustainability, chemistry domain.PerspectiveResult) domain.GraphData {
	results := []domain.PerspectiveResult{finance, sustainability, chemistry}
	g := domain.GraphData{
		Nodes: []domain.GraphNode{{ID: 0, Label: "Manufacturing Document", Type: "document", Group: 0}},
		Links: []domain.GraphLink{},
	}
	next := 1
	for i, cat := range graphCategories {
		catID := next
		g.Nodes = append(g.Nodes, domain.GraphNode{ID: catID, Label: cat.label, Type: "category", Group: cat.group})
		g.Links = append(g.Links, domain.GraphLink{Source: 0, Target: catID, Value: categoryLinkValue})
		next++
		for _, field := range cat.fields {
			if !present(results[i][field]) {
				continue
			}
			g.Nodes = append(g.Nodes, domain.GraphNode{ID: next, Label: titleCase(field), Type: "metric", Group: cat.group})
			g.Links = append(g.Links, domain.GraphLink{Source: catID, Target: next, Value: metricLinkValue})
			next++
		}
	}
	return g
}

// present reports whether v is a non-empty value.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case []any:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case domain.PerspectiveResult:
		return len(t) > 0
	default:
		return true
	}
}

// titleCase turns "cost_breakdown" into "Cost Breakdown".
func titleCase(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		if len(r) > 0 {
			r[0] = unicode.ToUpper(r[0])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
