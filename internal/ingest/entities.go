package ingest

import (
	"regexp"
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

// EntityRule extracts one entity category from raw text.
type EntityRule struct {
	Name string
	// Pattern matches candidate terms. Rules with a nil Pattern match whole
	// lines containing one of Keywords instead.
	Pattern  *regexp.Regexp
	Keywords []string
	// Limit caps the number of unique matches; zero means unlimited.
	Limit int
}

// Entity rules, one per category.
var (
	ProductRule = EntityRule{
		Name:    "products",
		Pattern: regexp.MustCompile(`\b[A-Z]{2,}-?\d+\b`),
	}
	CompoundRule = EntityRule{
		Name:    "compounds",
		Pattern: regexp.MustCompile(`\d+\s*%|\d+\s*mg/mL|\w+\s+\d+\s*µg`),
	}
	ParameterRule = EntityRule{
		Name:     "parameters",
		Keywords: []string{"efficiency", "purity", "yield", "recovery", "encapsulation"},
		Limit:    10,
	}
	TimelineRule = EntityRule{
		Name:    "timelines",
		Pattern: regexp.MustCompile(`\d+\s+(?:days?|weeks?|months?|years?)|\d{1,2}/\d{1,2}/\d{2,4}`),
		Limit:   10,
	}
	CostRule = EntityRule{
		Name:    "costs",
		Pattern: regexp.MustCompile(`\$\s?\d+(?:,\d{3})*(?:\.\d{2})?(?:\s?(?:million|billion|M|B))?`),
	}
)

// Apply returns the unique matches of the rule in first-occurrence order.
func (r EntityRule) Apply(text string) []string {
	var candidates []string
	if r.Pattern != nil {
		candidates = r.Pattern.FindAllString(text, -1)
	} else {
		for _, line := range strings.Split(text, "\n") {
			lower := strings.ToLower(line)
			for _, kw := range r.Keywords {
				if strings.Contains(lower, kw) {
					candidates = append(candidates, strings.TrimSpace(line))
					break
				}
			}
		}
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if r.Limit > 0 && len(out) == r.Limit {
			break
		}
	}
	return out
}

// ExtractEntities scans text and returns the five-category entity map.
func ExtractEntities(text string) domain.Entities {
	return domain.Entities{
		Products:   ProductRule.Apply(text),
		Compounds:  CompoundRule.Apply(text),
		Parameters: ParameterRule.Apply(text),
		Timelines:  TimelineRule.Apply(text),
		Costs:      CostRule.Apply(text),
	}
}
