package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleSpec = `RMX-207 Process Technical Specification
Encapsulation efficiency: >= 90%
Purity: 95%
Dose: mRNA 30 µg per vial, 2 mg/mL
Tech transfer in 3 months, validation 2 months, start 01/15/2025.
Raw materials: $45,000 and manufacturing $120,000
Program budget $1.25 million. Partner API-9 and RMX-207 again.`

func TestEntityRules(t *testing.T) {
	tests := []struct {
		name string
		rule EntityRule
		want []string
	}{
		{"products", ProductRule, []string{"RMX-207", "API-9"}},
		{"compounds", CompoundRule, []string{"90%", "95%", "mRNA 30 µg", "2 mg/mL"}},
		{"parameters", ParameterRule, []string{"Encapsulation efficiency: >= 90%", "Purity: 95%"}},
		{"timelines", TimelineRule, []string{"3 months", "2 months", "01/15/2025"}},
		{"costs", CostRule, []string{"$45,000", "$120,000", "$1.25 million"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rule.Apply(sampleSpec))
		})
	}
}

func TestEntityRuleLimit(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 15; i++ {
		b.WriteString("step ")
		b.WriteString(strings.Repeat("1", i))
		b.WriteString(" days\n")
	}
	got := TimelineRule.Apply(b.String())
	assert.Len(t, got, 10)
	assert.Equal(t, "1 days", got[0])
}

func TestExtractEntitiesEmpty(t *testing.T) {
	got := ExtractEntities("nothing to see here")
	assert.NotNil(t, got.Products)
	assert.Empty(t, got.Products)
	assert.Empty(t, got.Compounds)
	assert.Empty(t, got.Parameters)
	assert.Empty(t, got.Timelines)
	assert.Empty(t, got.Costs)
}

func TestExtractEntitiesIdempotent(t *testing.T) {
	assert.Equal(t, ExtractEntities(sampleSpec), ExtractEntities(sampleSpec))
}
