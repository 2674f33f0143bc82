package assistant

import (
	"strings"

	"github.com/MilanLasica/DrugsDataroom/internal/domain"
)

const defaultContextPreview = 400

// cannedAnswer is returned when any trigger occurs in the lower-cased
// question and, if requires is set, one of those terms occurs too.
type cannedAnswer struct {
	triggers []string
	requires []string
	text     string
}

func (c cannedAnswer) matches(question string) bool {
	return containsAny(question, c.triggers) && (len(c.requires) == 0 || containsAny(question, c.requires))
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

var cannedAnswers = []cannedAnswer{
	{
		triggers: []string{"specification", "spec"},
		requires: []string{"lnp", "formulation"},
		text: `The LNP formulation specifications for RMX-207 require:

- **Encapsulation efficiency**: ≥90%
- **Particle size**: 80-120 nm
- **Polydispersity index**: <0.2
- **Purity**: ≥95% by HPLC

These specifications ensure optimal stability and efficacy of the mRNA therapeutic. The encapsulation efficiency target is critical for protecting the mRNA payload and achieving the desired pharmacokinetic profile.

*[Source: RMX-207 PTS, Section 3.2]*`,
	},
	{
		triggers: []string{"co2", "co₂", "emission"},
		text: `The CO₂ emission limit for RMX-207 manufacturing is **<0.5 kg per vial**.

This target aligns with sustainability goals and requires:
- Optimized energy usage during processing
- Solvent recovery systems (ethanol recovery ≥85%)
- Efficient HVAC systems in manufacturing suites

Meeting this target may require investment in emission monitoring equipment and process optimization.

*[Source: RMX-207 PTS, Sustainability Section]*`,
	},
	{
		triggers: []string{"payment", "milestone"},
		text: `Payment milestones for RMX-207 manufacturing are typically structured as:

1. **Tech Transfer Completion**: 20% upon successful knowledge transfer (Month 3)
2. **Process Validation**: 30% after validation batch approval (Month 5)
3. **First Commercial Batch**: 25% upon batch release (Month 6)
4. **Ongoing Production**: 25% distributed across subsequent batches

Total estimated cost per batch:
- Raw materials: $45,000
- Manufacturing: $120,000
- QC testing: $25,000
- **Total**: $190,000 per batch (10,000 vials)

*[Source: RMX-207 PTS, Financial Terms]*`,
	},
	{
		triggers: []string{"ethanol", "recovery"},
		text: `The ethanol recovery target is **≥85%** for RMX-207 manufacturing.

This is achieved through:
- Distillation systems post-purification
- Condensation and recirculation loops
- Monitoring of solvent purity for reuse

Benefits:
- Reduces raw material costs by ~40%
- Minimizes environmental impact
- Complies with green chemistry principles

The recovery system should be validated to ensure recovered ethanol meets quality standards for reuse in the process.

*[Source: RMX-207 PTS, Sustainability & Process Sections]*`,
	},
	{
		triggers: []string{"batch", "size"},
		text: `The standard batch size for RMX-207 is **10,000 vials per lot**.

Manufacturing parameters:
- Fill volume: 0.5 mL per vial
- Total volume per batch: ~5 liters (accounting for overfill and losses)
- Manufacturing time: 48-72 hours per batch
- QC release time: Additional 5-7 days

Batch size was selected to:
- Optimize equipment utilization
- Meet market demand projections
- Balance cost efficiency with flexibility

*[Source: RMX-207 PTS, Manufacturing Section]*`,
	},
}

const defaultAnswerTail = `...

To provide more specific information, please ask about:
- Formulation specifications (LNP, mRNA, excipients)
- Process parameters (batch size, temperature, mixing)
- Quality control requirements
- Sustainability targets
- Cost and payment milestones
- Timeline and deliverables

I can help you understand any aspect of the manufacturing requirements.

*[Source: RMX-207 Technical Specification]*`

// cannedResponse picks the fixed answer for question, or echoes the start
// of the context when no topic matches.
func cannedResponse(question, context string) string {
	q := strings.ToLower(question)
	for _, c := range cannedAnswers {
		if c.matches(q) {
			return c.text
		}
	}
	return "Based on the RMX-207 manufacturing documentation:\n\n" +
		domain.Truncate(context, defaultContextPreview) + defaultAnswerTail
}
