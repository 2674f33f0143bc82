package perspective

import "github.com/MilanLasica/DrugsDataroom/internal/domain"

var (
	totalCostRule     = patternRule("total_cost", `total cost:?\s*\$?([\d,]+)`)
	targetCostRule    = patternRule("target_cost", `target cost:?\s*\$?([\d,]+)`)
	estimatedCostRule = patternRule("estimated_cost", `estimated cost:?\s*\$?([\d,]+)`)

	rawMaterialsRule  = patternRule("raw_materials", `raw materials?:?\s*\$?([\d,]+)`)
	manufacturingRule = patternRule("manufacturing", `manufacturing:?\s*\$?([\d,]+)`)
	qcTestingRule     = patternRule("qc_testing", `(?:QC|testing):?\s*\$?([\d,]+)`)

	roiRule = SentenceRule{Name: "roi_considerations", Keywords: []string{"cost", "price", "budget", "payment"}}
)

// Finance analyses costs, pricing and payment milestones.
var Finance = Perspective{
	Name:  "finance",
	Intro: "Analyze the following pharmaceutical manufacturing document and extract all financial information.",
	Focus: "costs, pricing, payment milestones, budget allocations, supplier dependencies",
	Keys:  []string{"total_cost", "cost_breakdown", "milestones", "roi_considerations"},
	Fallback: func(content string, entities domain.Entities) domain.PerspectiveResult {
		milestones := append([]string{}, entities.Costs...)
		return domain.PerspectiveResult{
			"total_cost": firstCost(content, totalCostRule, targetCostRule, estimatedCostRule),
			"cost_breakdown": map[string]any{
				"raw_materials": rawMaterialsRule.Find(content),
				"manufacturing": manufacturingRule.Find(content),
				"qc_testing":    qcTestingRule.Find(content),
			},
			"milestones":         milestones,
			"roi_considerations": roiRule.Find(content),
			"summary":            "Financial analysis shows multi-stage investment with defined cost centers and milestone-based payments.",
		}
	},
}
