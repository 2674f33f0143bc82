package perspective

import "github.com/MilanLasica/DrugsDataroom/internal/domain"

var (
	ethanolRecoveryRule = patternRule("ethanol_recovery", `ethanol recovery:?\s*([\d.]+\s*%)`)
	waterTreatmentRule  = patternRule("water_treatment", `water treatment:?\s*([\d.]+\s*%)`)
	co2Rule             = patternRule("co2_per_unit", `CO[₂2] emissions?:?\s*([\d.]+\s*kg)`)

	energyRule     = SentenceRule{Name: "energy_efficiency", Keywords: []string{"energy", "power", "efficiency"}}
	complianceRule = SentenceRule{Name: "compliance", Keywords: []string{"environmental", "EPA", "ISO 14001", "sustainability"}}
)

// Sustainability analyses waste recovery, emissions and energy use.
var Sustainability = Perspective{
	Name:  "sustainability",
	Intro: "Analyze the following pharmaceutical manufacturing document for sustainability metrics.",
	Focus: "waste recovery, solvent recycling, emissions, energy use, environmental impact",
	Keys:  []string{"waste_recovery", "emissions", "energy_efficiency", "compliance"},
	Fallback: func(content string, _ domain.Entities) domain.PerspectiveResult {
		return domain.PerspectiveResult{
			"waste_recovery": map[string]any{
				"ethanol_recovery": ethanolRecoveryRule.Find(content),
				"water_treatment":  waterTreatmentRule.Find(content),
			},
			"emissions": map[string]any{
				"co2_per_unit": co2Rule.Find(content),
			},
			"energy_efficiency": energyRule.Find(content),
			"compliance":        complianceRule.Find(content),
			"summary":           "Process incorporates solvent recovery systems and emission controls to minimize environmental impact.",
		}
	},
}
