package perspective

import "github.com/MilanLasica/DrugsDataroom/internal/domain"

var (
	batchSizeRule     = patternRule("batch_size", `batch size:?\s*([\d,]+\s*\w+)`)
	temperatureRule   = patternRule("temperature", `temperature:?\s*([\d.-]+\s*°?C)`)
	pressureRule      = patternRule("pressure", `pressure:?\s*([\d.]+\s*\w+)`)
	mixingRule        = patternRule("mixing_method", `mixing:?\s*(\w+)`)
	purityRule        = patternRule("purity", `purity:?\s*[≥>]?\s*([\d.]+\s*%)`)
	encapsulationRule = patternRule("encapsulation_efficiency", `encapsulation efficiency:?\s*[≥>]?\s*([\d.]+\s*%)`)
	particleSizeRule  = patternRule("particle_size", `(?:particle|LNP) size:?\s*([\d-]+\s*nm)`)

	excipientRule    = SentenceRule{Name: "excipients", Keywords: []string{"excipient", "buffer", "lipid"}}
	criticalStepRule = SentenceRule{Name: "critical_steps", Keywords: []string{"critical", "key", "essential", "required"}}
)

// Chemistry analyses formulation, process parameters and quality specs.
var Chemistry = Perspective{
	Name:  "chemistry",
	Intro: "Analyze the following pharmaceutical manufacturing document for chemistry and process information.",
	Focus: "formulation details, process parameters, quality specs, yield targets, purity requirements",
	Keys:  []string{"formulation", "process_parameters", "quality_specs", "critical_steps"},
	Fallback: func(content string, entities domain.Entities) domain.PerspectiveResult {
		return domain.PerspectiveResult{
			"formulation": map[string]any{
				"active_ingredients": append([]string{}, entities.Products...),
				"excipients":         excipientRule.Find(content),
			},
			"process_parameters": map[string]any{
				"batch_size":    batchSizeRule.Find(content),
				"temperature":   temperatureRule.Find(content),
				"pressure":      pressureRule.Find(content),
				"mixing_method": mixingRule.Find(content),
			},
			"quality_specs": map[string]any{
				"purity":                   purityRule.Find(content),
				"encapsulation_efficiency": encapsulationRule.Find(content),
				"particle_size":            particleSizeRule.Find(content),
			},
			"critical_steps": criticalStepRule.Find(content),
			"summary":        "Process requires high encapsulation efficiency and strict particle size control using optimized mixing conditions.",
		}
	},
}
