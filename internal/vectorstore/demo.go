package vectorstore

import "github.com/MilanLasica/DrugsDataroom/internal/domain"

// DemoFilename is the filename of the built-in demonstration document.
const DemoFilename = "RMX-207-PTS.pdf"

const demoContent = `RMX-207 Manufacturing Process Technical Specification

Product Overview:
RMX-207 is an mRNA-based therapeutic vaccine utilizing lipid nanoparticle (LNP) encapsulation.

Manufacturing Parameters:
- Batch size: 10,000 vials per lot
- Encapsulation efficiency: ≥90%
- Purity: ≥95% by HPLC
- LNP size: 80-120 nm
- Polydispersity index: <0.2

Quality Control:
- Sterility testing per USP <71>
- Endotoxin levels: <5 EU/mL
- Identity confirmation via sequencing

Sustainability Targets:
- Ethanol recovery: ≥85%
- CO₂ emissions: <0.5 kg per vial
- Waste water treatment: 99% contaminant removal

Cost Structure:
- Raw materials: $45,000 per batch
- Manufacturing: $120,000 per batch
- QC testing: $25,000 per batch
- Target cost: $19 per vial

Timeline:
- Tech transfer: 3 months
- Process validation: 2 months
- First commercial batch: Month 6
`

// DemoDocument returns the demonstration document under the requested id.
func DemoDocument(documentID string) *domain.Document {
	entities := domain.Entities{
		Products:   []string{"RMX-207"},
		Compounds:  []string{"mRNA", "LNP"},
		Parameters: []string{"90% efficiency", "95% purity"},
		Timelines:  []string{"3 months", "2 months", "6 months"},
		Costs:      []string{"$45,000", "$120,000", "$25,000", "$19"},
	}
	return &domain.Document{
		ID:       documentID,
		Filename: DemoFilename,
		Content:  demoContent,
		Metadata: map[string]any{"entities": entities},
		Entities: entities,
	}
}

// DemoLiterature returns the fixed literature results, best first.
func DemoLiterature() []domain.SearchResult {
	return []domain.SearchResult{
		{
			Content:    "FDA Guidance for Industry: Quality Considerations for Continuous Manufacturing - This guidance describes quality considerations for pharmaceutical manufacturers using continuous manufacturing (CM).",
			DocumentID: "fda-guidance-001",
			Filename:   "FDA_Continuous_Manufacturing_Guidance.pdf",
			Score:      0.92,
		},
		{
			Content:    "Good Manufacturing Practices (GMP) for mRNA vaccines require stringent environmental controls, validated processes, and comprehensive quality testing at each stage.",
			DocumentID: "gmp-mRNA-002",
			Filename:   "GMP_mRNA_Vaccines.pdf",
			Score:      0.87,
		},
		{
			Content:    "Lipid nanoparticle formulation best practices: Microfluidic mixing has been shown to improve encapsulation efficiency by 15-20% compared to traditional bulk mixing methods.",
			DocumentID: "lnp-best-practices-003",
			Filename:   "LNP_Formulation_2024.pdf",
			Score:      0.83,
		},
	}
}
