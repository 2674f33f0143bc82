// Package domain holds the data types shared by the ingestion, storage,
// analysis and chat layers.
package domain

import "time"

// Entities is the five-category entity map extracted from document text.
type Entities struct {
	Products   []string `json:"products"`
	Compounds  []string `json:"compounds"`
	Parameters []string `json:"parameters"`
	Timelines  []string `json:"timelines"`
	Costs      []string `json:"costs"`
}

// NewEntities returns an entity map with every category initialised to an
// empty list.
func NewEntities() Entities {
	return Entities{
		Products:   []string{},
		Compounds:  []string{},
		Parameters: []string{},
		Timelines:  []string{},
		Costs:      []string{},
	}
}

// Chunk is a contiguous slice of a document's text.
type Chunk struct {
	Index    int            `json:"chunk_index"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Document is a reconstructed document.
type Document struct {
	ID       string         `json:"document_id"`
	Filename string         `json:"filename"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Entities Entities       `json:"entities"`
}

// DocumentSummary is one entry of a document listing.
type DocumentSummary struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
}

// SearchResult is one ranked chunk returned by hybrid search.
type SearchResult struct {
	Content    string  `json:"content"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Score      float64 `json:"score"`
}

// Turn is one role-tagged message of a conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Relevance tags for citations.
const (
	RelevancePrimary    = "primary"
	RelevanceSupporting = "supporting"
)

// Citation references the material an answer was grounded on.
type Citation struct {
	Source    string   `json:"source"`
	Content   string   `json:"content"`
	Relevance string   `json:"relevance"`
	Score     *float64 `json:"score,omitempty"`
}

// Answer is the result of a conversational request.
type Answer struct {
	Answer    string     `json:"answer"`
	Citations []Citation `json:"citations"`
	Sources   []string   `json:"sources"`
}

// PerspectiveResult maps named fields to strings, nested maps or lists.
type PerspectiveResult map[string]any

// GraphNode is a node of the perspective graph.
type GraphNode struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
	Group int    `json:"group"`
}

// GraphLink is a directed, weighted edge of the perspective graph.
type GraphLink struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Value  int `json:"value"`
}

// GraphData summarises the three perspectives as nodes and links.
type GraphData struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// Analysis is the full multi-perspective analysis of a document.
type Analysis struct {
	DocumentID     string            `json:"document_id"`
	Finance        PerspectiveResult `json:"finance"`
	Sustainability PerspectiveResult `json:"sustainability"`
	Chemistry      PerspectiveResult `json:"chemistry"`
	GraphData      GraphData         `json:"graph_data"`
}

// IngestionResult reports the outcome of ingesting one uploaded file.
type IngestionResult struct {
	DocumentID string        `json:"document_id"`
	Filename   string        `json:"filename"`
	Pages      int           `json:"pages"`
	Chunks     int           `json:"chunks"`
	Indexed    bool          `json:"indexed"`
	Duration   time.Duration `json:"duration"`
}

// Upload statuses.
const (
	StatusProcessed  = "processed"
	StatusNotIndexed = "not_indexed"
)

// Status returns the upload status string for the result.
func (r *IngestionResult) Status() string {
	if r.Indexed {
		return StatusProcessed
	}
	return StatusNotIndexed
}
