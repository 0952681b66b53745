package schema

import "time"

// Category selects the extraction + consensus workflow for a document
type Category string

const (
	CategoryText    Category = "text"
	CategoryImage   Category = "image"
	CategoryCSV     Category = "csv"
	CategoryUnknown Category = "unknown"
)

// Workflow returns the consensus workflow that handles this category.
// Unknown content is scored by the text workflow.
func (c Category) Workflow() Category {
	if c == CategoryUnknown || c == "" {
		return CategoryText
	}
	return c
}

// Fixed reasons surfaced to callers
const (
	ReasonCached             = "cached result"
	ReasonSuccess            = "Verification successful"
	ReasonEvaluationFailed   = "Evaluation failed"
	ReasonArbitrationFailed  = "Arbitration failed"
	ReasonInvalidResponse    = "Invalid response"
	ReasonTextExtractFailed  = "Text content extraction failed"
	ReasonImageExtractFailed = "Image content extraction failed"
	ReasonCSVExtractFailed   = "CSV content extraction failed"

	// Image evaluators answer with a bare number, so their reasons are fixed
	ReasonImageAnalysis  = "Image analysis"
	ReasonVisualAnalysis = "Visual analysis"
)

// Evaluation is the output of every pipeline stage and of the verifier itself
type Evaluation struct {
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Failed builds a zero-score Evaluation carrying a diagnostic reason
func Failed(reason string) Evaluation {
	return Evaluation{Score: 0, Reason: reason}
}

// Campaign is the read-only view of a campaign the pipeline scores against
type Campaign struct {
	ID           string
	Description  string
	Requirements string
}

// Document is an immutable submitted file
type Document struct {
	Name string
	Data []byte
}

// CacheEntry mirrors what the result cache keeps per key
type CacheEntry struct {
	Score     float64
	ExpiresAt time.Time
}
