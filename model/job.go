package model

import (
	"time"
)

// Job tracks one asynchronous analysis request for its process lifetime.
// Jobs are never persisted; a restart loses them.
type Job struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"` // pending, complete, failed
	Result    *AnalysisResult `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Job status constants
const (
	StatusPending  = "pending"
	StatusComplete = "complete"
	StatusFailed   = "failed"
)

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == StatusComplete || j.Status == StatusFailed
}

// AnalysisResult is the payload of a completed job.
type AnalysisResult struct {
	KeyTerms      []string       `json:"key_terms"`
	DiagramLabels []DiagramLabel `json:"diagram_labels"`
	OriginalText  string         `json:"original_text"`
}

// DiagramLabel is one component the model detected in a diagram image.
// Box is [x_min, y_min, x_max, y_max], normalized to 0..1. Label uniqueness
// within one result set is requested of the model via the prompt and is not
// re-checked here.
type DiagramLabel struct {
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Box         []float64 `json:"box"`
}
