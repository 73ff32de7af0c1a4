package models

// ModerationVerdict is the outcome of classifying a single image.
// Labels is empty whenever Flagged is false.
type ModerationVerdict struct {
	Flagged bool     `json:"flagged"`
	Labels  []string `json:"labels,omitempty"`
}
