// Package fallback defines the optional language-model classification
// callback. The classification core never depends on it being present; the
// session layer works with a nil Classifier and always has the rule-based
// keyword path to fall back to.
package fallback

import "context"

// Result is a fallback classification: one category from the offered
// enumeration plus a confidence in [0, 1].
type Result struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// Classifier is the injectable fallback strategy. Implementations are
// selected explicitly at construction time, never probed for.
type Classifier interface {
	Classify(ctx context.Context, text string, categories []string) (Result, error)
}
