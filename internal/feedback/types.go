// Package feedback turns sub-analysis measurements into prioritized
// form errors and improvement suggestions using declarative rule tables.
package feedback

import "github.com/liftlab/formcheck/internal/metrics"

// Severity grades a form error.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// rank orders severities for sorting, highest first.
func (s Severity) rank() int {
	switch s {
	case SeverityError:
		return 2
	case SeverityWarning:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank() >= other.rank()
}

// FrameRange marks the frames an error applies to.
type FrameRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FormError is a detected technique fault. Instances are created once
// and never mutated.
type FormError struct {
	Kind       string     `json:"kind"`
	Severity   Severity   `json:"severity"`
	FrameRange FrameRange `json:"frame_range"`
	Message    string     `json:"message"`
	Advice     string     `json:"advice"`
	Landmarks  []int      `json:"landmarks"`
}

// Suggestion is a lower-priority improvement recommendation generated
// from sub-scores falling below quality bands.
type Suggestion struct {
	Category       string `json:"category"`
	Priority       int    `json:"priority"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
}

// Results indexes sub-analyses by name for rule conditions.
type Results map[string]metrics.SubAnalysis

// NewResults builds the lookup from an analyzer output slice.
func NewResults(subs []metrics.SubAnalysis) Results {
	r := make(Results, len(subs))
	for _, s := range subs {
		r[s.Name] = s
	}
	return r
}

// Detail fetches a typed detail value from the named sub-analysis.
func Detail[T any](r Results, name string) (T, bool) {
	var zero T
	sub, ok := r[name]
	if !ok {
		return zero, false
	}
	d, ok := sub.Detail.(T)
	return d, ok
}

// Score returns the named sub-score, or -1 when absent.
func (r Results) Score(name string) float64 {
	if sub, ok := r[name]; ok {
		return sub.Score
	}
	return -1
}
