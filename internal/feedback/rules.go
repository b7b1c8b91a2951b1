package feedback

import (
	"sort"

	"github.com/liftlab/formcheck/internal/phase"
)

// Rule is one entry of a per-exercise error table. Check returns
// whether the rule fires and the overshoot ratio, i.e. how far the
// measurement lies beyond its threshold relative to that threshold.
// Severity is derived from the overshoot, not hard-coded per rule.
type Rule struct {
	Kind      string
	Message   string
	Advice    string
	Landmarks []int

	// PhaseTypes narrows the reported frame range to matching phases;
	// empty means the whole sequence.
	PhaseTypes []phase.Type

	Check func(r Results) (bool, float64)
}

// SuggestionRule is one entry of a per-exercise suggestion table.
type SuggestionRule struct {
	Category       string
	Priority       int
	Recommendation string
	Rationale      string
	Check          func(r Results) bool
}

// Overshoot tiers. A measurement 20% past its threshold is still
// informational; 50% past is a warning; beyond that it is an error.
const (
	warningOvershoot = 0.2
	errorOvershoot   = 0.5
)

// severityFor converts an overshoot ratio into a severity tier.
func severityFor(overshoot float64) Severity {
	switch {
	case overshoot >= errorOvershoot:
		return SeverityError
	case overshoot >= warningOvershoot:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// EvaluateErrors runs an error rule table against the sub-analysis
// results. Errors are returned ordered by severity, ties keeping table
// order, so the ranking is deterministic.
func EvaluateErrors(rules []Rule, results Results, phases []phase.Phase, seqLen int) []FormError {
	var errs []FormError

	for _, rule := range rules {
		fired, overshoot := rule.Check(results)
		if !fired {
			continue
		}

		errs = append(errs, FormError{
			Kind:       rule.Kind,
			Severity:   severityFor(overshoot),
			FrameRange: frameRangeFor(rule.PhaseTypes, phases, seqLen),
			Message:    rule.Message,
			Advice:     rule.Advice,
			Landmarks:  rule.Landmarks,
		})
	}

	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Severity.rank() > errs[j].Severity.rank()
	})

	return errs
}

// EvaluateSuggestions runs a suggestion rule table and returns the
// fired entries ordered by priority.
func EvaluateSuggestions(rules []SuggestionRule, results Results) []Suggestion {
	var out []Suggestion

	for _, rule := range rules {
		if !rule.Check(results) {
			continue
		}
		out = append(out, Suggestion{
			Category:       rule.Category,
			Priority:       rule.Priority,
			Recommendation: rule.Recommendation,
			Rationale:      rule.Rationale,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})

	return out
}

// frameRangeFor computes the span of the phases a rule applies to,
// falling back to the whole sequence.
func frameRangeFor(types []phase.Type, phases []phase.Phase, seqLen int) FrameRange {
	if len(types) == 0 || len(phases) == 0 {
		return FrameRange{Start: 0, End: seqLen - 1}
	}

	start, end := -1, -1
	for _, p := range phases {
		for _, t := range types {
			if p.Type != t {
				continue
			}
			if start == -1 || p.StartFrame < start {
				start = p.StartFrame
			}
			if p.EndFrame > end {
				end = p.EndFrame
			}
		}
	}

	if start == -1 {
		return FrameRange{Start: 0, End: seqLen - 1}
	}
	return FrameRange{Start: start, End: end}
}
