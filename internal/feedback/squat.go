package feedback

import (
	"github.com/liftlab/formcheck/internal/metrics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// SquatRules returns the squat error table for the given thresholds.
func SquatRules(t metrics.Thresholds) []Rule {
	return []Rule{
		{
			Kind:       "insufficient_depth",
			Message:    "Squat does not reach parallel depth",
			Advice:     "Sit back and down until the hip crease drops below the top of the knee.",
			Landmarks:  []int{pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee},
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeBottom},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.DepthDetail](r, metrics.NameDepth)
				if !ok || d.ReachedParallel {
					return false, 0
				}
				return true, (d.MinHipAngleDeg - t.ParallelAngle) / t.ParallelAngle
			},
		},
		{
			Kind:       "valgus_collapse",
			Message:    "Knees cave inward during the movement",
			Advice:     "Drive the knees out over the toes; consider a band cue around the knees.",
			Landmarks:  []int{pose.LeftKnee, pose.RightKnee},
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeBottom, phase.TypeAscent},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.KneeDetail](r, metrics.NameKnee)
				if !ok || !d.ValgusDetected {
					return false, 0
				}
				return true, (d.MaxDeviationDeg - t.ValgusThresholdDeg) / t.ValgusThresholdDeg
			},
		},
		{
			Kind:       "excessive_forward_lean",
			Message:    "Torso folds forward beyond the safe range",
			Advice:     "Brace the trunk and keep the chest up through the descent.",
			Landmarks:  []int{pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip},
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeBottom, phase.TypeAscent},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.SpineDetail](r, metrics.NameSpine)
				if !ok || d.MaxForwardLeanDeg <= t.MaxForwardLeanDeg {
					return false, 0
				}
				return true, (d.MaxForwardLeanDeg - t.MaxForwardLeanDeg) / t.MaxForwardLeanDeg
			},
		},
		{
			Kind:       "lateral_shift",
			Message:    "Shoulders and hips tilt out of line with each other",
			Advice:     "Even out pressure between both feet and check for side-to-side mobility gaps.",
			Landmarks:  []int{pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip},
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeBottom, phase.TypeAscent},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.SpineDetail](r, metrics.NameSpine)
				if !ok || d.MaxLateralDevDeg <= t.MaxLateralDevDeg {
					return false, 0
				}
				return true, (d.MaxLateralDevDeg - t.MaxLateralDevDeg) / t.MaxLateralDevDeg
			},
		},
		{
			Kind:       "unstable_balance",
			Message:    "Center of mass drifts noticeably through the repetition",
			Advice:     "Keep the weight over the midfoot and control the descent speed.",
			Landmarks:  []int{pose.LeftAnkle, pose.RightAnkle},
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeBottom, phase.TypeAscent},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.BalanceDetail](r, metrics.NameBalance)
				if !ok || d.StabilityScore >= 60 {
					return false, 0
				}
				return true, (60 - d.StabilityScore) / 60
			},
		},
		{
			Kind:       "rushed_tempo",
			Message:    "Descent and ascent timing is far from the target cadence",
			Advice:     "Slow the eccentric: aim for a controlled descent roughly half again as long as the ascent.",
			Landmarks:  nil,
			PhaseTypes: []phase.Type{phase.TypeDescent, phase.TypeAscent},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.TempoDetail](r, metrics.NameTempo)
				if !ok || d.Ratio == 0 {
					return false, 0
				}
				deviation := d.Ratio/d.IdealRatio - 1
				if deviation < 0 {
					deviation = -deviation
				}
				if deviation <= 0.5 {
					return false, 0
				}
				return true, deviation - 0.5
			},
		},
	}
}

// SquatSuggestions returns the squat improvement table.
func SquatSuggestions() []SuggestionRule {
	return []SuggestionRule{
		{
			Category:       "mobility",
			Priority:       1,
			Recommendation: "Add hip and ankle mobility work before squat sessions.",
			Rationale:      "Depth is limited before form breaks down; mobility restrictions are the usual cause.",
			Check:          func(r Results) bool { return below(r, metrics.NameDepth, 90) },
		},
		{
			Category:       "stability",
			Priority:       2,
			Recommendation: "Practice tempo squats with a pause to groove trunk bracing.",
			Rationale:      "Spinal alignment drops out of the neutral band during part of the movement.",
			Check:          func(r Results) bool { return below(r, metrics.NameSpine, 85) },
		},
		{
			Category:       "alignment",
			Priority:       3,
			Recommendation: "Use a light band around the knees and push against it on every rep.",
			Rationale:      "Knee tracking drifts off the hip-ankle line under load.",
			Check:          func(r Results) bool { return below(r, metrics.NameKnee, 90) },
		},
		{
			Category:       "balance",
			Priority:       4,
			Recommendation: "Squat to a box to learn a consistent weight distribution over the midfoot.",
			Rationale:      "The center of mass wanders during the repetition.",
			Check:          func(r Results) bool { return below(r, metrics.NameBalance, 85) },
		},
		{
			Category:       "tempo",
			Priority:       5,
			Recommendation: "Count a three-second descent and a one-second drive on every rep.",
			Rationale:      "Rep timing varies from the target cadence or between repetitions.",
			Check:          func(r Results) bool { return below(r, metrics.NameTempo, 80) },
		},
	}
}

// below reports whether a sub-score exists and sits under the band.
func below(r Results, name string, band float64) bool {
	score := r.Score(name)
	return score >= 0 && score < band
}
