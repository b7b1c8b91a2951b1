package feedback

import (
	"github.com/liftlab/formcheck/internal/metrics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// DeadliftRules returns the deadlift error table for the given
// thresholds.
func DeadliftRules(t metrics.Thresholds) []Rule {
	return []Rule{
		{
			Kind:       "bar_drift",
			Message:    "Bar drifts away from the vertical line",
			Advice:     "Keep the bar dragging along the legs; engage the lats before the pull.",
			Landmarks:  []int{pose.LeftWrist, pose.RightWrist},
			PhaseTypes: []phase.Type{phase.TypeLiftoff, phase.TypeKneePass, phase.TypeLockout},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.BarPathDetail](r, metrics.NameBarPath)
				if !ok || d.MaxDeviation <= t.MaxBarDeviation {
					return false, 0
				}
				return true, (d.MaxDeviation - t.MaxBarDeviation) / t.MaxBarDeviation
			},
		},
		{
			Kind:       "insufficient_hinge",
			Message:    "Lift is driven by the knees instead of the hips",
			Advice:     "Push the hips back and keep the shins vertical; the movement is a hinge, not a squat.",
			Landmarks:  []int{pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee},
			PhaseTypes: []phase.Type{phase.TypeLiftoff, phase.TypeKneePass},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.HingeDetail](r, metrics.NameHipHinge)
				if !ok || d.HipDominant {
					return false, 0
				}
				return true, (t.HipDominanceCutoff - d.HipDominance) / t.HipDominanceCutoff
			},
		},
		{
			Kind:       "knee_forward_travel",
			Message:    "Knees travel forward during the pull",
			Advice:     "Set the shins once at address and keep them still until the bar passes the knees.",
			Landmarks:  []int{pose.LeftKnee, pose.RightKnee},
			PhaseTypes: []phase.Type{phase.TypeLiftoff, phase.TypeKneePass},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.HingeDetail](r, metrics.NameHipHinge)
				if !ok || d.KneeTravel <= t.MaxKneeTravel {
					return false, 0
				}
				return true, (d.KneeTravel - t.MaxKneeTravel) / t.MaxKneeTravel
			},
		},
		{
			Kind:       "setup_out_of_position",
			Message:    "Starting position is outside the hinge window",
			Advice:     "Hinge until the shoulders sit just over the bar with a flat back before pulling.",
			Landmarks:  []int{pose.LeftShoulder, pose.RightShoulder, pose.LeftHip, pose.RightHip},
			PhaseTypes: []phase.Type{phase.TypeSetup, phase.TypeLiftoff},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.SetupDetail](r, metrics.NameSetup)
				if !ok || d.LeanInRange {
					return false, 0
				}
				var off float64
				if d.LeanDeg < t.SetupLeanMinDeg {
					off = (t.SetupLeanMinDeg - d.LeanDeg) / t.SetupLeanMinDeg
				} else {
					off = (d.LeanDeg - t.SetupLeanMaxDeg) / t.SetupLeanMaxDeg
				}
				return true, off
			},
		},
		{
			Kind:       "bar_off_midfoot",
			Message:    "Bar starts in front of the midfoot",
			Advice:     "Set the bar over the middle of the foot before taking tension.",
			Landmarks:  []int{pose.LeftWrist, pose.RightWrist, pose.LeftAnkle, pose.RightAnkle},
			PhaseTypes: []phase.Type{phase.TypeSetup},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.SetupDetail](r, metrics.NameSetup)
				if !ok || d.BarOffset <= t.BarOverFootOffset {
					return false, 0
				}
				return true, (d.BarOffset - t.BarOverFootOffset) / t.BarOverFootOffset
			},
		},
		{
			Kind:       "incomplete_lockout",
			Message:    "Hips or knees do not reach full extension at the top",
			Advice:     "Finish by squeezing the glutes and standing tall; do not lean back.",
			Landmarks:  []int{pose.LeftHip, pose.RightHip, pose.LeftKnee, pose.RightKnee},
			PhaseTypes: []phase.Type{phase.TypeLockout},
			Check: func(r Results) (bool, float64) {
				d, ok := Detail[metrics.LockoutDetail](r, metrics.NameLockout)
				if !ok || d.FullExtension {
					return false, 0
				}
				hipDeficit := (t.LockoutHipAngleDeg - d.HipAngleDeg) / t.LockoutHipAngleDeg
				kneeDeficit := (t.LockoutKneeAngle - d.KneeAngleDeg) / t.LockoutKneeAngle
				deficit := hipDeficit
				if kneeDeficit > deficit {
					deficit = kneeDeficit
				}
				// Deficits are small fractions of large angles; rescale so
				// a 10% shortfall already counts as a warning.
				return true, deficit * 2
			},
		},
	}
}

// DeadliftSuggestions returns the deadlift improvement table.
func DeadliftSuggestions() []SuggestionRule {
	return []SuggestionRule{
		{
			Category:       "technique",
			Priority:       1,
			Recommendation: "Drill Romanian deadlifts to reinforce the hip-hinge pattern.",
			Rationale:      "Hip contribution to the pull is below the dominance target.",
			Check:          func(r Results) bool { return below(r, metrics.NameHipHinge, 90) },
		},
		{
			Category:       "bar_path",
			Priority:       2,
			Recommendation: "Pull against the bar to take slack out and keep it touching the legs.",
			Rationale:      "The bar path wanders from the most efficient vertical line.",
			Check:          func(r Results) bool { return below(r, metrics.NameBarPath, 90) },
		},
		{
			Category:       "setup",
			Priority:       3,
			Recommendation: "Run a fixed setup checklist: bar over midfoot, shins to bar, chest up.",
			Rationale:      "The starting position varies or sits outside the hinge window.",
			Check:          func(r Results) bool { return below(r, metrics.NameSetup, 90) },
		},
		{
			Category:       "lockout",
			Priority:       4,
			Recommendation: "Add paused lockouts or hip thrusts to strengthen the finish.",
			Rationale:      "The lift stalls short of full hip and knee extension.",
			Check:          func(r Results) bool { return below(r, metrics.NameLockout, 90) },
		},
	}
}
