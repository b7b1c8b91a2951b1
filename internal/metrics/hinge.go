package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// HingeDetail carries the raw hip-hinge measurements.
type HingeDetail struct {
	HipRangeDeg  float64 `json:"hip_range_deg"`
	KneeRangeDeg float64 `json:"knee_range_deg"`
	HipDominance float64 `json:"hip_dominance"`
	HipDominant  bool    `json:"hip_dominant"`
	KneeTravel   float64 `json:"knee_travel"`
}

// AnalyzeHipHinge determines whether the lift is driven by hip extension
// rather than knee extension. The hip-angle range against the knee-angle
// range over the pulling phases gives a dominance ratio; forward knee
// travel additionally penalizes squat-like deadlifts.
func AnalyzeHipHinge(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	frames := movementFrames(phases, func(pt phase.Type) bool {
		return pt == phase.TypeLiftoff || pt == phase.TypeKneePass
	})

	detail := HingeDetail{}
	if len(frames) == 0 {
		return SubAnalysis{Name: NameHipHinge, Score: 0, Detail: detail}
	}

	var hipMin, hipMax, kneeMin, kneeMax float64
	hipSeen, kneeSeen := false, false
	var startKneeX float64
	kneeXSeen := false

	for _, i := range frames {
		if a := angles[i].HipAngle(); a.Valid {
			if !hipSeen || a.Degrees < hipMin {
				hipMin = a.Degrees
			}
			if !hipSeen || a.Degrees > hipMax {
				hipMax = a.Degrees
			}
			hipSeen = true
		}
		if a := angles[i].KneeAngle(); a.Valid {
			if !kneeSeen || a.Degrees < kneeMin {
				kneeMin = a.Degrees
			}
			if !kneeSeen || a.Degrees > kneeMax {
				kneeMax = a.Degrees
			}
			kneeSeen = true
		}

		if mid, ok := pose.Midpoint(&seq[i], pose.LeftKnee, pose.RightKnee, t.ConfidenceThreshold); ok {
			if !kneeXSeen {
				startKneeX = mid.X
				kneeXSeen = true
			}
			if travel := math.Abs(mid.X - startKneeX); travel > detail.KneeTravel {
				detail.KneeTravel = travel
			}
		}
	}

	if hipSeen {
		detail.HipRangeDeg = hipMax - hipMin
	}
	if kneeSeen {
		detail.KneeRangeDeg = kneeMax - kneeMin
	}

	total := detail.HipRangeDeg + detail.KneeRangeDeg
	if total > 1e-9 {
		detail.HipDominance = detail.HipRangeDeg / total
	}
	detail.HipDominant = detail.HipDominance >= t.HipDominanceCutoff

	score := math.Min(detail.HipDominance/t.HipDominanceCutoff, 1) * 100
	if detail.KneeTravel > t.MaxKneeTravel {
		score -= (detail.KneeTravel - t.MaxKneeTravel) * 300
	}

	return SubAnalysis{Name: NameHipHinge, Score: clampScore(score), Detail: detail}
}
