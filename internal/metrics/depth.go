package metrics

import (
	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// minimaWindow is the neighbourhood inspected on each side when locating
// per-repetition depth minima.
const minimaWindow = 4

// DepthDetail carries the raw depth measurements for a squat.
type DepthDetail struct {
	MinHipAngleDeg   float64 `json:"min_hip_angle_deg"`
	ReachedParallel  bool    `json:"reached_parallel"`
	ReachedGoodDepth bool    `json:"reached_good_depth"`
	Consistency      float64 `json:"consistency"`
	RepCount         int     `json:"rep_count"`
}

// AnalyzeDepth scores squat depth from the minimum hip angle observed
// during descent and bottom phases. Scores: 100 at or below the
// good-depth angle, 85 at the parallel angle, then linearly toward 0 at
// the no-depth angle. Depth consistency across repetitions is measured
// with local-minima detection and the coefficient of variation.
func AnalyzeDepth(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	// Hip angle series over the whole sequence, for minima detection.
	series := make([]float64, 0, len(angles))
	for i := range angles {
		if a := angles[i].HipAngle(); a.Valid {
			series = append(series, a.Degrees)
		}
	}

	// Minimum hip angle restricted to descent/bottom frames.
	minAngle := 0.0
	found := false
	for _, i := range movementFrames(phases, func(pt phase.Type) bool {
		return pt == phase.TypeDescent || pt == phase.TypeBottom
	}) {
		a := angles[i].HipAngle()
		if !a.Valid {
			continue
		}
		if !found || a.Degrees < minAngle {
			minAngle = a.Degrees
			found = true
		}
	}

	if !found {
		// No descent detected: fall back to the overall minimum so a
		// flat sequence reports its standing angle, not zero.
		for _, v := range series {
			if !found || v < minAngle {
				minAngle = v
				found = true
			}
		}
	}

	detail := DepthDetail{
		MinHipAngleDeg:   minAngle,
		ReachedParallel:  found && minAngle <= t.ParallelAngle,
		ReachedGoodDepth: found && minAngle <= t.GoodDepthAngle,
		Consistency:      1,
		RepCount:         0,
	}

	minima := geometry.LocalMinima(series, minimaWindow)
	detail.RepCount = len(minima)
	if len(minima) >= 2 {
		values := make([]float64, len(minima))
		for i, idx := range minima {
			values[i] = series[idx]
		}
		detail.Consistency = geometry.Consistency(values)
	}

	var score float64
	switch {
	case !found:
		score = 0
	case minAngle <= t.GoodDepthAngle:
		score = 100
	case minAngle <= t.ParallelAngle:
		score = lerp(minAngle, t.GoodDepthAngle, t.ParallelAngle, 100, 85)
	default:
		score = lerp(minAngle, t.ParallelAngle, t.NoDepthAngle, 85, 0)
	}

	return SubAnalysis{Name: NameDepth, Score: clampScore(score), Detail: detail}
}
