package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// BarPathDetail carries the raw bar trajectory measurements.
type BarPathDetail struct {
	MaxDeviation   float64 `json:"max_deviation"`
	AvgDeviation   float64 `json:"avg_deviation"`
	PathEfficiency float64 `json:"path_efficiency"`
	Straightness   float64 `json:"straightness"`
	TrackedFrames  int     `json:"tracked_frames"`
}

// AnalyzeBarPath compares the wrist-midpoint trajectory against the
// idealized straight vertical line between the first and last tracked
// point. Efficiency is the optimal distance over the actual path length;
// straightness is 1 minus the average horizontal deviation relative to
// the vertical range.
func AnalyzeBarPath(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	frames := movementFrames(phases, func(pt phase.Type) bool {
		return inLift(pt) || pt == phase.TypeDescent
	})
	if len(frames) == 0 {
		frames = make([]int, len(seq))
		for i := range seq {
			frames[i] = i
		}
	}

	var points []pose.Landmark
	for _, i := range frames {
		if mid, ok := pose.WristMidpoint(&seq[i], t.ConfidenceThreshold); ok {
			points = append(points, mid)
		}
	}

	detail := BarPathDetail{TrackedFrames: len(points)}
	if len(points) < 2 {
		return SubAnalysis{Name: NameBarPath, Score: 0, Detail: detail}
	}

	first := points[0]
	last := points[len(points)-1]
	vertRange := math.Abs(last.Y - first.Y)

	var devSum float64
	for _, p := range points {
		// Ideal horizontal position interpolated along the vertical
		// progress between the endpoints.
		idealX := first.X
		if vertRange > 1e-9 {
			progress := (p.Y - first.Y) / (last.Y - first.Y)
			if progress < 0 {
				progress = 0
			} else if progress > 1 {
				progress = 1
			}
			idealX = first.X + progress*(last.X-first.X)
		}

		dev := math.Abs(p.X - idealX)
		devSum += dev
		if dev > detail.MaxDeviation {
			detail.MaxDeviation = dev
		}
	}
	detail.AvgDeviation = devSum / float64(len(points))

	optimal := geometry.Distance(first, last)
	actual := geometry.PathLength(points)
	if actual > 1e-9 {
		detail.PathEfficiency = math.Min(optimal/actual*100, 100)
	}
	if vertRange > 1e-9 {
		detail.Straightness = math.Max(0, 1-detail.AvgDeviation/vertRange)
	}

	score := 0.6*detail.PathEfficiency + 0.4*detail.Straightness*100
	if detail.MaxDeviation > t.MaxBarDeviation {
		score -= (detail.MaxDeviation - t.MaxBarDeviation) * 200
	}

	return SubAnalysis{Name: NameBarPath, Score: clampScore(score), Detail: detail}
}
