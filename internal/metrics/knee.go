package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// KneeDetail carries the raw knee-tracking measurements.
type KneeDetail struct {
	MaxDeviationDeg   float64 `json:"max_deviation_deg"`
	LeftMaxDeg        float64 `json:"left_max_deg"`
	RightMaxDeg       float64 `json:"right_max_deg"`
	ValgusDetected    bool    `json:"valgus_detected"`
	MeasurementFrames int     `json:"measurement_frames"`
}

// AnalyzeKneeAlignment measures how far each knee strays from the
// hip-ankle midline during the movement. The horizontal deviation is
// normalized by hip width and converted to an approximate degree measure
// with the configured factor; deviations above the valgus threshold are
// flagged as valgus collapse.
func AnalyzeKneeAlignment(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	detail := KneeDetail{}

	for _, i := range movementFrames(phases, inMotion) {
		f := &seq[i]

		hipWidth := math.Abs(f.Landmarks[pose.LeftHip].X - f.Landmarks[pose.RightHip].X)
		if hipWidth < 1e-6 {
			continue
		}

		left, okL := kneeDeviation(f, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, hipWidth, t)
		right, okR := kneeDeviation(f, pose.RightHip, pose.RightKnee, pose.RightAnkle, hipWidth, t)
		if !okL && !okR {
			continue
		}

		detail.MeasurementFrames++
		if okL && left > detail.LeftMaxDeg {
			detail.LeftMaxDeg = left
		}
		if okR && right > detail.RightMaxDeg {
			detail.RightMaxDeg = right
		}
	}

	detail.MaxDeviationDeg = detail.LeftMaxDeg
	if detail.RightMaxDeg > detail.MaxDeviationDeg {
		detail.MaxDeviationDeg = detail.RightMaxDeg
	}
	detail.ValgusDetected = detail.MeasurementFrames > 0 && detail.MaxDeviationDeg > t.ValgusThresholdDeg

	var score float64
	switch {
	case detail.MeasurementFrames == 0:
		// Without usable frames alignment cannot be judged; stay neutral.
		score = 100
	case detail.MaxDeviationDeg <= t.ValgusThresholdDeg:
		score = 100
	default:
		score = 100 - (detail.MaxDeviationDeg-t.ValgusThresholdDeg)*5
	}

	return SubAnalysis{Name: NameKnee, Score: clampScore(score), Detail: detail}
}

// kneeDeviation returns the knee's horizontal deviation from the
// hip-ankle midline in approximate degrees.
func kneeDeviation(f *pose.Frame, hip, knee, ankle int, hipWidth float64, t Thresholds) (float64, bool) {
	lh := f.Landmarks[hip]
	lk := f.Landmarks[knee]
	la := f.Landmarks[ankle]

	if lh.Confidence < t.ConfidenceThreshold ||
		lk.Confidence < t.ConfidenceThreshold ||
		la.Confidence < t.ConfidenceThreshold {
		return 0, false
	}

	midline := (lh.X + la.X) / 2
	normalized := math.Abs(lk.X-midline) / hipWidth

	return normalized * t.KneeDeviationFactor, true
}
