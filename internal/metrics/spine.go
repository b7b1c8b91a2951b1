package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// SpineDetail carries the raw spinal alignment measurements.
type SpineDetail struct {
	MeanForwardLeanDeg float64 `json:"mean_forward_lean_deg"`
	MaxForwardLeanDeg  float64 `json:"max_forward_lean_deg"`
	MaxLateralDevDeg   float64 `json:"max_lateral_dev_deg"`
	NeutralRatio       float64 `json:"neutral_ratio"`
	NeutralSpine       bool    `json:"neutral_spine"`
}

// AnalyzeSpinalAlignment checks trunk posture across the movement:
// forward lean is the angle of the shoulder-midpoint to hip-midpoint
// vector from vertical, lateral deviation is the tilt difference between
// the shoulder line and the hip line. A neutral spine requires the
// configured share of in-movement frames under both limits.
func AnalyzeSpinalAlignment(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	detail := SpineDetail{}

	frames := movementFrames(phases, inMotion)
	if len(frames) == 0 {
		// Deadlift phases use different names; fall back to the lift.
		frames = movementFrames(phases, inLift)
	}

	var leanSum float64
	measured, neutral := 0, 0

	for _, i := range frames {
		lean := angles[i].TorsoLean
		lateral, okLat := lateralDeviation(&seq[i], t)
		if !lean.Valid || !okLat {
			continue
		}

		measured++
		leanSum += lean.Degrees
		if lean.Degrees > detail.MaxForwardLeanDeg {
			detail.MaxForwardLeanDeg = lean.Degrees
		}
		if lateral > detail.MaxLateralDevDeg {
			detail.MaxLateralDevDeg = lateral
		}

		if lean.Degrees <= t.MaxForwardLeanDeg && lateral <= t.MaxLateralDevDeg {
			neutral++
		}
	}

	if measured == 0 {
		// No attested trunk frames: neutral by default, mirrored by the
		// low data-confidence score the aggregator reports.
		detail.NeutralRatio = 1
		detail.NeutralSpine = true
		return SubAnalysis{Name: NameSpine, Score: 100, Detail: detail}
	}

	detail.MeanForwardLeanDeg = leanSum / float64(measured)
	detail.NeutralRatio = float64(neutral) / float64(measured)
	detail.NeutralSpine = detail.NeutralRatio >= t.NeutralSpineRatio

	return SubAnalysis{Name: NameSpine, Score: clampScore(detail.NeutralRatio * 100), Detail: detail}
}

// lateralDeviation returns the absolute tilt difference in degrees
// between the shoulder line and the hip line.
func lateralDeviation(f *pose.Frame, t Thresholds) (float64, bool) {
	ls := f.Landmarks[pose.LeftShoulder]
	rs := f.Landmarks[pose.RightShoulder]
	lh := f.Landmarks[pose.LeftHip]
	rh := f.Landmarks[pose.RightHip]

	if ls.Confidence < t.ConfidenceThreshold || rs.Confidence < t.ConfidenceThreshold ||
		lh.Confidence < t.ConfidenceThreshold || rh.Confidence < t.ConfidenceThreshold {
		return 0, false
	}

	shoulderTilt := lineTilt(ls, rs)
	hipTilt := lineTilt(lh, rh)

	diff := math.Abs(shoulderTilt - hipTilt)
	if diff > 90 {
		diff = 180 - diff
	}
	return diff, true
}

// lineTilt returns the angle of the a->b line from horizontal in
// degrees, folded into [0, 180).
func lineTilt(a, b pose.Landmark) float64 {
	deg := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	if deg < 0 {
		deg += 180
	}
	return deg
}
