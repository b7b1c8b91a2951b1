package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// SetupDetail carries the raw starting-position measurements.
type SetupDetail struct {
	LeanDeg     float64 `json:"lean_deg"`
	BarOffset   float64 `json:"bar_offset"`
	LeanInRange bool    `json:"lean_in_range"`
}

// AnalyzeSetup scores the starting position at liftoff: the trunk lean
// should sit inside the configured hinge window and the bar should start
// over the midfoot.
func AnalyzeSetup(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	// The first liftoff frame is the moment the bar leaves the floor;
	// fall back to the first frame when no liftoff was detected.
	frameIdx := 0
	for _, p := range phases {
		if p.Type == phase.TypeLiftoff {
			frameIdx = p.StartFrame
			break
		}
	}

	f := &seq[frameIdx]
	detail := SetupDetail{}

	lean := angles[frameIdx].TorsoLean
	wristMid, okW := pose.WristMidpoint(f, t.ConfidenceThreshold)
	ankleMid, okA := pose.AnkleMidpoint(f, t.ConfidenceThreshold)

	if !lean.Valid || !okW || !okA {
		return SubAnalysis{Name: NameSetup, Score: 0, Detail: detail}
	}

	detail.LeanDeg = lean.Degrees
	detail.BarOffset = math.Abs(wristMid.X - ankleMid.X)
	detail.LeanInRange = lean.Degrees >= t.SetupLeanMinDeg && lean.Degrees <= t.SetupLeanMaxDeg

	score := 100.0
	if lean.Degrees < t.SetupLeanMinDeg {
		score -= (t.SetupLeanMinDeg - lean.Degrees) * 2
	} else if lean.Degrees > t.SetupLeanMaxDeg {
		score -= (lean.Degrees - t.SetupLeanMaxDeg) * 2
	}
	if detail.BarOffset > t.BarOverFootOffset {
		score -= (detail.BarOffset - t.BarOverFootOffset) * 400
	}

	return SubAnalysis{Name: NameSetup, Score: clampScore(score), Detail: detail}
}

// LockoutDetail carries the raw finishing-position measurements.
type LockoutDetail struct {
	HipAngleDeg   float64 `json:"hip_angle_deg"`
	KneeAngleDeg  float64 `json:"knee_angle_deg"`
	FullExtension bool    `json:"full_extension"`
}

// AnalyzeLockout scores the top of the lift: hips and knees should reach
// full extension during the lockout phase.
func AnalyzeLockout(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	frames := movementFrames(phases, func(pt phase.Type) bool {
		return pt == phase.TypeLockout
	})

	detail := LockoutDetail{}
	if len(frames) == 0 {
		return SubAnalysis{Name: NameLockout, Score: 0, Detail: detail}
	}

	for _, i := range frames {
		if a := angles[i].HipAngle(); a.Valid && a.Degrees > detail.HipAngleDeg {
			detail.HipAngleDeg = a.Degrees
		}
		if a := angles[i].KneeAngle(); a.Valid && a.Degrees > detail.KneeAngleDeg {
			detail.KneeAngleDeg = a.Degrees
		}
	}

	detail.FullExtension = detail.HipAngleDeg >= t.LockoutHipAngleDeg &&
		detail.KneeAngleDeg >= t.LockoutKneeAngle

	hipComp := 100.0
	if detail.HipAngleDeg < t.LockoutHipAngleDeg {
		hipComp -= (t.LockoutHipAngleDeg - detail.HipAngleDeg) * 3
	}
	kneeComp := 100.0
	if detail.KneeAngleDeg < t.LockoutKneeAngle {
		kneeComp -= (t.LockoutKneeAngle - detail.KneeAngleDeg) * 3
	}

	score := (clampScore(hipComp) + clampScore(kneeComp)) / 2

	return SubAnalysis{Name: NameLockout, Score: clampScore(score), Detail: detail}
}
