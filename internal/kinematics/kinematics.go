// Package kinematics converts pose frames into per-frame joint angle
// records for downstream phase detection and scoring.
package kinematics

import (
	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/pose"
)

// DefaultConfidenceThreshold is the minimum landmark confidence required
// for an angle computation to be considered valid.
const DefaultConfidenceThreshold = 0.5

// Angle is one joint angle in degrees together with its validity flag.
// An invalid angle is reported as 0 and must be treated as "unknown"
// by consumers, never as a fully extended joint.
type Angle struct {
	Degrees float64 `json:"degrees"`
	Valid   bool    `json:"valid"`
}

// JointAngles is the derived record for a single frame.
type JointAngles struct {
	LeftHip       Angle `json:"left_hip"`
	RightHip      Angle `json:"right_hip"`
	LeftKnee      Angle `json:"left_knee"`
	RightKnee     Angle `json:"right_knee"`
	LeftAnkle     Angle `json:"left_ankle"`
	RightAnkle    Angle `json:"right_ankle"`
	LeftShoulder  Angle `json:"left_shoulder"`
	RightShoulder Angle `json:"right_shoulder"`

	// TorsoLean is the angle of the shoulder-midpoint -> hip-midpoint
	// vector measured from vertical.
	TorsoLean Angle `json:"torso_lean"`
}

// HipAngle returns the better-attested hip angle of a record, preferring
// the side with a valid measurement and averaging when both are valid.
func (j *JointAngles) HipAngle() Angle {
	return bestOf(j.LeftHip, j.RightHip)
}

// KneeAngle returns the better-attested knee angle of a record.
func (j *JointAngles) KneeAngle() Angle {
	return bestOf(j.LeftKnee, j.RightKnee)
}

func bestOf(l, r Angle) Angle {
	switch {
	case l.Valid && r.Valid:
		return Angle{Degrees: (l.Degrees + r.Degrees) / 2, Valid: true}
	case l.Valid:
		return l
	case r.Valid:
		return r
	default:
		return Angle{}
	}
}

// Compute derives the joint angle record for one frame. Any angle whose
// landmarks fall below minConfidence is reported as 0 with Valid=false.
func Compute(f *pose.Frame, minConfidence float64) JointAngles {
	return JointAngles{
		LeftHip:       jointAngle(f, pose.LeftShoulder, pose.LeftHip, pose.LeftKnee, minConfidence),
		RightHip:      jointAngle(f, pose.RightShoulder, pose.RightHip, pose.RightKnee, minConfidence),
		LeftKnee:      jointAngle(f, pose.LeftHip, pose.LeftKnee, pose.LeftAnkle, minConfidence),
		RightKnee:     jointAngle(f, pose.RightHip, pose.RightKnee, pose.RightAnkle, minConfidence),
		LeftAnkle:     jointAngle(f, pose.LeftKnee, pose.LeftAnkle, pose.LeftFootIndex, minConfidence),
		RightAnkle:    jointAngle(f, pose.RightKnee, pose.RightAnkle, pose.RightFootIndex, minConfidence),
		LeftShoulder:  jointAngle(f, pose.LeftElbow, pose.LeftShoulder, pose.LeftHip, minConfidence),
		RightShoulder: jointAngle(f, pose.RightElbow, pose.RightShoulder, pose.RightHip, minConfidence),
		TorsoLean:     torsoLean(f, minConfidence),
	}
}

// ComputeSequence derives joint angle records for every frame.
func ComputeSequence(seq pose.Sequence, minConfidence float64) []JointAngles {
	out := make([]JointAngles, len(seq))
	for i := range seq {
		out[i] = Compute(&seq[i], minConfidence)
	}
	return out
}

// jointAngle computes the angle at vertex b of the triangle a-b-c,
// gated on the confidence of all three landmarks.
func jointAngle(f *pose.Frame, a, b, c int, minConfidence float64) Angle {
	la := f.Landmarks[a]
	lb := f.Landmarks[b]
	lc := f.Landmarks[c]

	if la.Confidence < minConfidence || lb.Confidence < minConfidence || lc.Confidence < minConfidence {
		return Angle{}
	}

	return Angle{Degrees: geometry.AngleAt(la, lb, lc), Valid: true}
}

// torsoLean measures the forward lean of the trunk from vertical using
// the shoulder and hip midpoints.
func torsoLean(f *pose.Frame, minConfidence float64) Angle {
	shoulderMid, okS := pose.ShoulderMidpoint(f, minConfidence)
	hipMid, okH := pose.HipMidpoint(f, minConfidence)
	if !okS || !okH {
		return Angle{}
	}

	// A point directly above the hip midpoint defines vertical
	vertical := pose.Landmark{X: hipMid.X, Y: hipMid.Y - 1, Confidence: 1}
	return Angle{Degrees: geometry.AngleAt(vertical, hipMid, shoulderMid), Valid: true}
}
