// Package testdata generates synthetic pose sequences with known
// kinematic properties for exercising the analysis pipeline without
// video input.
package testdata

import (
	"math"

	"github.com/liftlab/formcheck/internal/pose"
)

// FrameIntervalMS is the spacing between generated frames (~30 fps).
const FrameIntervalMS = 33

// DefaultConfidence is the detection confidence assigned to every
// generated landmark.
const DefaultConfidence = 0.95

// Lateral landmark offsets from the body midline, in normalized image
// units. Left landmarks sit at +offset, right at -offset.
const (
	shoulderHalfWidth = 0.07
	hipHalfWidth      = 0.06
	ankleHalfWidth    = 0.10
	wristHalfWidth    = 0.08
)

// squatShape parameterizes the synthetic squat geometry.
type squatShape struct {
	hipAboveKneeTop    float64 // standing hip height above the knee
	hipAboveKneeBottom float64 // hip height above the knee at full depth
	hipsBack           float64 // horizontal hip travel at full depth
	leanTopDeg         float64 // torso lean while standing
	leanBottomDeg      float64 // torso lean at full depth
}

// goodSquatShape bottoms out with the hip exactly level with the knee
// and a 30 degree torso lean, which puts the minimum hip angle at
// exactly 60 degrees (90 minus the lean).
var goodSquatShape = squatShape{
	hipAboveKneeTop:    0.12,
	hipAboveKneeBottom: 0,
	hipsBack:           0.10,
	leanTopDeg:         5,
	leanBottomDeg:      30,
}

// partialSquatShape stops well above parallel; the minimum hip angle
// lands around 105 degrees.
var partialSquatShape = squatShape{
	hipAboveKneeTop:    0.12,
	hipAboveKneeBottom: 0.04,
	hipsBack:           0.10,
	leanTopDeg:         5,
	leanBottomDeg:      25,
}

// GoodSquat returns a single clean repetition: stand, controlled
// descent to a 60 degree minimum hip angle, brief bottom hold, ascent,
// stand. Knees track the hip-ankle midline throughout.
func GoodSquat() pose.Sequence {
	return SquatReps(1)
}

// SquatReps returns the given number of identical clean repetitions.
func SquatReps(reps int) pose.Sequence {
	depths := make([]float64, reps)
	for i := range depths {
		depths[i] = 1
	}
	return squatSequence(goodSquatShape, depths)
}

// SquatRepsWithDepths returns one repetition per entry, each bottoming
// out at the given fraction of full depth. A fraction of 1 matches
// SquatReps; smaller values cut the descent short.
func SquatRepsWithDepths(depths []float64) pose.Sequence {
	return squatSequence(goodSquatShape, depths)
}

// PartialSquat returns one repetition that never reaches parallel.
func PartialSquat() pose.Sequence {
	return squatSequence(partialSquatShape, []float64{1})
}

// Standing returns a motionless standing sequence of the given length.
func Standing(frames int) pose.Sequence {
	seq := make(pose.Sequence, frames)
	for i := range seq {
		seq[i] = squatFrame(goodSquatShape, 0, int64(i)*FrameIntervalMS)
	}
	return seq
}

// GoodDeadlift returns one clean pull: hinged setup with the bar over
// the midfoot, a vertical bar path and a full hip and knee lockout.
func GoodDeadlift() pose.Sequence {
	const (
		setupFrames   = 10
		pullFrames    = 30
		lockoutFrames = 12
	)

	var seq pose.Sequence
	ts := func() int64 { return int64(len(seq)) * FrameIntervalMS }

	for i := 0; i < setupFrames; i++ {
		seq = append(seq, deadliftFrame(0, ts()))
	}
	for i := 0; i < pullFrames; i++ {
		p := smoothstep(float64(i+1) / pullFrames)
		seq = append(seq, deadliftFrame(p, ts()))
	}
	for i := 0; i < lockoutFrames; i++ {
		seq = append(seq, deadliftFrame(1, ts()))
	}

	return seq
}

// WithLowConfidence returns a copy of the sequence where every landmark
// of the listed frames has its confidence dropped to the given value.
func WithLowConfidence(seq pose.Sequence, frames []int, confidence float64) pose.Sequence {
	out := make(pose.Sequence, len(seq))
	copy(out, seq)

	for _, idx := range frames {
		if idx < 0 || idx >= len(out) {
			continue
		}
		f := out[idx]
		for j := range f.Landmarks {
			f.Landmarks[j].Confidence = confidence
		}
		out[idx] = f
	}

	return out
}

func squatSequence(shape squatShape, depths []float64) pose.Sequence {
	const (
		standFrames   = 12
		descentFrames = 24
		bottomFrames  = 10
		ascentFrames  = 16
	)

	var seq pose.Sequence
	ts := func() int64 { return int64(len(seq)) * FrameIntervalMS }

	for i := 0; i < standFrames; i++ {
		seq = append(seq, squatFrame(shape, 0, ts()))
	}
	for _, depth := range depths {
		for i := 0; i < descentFrames; i++ {
			d := depth * smoothstep(float64(i+1)/descentFrames)
			seq = append(seq, squatFrame(shape, d, ts()))
		}
		for i := 0; i < bottomFrames; i++ {
			seq = append(seq, squatFrame(shape, depth, ts()))
		}
		for i := 0; i < ascentFrames; i++ {
			d := depth * (1 - smoothstep(float64(i+1)/ascentFrames))
			seq = append(seq, squatFrame(shape, d, ts()))
		}
		for i := 0; i < standFrames; i++ {
			seq = append(seq, squatFrame(shape, 0, ts()))
		}
	}

	return seq
}

// squatFrame builds one frame at depth d in [0, 1]. The hip drops from
// its standing height toward the knee line while moving back, and the
// torso lean grows linearly with depth. Knees are placed exactly on the
// hip-ankle midline so no lateral knee drift exists to measure.
func squatFrame(shape squatShape, d float64, timestampMS int64) pose.Frame {
	const (
		kneeY  = 0.75
		ankleY = 0.90
		torso  = 0.30
	)

	h := shape.hipAboveKneeTop + (shape.hipAboveKneeBottom-shape.hipAboveKneeTop)*d
	back := shape.hipsBack * d
	lean := (shape.leanTopDeg + (shape.leanBottomDeg-shape.leanTopDeg)*d) * math.Pi / 180

	hipMid := pose.Landmark{X: 0.50 - back, Y: kneeY - h}
	shoulderMid := pose.Landmark{
		X: hipMid.X + torso*math.Sin(lean),
		Y: hipMid.Y - torso*math.Cos(lean),
	}

	f := pose.Frame{TimestampMS: timestampMS}
	place := func(left, right int, mid pose.Landmark, halfWidth float64) {
		f.Landmarks[left] = pose.Landmark{X: mid.X + halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
		f.Landmarks[right] = pose.Landmark{X: mid.X - halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
	}

	place(pose.LeftShoulder, pose.RightShoulder, shoulderMid, shoulderHalfWidth)
	place(pose.LeftHip, pose.RightHip, hipMid, hipHalfWidth)
	place(pose.LeftAnkle, pose.RightAnkle, pose.Landmark{X: 0.50, Y: ankleY}, ankleHalfWidth)

	// Each knee sits exactly on its hip-ankle midline.
	for _, side := range [][3]int{
		{pose.LeftHip, pose.LeftKnee, pose.LeftAnkle},
		{pose.RightHip, pose.RightKnee, pose.RightAnkle},
	} {
		hip, knee, ankle := f.Landmarks[side[0]], side[1], f.Landmarks[side[2]]
		f.Landmarks[knee] = pose.Landmark{
			X:          (hip.X + ankle.X) / 2,
			Y:          kneeY,
			Confidence: DefaultConfidence,
		}
	}

	fillExtremities(&f, shoulderMid)
	return f
}

// deadliftFrame builds one frame at pull progress p in [0, 1]: p=0 is
// the hinged setup, p=1 the finished lockout. The wrists travel a
// straight vertical line above the ankle midline.
func deadliftFrame(p float64, timestampMS int64) pose.Frame {
	const torso = 0.30

	hipMid := pose.Landmark{
		X: 0.38 + 0.12*p,
		Y: 0.64 - 0.04*p,
	}
	lean := 45 * (1 - p) * math.Pi / 180
	shoulderMid := pose.Landmark{
		X: hipMid.X + torso*math.Sin(lean),
		Y: hipMid.Y - torso*math.Cos(lean),
	}
	wristMid := pose.Landmark{X: 0.50, Y: 0.82 - 0.24*p}

	f := pose.Frame{TimestampMS: timestampMS}
	place := func(left, right int, mid pose.Landmark, halfWidth float64) {
		f.Landmarks[left] = pose.Landmark{X: mid.X + halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
		f.Landmarks[right] = pose.Landmark{X: mid.X - halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
	}

	place(pose.LeftShoulder, pose.RightShoulder, shoulderMid, shoulderHalfWidth)
	place(pose.LeftHip, pose.RightHip, hipMid, hipHalfWidth)
	place(pose.LeftKnee, pose.RightKnee, pose.Landmark{X: 0.50, Y: 0.76}, 0.08)
	place(pose.LeftAnkle, pose.RightAnkle, pose.Landmark{X: 0.50, Y: 0.90}, ankleHalfWidth)
	place(pose.LeftWrist, pose.RightWrist, wristMid, wristHalfWidth)
	place(pose.LeftElbow, pose.RightElbow, pose.Landmark{
		X: (shoulderMid.X + wristMid.X) / 2,
		Y: (shoulderMid.Y + wristMid.Y) / 2,
	}, wristHalfWidth)

	fillFeetAndFace(&f, shoulderMid)
	return f
}

// fillExtremities completes a squat frame: arms held forward at
// shoulder height, plus feet and face.
func fillExtremities(f *pose.Frame, shoulderMid pose.Landmark) {
	elbowMid := pose.Landmark{X: shoulderMid.X + 0.10, Y: shoulderMid.Y + 0.02}
	wristMid := pose.Landmark{X: shoulderMid.X + 0.20, Y: shoulderMid.Y + 0.02}

	set := func(left, right int, mid pose.Landmark, halfWidth float64) {
		f.Landmarks[left] = pose.Landmark{X: mid.X + halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
		f.Landmarks[right] = pose.Landmark{X: mid.X - halfWidth, Y: mid.Y, Confidence: DefaultConfidence}
	}
	set(pose.LeftElbow, pose.RightElbow, elbowMid, wristHalfWidth)
	set(pose.LeftWrist, pose.RightWrist, wristMid, wristHalfWidth)

	fillFeetAndFace(f, shoulderMid)
}

// fillFeetAndFace assigns plausible positions to the landmarks the
// analyzers read only incidentally, so every index carries confidence.
func fillFeetAndFace(f *pose.Frame, shoulderMid pose.Landmark) {
	set := func(idx int, x, y float64) {
		f.Landmarks[idx] = pose.Landmark{X: x, Y: y, Confidence: DefaultConfidence}
	}

	for _, side := range []struct {
		ankle, heel, foot, sign int
	}{
		{pose.LeftAnkle, pose.LeftHeel, pose.LeftFootIndex, 1},
		{pose.RightAnkle, pose.RightHeel, pose.RightFootIndex, -1},
	} {
		ankle := f.Landmarks[side.ankle]
		set(side.heel, ankle.X-0.03, ankle.Y+0.02)
		set(side.foot, ankle.X+0.06, ankle.Y+0.02)
	}

	// Head cluster above the shoulders.
	noseX, noseY := shoulderMid.X+0.03, shoulderMid.Y-0.12
	set(pose.Nose, noseX, noseY)
	for idx := pose.LeftEyeInner; idx <= pose.MouthRight; idx++ {
		set(idx, noseX+0.01*float64(idx%3), noseY-0.01)
	}

	// Hands continue past the wrists.
	for _, h := range []struct{ wrist, pinky, index, thumb int }{
		{pose.LeftWrist, pose.LeftPinky, pose.LeftIndex, pose.LeftThumb},
		{pose.RightWrist, pose.RightPinky, pose.RightIndex, pose.RightThumb},
	} {
		w := f.Landmarks[h.wrist]
		set(h.pinky, w.X+0.02, w.Y+0.03)
		set(h.index, w.X+0.03, w.Y+0.03)
		set(h.thumb, w.X+0.02, w.Y+0.01)
	}
}

// smoothstep is the cubic ease curve 3t^2 - 2t^3.
func smoothstep(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
