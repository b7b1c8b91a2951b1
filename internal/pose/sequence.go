package pose

import "fmt"

// Validate checks the sequence invariants: at least one frame and
// strictly increasing timestamps.
func (s Sequence) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("sequence is empty")
	}

	for i := 1; i < len(s); i++ {
		if s[i].TimestampMS <= s[i-1].TimestampMS {
			return fmt.Errorf("timestamps not strictly increasing at frame %d (%d -> %d)",
				i, s[i-1].TimestampMS, s[i].TimestampMS)
		}
	}

	return nil
}

// DurationMS returns the time span covered by the sequence in milliseconds.
func (s Sequence) DurationMS() int64 {
	if len(s) < 2 {
		return 0
	}
	return s[len(s)-1].TimestampMS - s[0].TimestampMS
}

// Midpoint returns the point halfway between two landmarks of a frame.
// The second return value is false when either landmark's confidence is
// below minConfidence; the returned landmark carries the lower of the
// two confidences.
func Midpoint(f *Frame, a, b int, minConfidence float64) (Landmark, bool) {
	la := f.Landmarks[a]
	lb := f.Landmarks[b]

	conf := la.Confidence
	if lb.Confidence < conf {
		conf = lb.Confidence
	}

	mid := Landmark{
		X:          (la.X + lb.X) / 2,
		Y:          (la.Y + lb.Y) / 2,
		Confidence: conf,
	}

	return mid, conf >= minConfidence
}

// HipMidpoint returns the midpoint of the two hip landmarks.
func HipMidpoint(f *Frame, minConfidence float64) (Landmark, bool) {
	return Midpoint(f, LeftHip, RightHip, minConfidence)
}

// ShoulderMidpoint returns the midpoint of the two shoulder landmarks.
func ShoulderMidpoint(f *Frame, minConfidence float64) (Landmark, bool) {
	return Midpoint(f, LeftShoulder, RightShoulder, minConfidence)
}

// WristMidpoint returns the midpoint of the two wrist landmarks. It is
// used as the bar-position proxy for barbell lifts.
func WristMidpoint(f *Frame, minConfidence float64) (Landmark, bool) {
	return Midpoint(f, LeftWrist, RightWrist, minConfidence)
}

// AnkleMidpoint returns the midpoint of the two ankle landmarks.
func AnkleMidpoint(f *Frame, minConfidence float64) (Landmark, bool) {
	return Midpoint(f, LeftAnkle, RightAnkle, minConfidence)
}
