package kinematics

import (
	"math"
	"testing"

	"github.com/liftlab/formcheck/internal/pose"
)

// legFrame builds a frame with a straight left leg and a confident
// upper body so hip, knee and torso angles are all measurable.
func legFrame(conf float64) pose.Frame {
	var f pose.Frame

	set := func(idx int, x, y float64) {
		f.Landmarks[idx] = pose.Landmark{X: x, Y: y, Confidence: conf}
	}

	// Shoulders directly above the hips, hips above knees above ankles.
	set(pose.LeftShoulder, 0.55, 0.30)
	set(pose.RightShoulder, 0.45, 0.30)
	set(pose.LeftHip, 0.55, 0.55)
	set(pose.RightHip, 0.45, 0.55)
	set(pose.LeftKnee, 0.55, 0.75)
	set(pose.RightKnee, 0.45, 0.75)
	set(pose.LeftAnkle, 0.55, 0.90)
	set(pose.RightAnkle, 0.45, 0.90)
	set(pose.LeftFootIndex, 0.60, 0.92)
	set(pose.RightFootIndex, 0.40, 0.92)
	set(pose.LeftElbow, 0.60, 0.42)
	set(pose.RightElbow, 0.40, 0.42)

	return f
}

func TestCompute(t *testing.T) {
	t.Run("straight leg angles", func(t *testing.T) {
		f := legFrame(0.9)
		angles := Compute(&f, DefaultConfidenceThreshold)

		if !angles.LeftKnee.Valid {
			t.Fatal("LeftKnee should be valid")
		}
		if math.Abs(angles.LeftKnee.Degrees-180) > 1e-6 {
			t.Errorf("LeftKnee = %v degrees, want 180", angles.LeftKnee.Degrees)
		}

		if !angles.LeftHip.Valid {
			t.Fatal("LeftHip should be valid")
		}
		if math.Abs(angles.LeftHip.Degrees-180) > 1e-6 {
			t.Errorf("LeftHip = %v degrees, want 180", angles.LeftHip.Degrees)
		}
	})

	t.Run("upright torso has zero lean", func(t *testing.T) {
		f := legFrame(0.9)
		angles := Compute(&f, DefaultConfidenceThreshold)

		if !angles.TorsoLean.Valid {
			t.Fatal("TorsoLean should be valid")
		}
		if math.Abs(angles.TorsoLean.Degrees) > 1e-6 {
			t.Errorf("TorsoLean = %v degrees, want 0", angles.TorsoLean.Degrees)
		}
	})

	t.Run("leaning torso", func(t *testing.T) {
		f := legFrame(0.9)
		// Shift both shoulders so the trunk leans 45 degrees forward.
		trunk := 0.25
		for _, idx := range []int{pose.LeftShoulder, pose.RightShoulder} {
			l := f.Landmarks[idx]
			l.X += trunk * math.Sin(math.Pi/4)
			l.Y = 0.55 - trunk*math.Cos(math.Pi/4)
			f.Landmarks[idx] = l
		}

		angles := Compute(&f, DefaultConfidenceThreshold)
		if !angles.TorsoLean.Valid {
			t.Fatal("TorsoLean should be valid")
		}
		if math.Abs(angles.TorsoLean.Degrees-45) > 1e-6 {
			t.Errorf("TorsoLean = %v degrees, want 45", angles.TorsoLean.Degrees)
		}
	})

	t.Run("low confidence invalidates angle", func(t *testing.T) {
		f := legFrame(0.9)
		f.Landmarks[pose.LeftKnee].Confidence = 0.2

		angles := Compute(&f, DefaultConfidenceThreshold)
		if angles.LeftKnee.Valid {
			t.Error("LeftKnee should be invalid with a low-confidence landmark")
		}
		if angles.LeftKnee.Degrees != 0 {
			t.Errorf("invalid angle reported %v degrees, want 0", angles.LeftKnee.Degrees)
		}
		// The right side is untouched and stays valid.
		if !angles.RightKnee.Valid {
			t.Error("RightKnee should remain valid")
		}
	})

	t.Run("fully unattested frame", func(t *testing.T) {
		f := legFrame(0.1)
		angles := Compute(&f, DefaultConfidenceThreshold)

		if angles.LeftHip.Valid || angles.RightKnee.Valid || angles.TorsoLean.Valid {
			t.Error("no angle should be valid below the confidence threshold")
		}
	})
}

func TestBestOf(t *testing.T) {
	tests := []struct {
		name      string
		left      Angle
		right     Angle
		want      float64
		wantValid bool
	}{
		{"both valid averages", Angle{Degrees: 80, Valid: true}, Angle{Degrees: 100, Valid: true}, 90, true},
		{"left only", Angle{Degrees: 70, Valid: true}, Angle{}, 70, true},
		{"right only", Angle{}, Angle{Degrees: 110, Valid: true}, 110, true},
		{"neither", Angle{}, Angle{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := JointAngles{LeftHip: tt.left, RightHip: tt.right}
			got := j.HipAngle()
			if got.Valid != tt.wantValid {
				t.Errorf("HipAngle().Valid = %v, want %v", got.Valid, tt.wantValid)
			}
			if got.Degrees != tt.want {
				t.Errorf("HipAngle().Degrees = %v, want %v", got.Degrees, tt.want)
			}
		})
	}
}

func TestComputeSequence(t *testing.T) {
	seq := pose.Sequence{legFrame(0.9), legFrame(0.9), legFrame(0.9)}
	angles := ComputeSequence(seq, DefaultConfidenceThreshold)

	if len(angles) != len(seq) {
		t.Fatalf("ComputeSequence() returned %d records, want %d", len(angles), len(seq))
	}
	for i := range angles {
		if !angles[i].KneeAngle().Valid {
			t.Errorf("frame %d: knee angle should be valid", i)
		}
	}
}
