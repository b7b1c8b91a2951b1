package phase

import (
	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/pose"
)

// segmentSquat walks the smoothed vertical hip-midpoint signal through
// the standing -> descent -> bottom -> ascent -> standing machine.
// Transitions fire on velocity threshold crossings; the bottom state
// uses hysteresis (the exit threshold is a fraction of the descent
// threshold) and a minimum dwell so noise cannot produce micro-phases.
func segmentSquat(seq pose.Sequence, angles []kinematics.JointAngles, table StateTable) []Phase {
	signal := make([]float64, len(seq))
	for i := range seq {
		mid, _ := pose.HipMidpoint(&seq[i], 0)
		signal[i] = mid.Y
	}

	smoothed := geometry.Smooth(signal, table.SmoothingWindow)
	vel := geometry.Velocity(smoothed)

	b := newBuilder(seq, angles, TypeStanding)
	bottomSince := -1

	for i := 0; i < len(vel); i++ {
		frame := i + 1
		v := vel[i]

		switch b.state {
		case TypeStanding:
			if v > table.DescentVelocity {
				b.transition(TypeDescent, frame)
			}

		case TypeDescent:
			if abs(v) < table.BottomVelocity {
				b.transition(TypeBottom, frame)
				bottomSince = frame
			}

		case TypeBottom:
			dwelled := frame-bottomSince >= table.MinBottomDwell
			if dwelled && v < -table.DescentVelocity*table.ExitBottomRatio {
				b.transition(TypeAscent, frame)
			}

		case TypeAscent:
			if abs(v) < table.BottomVelocity {
				b.transition(TypeStanding, frame)
			}
		}
	}

	return b.done()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
