package phase

import (
	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/pose"
)

// barRangeFloor is the minimum vertical bar travel (normalized units)
// required to treat the sequence as containing a lift at all.
const barRangeFloor = 1e-6

// segmentDeadlift walks the smoothed "bar height" proxy (wrist midpoint)
// through setup -> liftoff -> knee_pass -> lockout -> descent. Knee pass
// and lockout fire at fractions of the sequence's own vertical range, so
// the machine adapts to camera distance and lifter height.
func segmentDeadlift(seq pose.Sequence, angles []kinematics.JointAngles, table StateTable) []Phase {
	signal := make([]float64, len(seq))
	for i := range seq {
		mid, _ := pose.WristMidpoint(&seq[i], 0)
		signal[i] = mid.Y
	}

	smoothed := geometry.Smooth(signal, table.SmoothingWindow)

	minY, maxY := smoothed[0], smoothed[0]
	for _, y := range smoothed {
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}

	barRange := maxY - minY
	b := newBuilder(seq, angles, TypeSetup)

	// A flat bar trace means the lift never happened; report a single
	// setup phase covering the whole sequence.
	if barRange < barRangeFloor {
		return b.done()
	}

	vel := geometry.Velocity(smoothed)

	for i := 0; i < len(vel); i++ {
		frame := i + 1
		v := vel[i]
		// Height fraction of total range: 0 at the lowest bar position,
		// 1 at the highest.
		frac := (maxY - smoothed[frame]) / barRange

		switch b.state {
		case TypeSetup:
			if v < -table.LiftoffVelocity {
				b.transition(TypeLiftoff, frame)
			}

		case TypeLiftoff:
			if frac >= table.KneePassFraction {
				b.transition(TypeKneePass, frame)
			}

		case TypeKneePass:
			if frac >= table.LockoutFraction {
				b.transition(TypeLockout, frame)
			}

		case TypeLockout:
			if v > table.LiftoffVelocity {
				b.transition(TypeDescent, frame)
			}
		}
	}

	return b.done()
}
