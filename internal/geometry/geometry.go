// Package geometry provides the pure numeric helpers shared by the
// movement analysis engine: joint angles, smoothing, velocities and
// consistency measures.
package geometry

import (
	"math"

	"github.com/liftlab/formcheck/internal/pose"
)

// nearZero is the squared-length floor below which a ray is treated as
// degenerate.
const nearZero = 1e-10

// AngleAt returns the angle in degrees at vertex b formed by the rays
// b->a and b->c, computed from the dot product. The result is in
// [0, 180]. If either ray has near-zero length the angle is 0.
func AngleAt(a, b, c pose.Landmark) float64 {
	bax := a.X - b.X
	bay := a.Y - b.Y
	bcx := c.X - b.X
	bcy := c.Y - b.Y

	lenBA := bax*bax + bay*bay
	lenBC := bcx*bcx + bcy*bcy

	// Guard against division by zero on coincident landmarks
	if lenBA < nearZero || lenBC < nearZero {
		return 0
	}

	cos := (bax*bcx + bay*bcy) / (math.Sqrt(lenBA) * math.Sqrt(lenBC))

	// Clamp to [-1, 1] to absorb floating point drift
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}

	return math.Acos(cos) * 180 / math.Pi
}

// Distance returns the Euclidean distance between two landmarks.
func Distance(a, b pose.Landmark) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// PathLength returns the total length of the polyline through the given
// points in order.
func PathLength(points []pose.Landmark) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

// Smooth applies a centered moving average with the given window size.
// The window must be odd; even values are widened by one. At the edges
// the window shrinks rather than padding the series.
func Smooth(series []float64, window int) []float64 {
	n := len(series)
	if n == 0 || window <= 1 {
		out := make([]float64, n)
		copy(out, series)
		return out
	}

	if window%2 == 0 {
		window++
	}
	half := window / 2

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > n-1 {
			hi = n - 1
		}

		var sum float64
		for j := lo; j <= hi; j++ {
			sum += series[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}

	return out
}

// Velocity returns the first-order finite difference between consecutive
// samples. The result has one element fewer than the input; an input of
// fewer than two samples yields an empty slice.
func Velocity(series []float64) []float64 {
	if len(series) < 2 {
		return nil
	}

	out := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		out[i-1] = series[i] - series[i-1]
	}
	return out
}
