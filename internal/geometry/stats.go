package geometry

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CoefficientOfVariation returns std/mean for the given values. With
// fewer than two values, or a mean of zero, there is no meaningful
// spread and 0 is returned so that consistency scores degrade to the
// neutral 1.0.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := stat.Mean(values, nil)
	if math.Abs(mean) < nearZero {
		return 0
	}

	std := stat.StdDev(values, nil)
	return math.Abs(std / mean)
}

// Consistency converts a coefficient of variation into a [0,1] score
// where 1 means perfectly repeatable values.
func Consistency(values []float64) float64 {
	cv := CoefficientOfVariation(values)
	score := 1 - cv
	if score < 0 {
		return 0
	}
	return score
}

// LocalMinima returns the indices of samples that are minima of their
// surrounding window and lie below the series mean. The window is the
// number of neighbours inspected on each side. A flat run of equal
// values counts as a single minimum at the run's center, however wide
// the run is.
func LocalMinima(series []float64, window int) []int {
	if len(series) < 3 || window < 1 {
		return nil
	}

	mean := stat.Mean(series, nil)

	var minima []int
	for i := 1; i < len(series)-1; i++ {
		if series[i] >= mean {
			continue
		}

		// Extend over the contiguous run of equal values starting here.
		end := i
		for end+1 < len(series)-1 && series[end+1] == series[i] {
			end++
		}

		lo := i - window
		if lo < 0 {
			lo = 0
		}
		hi := end + window
		if hi > len(series)-1 {
			hi = len(series) - 1
		}

		isMin := true
		for j := lo; j <= hi; j++ {
			if (j < i || j > end) && series[j] < series[i] {
				isMin = false
				break
			}
		}

		if isMin {
			center := i + (end-i)/2
			if len(minima) == 0 || center-minima[len(minima)-1] > window {
				minima = append(minima, center)
			}
		}
		i = end
	}

	return minima
}
