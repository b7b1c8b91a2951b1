package analysis

import "fmt"

// InsufficientDataError is returned when a sequence is too short or too
// low-confidence to analyze. The caller should re-request detection or
// prompt for a clearer video rather than accept a low-confidence result.
type InsufficientDataError struct {
	Exercise      string
	Frames        int
	MinFrames     int
	ValidRatio    float64
	MinValidRatio float64
}

func (e *InsufficientDataError) Error() string {
	if e.Frames < e.MinFrames {
		return fmt.Sprintf("insufficient data for %s: %d frames, need at least %d",
			e.Exercise, e.Frames, e.MinFrames)
	}
	return fmt.Sprintf("insufficient data for %s: only %.0f%% of frames have confident critical landmarks, need %.0f%%",
		e.Exercise, e.ValidRatio*100, e.MinValidRatio*100)
}

// UnsupportedExerciseError is returned when no analyzer is registered
// for the requested exercise. Callers must not substitute a default.
type UnsupportedExerciseError struct {
	Exercise string
}

func (e *UnsupportedExerciseError) Error() string {
	return fmt.Sprintf("unsupported exercise %q", e.Exercise)
}
