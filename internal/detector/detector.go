// Package detector defines the boundary to the external body-landmark
// model. The analysis engine never calls a detector directly; callers
// assemble a pose.Sequence from detector output and hand it over.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/liftlab/formcheck/internal/pose"
)

// Detector is the interface to a pose-landmark model implementation.
type Detector interface {
	// Detect analyzes a video frame and returns the detected pose frame
	// stamped with the given timestamp. The boolean is false when no
	// person was found in the frame.
	Detect(frame *gocv.Mat, timestampMS int64) (pose.Frame, bool, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64 `mapstructure:"min_confidence"`

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64 `mapstructure:"min_tracking_confidence"`

	// ModelComplexity selects the landmark model variant (0 lite, 1 full,
	// 2 heavy).
	ModelComplexity int `mapstructure:"model_complexity"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ModelComplexity: 1,
	}
}
