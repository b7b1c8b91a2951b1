package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ActivityGate detects lifter movement between consecutive video frames
// using frame differencing with Gaussian blur for noise reduction. It
// lets the sampler skip the idle footage before a set starts and after
// it ends.
type ActivityGate struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

// Frame differencing constants
const (
	// GaussianBlurSize is the kernel size for Gaussian blur (21x21)
	GaussianBlurSize = 21
	// DiffThreshold is the binary threshold for difference detection
	DiffThreshold = 25
)

// NewActivityGate creates a new ActivityGate with the given threshold.
// The threshold is the percentage of pixels that must change to count as
// activity. For example, a threshold of 1.0 means 1% of pixels must change.
func NewActivityGate(threshold float64) *ActivityGate {
	return &ActivityGate{
		threshold:   threshold,
		prevGray:    gocv.NewMat(),
		initialized: false,
	}
}

// Active analyzes a frame for movement compared to the previous frame.
// Returns whether activity was detected and the percentage of pixels that
// changed.
//
// Algorithm:
// 1. Convert frame to grayscale
// 2. Apply Gaussian blur (21x21) to reduce noise
// 3. If first frame, store as baseline and return false
// 4. Calculate absolute difference with previous frame
// 5. Threshold the difference (threshold=25)
// 6. Count non-zero pixels / total pixels = changePercent
// 7. Return changePercent > threshold
func (g *ActivityGate) Active(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	// Convert to grayscale
	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	// Apply Gaussian blur to reduce noise
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: GaussianBlurSize, Y: GaussianBlurSize}, 0, 0, gocv.BorderDefault)

	// If first frame, store as baseline
	if !g.initialized {
		blurred.CopyTo(&g.prevGray)
		g.initialized = true
		return false, 0
	}

	// Calculate absolute difference
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.prevGray, &diff)

	// Apply binary threshold
	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, DiffThreshold, 255, gocv.ThresholdBinary)

	// Count non-zero pixels
	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	// Calculate change percentage
	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	// Update previous frame
	blurred.CopyTo(&g.prevGray)

	return changePercent > g.threshold, changePercent
}

// Reset clears the gate state, allowing it to be reused with a new
// baseline frame.
func (g *ActivityGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// Close releases resources used by the gate.
func (g *ActivityGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.prevGray.Empty() {
		g.prevGray.Close()
		g.prevGray = gocv.NewMat()
	}
	g.initialized = false
}

// SetThreshold sets the activity threshold.
// The threshold is the percentage of pixels that must change.
// Values less than or equal to 0 are ignored.
func (g *ActivityGate) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.threshold = threshold
}
