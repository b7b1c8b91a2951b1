package detector

import (
	"gocv.io/x/gocv"

	"github.com/liftlab/formcheck/internal/pose"
)

// MockDetector is a test implementation of the Detector interface. It
// replays a queued pose sequence, one frame per Detect call.
type MockDetector struct {
	frames []pose.Frame
	next   int
	err    error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// QueueSequence sets the frames that successive Detect calls will
// return, resetting the replay position.
func (m *MockDetector) QueueSequence(frames []pose.Frame) {
	m.frames = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next queued frame with the given timestamp, or
// reports no detection once the queue is exhausted.
func (m *MockDetector) Detect(frame *gocv.Mat, timestampMS int64) (pose.Frame, bool, error) {
	if m.err != nil {
		return pose.Frame{}, false, m.err
	}
	if m.next >= len(m.frames) {
		return pose.Frame{}, false, nil
	}

	f := m.frames[m.next]
	m.next++
	f.TimestampMS = timestampMS

	return f, true, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}
