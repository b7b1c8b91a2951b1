package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
	}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		if s.loop && len(s.frames) > 0 {
			s.index = 0
		} else {
			return nil, ErrEndOfVideo
		}
	}

	// Clone the frame so the original isn't modified
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) FPS() float64 { return 30 }

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetFrames replaces the frame sequence
func (s *MockSource) SetFrames(frames []*gocv.Mat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = frames
	s.index = 0
}

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
