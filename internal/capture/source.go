// Package capture provides video frame acquisition using GoCV (OpenCV),
// from either a live camera or a recorded video file, and assembles
// detector output into pose sequences for analysis.
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

// ErrSourceNotOpen is returned when trying to read from a source that is not open.
var ErrSourceNotOpen = errors.New("video source is not open")

// Source defines the interface for video frame sources.
type Source interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	FPS() float64
	IsOpen() bool
}

// cameraSource manages live capture from a camera device using GoCV.
type cameraSource struct {
	deviceID int
	capture  *gocv.VideoCapture
	mu       sync.Mutex
	running  bool
	fps      float64
}

// NewCamera creates a Source reading from the given camera device ID.
func NewCamera(deviceID int) Source {
	return &cameraSource{
		deviceID: deviceID,
		fps:      DefaultFPS,
	}
}

// Open opens the camera for capturing frames.
// It sets the resolution to 640x480 for performance.
func (c *cameraSource) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(c.deviceID)
	if err != nil {
		return err
	}

	// Set resolution for performance
	capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
	capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
	capture.Set(gocv.VideoCaptureFPS, c.fps)

	if reported := capture.Get(gocv.VideoCaptureFPS); reported > 0 {
		c.fps = reported
	}

	c.capture = capture
	c.running = true

	return nil
}

// Close closes the camera and releases resources.
func (c *cameraSource) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		c.running = false
		return nil
	}

	err := c.capture.Close()
	c.capture = nil
	c.running = false

	return err
}

// ReadFrame reads a single frame from the camera.
// The caller is responsible for closing the returned Mat.
func (c *cameraSource) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := c.capture.Read(&mat); !ok {
		mat.Close()
		return nil, errors.New("failed to read frame from camera")
	}

	if mat.Empty() {
		mat.Close()
		return nil, errors.New("captured frame is empty")
	}

	return &mat, nil
}

// FPS returns the camera frame rate.
func (c *cameraSource) FPS() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.fps
}

// IsOpen returns true if the camera is currently open and running.
func (c *cameraSource) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.running
}

// ErrEndOfVideo is returned by a file source when the video is exhausted.
var ErrEndOfVideo = errors.New("end of video")

// fileSource reads frames from a recorded video file.
type fileSource struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     float64
}

// NewVideoFile creates a Source reading from a video file on disk.
func NewVideoFile(path string) Source {
	return &fileSource{
		path: path,
		fps:  DefaultFPS,
	}
}

// Open opens the video file. The frame rate is read from the container;
// files without one fall back to the default.
func (f *fileSource) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.running {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(f.path)
	if err != nil {
		return err
	}

	if reported := capture.Get(gocv.VideoCaptureFPS); reported > 0 {
		f.fps = reported
	}

	f.capture = capture
	f.running = true

	return nil
}

// Close closes the video file and releases resources.
func (f *fileSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running || f.capture == nil {
		f.running = false
		return nil
	}

	err := f.capture.Close()
	f.capture = nil
	f.running = false

	return err
}

// ReadFrame reads the next frame from the file. It returns ErrEndOfVideo
// once the file is exhausted. The caller is responsible for closing the
// returned Mat.
func (f *fileSource) ReadFrame() (*gocv.Mat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.running || f.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := f.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrEndOfVideo
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrEndOfVideo
	}

	return &mat, nil
}

// FPS returns the file frame rate.
func (f *fileSource) FPS() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.fps
}

// IsOpen returns true if the file is currently open.
func (f *fileSource) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.running
}
