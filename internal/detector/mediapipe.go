package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/liftlab/formcheck/internal/pose"
)

// MediaPipeDetector implements Detector using a Python MediaPipe Pose
// subprocess. Frames travel as length-prefixed JPEG over stdin and come
// back as one JSON line per frame.
type MediaPipeDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe pose detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	scriptPath := findPoseScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("pose_service.py not found")
	}

	return &MediaPipeDetector{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the detected pose landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat, timestampMS int64) (pose.Frame, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return pose.Frame{}, false, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return pose.Frame{}, false, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return pose.Frame{}, false, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return pose.Frame{}, false, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := d.stdout.ReadString('\n')
	if err != nil {
		return pose.Frame{}, false, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Detected  bool       `json:"detected"`
		Landmarks []jsonMark `json:"landmarks"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return pose.Frame{}, false, fmt.Errorf("parse response: %w", err)
	}

	d.lastUsed = time.Now()
	d.resetIdleTimer()

	if !response.Detected {
		return pose.Frame{}, false, nil
	}

	return toPoseFrame(response.Landmarks, timestampMS), true, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findPoseScript()
	if scriptPath == "" {
		return fmt.Errorf("pose_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath,
		fmt.Sprintf("--min-confidence=%g", d.config.MinConfidence),
		fmt.Sprintf("--min-tracking=%g", d.config.MinTrackingConf),
		fmt.Sprintf("--model-complexity=%d", d.config.ModelComplexity),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start pose service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.lastUsed = time.Now()

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(30*time.Second, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findPoseScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/pose_service.py",
		"../scripts/pose_service.py",
		filepath.Join(execDir, "scripts/pose_service.py"),
		filepath.Join(os.Getenv("HOME"), ".formcheck/scripts/pose_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	// Get executable directory to find project root
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".formcheck/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonMark represents one landmark in the JSON response from the Python
// service. Visibility maps onto the landmark confidence.
type jsonMark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Visibility float64 `json:"visibility"`
}

func toPoseFrame(marks []jsonMark, timestampMS int64) pose.Frame {
	f := pose.Frame{TimestampMS: timestampMS}
	for i := 0; i < pose.NumLandmarks && i < len(marks); i++ {
		f.Landmarks[i] = pose.Landmark{
			X:          marks[i].X,
			Y:          marks[i].Y,
			Confidence: marks[i].Visibility,
		}
	}
	return f
}
