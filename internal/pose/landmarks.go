// Package pose defines the landmark data model consumed by the movement
// analysis engine.
package pose

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark represents a single tracked anatomical point in normalized
// frame coordinates with its detection confidence.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Frame represents the landmarks detected at one sampled video instant.
type Frame struct {
	TimestampMS int64                  `json:"timestamp_ms"`
	Landmarks   [NumLandmarks]Landmark `json:"landmarks"`
}

// Sequence is a time-ordered series of pose frames covering one or more
// repetitions of an exercise.
type Sequence []Frame
