// Package phase segments a repetition into contiguous movement phases
// using a per-exercise state table over a smoothed drive signal.
package phase

import (
	"fmt"

	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/pose"
)

// Type identifies a movement phase.
type Type string

// Squat phases.
const (
	TypeStanding Type = "standing"
	TypeDescent  Type = "descent"
	TypeBottom   Type = "bottom"
	TypeAscent   Type = "ascent"
)

// Deadlift phases. TypeDescent is shared: it names the controlled
// lowering after lockout.
const (
	TypeSetup    Type = "setup"
	TypeLiftoff  Type = "liftoff"
	TypeKneePass Type = "knee_pass"
	TypeLockout  Type = "lockout"
)

// Phase is a contiguous sub-interval of the sequence. Phases emitted by
// Segment are non-overlapping and partition [0, len(seq)-1].
type Phase struct {
	Type       Type                   `json:"type"`
	StartFrame int                    `json:"start_frame"`
	EndFrame   int                    `json:"end_frame"`
	DurationMS int64                  `json:"duration_ms"`
	RepAngles  kinematics.JointAngles `json:"representative_angles"`
}

// Signal selects the drive signal a state table operates on.
type Signal string

const (
	// SignalHipHeight drives squat-style segmentation from the vertical
	// hip midpoint position.
	SignalHipHeight Signal = "hip_height"
	// SignalBarHeight drives deadlift-style segmentation from the
	// vertical wrist midpoint ("bar") position.
	SignalBarHeight Signal = "bar_height"
)

// StateTable is the per-exercise segmentation configuration. Velocities
// are in normalized image units per frame; the image Y axis points down,
// so positive velocity means the tracked point is moving down.
type StateTable struct {
	Signal          Signal
	SmoothingWindow int

	// Hip-height tables (squat).
	DescentVelocity float64 // enter descent above this downward velocity
	BottomVelocity  float64 // enter bottom below this absolute velocity
	ExitBottomRatio float64 // exit threshold as a fraction of DescentVelocity
	MinBottomDwell  int     // frames required at bottom before exiting

	// Bar-height tables (deadlift). Fractions are of the sequence's own
	// vertical range, not fixed pixel values.
	LiftoffVelocity  float64
	KneePassFraction float64
	LockoutFraction  float64
}

// Segment runs the state machine for the table's signal over the
// sequence and returns the ordered phase list. Every frame belongs to
// exactly one phase; the final phase absorbs all trailing frames.
func Segment(seq pose.Sequence, angles []kinematics.JointAngles, table StateTable) ([]Phase, error) {
	if len(seq) == 0 {
		return nil, fmt.Errorf("cannot segment an empty sequence")
	}
	if len(angles) != len(seq) {
		return nil, fmt.Errorf("angle records (%d) do not match sequence length (%d)", len(angles), len(seq))
	}

	switch table.Signal {
	case SignalHipHeight:
		return segmentSquat(seq, angles, table), nil
	case SignalBarHeight:
		return segmentDeadlift(seq, angles, table), nil
	default:
		return nil, fmt.Errorf("unknown segmentation signal %q", table.Signal)
	}
}

// Reps groups phases into repetition cycles. A new cycle starts at each
// phase that begins a repetition (descent for squats, liftoff for
// deadlifts). Leading standing/setup phases attach to the first cycle.
func Reps(phases []Phase) [][]Phase {
	if len(phases) == 0 {
		return nil
	}

	var reps [][]Phase
	var current []Phase

	for _, p := range phases {
		starts := p.Type == TypeDescent || p.Type == TypeLiftoff
		if starts && hasRepStart(current) {
			reps = append(reps, current)
			current = nil
		}
		current = append(current, p)
	}

	if len(current) > 0 {
		reps = append(reps, current)
	}

	return reps
}

// hasRepStart reports whether the accumulated phases already contain a
// repetition-starting phase, so leading rest phases never form a cycle
// of their own.
func hasRepStart(phases []Phase) bool {
	for _, p := range phases {
		if p.Type == TypeDescent || p.Type == TypeLiftoff {
			return true
		}
	}
	return false
}

// builder accumulates phases as the state machines advance.
type builder struct {
	seq    pose.Sequence
	angles []kinematics.JointAngles
	phases []Phase
	start  int
	state  Type
}

func newBuilder(seq pose.Sequence, angles []kinematics.JointAngles, initial Type) *builder {
	return &builder{seq: seq, angles: angles, state: initial}
}

// transition closes the current phase at frame-1 and opens the next
// state at frame.
func (b *builder) transition(next Type, frame int) {
	b.phases = append(b.phases, b.finish(b.start, frame-1))
	b.start = frame
	b.state = next
}

// finish materializes a phase over [start, end] with its duration and
// representative angles taken from the middle frame.
func (b *builder) finish(start, end int) Phase {
	mid := start + (end-start)/2
	return Phase{
		Type:       b.state,
		StartFrame: start,
		EndFrame:   end,
		DurationMS: b.seq[end].TimestampMS - b.seq[start].TimestampMS,
		RepAngles:  b.angles[mid],
	}
}

// done closes the final phase, absorbing all trailing frames.
func (b *builder) done() []Phase {
	b.phases = append(b.phases, b.finish(b.start, len(b.seq)-1))
	return b.phases
}
