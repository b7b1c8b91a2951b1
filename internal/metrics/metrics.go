// Package metrics implements the per-exercise scoring analyzers. Each
// analyzer is a pure function over the landmark sequence, the derived
// joint angles and the detected phases; analyzers never mutate shared
// state and may run in any order.
package metrics

import (
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// Sub-analysis names. Aggregation weights and feedback rules are keyed
// on these.
const (
	NameDepth    = "depth"
	NameKnee     = "knee_alignment"
	NameSpine    = "spinal_alignment"
	NameBalance  = "balance"
	NameTempo    = "tempo"
	NameBarPath  = "bar_path"
	NameHipHinge = "hip_hinge"
	NameSetup    = "setup"
	NameLockout  = "lockout"
)

// SubAnalysis is the output of one analyzer: a score in [0,100] plus
// the raw measurements that produced it.
type SubAnalysis struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Detail any     `json:"detail,omitempty"`
}

// Analyzer is the capability implemented by every scoring module.
type Analyzer func(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis

// Thresholds collects the tunable scoring constants. The defaults mirror
// empirically chosen values; they are exposed as configuration so they
// can be recalibrated without code changes.
type Thresholds struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`

	// Depth (squat). Angles are hip angles in degrees; smaller is deeper.
	GoodDepthAngle float64 `mapstructure:"good_depth_angle"`
	ParallelAngle  float64 `mapstructure:"parallel_angle"`
	NoDepthAngle   float64 `mapstructure:"no_depth_angle"`

	// Knee alignment. Deviation is normalized by hip width and converted
	// to an approximate degree measure.
	KneeDeviationFactor float64 `mapstructure:"knee_deviation_factor"`
	ValgusThresholdDeg  float64 `mapstructure:"valgus_threshold_deg"`

	// Spinal alignment.
	MaxForwardLeanDeg float64 `mapstructure:"max_forward_lean_deg"`
	MaxLateralDevDeg  float64 `mapstructure:"max_lateral_dev_deg"`
	NeutralSpineRatio float64 `mapstructure:"neutral_spine_ratio"`

	// Balance.
	SwayScale          float64 `mapstructure:"sway_scale"`
	BalanceOffsetLimit float64 `mapstructure:"balance_offset_limit"`
	OffCenterPenalty   float64 `mapstructure:"off_center_penalty"`

	// Tempo.
	IdealDescentAscentRatio float64 `mapstructure:"ideal_descent_ascent_ratio"`

	// Bar path (deadlift).
	MaxBarDeviation float64 `mapstructure:"max_bar_deviation"`

	// Hip hinge (deadlift).
	HipDominanceCutoff float64 `mapstructure:"hip_dominance_cutoff"`
	MaxKneeTravel      float64 `mapstructure:"max_knee_travel"`

	// Setup and lockout (deadlift).
	SetupLeanMinDeg    float64 `mapstructure:"setup_lean_min_deg"`
	SetupLeanMaxDeg    float64 `mapstructure:"setup_lean_max_deg"`
	BarOverFootOffset  float64 `mapstructure:"bar_over_foot_offset"`
	LockoutHipAngleDeg float64 `mapstructure:"lockout_hip_angle_deg"`
	LockoutKneeAngle   float64 `mapstructure:"lockout_knee_angle_deg"`
}

// DefaultThresholds returns the calibration the analyzers were tuned
// with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConfidenceThreshold: kinematics.DefaultConfidenceThreshold,

		GoodDepthAngle: 70,
		ParallelAngle:  90,
		NoDepthAngle:   140,

		KneeDeviationFactor: 45,
		ValgusThresholdDeg:  12,

		MaxForwardLeanDeg: 45,
		MaxLateralDevDeg:  10,
		NeutralSpineRatio: 0.8,

		SwayScale:          150,
		BalanceOffsetLimit: 0.05,
		OffCenterPenalty:   15,

		IdealDescentAscentRatio: 1.5,

		MaxBarDeviation: 0.05,

		HipDominanceCutoff: 0.60,
		MaxKneeTravel:      0.08,

		SetupLeanMinDeg:    30,
		SetupLeanMaxDeg:    70,
		BarOverFootOffset:  0.06,
		LockoutHipAngleDeg: 165,
		LockoutKneeAngle:   170,
	}
}

// clampScore bounds a score to [0,100].
func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// lerp maps v from [lo,hi] onto [from,to], clamping outside the range.
func lerp(v, lo, hi, from, to float64) float64 {
	if hi == lo {
		return from
	}
	t := (v - lo) / (hi - lo)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return from + t*(to-from)
}

// movementFrames returns the frame indices belonging to phases for which
// include returns true, in order.
func movementFrames(phases []phase.Phase, include func(phase.Type) bool) []int {
	var frames []int
	for _, p := range phases {
		if !include(p.Type) {
			continue
		}
		for i := p.StartFrame; i <= p.EndFrame; i++ {
			frames = append(frames, i)
		}
	}
	return frames
}

// inMotion reports whether a phase type represents active movement for
// squat-style exercises.
func inMotion(t phase.Type) bool {
	return t == phase.TypeDescent || t == phase.TypeBottom || t == phase.TypeAscent
}

// inLift reports whether a phase type belongs to the pulling portion of
// a deadlift.
func inLift(t phase.Type) bool {
	return t == phase.TypeLiftoff || t == phase.TypeKneePass || t == phase.TypeLockout
}
