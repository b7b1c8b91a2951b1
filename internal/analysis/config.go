package analysis

import (
	"github.com/liftlab/formcheck/internal/feedback"
	"github.com/liftlab/formcheck/internal/metrics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// Exercise identifiers.
const (
	ExerciseSquat    = "squat"
	ExerciseDeadlift = "deadlift"
)

// WeightedAnalyzer pairs a scoring module with its share of the overall
// score. Weights of a config sum to 1.
type WeightedAnalyzer struct {
	Analyzer metrics.Analyzer
	Weight   float64
}

// Config is the immutable per-exercise analyzer configuration: critical
// landmarks, thresholds, aggregation weights, the phase state table and
// the rule tables. Adding an exercise means adding a Config, not a type.
type Config struct {
	Exercise          string
	MinFrames         int
	MinValidRatio     float64
	CriticalLandmarks []int
	Thresholds        metrics.Thresholds
	StateTable        phase.StateTable
	Analyzers         []WeightedAnalyzer
	ErrorRules        []feedback.Rule
	SuggestionRules   []feedback.SuggestionRule
}

// SquatConfig returns the squat analyzer configuration using the given
// thresholds.
func SquatConfig(t metrics.Thresholds) Config {
	return Config{
		Exercise:      ExerciseSquat,
		MinFrames:     20,
		MinValidRatio: 0.8,
		CriticalLandmarks: []int{
			pose.LeftShoulder, pose.RightShoulder,
			pose.LeftHip, pose.RightHip,
			pose.LeftKnee, pose.RightKnee,
			pose.LeftAnkle, pose.RightAnkle,
		},
		Thresholds: t,
		StateTable: phase.StateTable{
			Signal:          phase.SignalHipHeight,
			SmoothingWindow: 5,
			DescentVelocity: 0.003,
			BottomVelocity:  0.0015,
			ExitBottomRatio: 0.5,
			MinBottomDwell:  3,
		},
		Analyzers: []WeightedAnalyzer{
			{metrics.AnalyzeDepth, 0.30},
			{metrics.AnalyzeKneeAlignment, 0.20},
			{metrics.AnalyzeSpinalAlignment, 0.20},
			{metrics.AnalyzeBalance, 0.15},
			{metrics.AnalyzeTempo, 0.15},
		},
		ErrorRules:      feedback.SquatRules(t),
		SuggestionRules: feedback.SquatSuggestions(),
	}
}

// DeadliftConfig returns the deadlift analyzer configuration using the
// given thresholds.
func DeadliftConfig(t metrics.Thresholds) Config {
	return Config{
		Exercise:      ExerciseDeadlift,
		MinFrames:     20,
		MinValidRatio: 0.8,
		CriticalLandmarks: []int{
			pose.LeftShoulder, pose.RightShoulder,
			pose.LeftWrist, pose.RightWrist,
			pose.LeftHip, pose.RightHip,
			pose.LeftKnee, pose.RightKnee,
			pose.LeftAnkle, pose.RightAnkle,
		},
		Thresholds: t,
		StateTable: phase.StateTable{
			Signal:           phase.SignalBarHeight,
			SmoothingWindow:  5,
			LiftoffVelocity:  0.002,
			KneePassFraction: 0.35,
			LockoutFraction:  0.80,
		},
		Analyzers: []WeightedAnalyzer{
			{metrics.AnalyzeBarPath, 0.30},
			{metrics.AnalyzeHipHinge, 0.30},
			{metrics.AnalyzeSetup, 0.20},
			{metrics.AnalyzeLockout, 0.20},
		},
		ErrorRules:      feedback.DeadliftRules(t),
		SuggestionRules: feedback.DeadliftSuggestions(),
	}
}
