// Package analysis runs the movement-analysis pipeline: validation,
// kinematics, phase segmentation, metric scoring, feedback generation
// and score aggregation.
package analysis

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/liftlab/formcheck/internal/feedback"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/metrics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// FormAnalysis is the terminal aggregate returned by Analyze. It is
// created once per call and never mutated afterwards.
type FormAnalysis struct {
	Exercise        string                   `json:"exercise"`
	OverallScore    int                      `json:"overall_score"`
	ConfidenceScore float64                  `json:"confidence_score"`
	Phases          []phase.Phase            `json:"phases"`
	JointAngles     []kinematics.JointAngles `json:"joint_angles"`
	CriticalErrors  []feedback.FormError     `json:"critical_errors"`
	Improvements    []feedback.Suggestion    `json:"improvements"`
	SubAnalyses     []metrics.SubAnalysis    `json:"sub_analyses"`
}

// Engine runs analyses against registered exercise configurations. An
// Engine holds no per-call state: Analyze is a pure function of its
// input, so concurrent calls need no locking.
type Engine struct {
	registry *Registry
	log      zerolog.Logger
}

// NewEngine creates an Engine over the given registry. The logger is
// used only for degenerate-data diagnostics.
func NewEngine(registry *Registry, log zerolog.Logger) *Engine {
	return &Engine{registry: registry, log: log}
}

// Analyze runs the full pipeline for one recorded repetition sequence.
// It returns UnsupportedExerciseError for unknown exercises and
// InsufficientDataError when the sequence fails the preconditions; all
// other input that passes validation produces a result. The context is
// checked between pipeline stages so oversized analyses can be aborted.
func (e *Engine) Analyze(ctx context.Context, exercise string, seq pose.Sequence) (*FormAnalysis, error) {
	cfg, err := e.registry.Lookup(exercise)
	if err != nil {
		return nil, err
	}

	if err := seq.Validate(); err != nil {
		return nil, &InsufficientDataError{
			Exercise:      exercise,
			Frames:        len(seq),
			MinFrames:     cfg.MinFrames,
			MinValidRatio: cfg.MinValidRatio,
		}
	}

	if ok, ratio := ValidateData(seq, cfg); !ok {
		return nil, &InsufficientDataError{
			Exercise:      exercise,
			Frames:        len(seq),
			MinFrames:     cfg.MinFrames,
			ValidRatio:    ratio,
			MinValidRatio: cfg.MinValidRatio,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	angles := kinematics.ComputeSequence(seq, cfg.Thresholds.ConfidenceThreshold)
	e.logInvalidAngles(exercise, angles)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	phases, err := phase.Segment(seq, angles, cfg.StateTable)
	if err != nil {
		return nil, err
	}

	subs := make([]metrics.SubAnalysis, 0, len(cfg.Analyzers))
	for _, wa := range cfg.Analyzers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		subs = append(subs, wa.Analyzer(seq, angles, phases, cfg.Thresholds))
	}

	results := feedback.NewResults(subs)

	return &FormAnalysis{
		Exercise:        exercise,
		OverallScore:    OverallScore(cfg, subs),
		ConfidenceScore: ConfidenceScore(seq, cfg),
		Phases:          phases,
		JointAngles:     angles,
		CriticalErrors:  feedback.EvaluateErrors(cfg.ErrorRules, results, phases, len(seq)),
		Improvements:    feedback.EvaluateSuggestions(cfg.SuggestionRules, results),
		SubAnalyses:     subs,
	}, nil
}

// logInvalidAngles reports recovered degenerate geometry at debug level.
// Invalid angles are already represented as neutral values downstream;
// the log exists for diagnosis only.
func (e *Engine) logInvalidAngles(exercise string, angles []kinematics.JointAngles) {
	invalid := 0
	for i := range angles {
		if !angles[i].HipAngle().Valid || !angles[i].KneeAngle().Valid {
			invalid++
		}
	}
	if invalid > 0 {
		e.log.Debug().
			Str("exercise", exercise).
			Int("frames", len(angles)).
			Int("invalid_angle_frames", invalid).
			Msg("recovered degenerate joint angles")
	}
}

// ValidateData checks the analysis preconditions: the sequence must be
// long enough and at least MinValidRatio of frames must have every
// critical landmark at or above the confidence threshold. The ratio is
// returned for diagnostics.
func ValidateData(seq pose.Sequence, cfg Config) (bool, float64) {
	if len(seq) < cfg.MinFrames {
		return false, 0
	}

	valid := 0
	for i := range seq {
		if frameHasCriticalLandmarks(&seq[i], cfg) {
			valid++
		}
	}

	ratio := float64(valid) / float64(len(seq))
	return ratio >= cfg.MinValidRatio, ratio
}

func frameHasCriticalLandmarks(f *pose.Frame, cfg Config) bool {
	for _, idx := range cfg.CriticalLandmarks {
		if f.Landmarks[idx].Confidence < cfg.Thresholds.ConfidenceThreshold {
			return false
		}
	}
	return true
}

// OverallScore combines the weighted sub-scores into one rounded score
// clamped to [0,100].
func OverallScore(cfg Config, subs []metrics.SubAnalysis) int {
	var weighted float64
	for i, wa := range cfg.Analyzers {
		weighted += wa.Weight * subs[i].Score
	}

	score := int(math.Round(weighted))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ConfidenceScore is the mean detection confidence of the exercise's
// critical landmarks, averaged over frames that have at least one
// critical landmark above the threshold. A sequence with no such frames
// yields 0.
func ConfidenceScore(seq pose.Sequence, cfg Config) float64 {
	if len(cfg.CriticalLandmarks) == 0 {
		return 0
	}

	var total float64
	counted := 0

	for i := range seq {
		f := &seq[i]

		anyValid := false
		var sum float64
		for _, idx := range cfg.CriticalLandmarks {
			c := f.Landmarks[idx].Confidence
			sum += c
			if c >= cfg.Thresholds.ConfidenceThreshold {
				anyValid = true
			}
		}

		if anyValid {
			total += sum / float64(len(cfg.CriticalLandmarks))
			counted++
		}
	}

	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}
