package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// TempoDetail carries the raw timing measurements.
type TempoDetail struct {
	DescentMS         int64   `json:"descent_ms"`
	AscentMS          int64   `json:"ascent_ms"`
	Ratio             float64 `json:"ratio"`
	IdealRatio        float64 `json:"ideal_ratio"`
	RhythmConsistency float64 `json:"rhythm_consistency"`
	RepCount          int     `json:"rep_count"`
}

// AnalyzeTempo compares the descent:ascent duration ratio against the
// exercise's ideal and measures cross-repetition rhythm consistency with
// the coefficient of variation of per-rep durations.
func AnalyzeTempo(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	detail := TempoDetail{IdealRatio: t.IdealDescentAscentRatio, RhythmConsistency: 1}

	for _, p := range phases {
		switch p.Type {
		case phase.TypeDescent:
			detail.DescentMS += p.DurationMS
		case phase.TypeAscent:
			detail.AscentMS += p.DurationMS
		}
	}

	// Per-rep durations for rhythm consistency.
	var repDurations []float64
	for _, rep := range phase.Reps(phases) {
		var total int64
		moving := false
		for _, p := range rep {
			if inMotion(p.Type) {
				moving = true
				total += p.DurationMS
			}
		}
		if moving {
			repDurations = append(repDurations, float64(total))
		}
	}
	detail.RepCount = len(repDurations)
	if len(repDurations) >= 2 {
		detail.RhythmConsistency = geometry.Consistency(repDurations)
	}

	if detail.DescentMS == 0 || detail.AscentMS == 0 {
		// No full descent/ascent cycle was observed.
		return SubAnalysis{Name: NameTempo, Score: 0, Detail: detail}
	}

	detail.Ratio = float64(detail.DescentMS) / float64(detail.AscentMS)
	deviation := math.Abs(detail.Ratio-detail.IdealRatio) / detail.IdealRatio

	ratioScore := clampScore(100 * (1 - deviation))
	score := 0.7*ratioScore + 0.3*detail.RhythmConsistency*100

	return SubAnalysis{Name: NameTempo, Score: clampScore(score), Detail: detail}
}
