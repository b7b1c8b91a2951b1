package metrics

import (
	"math"

	"github.com/liftlab/formcheck/internal/geometry"
	"github.com/liftlab/formcheck/internal/kinematics"
	"github.com/liftlab/formcheck/internal/phase"
	"github.com/liftlab/formcheck/internal/pose"
)

// Weight distribution classifications.
const (
	DistributionCentered = "centered"
	DistributionForward  = "forward"
	DistributionBackward = "backward"
)

// comWeights approximates segment mass shares for the center-of-mass
// proxy. The torso dominates; the remainder tapers down the legs.
var comWeights = []struct {
	index  int
	weight float64
}{
	{pose.LeftShoulder, 0.15},
	{pose.RightShoulder, 0.15},
	{pose.LeftHip, 0.25},
	{pose.RightHip, 0.25},
	{pose.LeftKnee, 0.07},
	{pose.RightKnee, 0.07},
	{pose.LeftAnkle, 0.03},
	{pose.RightAnkle, 0.03},
}

// BalanceDetail carries the raw stability measurements.
type BalanceDetail struct {
	SwayDistance   float64 `json:"sway_distance"`
	MeanOffset     float64 `json:"mean_offset"`
	Distribution   string  `json:"distribution"`
	StabilityScore float64 `json:"stability_score"`
}

// AnalyzeBalance tracks a center-of-mass proxy (weighted landmark
// average) across the movement. The total path length ("sway") converts
// to a stability score, and the mean fore/aft offset relative to the
// ankle midpoint classifies the weight distribution.
func AnalyzeBalance(seq pose.Sequence, angles []kinematics.JointAngles, phases []phase.Phase, t Thresholds) SubAnalysis {
	frames := movementFrames(phases, inMotion)
	if len(frames) == 0 {
		frames = movementFrames(phases, inLift)
	}

	var path []pose.Landmark
	var offsetSum float64

	for _, i := range frames {
		f := &seq[i]

		com, ok := centerOfMass(f, t.ConfidenceThreshold)
		if !ok {
			continue
		}
		ankleMid, ok := pose.AnkleMidpoint(f, t.ConfidenceThreshold)
		if !ok {
			continue
		}

		path = append(path, com)
		offsetSum += com.X - ankleMid.X
	}

	detail := BalanceDetail{Distribution: DistributionCentered}
	if len(path) == 0 {
		detail.StabilityScore = 100
		return SubAnalysis{Name: NameBalance, Score: 100, Detail: detail}
	}

	detail.SwayDistance = geometry.PathLength(path)
	detail.MeanOffset = offsetSum / float64(len(path))
	detail.StabilityScore = clampScore(100 - detail.SwayDistance*t.SwayScale)

	switch {
	case detail.MeanOffset > t.BalanceOffsetLimit:
		detail.Distribution = DistributionForward
	case detail.MeanOffset < -t.BalanceOffsetLimit:
		detail.Distribution = DistributionBackward
	}

	score := detail.StabilityScore
	if detail.Distribution != DistributionCentered {
		score -= t.OffCenterPenalty
	}

	return SubAnalysis{Name: NameBalance, Score: clampScore(score), Detail: detail}
}

// centerOfMass computes the weighted landmark average for one frame.
// Returns false when any weighted landmark is below the confidence
// threshold.
func centerOfMass(f *pose.Frame, minConfidence float64) (pose.Landmark, bool) {
	var x, y float64
	conf := math.Inf(1)

	for _, w := range comWeights {
		l := f.Landmarks[w.index]
		if l.Confidence < minConfidence {
			return pose.Landmark{}, false
		}
		x += l.X * w.weight
		y += l.Y * w.weight
		conf = math.Min(conf, l.Confidence)
	}

	return pose.Landmark{X: x, Y: y, Confidence: conf}, true
}
