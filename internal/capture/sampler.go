package capture

import (
	"context"
	"errors"
	"math"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/liftlab/formcheck/internal/detector"
	"github.com/liftlab/formcheck/internal/pose"
)

// SamplerConfig controls how frames are pulled from a source and turned
// into a pose sequence.
type SamplerConfig struct {
	// SampleFPS is the rate at which frames are fed to the detector.
	// Zero or negative means every source frame.
	SampleFPS float64

	// MaxFrames caps the collected sequence length. Zero means no cap,
	// which is only sensible for file sources.
	MaxFrames int

	// ActivityThreshold is the pixel-change percentage below which a
	// frame counts as idle. Zero disables activity gating.
	ActivityThreshold float64

	// TrailingIdle is the number of consecutive idle samples, after
	// activity has been seen, that ends collection early.
	TrailingIdle int
}

// DefaultSamplerConfig returns the settings used by the CLI and server.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		SampleFPS:         15,
		MaxFrames:         1800,
		ActivityThreshold: 0.5,
		TrailingIdle:      45,
	}
}

// Sampler walks a video source, gates out idle footage, runs the pose
// detector on sampled frames and accumulates the result as a sequence
// with millisecond timestamps derived from the source frame rate.
type Sampler struct {
	det detector.Detector
	cfg SamplerConfig
	log zerolog.Logger
}

// NewSampler creates a Sampler over the given detector.
func NewSampler(det detector.Detector, cfg SamplerConfig, log zerolog.Logger) *Sampler {
	return &Sampler{det: det, cfg: cfg, log: log}
}

// Collect reads the source to exhaustion (or until the configuration or
// context stops it) and returns the detected pose sequence. The source
// is opened if needed and left open for the caller to close.
func (s *Sampler) Collect(ctx context.Context, src Source) (pose.Sequence, error) {
	if !src.IsOpen() {
		if err := src.Open(); err != nil {
			return nil, err
		}
	}

	srcFPS := src.FPS()
	if srcFPS <= 0 {
		srcFPS = DefaultFPS
	}

	step := 1
	if s.cfg.SampleFPS > 0 && s.cfg.SampleFPS < srcFPS {
		step = int(math.Round(srcFPS / s.cfg.SampleFPS))
	}

	var gate *ActivityGate
	if s.cfg.ActivityThreshold > 0 {
		gate = NewActivityGate(s.cfg.ActivityThreshold)
		defer gate.Close()
	}

	var (
		seq      pose.Sequence
		started  = gate == nil
		idleRun  = 0
		detected = 0
		skipped  = 0
	)

	for frameIdx := 0; ; frameIdx++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mat, err := src.ReadFrame()
		if err != nil {
			if errors.Is(err, ErrEndOfVideo) {
				break
			}
			return nil, err
		}

		keep := frameIdx%step == 0
		if keep && gate != nil {
			active, _ := gate.Active(mat)
			if active {
				started = true
				idleRun = 0
			} else if started {
				idleRun++
			} else {
				keep = false
			}
		}

		if keep && started {
			timestampMS := int64(float64(frameIdx) * 1000.0 / srcFPS)
			frame, found, err := s.det.Detect(mat, timestampMS)
			if err != nil {
				mat.Close()
				return nil, err
			}
			if found {
				seq = append(seq, frame)
				detected++
			} else {
				skipped++
			}
		}
		mat.Close()

		if s.cfg.MaxFrames > 0 && len(seq) >= s.cfg.MaxFrames {
			break
		}
		if s.cfg.TrailingIdle > 0 && started && idleRun >= s.cfg.TrailingIdle {
			break
		}
	}

	s.log.Debug().
		Int("frames", detected).
		Int("no_detection", skipped).
		Float64("source_fps", srcFPS).
		Int("sample_step", step).
		Msg("collected pose sequence")

	return seq, nil
}
