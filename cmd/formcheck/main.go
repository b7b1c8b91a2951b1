// Command formcheck runs the lift form analysis service.
//
// By default it starts the HTTP server. With -analyze it instead scores
// a single recording (a video file, or a JSON dump of pose frames) and
// prints the result to stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/liftlab/formcheck/internal/analysis"
	"github.com/liftlab/formcheck/internal/capture"
	"github.com/liftlab/formcheck/internal/config"
	"github.com/liftlab/formcheck/internal/detector"
	"github.com/liftlab/formcheck/internal/logging"
	"github.com/liftlab/formcheck/internal/pose"
	"github.com/liftlab/formcheck/internal/report"
	"github.com/liftlab/formcheck/internal/server"
	"github.com/liftlab/formcheck/internal/store"
)

func main() {
	var (
		configDir = flag.String("config", "", "directory containing formcheck.yaml (default: working directory)")
		addr      = flag.String("addr", "", "listen address, overrides the configured server.addr")
		live      = flag.Bool("live", false, "attach the camera and serve the live stream endpoints")
		analyze   = flag.String("analyze", "", "analyze a recording (.mp4 video or .json pose frames) and exit")
		exercise  = flag.String("exercise", "squat", "exercise to score in -analyze mode")
		reportOut = flag.String("report", "", "also write an HTML score report to this path in -analyze mode")
	)
	flag.Parse()

	dirs := []string{"."}
	if *configDir != "" {
		dirs = []string{*configDir}
	}
	cfg, err := config.Load(dirs...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "formcheck: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log.Level, cfg.Log.Pretty)

	registry := analysis.NewRegistry(cfg.Thresholds)
	engine := analysis.NewEngine(registry, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *analyze != "" {
		if err := runAnalyze(ctx, cfg, log, engine, *analyze, *exercise, *reportOut); err != nil {
			log.Fatal().Err(err).Str("input", *analyze).Msg("analysis failed")
		}
		return
	}

	if err := runServe(cfg, log, engine, registry, *addr, *live); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// runServe starts the HTTP server. With live enabled it also opens the
// configured camera and a pose detector so the stream and live pose
// endpoints come up.
func runServe(cfg config.Config, log zerolog.Logger, engine *analysis.Engine, registry *analysis.Registry, addr string, live bool) error {
	dbPath := cfg.DBPath
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	staticDir := cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Info().Str("dir", staticDir).Msg("serving static files")
	}

	srvCfg := server.Config{
		StaticDir: staticDir,
		Store:     st,
		Engine:    engine,
		Registry:  registry,
		Log:       log,
	}

	if live {
		det, err := newDetector(cfg.Detector, log)
		if err != nil {
			return err
		}
		defer det.Close()

		src := capture.NewCamera(cfg.Capture.Device)
		if err := src.Open(); err != nil {
			return fmt.Errorf("open camera %d: %w", cfg.Capture.Device, err)
		}
		defer src.Close()

		srvCfg.Source = src
		srvCfg.Detector = det
	}

	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv := server.New(srvCfg)
	log.Info().Str("addr", addr).Str("db", dbPath).Bool("live", live).Msg("starting server")
	return srv.ListenAndServe(addr)
}

// runAnalyze scores a single recording and writes the analysis document
// as indented JSON to stdout. Videos go through the detector; files
// ending in .json are read as an already-detected pose sequence.
func runAnalyze(ctx context.Context, cfg config.Config, log zerolog.Logger, engine *analysis.Engine, input, exercise, reportOut string) error {
	var (
		seq pose.Sequence
		err error
	)

	if strings.EqualFold(filepath.Ext(input), ".json") {
		seq, err = loadFrames(input)
	} else {
		seq, err = collectFromVideo(ctx, cfg, log, input)
	}
	if err != nil {
		return err
	}

	result, err := engine.Analyze(ctx, exercise, seq)
	if err != nil {
		return err
	}

	if reportOut != "" {
		f, err := os.Create(reportOut)
		if err != nil {
			return err
		}
		if err := report.Render(f, filepath.Base(input), result); err != nil {
			f.Close()
			return fmt.Errorf("render report: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Info().Str("path", reportOut).Msg("wrote report")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// loadFrames reads a pose sequence from a JSON file, as produced by the
// live endpoint or an external detector run.
func loadFrames(path string) (pose.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seq pose.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return seq, nil
}

// collectFromVideo runs the pose detector over a recorded video file.
func collectFromVideo(ctx context.Context, cfg config.Config, log zerolog.Logger, path string) (pose.Sequence, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	det, err := newDetector(cfg.Detector, log)
	if err != nil {
		return nil, err
	}
	defer det.Close()

	src := capture.NewVideoFile(path)
	if err := src.Open(); err != nil {
		return nil, fmt.Errorf("open video %s: %w", path, err)
	}
	defer src.Close()

	sampler := capture.NewSampler(det, capture.SamplerConfig{
		SampleFPS:         cfg.Capture.SampleFPS,
		MaxFrames:         cfg.Capture.MaxFrames,
		ActivityThreshold: cfg.Capture.ActivityThreshold,
		TrailingIdle:      capture.DefaultSamplerConfig().TrailingIdle,
	}, log)

	return sampler.Collect(ctx, src)
}

// newDetector builds the MediaPipe detector, falling back to the mock
// when the Python pose service is not installed.
func newDetector(cfg detector.Config, log zerolog.Logger) (detector.Detector, error) {
	mp, err := detector.NewMediaPipeDetector(cfg)
	if err == nil {
		return mp, nil
	}

	log.Warn().Err(err).Msg("pose service unavailable, using mock detector")
	return detector.NewMockDetector(), nil
}

// findWebDir searches for the bundled web UI in common locations.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".formcheck", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
