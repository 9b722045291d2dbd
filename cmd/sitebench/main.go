// Command sitebench runs the leave-one-site-out experiment pipeline: it
// collects evaluation results (from a CSV or a synthetic demo run), builds
// the comparison views and writes chart payloads plus summary tables for the
// external renderer.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/okian/sitebench/internal/adapters/chart"
	"github.com/okian/sitebench/internal/adapters/repository"
	app "github.com/okian/sitebench/internal/app"
	"github.com/okian/sitebench/internal/config"
	"github.com/okian/sitebench/internal/domain/model"
	"github.com/okian/sitebench/internal/domain/registry"
	"github.com/okian/sitebench/internal/domain/tuning"
	"github.com/okian/sitebench/internal/domain/views"
	"github.com/okian/sitebench/internal/synth"
	"github.com/okian/sitebench/pkg/logger"
)

// Metric columns used by the standard comparison figures.
const (
	metricF1      = "f1_score"
	metricTunedF1 = "tuned_f1"
)

// demoIterations is the per-cell repeat count for synthetic runs.
const demoIterations = 5

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input).
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	reg, err := loadRegistry(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to build configuration registry", logger.Error(err))
		return
	}

	records, err := collectRecords(ctx, cfg, reg, log)
	if err != nil {
		log.Error(ctx, "failed to collect evaluation records", logger.Error(err))
		return
	}
	log.Info(ctx, "evaluation records collected", logger.Int("count", len(records)))

	if err := writeResults(cfg.OutputPath, records); err != nil {
		log.Error(ctx, "failed to write results", logger.Error(err))
		return
	}

	if err := writeFigures(cfg, reg.Names(), records); err != nil {
		log.Error(ctx, "failed to write chart payloads", logger.Error(err))
		return
	}

	if cfg.TuningPath != "" {
		if err := writeTuningSummary(cfg.TuningPath, cfg.OutputPath); err != nil {
			log.Error(ctx, "failed to write tuning summary", logger.Error(err))
			return
		}
	}

	log.Info(ctx, "artifacts written", logger.String("path", cfg.OutputPath))
}

// loadRegistry loads the YAML registry when configured, otherwise a built-in
// demo pair of sampling configurations.
func loadRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	if cfg.RegistryPath != "" {
		return registry.LoadFile(ctx, cfg.RegistryPath)
	}
	return registry.New(
		registry.Config{
			Name:            "simple_random",
			DatasetTemplate: "simple_random_%d_rev1.csv",
			BuilderName:     registry.BuilderLogistic,
			Params:          map[string]float64{"w0": 0.1, "w1": 0.4, "w2": -0.2},
		},
		registry.Config{
			Name:            "stratified_balanced",
			DatasetTemplate: "stratified_balanced_%d_rev1.csv",
			BuilderName:     registry.BuilderLogistic,
			Params:          map[string]float64{"w0": 0.2, "w1": 0.3, "w2": -0.1},
		},
	)
}

// collectRecords reads an existing results CSV when configured, otherwise
// pushes a synthetic run grid through the evaluation pipeline.
func collectRecords(ctx context.Context, cfg *config.Config, reg *registry.Registry, log logger.Logger) ([]model.EvaluationRecord, error) {
	if cfg.ResultsPath != "" {
		f, err := os.Open(cfg.ResultsPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		return repository.ReadCSV(f)
	}

	gen := synth.NewGenerator(
		synth.WithConfigurations(reg.Names()...),
		synth.WithSampleSizes(cfg.SampleSizes...),
		synth.WithIterations(demoIterations),
	)

	svc := app.New(
		app.WithLogger(log),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithMaxIteration(cfg.MaxIteration),
		app.WithEvalFunc(gen.EvalFunc()),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}

	for _, req := range gen.Requests() {
		if err := svc.SubmitRun(ctx, req); err != nil {
			log.Warn(ctx, "run submission failed",
				logger.String("run", req.Key()),
				logger.Error(err),
			)
		}
	}

	svc.Stop(ctx)
	return svc.Records(ctx), nil
}

// writeResults persists the collected records as a CSV artifact.
func writeResults(outputPath string, records []model.EvaluationRecord) error {
	if err := os.MkdirAll(outputPath, 0o750); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outputPath, "results.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return repository.WriteCSV(f, records)
}

// writeFigures builds the standard comparison payloads and writes them under
// the output path.
func writeFigures(cfg *config.Config, configurationOrder []string, records []model.EvaluationRecord) error {
	theme := chart.DefaultTheme()

	// Violin at the largest training set size: plain vs tuned F1.
	largest := cfg.SampleSizes[len(cfg.SampleSizes)-1]
	subset := views.FilterBySampleSize(records, largest, cfg.MaxIteration)

	violin, err := chart.ViolinComparison(subset, metricF1, metricTunedF1, "F1 before and after tuning", configurationOrder, theme)
	if err != nil {
		return err
	}
	if err := chart.WriteJSON(filepath.Join(cfg.OutputPath, "violin_f1_tuning.json"), violin); err != nil {
		return err
	}

	box, err := chart.BoxBySampleSize(records, cfg.SampleSizes, []string{metricF1}, cfg.MaxIteration, "F1 by training set size", theme)
	if err != nil {
		return err
	}
	if err := chart.WriteJSON(filepath.Join(cfg.OutputPath, "box_f1_by_size.json"), box); err != nil {
		return err
	}

	long, err := views.MeltPair(subset, metricF1, metricTunedF1)
	if err != nil {
		return err
	}
	layout := views.NewLayout(views.WithJitterFactor(cfg.JitterFactor))
	points, err := layout.JitteredScatter(long, configurationOrder, map[string]views.Style{
		metricF1:      {Offset: -0.15, Marker: "circle"},
		metricTunedF1: {Offset: 0.15, Marker: "diamond"},
	})
	if err != nil {
		return err
	}
	scatter := chart.Scatter(points, "Per-site F1 before and after tuning", theme)
	return chart.WriteJSON(filepath.Join(cfg.OutputPath, "scatter_f1_sites.json"), scatter)
}

// writeTuningSummary condenses raw tuning results into CSV and HTML tables.
func writeTuningSummary(tuningPath, outputPath string) error {
	f, err := os.Open(tuningPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := tuning.ParseCSV(f)
	if err != nil {
		return err
	}
	table := tuning.Summarize(rows)

	csvFile, err := os.Create(filepath.Join(outputPath, "optimal_parameters.csv"))
	if err != nil {
		return err
	}
	defer func() { _ = csvFile.Close() }()
	if err := table.WriteCSV(csvFile); err != nil {
		return err
	}

	htmlFile, err := os.Create(filepath.Join(outputPath, "optimal_parameters.html"))
	if err != nil {
		return err
	}
	defer func() { _ = htmlFile.Close() }()
	return table.WriteHTML(htmlFile, "Optimal hyperparameters")
}
