package evalcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/beateval/internal/config"
	"github.com/lehigh-university-libraries/beateval/internal/eval/dataset"
	"github.com/lehigh-university-libraries/beateval/internal/eval/metrics"
	"github.com/lehigh-university-libraries/beateval/internal/eval/results"
	"github.com/lehigh-university-libraries/beateval/internal/eval/score"
)

// Outcome is the harness record for one task.
type Outcome struct {
	Task     dataset.Task
	Result   score.Result
	WriteErr error
}

// Harness evaluates tasks in parallel and writes one score file per task.
type Harness struct {
	Jobs     int
	Config   metrics.Config
	Progress io.Writer // nil disables the progress bar

	evaluate func(dataset.Task, metrics.Config) score.Result
}

// NewHarness creates a harness that scores prediction files from disk.
func NewHarness(jobs int, cfg metrics.Config, progress io.Writer) *Harness {
	return &Harness{
		Jobs:     jobs,
		Config:   cfg,
		Progress: progress,
		evaluate: func(t dataset.Task, cfg metrics.Config) score.Result {
			return score.EvaluateFiles(t.ID, t.PredictionPath, t.ReferencePath, cfg)
		},
	}
}

// Run attempts every task exactly once. Per-file failures are recorded in
// the outcomes; only cancellation of ctx is returned as an error.
// Outcomes are sorted by ID, then output path.
func (h *Harness) Run(ctx context.Context, tasks []dataset.Task) ([]Outcome, error) {
	if len(tasks) == 0 {
		return nil, ctx.Err()
	}

	jobs := h.Jobs
	if jobs < 1 {
		jobs = 1
	}

	out := h.Progress
	if out == nil {
		out = io.Discard
	}
	p := mpb.New(mpb.WithWidth(64), mpb.WithOutput(out))
	bar := p.AddBar(int64(len(tasks)),
		mpb.PrependDecorators(
			decor.Name("Evaluating: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 60),
		),
	)

	outcomes := make([]Outcome, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, task := range tasks {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[i] = h.runTask(task)
			bar.Increment()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		bar.Abort(false)
	}
	p.Wait()

	if err != nil {
		return nil, err
	}

	sort.SliceStable(outcomes, func(i, j int) bool {
		if outcomes[i].Result.ID != outcomes[j].Result.ID {
			return outcomes[i].Result.ID < outcomes[j].Result.ID
		}
		return outcomes[i].Task.OutputPath < outcomes[j].Task.OutputPath
	})
	return outcomes, nil
}

func (h *Harness) runTask(task dataset.Task) Outcome {
	slog.Debug("Evaluating", "id", task.ID, "prediction", task.PredictionPath)

	res := h.evaluateSafely(task)
	o := Outcome{Task: task, Result: res}

	if err := results.WriteScoreFile(task.OutputPath, res.Vector); err != nil {
		slog.Error("Failed to write score file", "id", task.ID, "path", task.OutputPath, "error", err)
		o.WriteErr = err
	}
	return o
}

// evaluateSafely turns a panic inside one evaluation into a degenerate
// result for that file.
func (h *Harness) evaluateSafely(task dataset.Task) (res score.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Evaluation panicked", "id", task.ID, "panic", r, "stack", string(debug.Stack()))
			res = score.Degenerate(task.ID, fmt.Errorf("panic: %v", r))
		}
	}()
	return h.evaluate(task, h.Config)
}

// runRequest is one batch invocation.
type runRequest struct {
	InputGlob   string
	TruthPath   string
	Destination string
	Config      *config.Config
	Progress    io.Writer
}

func executeRun(ctx context.Context, req runRequest, w io.Writer) error {
	cfg := req.Config
	slog.Info("Starting evaluation run",
		"input", req.InputGlob,
		"truth", req.TruthPath,
		"destination", req.Destination,
		"jobs", cfg.Jobs,
		"info_gain_scale", cfg.Metrics.InfoGainScale)

	tasks, err := dataset.Discover(req.InputGlob, req.TruthPath, req.Destination)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		slog.Warn("No prediction files matched", "input", req.InputGlob)
	}

	if err := ensureWritable(req.Destination); err != nil {
		return err
	}

	harness := NewHarness(cfg.Jobs, cfg.Tolerance(), req.Progress)
	outcomes, err := harness.Run(ctx, tasks)
	if err != nil {
		return fmt.Errorf("evaluation interrupted: %w", err)
	}

	manifest := results.Manifest{
		Config: results.RunConfig{
			InputGlob:   req.InputGlob,
			TruthPath:   req.TruthPath,
			Destination: req.Destination,
			Metrics:     cfg.Metrics,
		},
		Files: make([]results.FileEntry, 0, len(outcomes)),
	}
	for _, o := range outcomes {
		manifest.Files = append(manifest.Files,
			results.NewFileEntry(dataset.RawName(o.Task.PredictionPath), o.Task.Variant.String(), o.Result))
		manifest.Summary.Files++
		switch {
		case o.WriteErr != nil:
			manifest.Summary.Unwritten++
		case o.Result.Status == score.StatusOK:
			manifest.Summary.OK++
		default:
			manifest.Summary.Degenerate++
		}
	}

	if err := results.WriteManifest(req.Destination, manifest); err != nil {
		return err
	}

	slog.Info("Evaluation complete",
		"files", manifest.Summary.Files,
		"ok", manifest.Summary.OK,
		"degenerate", manifest.Summary.Degenerate,
		"unwritten", manifest.Summary.Unwritten)

	printRunSummary(w, manifest.Summary, req.Destination)
	return nil
}

// ensureWritable creates dir if needed and checks a file can be created in it.
func ensureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}
	check, err := os.CreateTemp(dir, ".beateval-check-*")
	if err != nil {
		return fmt.Errorf("destination is not writable: %w", err)
	}
	check.Close()
	return os.Remove(check.Name())
}

func printRunSummary(w io.Writer, s results.RunSummary, destination string) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w, "Evaluation Summary")
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Files:            %d\n", s.Files)
	fmt.Fprintf(w, "Scored:           %d\n", s.OK)
	fmt.Fprintf(w, "Degenerate input: %d\n", s.Degenerate)
	if s.Unwritten > 0 {
		fmt.Fprintf(w, "Unwritten:        %d\n", s.Unwritten)
	}
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "\nResults saved to: %s\n", destination)
	fmt.Fprintf(w, "\nGenerate a per-variant report with:\n")
	fmt.Fprintf(w, "  beateval eval report %s\n", filepath.Clean(destination))
}
