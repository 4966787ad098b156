package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"crucible.dev/pkg/crucible/internal/adapter"
	"crucible.dev/pkg/crucible/internal/controller"
	m "crucible.dev/pkg/crucible/internal/model"
)

// RunArgs carries the user-facing knobs for a pipeline run.
type RunArgs struct {
	RepoRoot  m.Path
	OutputDir string
	Language  m.Language
	Timeout   time.Duration
}

// Workflow is the top-level entry point the commands drive.
type Workflow interface {
	// Run executes the full pipeline: gate, discovery, provisioning,
	// transformation, build, execution and reporting.
	Run(ctx context.Context, args RunArgs) error

	// CheckGate evaluates only the approval gate.
	CheckGate(ctx context.Context, args RunArgs) error

	// List shows the discovered candidates without building anything.
	List(ctx context.Context, args RunArgs) error
}

type pipeline struct {
	adapter.SourceFSAdapter
	adapter.ReportStore
	controller.UI
	Gate
	Discovery
	Provisioner
	Transformer
	DescriptorGenerator
	Builder
	Executor
}

// NewPipeline creates a Workflow wiring the stage implementations together.
func NewPipeline(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	ui controller.UI,
	gate Gate,
	discovery Discovery,
	provisioner Provisioner,
	transformer Transformer,
	generator DescriptorGenerator,
	builder Builder,
	executor Executor,
) Workflow {
	return &pipeline{
		SourceFSAdapter:     fsAdapter,
		ReportStore:         reportStore,
		UI:                  ui,
		Gate:                gate,
		Discovery:           discovery,
		Provisioner:         provisioner,
		Transformer:         transformer,
		DescriptorGenerator: generator,
		Builder:             builder,
		Executor:            executor,
	}
}

func (w *pipeline) Run(ctx context.Context, args RunArgs) error {
	layout := NewLayout(args.RepoRoot, args.OutputDir)

	if err := w.Start(ctx, controller.WithRunMode()); err != nil {
		slog.Error("Failed to start UI", "error", err)
		return err
	}
	defer w.Close(ctx)

	if err := w.checkGate(ctx, layout); err != nil {
		return err
	}

	candidates, lang, err := w.discover(ctx, layout, args.Language)
	if err != nil {
		return err
	}

	if err := w.prepare(ctx, layout, lang, candidates); err != nil {
		return err
	}

	if err := w.build(ctx, layout); err != nil {
		return err
	}

	results, err := w.execute(ctx, layout, args.Timeout)
	if err != nil {
		return err
	}

	summary := m.Summarize(lang, len(candidates), results)

	if err := w.report(ctx, layout, summary); err != nil {
		return err
	}

	if err := w.DisplaySummary(ctx, summary); err != nil {
		return fmt.Errorf("display summary: %w", err)
	}

	w.Wait(ctx)

	return nil
}

func (w *pipeline) CheckGate(ctx context.Context, args RunArgs) error {
	layout := NewLayout(args.RepoRoot, args.OutputDir)

	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Close(ctx)

	return w.checkGate(ctx, layout)
}

func (w *pipeline) List(ctx context.Context, args RunArgs) error {
	layout := NewLayout(args.RepoRoot, args.OutputDir)

	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if _, _, err := w.discover(ctx, layout, args.Language); err != nil {
		return err
	}

	w.Wait(ctx)

	return nil
}

func (w *pipeline) checkGate(ctx context.Context, layout Layout) error {
	err := w.Check(layout)
	if err == nil {
		w.DisplayGateDecision(ctx, true, "")
		return nil
	}

	var denied *DeniedError
	if errors.As(err, &denied) {
		slog.Warn("approval gate denied", "reason", denied.Reason)
		w.DisplayGateDecision(ctx, false, DeniedMessage)

		return err
	}

	slog.Error("approval gate check failed", "error", err)

	return fmt.Errorf("check approval gate: %w", err)
}

func (w *pipeline) discover(ctx context.Context, layout Layout, override m.Language) ([]m.TestCandidate, m.Language, error) {
	w.DisplayStageInfo(ctx, "Discovering compilable tests")

	candidates, err := w.Find(layout)
	if err != nil {
		slog.Error("candidate discovery failed", "error", err)
		return nil, "", fmt.Errorf("discover candidates: %w", err)
	}

	if len(candidates) == 0 {
		return nil, "", ErrNoCandidates
	}

	lang := DetectLanguage(candidates, override)
	slog.Info("candidates discovered", "count", len(candidates), "language", lang)

	if err := w.DisplayCandidates(ctx, candidates, lang); err != nil {
		return nil, "", fmt.Errorf("display candidates: %w", err)
	}

	return candidates, lang, nil
}

func (w *pipeline) prepare(ctx context.Context, layout Layout, lang m.Language, candidates []m.TestCandidate) error {
	if err := w.MkdirAll(layout.Workspace, 0o750); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}

	w.DisplayStageInfo(ctx, "Provisioning test framework")

	if err := w.Provision(ctx, lang, layout); err != nil {
		slog.Error("framework provisioning failed", "language", lang, "error", err)
		return err
	}

	w.DisplayStageInfo(ctx, "Transforming sources")

	if _, err := w.CopySources(layout); err != nil {
		slog.Error("source transformation failed", "error", err)
		return fmt.Errorf("copy sources: %w", err)
	}

	if _, err := w.CopyTests(layout, candidates); err != nil {
		slog.Error("test transformation failed", "error", err)
		return fmt.Errorf("copy tests: %w", err)
	}

	w.DisplayStageInfo(ctx, "Generating build descriptor")

	if err := w.Generate(lang, layout, candidates); err != nil {
		slog.Error("descriptor generation failed", "error", err)
		return fmt.Errorf("generate build descriptor: %w", err)
	}

	return nil
}

func (w *pipeline) build(ctx context.Context, layout Layout) error {
	w.DisplayStageInfo(ctx, "Building")

	err := w.ConfigureAndBuild(ctx, layout)
	if err == nil {
		return nil
	}

	var buildErr *BuildError
	if errors.As(err, &buildErr) {
		slog.Error("build failed", "step", buildErr.Step)
		w.DisplayBuildFailure(ctx, buildErr.Step, buildErr.Stdout, buildErr.Stderr)

		return err
	}

	return fmt.Errorf("build: %w", err)
}

func (w *pipeline) execute(ctx context.Context, layout Layout, timeout time.Duration) ([]m.ExecutionResult, error) {
	w.DisplayStageInfo(ctx, "Running tests")

	results, err := w.RunAll(ctx, layout, timeout)
	if err != nil {
		slog.Error("test execution failed", "error", err)
		return nil, fmt.Errorf("run tests: %w", err)
	}

	if len(results) == 0 {
		return nil, ErrNoExecutables
	}

	for _, result := range results {
		w.DisplayExecutionResult(ctx, result)
	}

	return results, nil
}

func (w *pipeline) report(ctx context.Context, layout Layout, summary m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.MkdirAll(layout.ReportsDir, 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	for _, result := range summary.Results {
		path, err := w.SaveReport(layout.ReportsDir, result)
		if err != nil {
			return fmt.Errorf("save report for %s: %w", result.Name, err)
		}

		slog.Info("report written", "path", path)
	}

	if _, err := w.SaveSummary(layout.ReportsDir, summary); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}

	return nil
}
