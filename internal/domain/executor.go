package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

// DefaultRunTimeout bounds each test binary's wall-clock run time.
const DefaultRunTimeout = 30 * time.Second

// Executor runs every produced test binary and derives per-binary counters
// from its output. A timeout or launch failure degrades that one binary to
// a failed result; it never aborts the run.
type Executor interface {
	RunAll(ctx context.Context, layout Layout, timeout time.Duration) ([]m.ExecutionResult, error)
}

type executor struct {
	fs         adapter.SourceFSAdapter
	runner     adapter.ProcessRunner
	summarizer OutputSummarizer
	workers    int
}

// NewExecutor constructs an Executor. workers caps parallel binary runs;
// values below one run strictly sequentially. Results always come back in
// discovery order regardless of the worker count.
func NewExecutor(fs adapter.SourceFSAdapter, runner adapter.ProcessRunner, summarizer OutputSummarizer, workers int) Executor {
	if workers < 1 {
		workers = 1
	}

	return &executor{fs: fs, runner: runner, summarizer: summarizer, workers: workers}
}

func (e *executor) RunAll(ctx context.Context, layout Layout, timeout time.Duration) ([]m.ExecutionResult, error) {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}

	executables, err := e.discoverExecutables(layout)
	if err != nil {
		return nil, err
	}

	results := make([]m.ExecutionResult, len(executables))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for i, exe := range executables {
		group.Go(func() error {
			results[i] = e.runOne(groupCtx, layout, exe, timeout)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// discoverExecutables lists produced test binaries in the workspace root,
// excluding build-tool bookkeeping artifacts.
func (e *executor) discoverExecutables(layout Layout) ([]m.Path, error) {
	matches, err := e.fs.Glob(filepath.Join(string(layout.Workspace), "*test*"))
	if err != nil {
		return nil, fmt.Errorf("list test executables: %w", err)
	}

	var executables []m.Path

	for _, match := range matches {
		name := filepath.Base(string(match))
		if strings.Contains(name, "CTest") {
			continue
		}

		ext := filepath.Ext(name)
		if ext != "" && ext != ".exe" {
			continue
		}

		info, err := e.fs.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}

		if info.Mode().Perm()&0o111 == 0 {
			continue
		}

		executables = append(executables, match)
	}

	return executables, nil
}

func (e *executor) runOne(ctx context.Context, layout Layout, exe m.Path, timeout time.Duration) m.ExecutionResult {
	name := filepath.Base(string(exe))

	slog.Info("running test binary", "name", name, "timeout", timeout)

	proc, err := e.runner.Run(ctx, string(layout.Workspace), timeout, string(exe))
	if err != nil {
		return m.ExecutionResult{
			Name:       name,
			Success:    false,
			ReturnCode: m.TimeoutReturnCode,
			Errors:     err.Error(),
		}
	}

	if proc.TimedOut {
		return m.ExecutionResult{
			Name:       name,
			Success:    false,
			ReturnCode: m.TimeoutReturnCode,
			Errors:     "Test timed out",
		}
	}

	run, passed, failed := e.summarizer.Summarize(proc.Stdout)

	return m.ExecutionResult{
		Name:        name,
		Success:     proc.ExitCode == 0,
		ReturnCode:  proc.ExitCode,
		Output:      proc.Stdout,
		Errors:      proc.Stderr,
		TestsRun:    run,
		TestsPassed: passed,
		TestsFailed: failed,
	}
}
