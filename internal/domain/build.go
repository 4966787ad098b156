package domain

import (
	"context"
	"errors"
	"log/slog"

	"crucible.dev/pkg/crucible/internal/adapter"
)

// cmakeTool is the external build tool driven by the pipeline.
const cmakeTool = "cmake"

// Builder drives the external build tool: configure, then build. Either
// step failing terminates the stage with the captured output.
type Builder interface {
	ConfigureAndBuild(ctx context.Context, layout Layout) error
}

type builder struct {
	runner adapter.ProcessRunner
}

// NewBuilder constructs a Builder on top of the shared process runner.
func NewBuilder(runner adapter.ProcessRunner) Builder {
	return &builder{runner: runner}
}

func (b *builder) ConfigureAndBuild(ctx context.Context, layout Layout) error {
	if err := b.step(ctx, layout, "configure", "."); err != nil {
		return err
	}

	return b.step(ctx, layout, "build", "--build", ".")
}

func (b *builder) step(ctx context.Context, layout Layout, step string, args ...string) error {
	slog.Info("running build step", "step", step, "workspace", layout.Workspace)

	result, err := b.runner.Run(ctx, string(layout.Workspace), 0, cmakeTool, args...)
	if err != nil {
		if errors.Is(err, adapter.ErrToolNotFound) {
			return &BuildError{Step: step, Err: err}
		}

		return &BuildError{Step: step, Stdout: result.Stdout, Stderr: result.Stderr, Err: err}
	}

	if result.ExitCode != 0 {
		return &BuildError{Step: step, Stdout: result.Stdout, Stderr: result.Stderr}
	}

	return nil
}
