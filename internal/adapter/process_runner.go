package adapter

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"time"
)

// ErrToolNotFound is returned when the requested executable does not exist
// on the system. Callers distinguish it from a non-zero exit.
var ErrToolNotFound = errors.New("tool not found")

// ProcessResult carries the captured outcome of one external invocation.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

// ProcessRunner abstracts external tool invocations. Every external call the
// pipeline makes (build configure, build, test binaries) goes through this
// interface so timeout and capture policy live in one place.
type ProcessRunner interface {
	// Run executes name with args in workDir, bounded by timeout when it is
	// positive. Stdout and stderr are captured separately. A timeout is not
	// an error: the result reports TimedOut with ExitCode -1.
	Run(ctx context.Context, workDir string, timeout time.Duration, name string, args ...string) (ProcessResult, error)
}

// LocalProcessRunner executes processes via os/exec.
type LocalProcessRunner struct{}

// NewLocalProcessRunner constructs a LocalProcessRunner.
func NewLocalProcessRunner() *LocalProcessRunner {
	return &LocalProcessRunner{}
}

// Run executes the command and captures its streams.
func (r *LocalProcessRunner) Run(ctx context.Context, workDir string, timeout time.Duration, name string, args ...string) (ProcessResult, error) {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workDir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ProcessResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if ctx.Err() != nil {
		result.TimedOut = true
		result.ExitCode = -1

		return result, nil
	}

	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return result, ErrToolNotFound
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit is reported through ExitCode, not the error.
			return result, nil
		}

		return result, err
	}

	return result, nil
}
