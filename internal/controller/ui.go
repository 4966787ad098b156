// Package controller provides output adapters for displaying pipeline progress
// and test results.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "crucible.dev/pkg/crucible/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeList StartMode = iota
	ModeRun
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithListMode sets the UI to candidate listing mode.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithRunMode sets the UI to full pipeline mode.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// UI defines the interface for displaying pipeline progress.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayGateDecision(ctx context.Context, approved bool, reason string)
	DisplayCandidates(ctx context.Context, candidates []m.TestCandidate, lang m.Language) error
	DisplayStageInfo(ctx context.Context, stage string)
	DisplayBuildFailure(ctx context.Context, step string, stdout string, stderr string)
	DisplayExecutionResult(ctx context.Context, result m.ExecutionResult)
	DisplaySummary(ctx context.Context, summary m.RunSummary) error
}

// NewUI returns the interactive TUI when attached to a terminal and the plain
// SimpleUI otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether the writer is attached to a terminal.
func IsTTY(output io.Writer) bool {
	file, ok := output.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(file.Fd()))
}
