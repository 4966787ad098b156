// Package domain implements the gated build-and-run pipeline for generated
// C and C++ unit tests.
package domain

import (
	"errors"
	"fmt"
)

// DeniedMessage is the exact line printed when the approval gate denies a
// run. It must not be reworded.
const DeniedMessage = "❌ Manual review not approved. Build and execution halted."

// ErrNoCandidates is returned when no compilable test resolves to a file on
// disk. The pipeline treats it as a terminal failure.
var ErrNoCandidates = errors.New("no compilable tests found")

// ErrNoExecutables is returned when the build produced nothing runnable.
var ErrNoExecutables = errors.New("no test executables found")

// DeniedError reports that the mandatory human review gate blocked the run.
// It carries the reason for the log; the user-visible output is always
// DeniedMessage, with no detail that could help scripting around the gate.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("approval gate denied: %s", e.Reason)
}

// BuildError reports a failed external build tool invocation. Stdout and
// stderr are surfaced verbatim to the user.
type BuildError struct {
	Step   string // "configure" or "build"
	Stdout string
	Stderr string
	Err    error // non-nil when the tool itself could not be invoked
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}

	return fmt.Sprintf("%s failed", e.Step)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// ProvisionError reports that no usable test framework could be produced.
type ProvisionError struct {
	Language string
	Err      error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision %s framework: %v", e.Language, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}
