package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "crucible.dev/pkg/crucible/internal/model"
)

// SimpleUI implements UI using cobra Command's output stream.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayGateDecision prints the review gate outcome.
func (s *SimpleUI) DisplayGateDecision(ctx context.Context, approved bool, reason string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if approved {
		s.printf("✅ Manual review approved.\n")
		return
	}

	s.printf("%s\n", reason)
}

// DisplayCandidates prints the discovered test candidates as a table.
func (s *SimpleUI) DisplayCandidates(ctx context.Context, candidates []m.TestCandidate, lang m.Language) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCandidateTable(candidates, lang))

	return nil
}

func renderCandidateTable(candidates []m.TestCandidate, lang m.Language) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Test", "File"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, candidate := range candidates {
		table.Append([]string{candidate.Name, string(candidate.File)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(candidates)),
		fmt.Sprintf("language %s", lang),
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayStageInfo prints a one-line progress note for a pipeline stage.
func (s *SimpleUI) DisplayStageInfo(ctx context.Context, stage string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", stage)
}

// DisplayBuildFailure prints the failed build step with its captured output.
func (s *SimpleUI) DisplayBuildFailure(ctx context.Context, step string, stdout string, stderr string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Build step %q failed.\n", step)

	if stdout != "" {
		s.printf("%s\n", stdout)
	}

	if stderr != "" {
		s.printf("%s\n", stderr)
	}
}

// DisplayExecutionResult prints the outcome of a single test binary.
func (s *SimpleUI) DisplayExecutionResult(ctx context.Context, result m.ExecutionResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	status := "PASS"
	if !result.Success {
		status = "FAIL"
	}

	s.printf("%s %s (%d run, %d passed, %d failed)\n",
		status, result.Name, result.TestsRun, result.TestsPassed, result.TestsFailed)
}

// DisplaySummary prints the final run summary as a table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, summary m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderSummaryTable(summary))

	return nil
}

func renderSummaryTable(summary m.RunSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Executable", "Status", "Run", "Passed", "Failed"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, result := range summary.Results {
		status := "PASS"
		if !result.Success {
			status = "FAIL"
		}

		table.Append([]string{
			result.Name,
			status,
			fmt.Sprintf("%d", result.TestsRun),
			fmt.Sprintf("%d", result.TestsPassed),
			fmt.Sprintf("%d", result.TestsFailed),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", summary.Executables),
		"",
		"",
		fmt.Sprintf("%d", summary.Passed),
		fmt.Sprintf("%d", summary.Failed),
	})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
