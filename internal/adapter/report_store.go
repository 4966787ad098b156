package adapter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	m "crucible.dev/pkg/crucible/internal/model"
)

// ReportStore persists per-binary reports and the aggregated run summary.
type ReportStore interface {
	// SaveReport writes one plain-text report for a single execution result.
	SaveReport(dir m.Path, result m.ExecutionResult) (m.Path, error)

	// SaveSummary writes the machine-readable run summary.
	SaveSummary(dir m.Path, summary m.RunSummary) (m.Path, error)
}

// LocalReportStore writes reports to the local filesystem.
type LocalReportStore struct {
	fs SourceFSAdapter
}

// NewLocalReportStore constructs a LocalReportStore.
func NewLocalReportStore(fs SourceFSAdapter) *LocalReportStore {
	return &LocalReportStore{fs: fs}
}

// SaveReport renders the fixed-section report document for one result and
// writes it to <dir>/<name>_report.txt.
func (s *LocalReportStore) SaveReport(dir m.Path, result m.ExecutionResult) (m.Path, error) {
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	path := s.fs.JoinPath(string(dir), result.Name+"_report.txt")

	if err := s.fs.WriteFile(path, []byte(renderReport(result)), 0o600); err != nil {
		return "", fmt.Errorf("write report %s: %w", path, err)
	}

	return path, nil
}

// SaveSummary writes summary.yaml into dir.
func (s *LocalReportStore) SaveSummary(dir m.Path, summary m.RunSummary) (m.Path, error) {
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	content, err := yaml.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	path := s.fs.JoinPath(string(dir), "summary.yaml")

	if err := s.fs.WriteFile(path, content, 0o600); err != nil {
		return "", fmt.Errorf("write summary %s: %w", path, err)
	}

	return path, nil
}

func renderReport(result m.ExecutionResult) string {
	var b strings.Builder

	rule := strings.Repeat("=", 60)

	overall := "FAILED"
	if result.Success {
		overall = "PASSED"
	}

	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "TEST REPORT: %s\n", result.Name)
	b.WriteString(rule + "\n\n")

	b.WriteString("EXECUTION SUMMARY\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	fmt.Fprintf(&b, "Test Executable: %s\n", result.Name)
	fmt.Fprintf(&b, "Exit Code: %d\n", result.ReturnCode)
	fmt.Fprintf(&b, "Overall Status: %s\n", overall)
	fmt.Fprintf(&b, "Individual Tests Run: %d\n", result.TestsRun)
	fmt.Fprintf(&b, "Individual Tests Passed: %d\n", result.TestsPassed)
	fmt.Fprintf(&b, "Individual Tests Failed: %d\n\n", result.TestsFailed)

	if result.Errors != "" {
		b.WriteString("ERRORS\n")
		b.WriteString(strings.Repeat("-", 10) + "\n")
		fmt.Fprintf(&b, "%s\n\n", result.Errors)
	}

	b.WriteString("DETAILED OUTPUT\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")

	if result.Output != "" {
		b.WriteString(result.Output)
	} else {
		b.WriteString("(No output captured)\n")
	}

	b.WriteString("\n" + rule + "\n")

	return b.String()
}
