package domain

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

// verdictSuffix is the report-name suffix that marks a compilable test.
const verdictSuffix = "_compiles_yes"

// Discovery resolves compilation verdicts to test source files on disk.
type Discovery interface {
	// Find returns the candidates whose verdict reports resolve to an
	// existing test file. The result is in sorted verdict order; an empty
	// result is the caller's ErrNoCandidates.
	Find(layout Layout) ([]m.TestCandidate, error)
}

type discovery struct {
	fs adapter.SourceFSAdapter
}

// NewDiscovery constructs a Discovery backed by the given filesystem.
func NewDiscovery(fs adapter.SourceFSAdapter) Discovery {
	return &discovery{fs: fs}
}

func (d *discovery) Find(layout Layout) ([]m.TestCandidate, error) {
	if _, err := d.fs.Stat(layout.VerificationDir); err != nil {
		return nil, fmt.Errorf("verification report directory not found: %s", layout.VerificationDir)
	}

	pattern := filepath.Join(string(layout.VerificationDir), "*"+verdictSuffix+".txt")

	reports, err := d.fs.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("list verification reports: %w", err)
	}

	var candidates []m.TestCandidate

	for _, report := range reports {
		stem := strings.TrimSuffix(filepath.Base(string(report)), ".txt")
		base := strings.ReplaceAll(stem, verdictSuffix, "")

		candidate, found := d.resolve(layout, base, report)
		if !found {
			slog.Warn("verdict has no matching test file", "report", report, "base", base)
			continue
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

// resolve probes the recognized extensions in priority order; the first
// existing file wins.
func (d *discovery) resolve(layout Layout, base string, report m.Path) (m.TestCandidate, bool) {
	for _, ext := range m.CandidateExtensions {
		file := d.fs.JoinPath(string(layout.TestsDir), base+ext)
		if _, err := d.fs.Stat(file); err == nil {
			return m.TestCandidate{Name: base, File: file, ReportFile: report}, true
		}
	}

	return m.TestCandidate{}, false
}
