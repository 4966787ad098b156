package domain

import (
	"fmt"
	"log/slog"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
	"crucible.dev/pkg/crucible/pkg"
)

// ledgerSectionHeader marks the list of generated test files in the review
// document.
const ledgerSectionHeader = "## Generated test files"

// ledgerFileName is the review document checked by the gate.
const ledgerFileName = "review_required.md"

// requiredFlagPayload is the exact content every approval flag must carry,
// compared byte for byte after newline normalization.
const requiredFlagPayload = "approved = true\nreviewed_by = <human_name>\ndate = <ISO date>\n"

// Gate enforces the mandatory human review before any build or execution.
// It has no configuration surface: nothing can skip it.
type Gate interface {
	// Check returns nil only when every declared generated test file has a
	// content-exact approval flag. Any other state returns *DeniedError.
	Check(layout Layout) error
}

type gate struct {
	fs adapter.SourceFSAdapter
}

// NewGate constructs the approval gate backed by the given filesystem.
func NewGate(fs adapter.SourceFSAdapter) Gate {
	return &gate{fs: fs}
}

func (g *gate) Check(layout Layout) error {
	ledger, err := g.parseLedger(layout)
	if err != nil {
		return &DeniedError{Reason: err.Error()}
	}

	if ledger.Empty() {
		return &DeniedError{Reason: "review ledger declares no generated test files"}
	}

	for _, declared := range ledger.GeneratedFiles {
		if err := g.checkFlag(layout, declared); err != nil {
			return &DeniedError{Reason: err.Error()}
		}
	}

	slog.Info("approval gate passed", "files", len(ledger.GeneratedFiles))

	return nil
}

// parseLedger reads the review document and extracts the declared generated
// test files.
func (g *gate) parseLedger(layout Layout) (m.Ledger, error) {
	ledgerPath := g.fs.JoinPath(string(layout.ReviewDir), ledgerFileName)

	content, err := g.fs.ReadFile(ledgerPath)
	if err != nil {
		return m.Ledger{}, fmt.Errorf("read review ledger %s: %w", ledgerPath, err)
	}

	items := pkg.Section(string(content), ledgerSectionHeader)

	ledger := m.Ledger{GeneratedFiles: make([]m.Path, 0, len(items))}
	for _, item := range items {
		ledger.GeneratedFiles = append(ledger.GeneratedFiles, m.Path(item))
	}

	return ledger, nil
}

// checkFlag verifies the approval flag for one declared file. The flag is
// named APPROVED.<base>.flag next to the ledger and must match the required
// payload exactly.
func (g *gate) checkFlag(layout Layout, declared m.Path) error {
	base := baseName(string(declared))
	flagPath := g.fs.JoinPath(string(layout.ReviewDir), "APPROVED."+base+".flag")

	content, err := g.fs.ReadFile(flagPath)
	if err != nil {
		return fmt.Errorf("read approval flag %s: %w", flagPath, err)
	}

	if pkg.NormalizeNewlines(string(content)) != requiredFlagPayload {
		return fmt.Errorf("approval flag %s does not match the required payload", flagPath)
	}

	return nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}

	return path
}
