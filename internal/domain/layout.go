package domain

import (
	"path/filepath"
	"strings"

	m "crucible.dev/pkg/crucible/internal/model"
)

// Layout resolves every directory the pipeline touches from the repository
// root and the output directory name. Relative output names are anchored
// under <repo>/tests so build trees never land next to the repo root.
type Layout struct {
	RepoRoot        m.Path
	Workspace       m.Path // build output tree
	TestsDir        m.Path // <repo>/tests
	VerificationDir m.Path // <repo>/tests/compilation_report
	ReportsDir      m.Path // <repo>/tests/test_reports
	ReviewDir       m.Path // <repo>/tests/review
	SourceDir       m.Path // <repo>/src
}

// NewLayout computes the layout for a repository and output directory name.
//
//	outputDir=build       -> <repo>/tests/build
//	outputDir=tests/build -> <repo>/tests/build
//	outputDir=/abs/path   -> /abs/path
func NewLayout(repoRoot m.Path, outputDir string) Layout {
	root, err := filepath.Abs(string(repoRoot))
	if err != nil {
		root = string(repoRoot)
	}

	var workspace string

	switch {
	case filepath.IsAbs(outputDir):
		workspace = outputDir
	case firstComponent(outputDir) == "tests":
		workspace = filepath.Join(root, outputDir)
	default:
		workspace = filepath.Join(root, "tests", outputDir)
	}

	tests := filepath.Join(root, "tests")

	return Layout{
		RepoRoot:        m.Path(root),
		Workspace:       m.Path(workspace),
		TestsDir:        m.Path(tests),
		VerificationDir: m.Path(filepath.Join(tests, "compilation_report")),
		ReportsDir:      m.Path(filepath.Join(tests, "test_reports")),
		ReviewDir:       m.Path(filepath.Join(tests, "review")),
		SourceDir:       m.Path(filepath.Join(root, "src")),
	}
}

func firstComponent(path string) string {
	clean := filepath.ToSlash(filepath.Clean(path))
	if i := strings.Index(clean, "/"); i >= 0 {
		return clean[:i]
	}

	return clean
}
