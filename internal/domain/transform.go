package domain

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

// unityInclude is the assertion header a lean-dialect test references.
const unityInclude = `#include "unity.h"`

// testFilePrefix links test base names to production source names.
const testFilePrefix = "test_"

// TransformResult records what the transformer did so the UI can report it.
type TransformResult struct {
	Sources         []m.Path // production sources copied into the workspace
	Headers         []m.Path // companion headers synthesized
	RenamedEntries  []m.Path // sources whose entry point was renamed
	Tests           []m.Path // test files copied into the workspace
	InjectedInclude []m.Path // test files that got a production include injected
}

// Transformer copies production and test sources into the workspace,
// rewriting entry points and injecting includes so every test file links
// standalone.
type Transformer interface {
	CopySources(layout Layout) (TransformResult, error)
	CopyTests(layout Layout, candidates []m.TestCandidate) (TransformResult, error)
}

type transformer struct {
	fs      adapter.SourceFSAdapter
	scanner SourceScanner
}

// NewTransformer constructs a Transformer.
func NewTransformer(fs adapter.SourceFSAdapter, scanner SourceScanner) Transformer {
	return &transformer{fs: fs, scanner: scanner}
}

// CopySources copies src/*.c, src/*.cpp and src/*.h into workspace/src,
// renaming entry point definitions and synthesizing missing headers for C
// sources. Header synthesis is best effort: a source it cannot handle is
// skipped, never fatal.
func (t *transformer) CopySources(layout Layout) (TransformResult, error) {
	var result TransformResult

	destDir := t.fs.JoinPath(string(layout.Workspace), "src")
	if err := t.fs.MkdirAll(destDir, 0o750); err != nil {
		return result, fmt.Errorf("create workspace src dir: %w", err)
	}

	if _, err := t.fs.Stat(layout.SourceDir); err != nil {
		slog.Warn("source directory not found", "dir", layout.SourceDir)
		return result, nil
	}

	sources, err := t.globSources(layout.SourceDir)
	if err != nil {
		return result, err
	}

	for _, src := range sources {
		copied, err := t.copySource(layout, src, destDir, &result)
		if err != nil {
			return result, err
		}

		result.Sources = append(result.Sources, copied)
	}

	headers, err := t.fs.Glob(filepath.Join(string(layout.SourceDir), "*.h"))
	if err != nil {
		return result, fmt.Errorf("list headers: %w", err)
	}

	for _, header := range headers {
		dest := t.fs.JoinPath(string(destDir), filepath.Base(string(header)))
		if err := t.fs.CopyFile(header, dest); err != nil {
			return result, fmt.Errorf("copy header %s: %w", header, err)
		}
	}

	return result, nil
}

func (t *transformer) globSources(dir m.Path) ([]m.Path, error) {
	var sources []m.Path

	for _, pattern := range []string{"*.c", "*.cpp"} {
		matches, err := t.fs.Glob(filepath.Join(string(dir), pattern))
		if err != nil {
			return nil, fmt.Errorf("list sources: %w", err)
		}

		sources = append(sources, matches...)
	}

	return sources, nil
}

func (t *transformer) copySource(layout Layout, src, destDir m.Path, result *TransformResult) (m.Path, error) {
	content, err := t.fs.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("read source %s: %w", src, err)
	}

	name := filepath.Base(string(src))

	text, renamed := t.scanner.RenameEntryPoint(string(content))
	if renamed {
		slog.Info("renamed entry point", "file", name, "from", entryPointName, "to", renamedEntryPoint)

		result.RenamedEntries = append(result.RenamedEntries, src)
	}

	dest := t.fs.JoinPath(string(destDir), name)
	if err := t.fs.WriteFile(dest, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("write source %s: %w", dest, err)
	}

	if strings.HasSuffix(name, ".c") {
		t.synthesizeHeader(layout, src, string(content), destDir, result)
	}

	return dest, nil
}

// synthesizeHeader writes a forward-declaration header next to the copied
// source when the source tree does not already provide one.
func (t *transformer) synthesizeHeader(layout Layout, src m.Path, content string, destDir m.Path, result *TransformResult) {
	base := strings.TrimSuffix(filepath.Base(string(src)), ".c")
	companion := t.fs.JoinPath(string(layout.SourceDir), base+".h")

	if _, err := t.fs.Stat(companion); err == nil {
		return
	}

	header, ok := t.scanner.SynthesizeHeader(filepath.Base(string(src)), content)
	if !ok {
		slog.Warn("could not synthesize header", "source", src)
		return
	}

	dest := t.fs.JoinPath(string(destDir), base+".h")
	if err := t.fs.WriteFile(dest, []byte(header), 0o600); err != nil {
		slog.Warn("could not write synthesized header", "dest", dest, "error", err)
		return
	}

	result.Headers = append(result.Headers, dest)
}

// CopyTests copies each candidate into workspace/tests. Unity tests get the
// corresponding production source included directly after the framework
// include, and entry point calls rewritten to the alternate name. Both
// rewrites are idempotent.
func (t *transformer) CopyTests(layout Layout, candidates []m.TestCandidate) (TransformResult, error) {
	var result TransformResult

	destDir := t.fs.JoinPath(string(layout.Workspace), "tests")
	if err := t.fs.MkdirAll(destDir, 0o750); err != nil {
		return result, fmt.Errorf("create workspace tests dir: %w", err)
	}

	for _, candidate := range candidates {
		content, err := t.fs.ReadFile(candidate.File)
		if err != nil {
			return result, fmt.Errorf("read test %s: %w", candidate.File, err)
		}

		name := filepath.Base(string(candidate.File))
		text := string(content)

		if strings.HasSuffix(name, ".c") && strings.Contains(text, unityInclude) {
			text = t.rewriteUnityTest(candidate, name, text, &result)
		}

		dest := t.fs.JoinPath(string(destDir), name)
		if err := t.fs.WriteFile(dest, []byte(text), 0o600); err != nil {
			return result, fmt.Errorf("write test %s: %w", dest, err)
		}

		result.Tests = append(result.Tests, dest)
	}

	return result, nil
}

func (t *transformer) rewriteUnityTest(candidate m.TestCandidate, name, text string, result *TransformResult) string {
	sourceName := strings.TrimPrefix(candidate.Name, testFilePrefix)
	include := fmt.Sprintf("#include \"../src/%s.c\"", sourceName)

	if !strings.Contains(text, include) && !strings.Contains(text, `#include "../src/`) {
		if injected, ok := injectAfter(text, unityInclude, include); ok {
			text = injected

			slog.Info("injected production include", "test", name, "include", include)

			result.InjectedInclude = append(result.InjectedInclude, candidate.File)
		}
	}

	// The rename marker doubles as the idempotency check: a test already
	// referencing the alternate entry point is left alone.
	if !strings.Contains(text, renamedEntryPoint+"(") {
		if rewritten, changed := t.scanner.RewriteEntryCalls(text); changed {
			text = rewritten

			slog.Info("rewrote entry point calls", "test", name)
		}
	}

	return text
}

// injectAfter inserts line directly after the line containing marker.
func injectAfter(text, marker, line string) (string, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return text, false
	}

	eol := strings.Index(text[idx:], "\n")
	if eol < 0 {
		return text + "\n" + line + "\n", true
	}

	insertAt := idx + eol + 1

	return text[:insertAt] + line + "\n" + text[insertAt:], true
}
