package domain

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

// DescriptorGenerator emits the build-system project description: one
// executable target per test candidate plus framework and stub wiring.
type DescriptorGenerator interface {
	Generate(lang m.Language, layout Layout, candidates []m.TestCandidate) error
}

type descriptorGenerator struct {
	fs adapter.SourceFSAdapter
}

// NewDescriptorGenerator constructs a DescriptorGenerator.
func NewDescriptorGenerator(fs adapter.SourceFSAdapter) DescriptorGenerator {
	return &descriptorGenerator{fs: fs}
}

func (g *descriptorGenerator) Generate(lang m.Language, layout Layout, candidates []m.TestCandidate) error {
	targets := buildTargets(lang, candidates)
	warnTargetCollisions(targets)

	var content string
	if lang == m.LangCPP {
		sources, err := g.globCPPSources(layout)
		if err != nil {
			return err
		}

		content = renderCPPProject(targets, sources)
	} else {
		content = renderCProject(targets)
	}

	dest := g.fs.JoinPath(string(layout.Workspace), "CMakeLists.txt")
	if err := g.fs.WriteFile(dest, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write project description %s: %w", dest, err)
	}

	slog.Info("generated build description", "path", dest, "targets", len(targets))

	return nil
}

// buildTargets maps candidates onto build targets. Test files are addressed
// relative to the workspace, where CopyTests placed them under tests/; the
// C++ dialect links the stub translation unit into every target and needs
// the stub and shim include roots.
func buildTargets(lang m.Language, candidates []m.TestCandidate) []m.BuildTarget {
	targets := make([]m.BuildTarget, 0, len(candidates))

	for _, candidate := range candidates {
		target := m.BuildTarget{
			Name:     candidate.Name,
			TestFile: m.Path(filepath.Join("tests", filepath.Base(string(candidate.File)))),
		}

		if lang == m.LangCPP {
			target.Sources = []m.Path{"arduino_stubs/Arduino_stubs.cpp"}
			target.IncludeDirs = []m.Path{".", "src", "arduino_stubs", "gtest"}
		}

		targets = append(targets, target)
	}

	return targets
}

// warnTargetCollisions flags duplicate target names. The generated
// description keeps the observed behavior (last target wins) but the
// collision is surfaced instead of silently swallowed.
func warnTargetCollisions(targets []m.BuildTarget) {
	seen := make(map[string]m.Path, len(targets))

	for _, target := range targets {
		if prev, ok := seen[target.Name]; ok {
			slog.Warn("duplicate target name, last definition wins",
				"target", target.Name, "kept", target.TestFile, "shadowed", prev)
		}

		seen[target.Name] = target.TestFile
	}
}

// globCPPSources lists the production sources copied into the workspace,
// expressed relative to the workspace root so the rendered description can
// reference them directly.
func (g *descriptorGenerator) globCPPSources(layout Layout) ([]m.Path, error) {
	var sources []m.Path

	for _, ext := range m.CPPExtensions {
		matches, err := g.fs.Glob(filepath.Join(string(layout.Workspace), "src", "*"+ext))
		if err != nil {
			return nil, fmt.Errorf("list C++ sources: %w", err)
		}

		for _, match := range matches {
			rel, err := g.fs.RelPath(layout.Workspace, match)
			if err != nil {
				return nil, fmt.Errorf("resolve source path %s: %w", match, err)
			}

			sources = append(sources, rel)
		}
	}

	return sources, nil
}

// renderCProject emits the Unity project: a static unity library and one
// single-file executable per test, with coverage instrumentation enabled.
func renderCProject(targets []m.BuildTarget) string {
	var b strings.Builder

	b.WriteString("cmake_minimum_required(VERSION 3.10)\n")
	b.WriteString("project(Tests C)\n\n")
	b.WriteString("set(CMAKE_C_STANDARD 99)\n")
	b.WriteString("add_definitions(-DUNIT_TEST)\n\n")
	b.WriteString("set(CMAKE_C_FLAGS \"${CMAKE_C_FLAGS} --coverage\")\n")
	b.WriteString("set(CMAKE_EXE_LINKER_FLAGS \"${CMAKE_EXE_LINKER_FLAGS} --coverage\")\n\n")
	b.WriteString("include_directories(unity/src)\n")
	b.WriteString("include_directories(src)\n\n")
	b.WriteString("add_library(unity unity/src/unity.c)\n\n")

	for _, target := range targets {
		fmt.Fprintf(&b, "add_executable(%s %s)\n", target.Name, target.TestFile)
		fmt.Fprintf(&b, "target_link_libraries(%s unity)\n\n", target.Name)
	}

	return b.String()
}

// renderCPPProject emits the gtest project: an object library over the
// production sources and per-test executables linking the stubs, each
// registered with the build tool's test runner.
func renderCPPProject(targets []m.BuildTarget, sources []m.Path) string {
	var b strings.Builder

	b.WriteString("cmake_minimum_required(VERSION 3.14)\n")
	b.WriteString("project(cpp_tests CXX)\n\n")
	b.WriteString("set(CMAKE_CXX_STANDARD 17)\n")
	b.WriteString("set(CMAKE_CXX_STANDARD_REQUIRED ON)\n\n")
	b.WriteString("enable_testing()\n\n")

	if len(sources) > 0 {
		b.WriteString("# Source code under test\n")
		b.WriteString("add_library(test_lib OBJECT\n")

		for _, src := range sources {
			fmt.Fprintf(&b, "  %s\n", src)
		}

		b.WriteString(")\n")
		b.WriteString("target_include_directories(test_lib PUBLIC ${CMAKE_CURRENT_SOURCE_DIR}/src)\n")
		b.WriteString("target_include_directories(test_lib PUBLIC arduino_stubs)\n")
		b.WriteString("target_include_directories(test_lib PUBLIC gtest)\n\n")
	}

	for _, target := range targets {
		fmt.Fprintf(&b, "# Test executable for %s\n", target.Name)
		fmt.Fprintf(&b, "add_executable(%s\n", target.Name)
		fmt.Fprintf(&b, "  %s\n", target.TestFile)

		for _, src := range target.Sources {
			fmt.Fprintf(&b, "  %s\n", src)
		}

		if len(sources) > 0 {
			b.WriteString("  $<TARGET_OBJECTS:test_lib>\n")
		}

		b.WriteString(")\n")

		for _, dir := range target.IncludeDirs {
			anchored := "${CMAKE_CURRENT_SOURCE_DIR}"
			if dir != "." {
				anchored += "/" + string(dir)
			}

			fmt.Fprintf(&b, "target_include_directories(%s PRIVATE %s)\n", target.Name, anchored)
		}

		b.WriteString("\n")
		fmt.Fprintf(&b, "add_test(\n  NAME %s\n  COMMAND %s\n)\n\n", target.Name, target.Name)
	}

	return b.String()
}
