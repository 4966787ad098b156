package domain

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

// unityReferenceDir is the sibling directory probed for a local Unity copy
// before falling back to the network.
const unityReferenceDir = "ai-test-gemini-CLI"

// cppReferenceDir is the sibling directory probed for a local gtest header
// and stub pair.
const cppReferenceDir = "Door-Monitoring"

// Provisioner ensures the test framework and platform stub assets exist in
// the workspace. Provisioning is idempotent; re-running with assets present
// neither corrupts nor duplicates them.
type Provisioner interface {
	Provision(ctx context.Context, lang m.Language, layout Layout) error
}

type provisioner struct {
	fs      adapter.SourceFSAdapter
	fetcher adapter.FrameworkFetcher
}

// NewProvisioner constructs a Provisioner.
func NewProvisioner(fs adapter.SourceFSAdapter, fetcher adapter.FrameworkFetcher) Provisioner {
	return &provisioner{fs: fs, fetcher: fetcher}
}

func (p *provisioner) Provision(ctx context.Context, lang m.Language, layout Layout) error {
	if lang == m.LangCPP {
		return p.provisionCPP(layout)
	}

	return p.provisionUnity(ctx, layout)
}

// provisionUnity places the Unity micro-framework under workspace/unity,
// preferring a local reference copy and falling back to the pinned upstream
// archive.
func (p *provisioner) provisionUnity(ctx context.Context, layout Layout) error {
	dest := p.fs.JoinPath(string(layout.Workspace), "unity")

	reference := p.fs.JoinPath(filepath.Dir(string(layout.RepoRoot)), unityReferenceDir, "unity")
	if p.hasUnitySources(reference) {
		if err := p.fs.RemoveAll(dest); err != nil {
			slog.Warn("could not remove existing unity directory", "dest", dest, "error", err)
		}

		if err := p.fs.CopyDir(reference, dest); err != nil {
			return &ProvisionError{Language: string(m.LangC), Err: fmt.Errorf("copy unity reference: %w", err)}
		}

		slog.Info("copied unity framework from reference", "src", reference)

		return nil
	}

	// Assets from an earlier run are good enough; do not re-fetch.
	if p.hasUnitySources(dest) {
		slog.Debug("unity framework already provisioned", "dest", dest)
		return nil
	}

	slog.Info("downloading unity framework", "url", adapter.UnityArchiveURL)

	if err := p.fetcher.FetchUnity(ctx, dest); err != nil {
		return &ProvisionError{Language: string(m.LangC), Err: err}
	}

	return nil
}

// hasUnitySources reports whether dir contains at least one Unity C source.
func (p *provisioner) hasUnitySources(dir m.Path) bool {
	matches, err := p.fs.Glob(filepath.Join(string(dir), "src", "*.c"))
	if err == nil && len(matches) > 0 {
		return true
	}

	matches, err = p.fs.Glob(filepath.Join(string(dir), "*.c"))

	return err == nil && len(matches) > 0
}

// provisionCPP places the gtest shim header and the hardware stub pair,
// preferring local reference copies and generating the built-in minimal
// implementations otherwise.
func (p *provisioner) provisionCPP(layout Layout) error {
	if err := p.provisionGTest(layout); err != nil {
		return err
	}

	return p.provisionStubs(layout)
}

func (p *provisioner) provisionGTest(layout Layout) error {
	dest := p.fs.JoinPath(string(layout.Workspace), "gtest", "gtest.h")

	if err := p.fs.MkdirAll(m.Path(filepath.Dir(string(dest))), 0o750); err != nil {
		return &ProvisionError{Language: string(m.LangCPP), Err: err}
	}

	reference := p.fs.JoinPath(
		filepath.Dir(string(layout.RepoRoot)),
		cppReferenceDir, "tests_and_build_single_file", "gtest", "gtest.h",
	)

	if _, err := p.fs.Stat(reference); err == nil {
		if err := p.fs.CopyFile(reference, dest); err != nil {
			return &ProvisionError{Language: string(m.LangCPP), Err: err}
		}

		slog.Info("copied gtest header from reference", "src", reference)

		return nil
	}

	if err := p.fs.WriteFile(dest, []byte(builtinGTestHeader), 0o600); err != nil {
		return &ProvisionError{Language: string(m.LangCPP), Err: err}
	}

	slog.Info("created minimal gtest framework", "dest", dest)

	return nil
}

func (p *provisioner) provisionStubs(layout Layout) error {
	dest := p.fs.JoinPath(string(layout.Workspace), "arduino_stubs")

	if err := p.fs.MkdirAll(dest, 0o750); err != nil {
		return &ProvisionError{Language: string(m.LangCPP), Err: err}
	}

	referenceDir := p.fs.JoinPath(filepath.Dir(string(layout.RepoRoot)), cppReferenceDir, "tests_and_build_single_file")

	copied := false

	for _, name := range []string{"Arduino_stubs.h", "Arduino_stubs.cpp"} {
		src := p.fs.JoinPath(string(referenceDir), name)
		if _, err := p.fs.Stat(src); err != nil {
			continue
		}

		if err := p.fs.CopyFile(src, p.fs.JoinPath(string(dest), name)); err != nil {
			return &ProvisionError{Language: string(m.LangCPP), Err: err}
		}

		copied = true
	}

	if copied {
		slog.Info("copied platform stubs from reference", "src", referenceDir)
		return nil
	}

	header := p.fs.JoinPath(string(dest), "Arduino_stubs.h")
	if err := p.fs.WriteFile(header, []byte(builtinStubsHeader), 0o600); err != nil {
		return &ProvisionError{Language: string(m.LangCPP), Err: err}
	}

	impl := p.fs.JoinPath(string(dest), "Arduino_stubs.cpp")
	if err := p.fs.WriteFile(impl, []byte(builtinStubsImpl), 0o600); err != nil {
		return &ProvisionError{Language: string(m.LangCPP), Err: err}
	}

	slog.Info("created minimal platform stubs", "dest", dest)

	return nil
}
