package adapter

import (
	"os"
	"path/filepath"
	"testing"

	m "crucible.dev/pkg/crucible/internal/model"
)

func TestLocalSourceFSAdapter_GlobSorted(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	for _, name := range []string{"b_compiles_yes.txt", "a_compiles_yes.txt", "c_compiles_yes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("ok"), 0o600); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}

	matches, err := fs.Glob(filepath.Join(dir, "*compiles_yes.txt"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	if len(matches) != 3 {
		t.Fatalf("Glob() returned %d matches, want 3", len(matches))
	}

	for i, want := range []string{"a_compiles_yes.txt", "b_compiles_yes.txt", "c_compiles_yes.txt"} {
		if filepath.Base(string(matches[i])) != want {
			t.Fatalf("Glob()[%d] = %s, want %s", i, matches[i], want)
		}
	}
}

func TestLocalSourceFSAdapter_CopyFilePreservesMode(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	dir := t.TempDir()

	src := filepath.Join(dir, "tool.sh")
	if err := os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	dst := filepath.Join(dir, "nested", "tool.sh")
	if err := fs.CopyFile(m.Path(src), m.Path(dst)); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat copy: %v", err)
	}

	if info.Mode().Perm() != 0o755 {
		t.Fatalf("copied mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestLocalSourceFSAdapter_CopyDir(t *testing.T) {
	fs := NewLocalSourceFSAdapter()
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	if err := os.MkdirAll(filepath.Join(src, "sub"), 0o750); err != nil {
		t.Fatalf("mkdir fixture: %v", err)
	}

	if err := os.WriteFile(filepath.Join(src, "sub", "a.c"), []byte("int x;\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if err := fs.CopyDir(m.Path(src), m.Path(dst)); err != nil {
		t.Fatalf("CopyDir() error = %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dst, "sub", "a.c"))
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}

	if string(content) != "int x;\n" {
		t.Fatalf("copied content = %q", content)
	}
}

func TestLocalSourceFSAdapter_RelPath(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	rel, err := fs.RelPath(m.Path("/repo"), m.Path("/repo/tests/test_a.c"))
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if rel != m.Path(filepath.Join("tests", "test_a.c")) {
		t.Fatalf("RelPath() = %s", rel)
	}
}
