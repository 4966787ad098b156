package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

func discoveryFixture(t *testing.T) Layout {
	t.Helper()

	repo := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(repo, "tests", "compilation_report"), 0o750))

	return NewLayout(m.Path(repo), "build")
}

func writeVerdict(t *testing.T, layout Layout, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(string(layout.VerificationDir), name), []byte("compiles"), 0o600))
}

func writeTest(t *testing.T, layout Layout, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(string(layout.TestsDir), name), []byte("// test\n"), 0o600))
}

func TestDiscovery_ResolvesVerdicts(t *testing.T) {
	layout := discoveryFixture(t)

	writeVerdict(t, layout, "test_foo_compiles_yes.txt")
	writeTest(t, layout, "test_foo.c")

	found, err := NewDiscovery(adapter.NewLocalSourceFSAdapter()).Find(layout)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "test_foo", found[0].Name)
	assert.Equal(t, "test_foo.c", filepath.Base(string(found[0].File)))
}

func TestDiscovery_ExtensionPriority(t *testing.T) {
	layout := discoveryFixture(t)

	writeVerdict(t, layout, "test_foo_compiles_yes.txt")
	// Both dialect files exist; the C extension must win.
	writeTest(t, layout, "test_foo.c")
	writeTest(t, layout, "test_foo.cpp")

	found, err := NewDiscovery(adapter.NewLocalSourceFSAdapter()).Find(layout)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "test_foo.c", filepath.Base(string(found[0].File)))
}

func TestDiscovery_UnresolvedVerdictSkipped(t *testing.T) {
	layout := discoveryFixture(t)

	writeVerdict(t, layout, "test_ghost_compiles_yes.txt")
	writeVerdict(t, layout, "test_real_compiles_yes.txt")
	writeTest(t, layout, "test_real.cpp")

	found, err := NewDiscovery(adapter.NewLocalSourceFSAdapter()).Find(layout)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "test_real", found[0].Name)
}

func TestDiscovery_CompilesNoIgnored(t *testing.T) {
	layout := discoveryFixture(t)

	writeVerdict(t, layout, "test_bad_compiles_no.txt")
	writeTest(t, layout, "test_bad.c")

	found, err := NewDiscovery(adapter.NewLocalSourceFSAdapter()).Find(layout)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestDiscovery_MissingVerificationDir(t *testing.T) {
	repo := t.TempDir()
	layout := NewLayout(m.Path(repo), "build")

	_, err := NewDiscovery(adapter.NewLocalSourceFSAdapter()).Find(layout)
	require.Error(t, err)
}

func TestDiscovery_Idempotent(t *testing.T) {
	layout := discoveryFixture(t)

	writeVerdict(t, layout, "test_b_compiles_yes.txt")
	writeVerdict(t, layout, "test_a_compiles_yes.txt")
	writeTest(t, layout, "test_a.c")
	writeTest(t, layout, "test_b.c")

	d := NewDiscovery(adapter.NewLocalSourceFSAdapter())

	first, err := d.Find(layout)
	require.NoError(t, err)

	second, err := d.Find(layout)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	// Sorted verdict order, independent of creation order.
	assert.Equal(t, "test_a", first[0].Name)
	assert.Equal(t, "test_b", first[1].Name)
}
