package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNewlines(t *testing.T) {
	assert.Equal(t, "a\nb\n", NormalizeNewlines("a\r\nb\r\n"))
	assert.Equal(t, "a\nb", NormalizeNewlines("a\nb"))
}

func TestSection_BasicItems(t *testing.T) {
	doc := "# Review\n\n## Generated test files\n- tests/test_foo.c\n- tests\\test_bar.cpp\n\n## Next section\n- ignored\n"

	items := Section(doc, "## Generated test files")

	require.Len(t, items, 2)
	assert.Equal(t, "tests/test_foo.c", items[0])
	assert.Equal(t, "tests/test_bar.cpp", items[1])
}

func TestSection_NoneItemIgnored(t *testing.T) {
	doc := "## Generated test files\n- (none)\n"

	assert.Empty(t, Section(doc, "## Generated test files"))
}

func TestSection_MissingHeader(t *testing.T) {
	doc := "## Other section\n- tests/test_foo.c\n"

	assert.Empty(t, Section(doc, "## Generated test files"))
}

func TestSection_CRLFInput(t *testing.T) {
	doc := "## Generated test files\r\n- tests/test_foo.c\r\n## End\r\n"

	items := Section(doc, "## Generated test files")

	require.Len(t, items, 1)
	assert.Equal(t, "tests/test_foo.c", items[0])
}

func TestSection_NonBulletLinesSkipped(t *testing.T) {
	doc := "## Generated test files\nsome prose\n- tests/test_foo.c\n"

	items := Section(doc, "## Generated test files")

	require.Len(t, items, 1)
}

func TestLines_TrimsAndNormalizes(t *testing.T) {
	lines := Lines("  a \r\n\tb\t\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "a", lines[0])
	assert.Equal(t, "b", lines[1])
	assert.Equal(t, "", lines[2])
}
