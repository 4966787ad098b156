package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenameEntryPoint(t *testing.T) {
	scanner := NewSourceScanner()

	src := "#include <stdio.h>\n\nint main(void) {\n    return 0;\n}\n"

	renamed, changed := scanner.RenameEntryPoint(src)
	require.True(t, changed)
	assert.Contains(t, renamed, "int app_main(void)")
	assert.NotContains(t, renamed, "int main(")
}

func TestRenameEntryPoint_WhitespaceVariants(t *testing.T) {
	scanner := NewSourceScanner()

	renamed, changed := scanner.RenameEntryPoint("int   main  (int argc, char **argv) { return 0; }\n")
	require.True(t, changed)
	assert.Contains(t, renamed, "int app_main(int argc")
}

func TestRenameEntryPoint_OtherSymbolsUntouched(t *testing.T) {
	scanner := NewSourceScanner()

	src := "int maintain(void) { return 1; }\nint domain_count = 2;\nint main(void) { return 0; }\n"

	renamed, changed := scanner.RenameEntryPoint(src)
	require.True(t, changed)
	assert.Contains(t, renamed, "int maintain(void)")
	assert.Contains(t, renamed, "int domain_count")
}

func TestRenameEntryPoint_Idempotent(t *testing.T) {
	scanner := NewSourceScanner()

	once, changed := scanner.RenameEntryPoint("int main(void) { return 0; }\n")
	require.True(t, changed)

	twice, changed := scanner.RenameEntryPoint(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
}

func TestSynthesizeHeader(t *testing.T) {
	scanner := NewSourceScanner()

	src := "int add(int a, int b) {\n    return a + b;\n}\n\nvoid reset(void) {\n}\n\nint main(void) {\n    return add(1, 2);\n}\n"

	header, ok := scanner.SynthesizeHeader("math.c", src)
	require.True(t, ok)
	assert.Contains(t, header, "/* Auto-generated header for math.c */")
	assert.Contains(t, header, "#pragma once")
	assert.Contains(t, header, "int add(int a, int b);")
	assert.Contains(t, header, "void reset(void);")
	assert.NotContains(t, header, "main")
}

func TestSynthesizeHeader_NoFunctions(t *testing.T) {
	scanner := NewSourceScanner()

	_, ok := scanner.SynthesizeHeader("data.c", "int table[] = {1, 2, 3};\n")
	assert.False(t, ok)
}

func TestSynthesizeHeader_OnlyMain(t *testing.T) {
	scanner := NewSourceScanner()

	_, ok := scanner.SynthesizeHeader("app.c", "int main(void) {\n    return 0;\n}\n")
	assert.False(t, ok)
}

func TestRewriteEntryCalls(t *testing.T) {
	scanner := NewSourceScanner()

	src := "void test_runs_app(void) {\n    int rc = main();\n    TEST_ASSERT_EQUAL(0, rc);\n}\n\nint main(void) {\n    RUN_TEST(test_runs_app);\n    return UNITY_END();\n}\n"

	rewritten, changed := scanner.RewriteEntryCalls(src)
	require.True(t, changed)
	assert.Contains(t, rewritten, "int rc = app_main();")
	// The harness's own entry point definition must survive.
	assert.Contains(t, rewritten, "int main(void) {")
}

func TestRewriteEntryCalls_VoidDefinitionGuard(t *testing.T) {
	scanner := NewSourceScanner()

	src := "void main(void) {\n}\n"

	_, changed := scanner.RewriteEntryCalls(src)
	assert.False(t, changed)
}

func TestRewriteEntryCalls_NoEntryReference(t *testing.T) {
	scanner := NewSourceScanner()

	src := "void test_noop(void) {}\n"

	rewritten, changed := scanner.RewriteEntryCalls(src)
	assert.False(t, changed)
	assert.Equal(t, src, rewritten)
}

func TestRewriteEntryCalls_DoesNotTouchAppMain(t *testing.T) {
	scanner := NewSourceScanner()

	src := "void test(void) { app_main(); }\n"

	_, changed := scanner.RewriteEntryCalls(src)
	assert.False(t, changed)
}
