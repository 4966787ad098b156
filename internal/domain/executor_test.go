package domain

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crucible.dev/pkg/crucible/internal/adapter"
	m "crucible.dev/pkg/crucible/internal/model"
)

func writeScript(t *testing.T, dir, name, body string) {
	t.Helper()

	err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+body), 0o755)
	require.NoError(t, err)
}

func newTestExecutor(workers int) Executor {
	return NewExecutor(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewLocalProcessRunner(),
		NewOutputSummarizer(),
		workers,
	)
}

func TestRunAllCollectsResultsInOrder(t *testing.T) {
	dir := t.TempDir()

	writeScript(t, dir, "door_test",
		`echo "test_door.c:10:test_open:PASS"
echo "test_door.c:18:test_jam:FAIL"
exit 1`)
	writeScript(t, dir, "lamp_test",
		`echo "test_lamp.c:7:test_on:PASS"
exit 0`)

	// decoys
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes_test.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latest"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "test_objs"), 0o755))

	exec := newTestExecutor(1)
	results, err := exec.RunAll(context.Background(), Layout{Workspace: m.Path(dir)}, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, "door_test", results[0].Name)
	require.False(t, results[0].Success)
	require.Equal(t, 1, results[0].ReturnCode)
	require.Equal(t, 2, results[0].TestsRun)
	require.Equal(t, 1, results[0].TestsFailed)

	require.Equal(t, "lamp_test", results[1].Name)
	require.True(t, results[1].Success)
	require.Equal(t, 1, results[1].TestsPassed)
}

func TestRunAllTimeoutDegradesSingleResult(t *testing.T) {
	dir := t.TempDir()

	writeScript(t, dir, "slow_test", "sleep 5")
	writeScript(t, dir, "quick_test", `echo "t.c:1:test_ok:PASS"`)

	exec := newTestExecutor(1)
	results, err := exec.RunAll(context.Background(), Layout{Workspace: m.Path(dir)}, 500*time.Millisecond)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Equal(t, m.TimeoutReturnCode, results[1].ReturnCode)
	require.Equal(t, "Test timed out", results[1].Errors)
	require.False(t, results[1].Success)

	require.True(t, results[0].Success)
}

func TestRunAllParallelPreservesOrder(t *testing.T) {
	dir := t.TempDir()

	writeScript(t, dir, "a_test", "sleep 0.2\nexit 0")
	writeScript(t, dir, "b_test", "exit 0")

	exec := newTestExecutor(4)
	results, err := exec.RunAll(context.Background(), Layout{Workspace: m.Path(dir)}, 5*time.Second)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "a_test", results[0].Name)
	require.Equal(t, "b_test", results[1].Name)
}

func TestRunAllEmptyWorkspace(t *testing.T) {
	exec := newTestExecutor(1)
	results, err := exec.RunAll(context.Background(), Layout{Workspace: m.Path(t.TempDir())}, time.Second)
	require.NoError(t, err)
	require.Empty(t, results)
}
