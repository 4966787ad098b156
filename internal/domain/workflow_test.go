package domain

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crucible.dev/pkg/crucible/internal/adapter"
	"crucible.dev/pkg/crucible/internal/controller"
	m "crucible.dev/pkg/crucible/internal/model"
)

type fakeUI struct {
	stages   []string
	gateOK   *bool
	cands    []m.TestCandidate
	failures []string
	results  []m.ExecutionResult
	summary  *m.RunSummary
}

func (f *fakeUI) Start(context.Context, ...controller.StartOption) error { return nil }
func (f *fakeUI) Close(context.Context)                                  {}
func (f *fakeUI) Wait(context.Context)                                   {}

func (f *fakeUI) DisplayGateDecision(_ context.Context, approved bool, _ string) {
	f.gateOK = &approved
}

func (f *fakeUI) DisplayCandidates(_ context.Context, candidates []m.TestCandidate, _ m.Language) error {
	f.cands = candidates
	return nil
}

func (f *fakeUI) DisplayStageInfo(_ context.Context, stage string) {
	f.stages = append(f.stages, stage)
}

func (f *fakeUI) DisplayBuildFailure(_ context.Context, step string, _ string, _ string) {
	f.failures = append(f.failures, step)
}

func (f *fakeUI) DisplayExecutionResult(_ context.Context, result m.ExecutionResult) {
	f.results = append(f.results, result)
}

func (f *fakeUI) DisplaySummary(_ context.Context, summary m.RunSummary) error {
	f.summary = &summary
	return nil
}

type stubGate struct{ err error }

func (s *stubGate) Check(Layout) error { return s.err }

type stubDiscovery struct {
	candidates []m.TestCandidate
	err        error
}

func (s *stubDiscovery) Find(Layout) ([]m.TestCandidate, error) { return s.candidates, s.err }

type stubProvisioner struct{ called bool }

func (s *stubProvisioner) Provision(context.Context, m.Language, Layout) error {
	s.called = true
	return nil
}

type stubTransformer struct{ sources, tests bool }

func (s *stubTransformer) CopySources(Layout) (TransformResult, error) {
	s.sources = true
	return TransformResult{}, nil
}

func (s *stubTransformer) CopyTests(Layout, []m.TestCandidate) (TransformResult, error) {
	s.tests = true
	return TransformResult{}, nil
}

type stubGenerator struct{ called bool }

func (s *stubGenerator) Generate(m.Language, Layout, []m.TestCandidate) error {
	s.called = true
	return nil
}

type stubBuilder struct{ err error }

func (s *stubBuilder) ConfigureAndBuild(context.Context, Layout) error { return s.err }

type stubExecutor struct {
	results []m.ExecutionResult
	called  bool
}

func (s *stubExecutor) RunAll(context.Context, Layout, time.Duration) ([]m.ExecutionResult, error) {
	s.called = true
	return s.results, nil
}

type pipelineFixture struct {
	ui          *fakeUI
	gate        *stubGate
	discovery   *stubDiscovery
	provisioner *stubProvisioner
	transformer *stubTransformer
	generator   *stubGenerator
	builder     *stubBuilder
	executor    *stubExecutor
	workflow    Workflow
}

func newPipelineFixture() *pipelineFixture {
	fs := adapter.NewLocalSourceFSAdapter()

	f := &pipelineFixture{
		ui:          &fakeUI{},
		gate:        &stubGate{},
		discovery:   &stubDiscovery{},
		provisioner: &stubProvisioner{},
		transformer: &stubTransformer{},
		generator:   &stubGenerator{},
		builder:     &stubBuilder{},
		executor:    &stubExecutor{},
	}

	f.workflow = NewPipeline(
		fs,
		adapter.NewLocalReportStore(fs),
		f.ui,
		f.gate,
		f.discovery,
		f.provisioner,
		f.transformer,
		f.generator,
		f.builder,
		f.executor,
	)

	return f
}

func TestPipelineRunHappyPath(t *testing.T) {
	repo := t.TempDir()
	f := newPipelineFixture()

	f.discovery.candidates = []m.TestCandidate{
		{Name: "test_door", File: m.Path(filepath.Join(repo, "tests", "test_door.c"))},
	}
	f.executor.results = []m.ExecutionResult{
		{Name: "test_door", Success: true, TestsRun: 3, TestsPassed: 3},
	}

	err := f.workflow.Run(context.Background(), RunArgs{RepoRoot: m.Path(repo), OutputDir: "build"})
	require.NoError(t, err)

	require.NotNil(t, f.ui.gateOK)
	assert.True(t, *f.ui.gateOK)
	assert.True(t, f.provisioner.called)
	assert.True(t, f.transformer.sources)
	assert.True(t, f.transformer.tests)
	assert.True(t, f.generator.called)
	assert.True(t, f.executor.called)

	require.NotNil(t, f.ui.summary)
	assert.Equal(t, 1, f.ui.summary.Executables)
	assert.Equal(t, 1, f.ui.summary.Passed)

	reportsDir := filepath.Join(repo, "tests", "test_reports")
	_, err = os.Stat(filepath.Join(reportsDir, "test_door_report.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(reportsDir, "summary.yaml"))
	assert.NoError(t, err)
}

func TestPipelineRunDeniedGateHalts(t *testing.T) {
	f := newPipelineFixture()
	f.gate.err = &DeniedError{Reason: "missing flag"}
	f.discovery.candidates = []m.TestCandidate{{Name: "test_door"}}

	err := f.workflow.Run(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)

	require.NotNil(t, f.ui.gateOK)
	assert.False(t, *f.ui.gateOK)
	assert.False(t, f.provisioner.called)
	assert.False(t, f.executor.called)
}

func TestPipelineRunNoCandidates(t *testing.T) {
	f := newPipelineFixture()

	err := f.workflow.Run(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})
	require.ErrorIs(t, err, ErrNoCandidates)
	assert.False(t, f.provisioner.called)
}

func TestPipelineRunBuildFailureSkipsExecution(t *testing.T) {
	f := newPipelineFixture()
	f.discovery.candidates = []m.TestCandidate{{Name: "test_door"}}
	f.builder.err = &BuildError{Step: "configure", Stderr: "missing compiler"}

	err := f.workflow.Run(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "configure", buildErr.Step)

	assert.Equal(t, []string{"configure"}, f.ui.failures)
	assert.False(t, f.executor.called)
}

func TestPipelineRunNoExecutables(t *testing.T) {
	f := newPipelineFixture()
	f.discovery.candidates = []m.TestCandidate{{Name: "test_door"}}

	err := f.workflow.Run(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})
	require.ErrorIs(t, err, ErrNoExecutables)
	assert.Nil(t, f.ui.summary)
}

func TestPipelineCheckGate(t *testing.T) {
	f := newPipelineFixture()

	err := f.workflow.CheckGate(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir())})
	require.NoError(t, err)
	require.NotNil(t, f.ui.gateOK)
	assert.True(t, *f.ui.gateOK)
}

func TestPipelineListStopsAfterDiscovery(t *testing.T) {
	f := newPipelineFixture()
	f.discovery.candidates = []m.TestCandidate{{Name: "test_door"}, {Name: "test_lamp"}}

	err := f.workflow.List(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})
	require.NoError(t, err)

	assert.Len(t, f.ui.cands, 2)
	assert.False(t, f.provisioner.called)
	assert.False(t, f.executor.called)

	var errDiscovery = errors.New("boom")
	f.discovery.err = errDiscovery
	err = f.workflow.List(context.Background(), RunArgs{RepoRoot: m.Path(t.TempDir()), OutputDir: "build"})
	require.ErrorIs(t, err, errDiscovery)
}
