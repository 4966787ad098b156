package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "crucible.dev/pkg/crucible/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	stageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the interactive program in the background. Display methods
// feed it messages until Close is called.
func (p *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	config := StartConfig{mode: ModeRun}
	for _, option := range options {
		option(&config)
	}

	p.program = tea.NewProgram(newPipelineModel(config.mode), tea.WithOutput(p.output))
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		_, _ = p.program.Run()
	}()

	return nil
}

// Close shuts the program down and waits for its goroutine to exit.
func (p *TUI) Close(ctx context.Context) {
	if p.program == nil {
		return
	}

	p.program.Quit()

	select {
	case <-ctx.Done():
	case <-p.done:
	}
}

// Wait blocks until the user quits the program.
func (p *TUI) Wait(ctx context.Context) {
	if p.done == nil {
		return
	}

	select {
	case <-ctx.Done():
	case <-p.done:
	}
}

// DisplayGateDecision shows the review gate outcome.
func (p *TUI) DisplayGateDecision(ctx context.Context, approved bool, reason string) {
	p.send(ctx, gateMsg{approved: approved, reason: reason})
}

// DisplayCandidates shows the discovered test candidates.
func (p *TUI) DisplayCandidates(ctx context.Context, candidates []m.TestCandidate, lang m.Language) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.send(ctx, candidatesMsg{candidates: candidates, lang: lang})

	return nil
}

// DisplayStageInfo marks a new pipeline stage as active.
func (p *TUI) DisplayStageInfo(ctx context.Context, stage string) {
	p.send(ctx, stageMsg(stage))
}

// DisplayBuildFailure shows a failed build step with its captured output.
func (p *TUI) DisplayBuildFailure(ctx context.Context, step string, stdout string, stderr string) {
	p.send(ctx, buildFailureMsg{step: step, stdout: stdout, stderr: stderr})
}

// DisplayExecutionResult appends one test binary's outcome.
func (p *TUI) DisplayExecutionResult(ctx context.Context, result m.ExecutionResult) {
	p.send(ctx, resultMsg(result))
}

// DisplaySummary shows the final run summary.
func (p *TUI) DisplaySummary(ctx context.Context, summary m.RunSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.send(ctx, summaryMsg(summary))

	return nil
}

func (p *TUI) send(ctx context.Context, msg tea.Msg) {
	if p.program == nil || ctx.Err() != nil {
		return
	}

	p.program.Send(msg)
}

type (
	stageMsg   string
	resultMsg  m.ExecutionResult
	summaryMsg m.RunSummary

	gateMsg struct {
		approved bool
		reason   string
	}

	candidatesMsg struct {
		candidates []m.TestCandidate
		lang       m.Language
	}

	buildFailureMsg struct {
		step   string
		stdout string
		stderr string
	}
)

// pipelineModel is the Bubble Tea model tracking pipeline progress.
type pipelineModel struct {
	mode      StartMode
	spin      spinner.Model
	completed []string
	current   string
	gateLine  string
	cands     []m.TestCandidate
	lang      m.Language
	results   []m.ExecutionResult
	failure   *buildFailureMsg
	summary   *m.RunSummary
	height    int
	offset    int
	quitting  bool
}

func newPipelineModel(mode StartMode) pipelineModel {
	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(stageStyle),
	)

	return pipelineModel{mode: mode, spin: spin}
}

func (pm pipelineModel) Init() tea.Cmd {
	return pm.spin.Tick
}

func (pm pipelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pm.height = msg.Height
		return pm, nil

	case tea.KeyMsg:
		return pm.handleKeyPress(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spin, cmd = pm.spin.Update(msg)

		return pm, cmd

	case stageMsg:
		if pm.current != "" {
			pm.completed = append(pm.completed, pm.current)
		}

		pm.current = string(msg)

		return pm, nil

	case gateMsg:
		if msg.approved {
			pm.gateLine = passStyle.Render("✅ Manual review approved.")
		} else {
			pm.gateLine = failStyle.Render(msg.reason)
		}

		return pm, nil

	case candidatesMsg:
		pm.cands = msg.candidates
		pm.lang = msg.lang

		if pm.mode == ModeList {
			// Listing is a one-shot view.
			pm.quitting = true
			return pm, tea.Quit
		}

		return pm, nil

	case buildFailureMsg:
		failure := msg
		pm.failure = &failure
		pm.current = ""

		return pm, nil

	case resultMsg:
		pm.results = append(pm.results, m.ExecutionResult(msg))
		return pm, nil

	case summaryMsg:
		summary := m.RunSummary(msg)
		pm.summary = &summary
		pm.current = ""

		return pm, nil
	}

	return pm, nil
}

func (pm pipelineModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		pm.quitting = true
		return pm, tea.Quit

	case "down", "j":
		pm.offset++
		if max := pm.maxOffset(); pm.offset > max {
			pm.offset = max
		}

		return pm, nil

	case "up", "k":
		pm.offset--
		if pm.offset < 0 {
			pm.offset = 0
		}

		return pm, nil

	case "g", "home":
		pm.offset = 0
		return pm, nil

	case "G", "end":
		pm.offset = pm.maxOffset()
		return pm, nil
	}

	return pm, nil
}

func (pm pipelineModel) itemsPerPage() int {
	if pm.height == 0 {
		return 10
	}

	// Header, gate line, stage line, summary block and help line.
	reserved := 8

	available := pm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (pm pipelineModel) maxOffset() int {
	max := len(pm.contentLines()) - pm.itemsPerPage()
	if max < 0 {
		return 0
	}

	return max
}

func (pm pipelineModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Crucible - Generated Test Validation"))
	b.WriteString("\n\n")

	if pm.gateLine != "" {
		b.WriteString("  " + pm.gateLine + "\n")
	}

	for _, stage := range pm.completed {
		b.WriteString("  " + faintStyle.Render("✓ "+stage) + "\n")
	}

	if pm.current != "" && !pm.quitting {
		fmt.Fprintf(&b, "  %s%s\n", pm.spin.View(), stageStyle.Render(pm.current))
	}

	lines := pm.contentLines()

	start := pm.offset
	if start > len(lines) {
		start = len(lines)
	}

	end := start + pm.itemsPerPage()
	if end > len(lines) {
		end = len(lines)
	}

	for _, line := range lines[start:end] {
		b.WriteString(line + "\n")
	}

	if pm.summary != nil {
		fmt.Fprintf(&b, "\n  Executables: %d | Passed: %d | Failed: %d\n",
			pm.summary.Executables, pm.summary.Passed, pm.summary.Failed)
	}

	if !pm.quitting && (pm.summary != nil || pm.failure != nil) {
		b.WriteString(faintStyle.Render("  ↑/k: up | ↓/j: down | q: quit") + "\n")
	}

	return b.String()
}

// contentLines renders the scrollable middle section.
func (pm pipelineModel) contentLines() []string {
	var lines []string

	if len(pm.cands) > 0 {
		lines = append(lines, fmt.Sprintf("  🔎 %d candidate(s), language %s:", len(pm.cands), pm.lang))
		for _, candidate := range pm.cands {
			lines = append(lines, "    "+candidate.Name+"  "+faintStyle.Render(string(candidate.File)))
		}
	}

	if pm.failure != nil {
		lines = append(lines, failStyle.Render(fmt.Sprintf("  ✗ build step %q failed", pm.failure.step)))
		for _, out := range []string{pm.failure.stdout, pm.failure.stderr} {
			for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
				if line != "" {
					lines = append(lines, "    "+line)
				}
			}
		}
	}

	for _, result := range pm.results {
		icon := passStyle.Render("✓")
		if !result.Success {
			icon = failStyle.Render("✗")
		}

		lines = append(lines, fmt.Sprintf("  %s %s (%d run, %d passed, %d failed)",
			icon, result.Name, result.TestsRun, result.TestsPassed, result.TestsFailed))
	}

	return lines
}
