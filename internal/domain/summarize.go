package domain

import (
	"strconv"
	"strings"

	"crucible.dev/pkg/crucible/pkg"
)

// Counters accumulated from runner output.
type testCounts struct {
	Run    int
	Passed int
	Failed int
}

// OutputSummarizer extracts structured pass/fail counts from free-form test
// runner output. It understands the Unity per-line markers and the trailing
// "N Tests ... M Failures" summary line; the summary line wins when it
// parses.
type OutputSummarizer interface {
	Summarize(stdout string) (run, passed, failed int)
}

type lineSummarizer struct{}

// NewOutputSummarizer constructs the line-oriented summarizer.
func NewOutputSummarizer() OutputSummarizer {
	return &lineSummarizer{}
}

func (s *lineSummarizer) Summarize(stdout string) (int, int, int) {
	var counts testCounts

	for _, line := range pkg.Lines(stdout) {
		switch {
		case strings.Contains(line, ":PASS"):
			counts.Run++
			counts.Passed++
		case strings.Contains(line, ":FAIL"):
			counts.Run++
			counts.Failed++
		case strings.Contains(line, "Tests") && strings.Contains(line, "Failures"):
			if summary, ok := parseSummaryLine(line); ok {
				counts = summary
			}
		}
	}

	return counts.Run, counts.Passed, counts.Failed
}

// parseSummaryLine parses a positional "10 Tests 2 Failures 0 Ignored"
// style line: first token is the total, third the failure count. Malformed
// lines are reported as not ok and the incremental tallies stand.
func parseSummaryLine(line string) (testCounts, bool) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return testCounts{}, false
	}

	total, err := strconv.Atoi(parts[0])
	if err != nil {
		return testCounts{}, false
	}

	failed, err := strconv.Atoi(parts[2])
	if err != nil {
		return testCounts{}, false
	}

	return testCounts{Run: total, Passed: total - failed, Failed: failed}, true
}
