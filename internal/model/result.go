package model

// TimeoutReturnCode is the sentinel return code recorded when a test binary
// is killed by the wall-clock timeout or could not be launched at all.
const TimeoutReturnCode = -1

// ExecutionResult holds the outcome of running one test binary. It is
// immutable once produced; the summarizer fills the counters before the
// result is published.
type ExecutionResult struct {
	Name        string `yaml:"name"`
	Success     bool   `yaml:"success"`
	ReturnCode  int    `yaml:"returncode"`
	Output      string `yaml:"-"`
	Errors      string `yaml:"-"`
	TestsRun    int    `yaml:"tests_run"`
	TestsPassed int    `yaml:"tests_passed"`
	TestsFailed int    `yaml:"tests_failed"`
}

// RunSummary aggregates a whole pipeline invocation for the summary file.
type RunSummary struct {
	Language    Language          `yaml:"language"`
	Candidates  int               `yaml:"candidates"`
	Executables int               `yaml:"executables"`
	Passed      int               `yaml:"passed"`
	Failed      int               `yaml:"failed"`
	Results     []ExecutionResult `yaml:"results"`
}

// Summarize builds a RunSummary from per-binary results.
func Summarize(lang Language, candidates int, results []ExecutionResult) RunSummary {
	summary := RunSummary{
		Language:    lang,
		Candidates:  candidates,
		Executables: len(results),
		Results:     results,
	}

	for _, result := range results {
		if result.Success {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return summary
}
