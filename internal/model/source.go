// Package model defines the data structures for the test pipeline.
package model

// Path represents a file system path.
type Path string

// Language identifies which native toolchain dialect a run targets.
type Language string

const (
	// LangC selects the C dialect backed by the Unity micro-framework.
	LangC Language = "c"
	// LangCPP selects the C++ dialect backed by the Google Test shim.
	LangCPP Language = "cpp"
	// LangAuto defers dialect selection to extension-based detection.
	LangAuto Language = "auto"
)

// CExtensions lists recognized C source extensions.
var CExtensions = []string{".c"}

// CPPExtensions lists recognized C++ source extensions.
var CPPExtensions = []string{".cpp", ".cc", ".cxx", ".c++"}

// CandidateExtensions is the probe order used when resolving a compilation
// verdict to a test file on disk. The C extension is probed first.
var CandidateExtensions = []string{".c", ".cpp", ".cc", ".cxx", ".c++"}

// TestCandidate is a test source file with a positive compilation verdict.
// Discovery creates candidates; downstream stages only read them.
type TestCandidate struct {
	Name       string // base name without extension
	File       Path   // resolved test source on disk
	ReportFile Path   // the compiles_yes verdict that produced it
}
