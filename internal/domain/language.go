package domain

import (
	"path/filepath"
	"strings"

	m "crucible.dev/pkg/crucible/internal/model"
)

// DetectLanguage classifies a candidate set as C or C++. An explicit
// override wins. Mixed sets classify as C++ because a C++ toolchain can
// host both; empty sets default to C++ as well. Pure function, no I/O.
func DetectLanguage(candidates []m.TestCandidate, override m.Language) m.Language {
	if override != m.LangAuto && override != "" {
		return override
	}

	hasC := false

	for _, candidate := range candidates {
		ext := strings.ToLower(filepath.Ext(string(candidate.File)))

		for _, cppExt := range m.CPPExtensions {
			if ext == cppExt {
				return m.LangCPP
			}
		}

		for _, cExt := range m.CExtensions {
			if ext == cExt {
				hasC = true
			}
		}
	}

	if hasC {
		return m.LangC
	}

	return m.LangCPP
}
