package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// entryPointName is the program entry symbol that collides with the test
// runner's own entry point.
const entryPointName = "main"

// renamedEntryPoint is the alternate symbol production code is linked under.
const renamedEntryPoint = "app_main"

// SourceScanner is the heuristic pattern matcher behind the transformer.
// These are best-effort regex scans, not a C parser; they may misfire on
// unusual formatting, and callers treat failures as soft.
type SourceScanner interface {
	// RenameEntryPoint rewrites the entry point definition to the alternate
	// name. Reports whether a rename happened. Idempotent.
	RenameEntryPoint(content string) (string, bool)

	// SynthesizeHeader builds a forward-declaration header for the function
	// definitions found in content, skipping the entry point. Reports false
	// when no declarations could be extracted.
	SynthesizeHeader(sourceName, content string) (string, bool)

	// RewriteEntryCalls rewrites calls to the entry point to the alternate
	// name, leaving definitions (matches preceded by a return-type keyword)
	// untouched. Reports whether anything changed.
	RewriteEntryCalls(content string) (string, bool)
}

type regexScanner struct {
	entryDef *regexp.Regexp
	funcDef  *regexp.Regexp
	entryRef *regexp.Regexp
}

// NewSourceScanner constructs the regex-backed SourceScanner.
func NewSourceScanner() SourceScanner {
	return &regexScanner{
		entryDef: regexp.MustCompile(`\bint\s+` + entryPointName + `\s*\(`),
		funcDef:  regexp.MustCompile(`(\w+\s+(\w+)\s*\([^)]*\))\s*\{`),
		entryRef: regexp.MustCompile(`\b` + entryPointName + `\s*\(`),
	}
}

func (s *regexScanner) RenameEntryPoint(content string) (string, bool) {
	if !strings.Contains(content, "int "+entryPointName) {
		return content, false
	}

	renamed := s.entryDef.ReplaceAllString(content, "int "+renamedEntryPoint+"(")

	return renamed, renamed != content
}

func (s *regexScanner) SynthesizeHeader(sourceName, content string) (string, bool) {
	matches := s.funcDef.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", false
	}

	var b strings.Builder

	fmt.Fprintf(&b, "/* Auto-generated header for %s */\n", sourceName)
	b.WriteString("#pragma once\n\n")
	b.WriteString("#include <stdint.h>\n")
	b.WriteString("#include <stdbool.h>\n")
	b.WriteString("#include <stdlib.h>\n\n")

	declared := 0

	for _, match := range matches {
		decl, name := match[1], match[2]
		if name == entryPointName {
			continue
		}

		fmt.Fprintf(&b, "%s;\n", decl)

		declared++
	}

	if declared == 0 {
		return "", false
	}

	return b.String(), true
}

// RewriteEntryCalls implements the definition guard without lookbehind:
// each `main(` match is skipped when the text immediately before it ends in
// a return-type keyword, which signals a definition or declaration rather
// than a call.
func (s *regexScanner) RewriteEntryCalls(content string) (string, bool) {
	locations := s.entryRef.FindAllStringIndex(content, -1)
	if len(locations) == 0 {
		return content, false
	}

	var b strings.Builder

	last := 0
	changed := false

	for _, loc := range locations {
		start, end := loc[0], loc[1]

		if isEntryDefinition(content[:start]) {
			continue
		}

		b.WriteString(content[last:start])
		b.WriteString(renamedEntryPoint + "(")

		last = end
		changed = true
	}

	if !changed {
		return content, false
	}

	b.WriteString(content[last:])

	return b.String(), true
}

var definitionGuard = regexp.MustCompile(`\b(?:int|void)\s+$`)

func isEntryDefinition(prefix string) bool {
	return definitionGuard.MatchString(prefix)
}
