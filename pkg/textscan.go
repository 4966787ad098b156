// Package pkg is a package that provides utilities for crucible.
package pkg

import "strings"

// NormalizeNewlines converts CRLF line endings to LF so text comparisons and
// line scans behave identically across platforms.
func NormalizeNewlines(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// Section extracts the bullet items of a markdown section. The section starts
// at the line exactly matching header (after trimming) and ends at the next
// line starting with "## ". Only lines starting with "-" are considered
// items; empty items and the literal "(none)" are dropped. Backslashes in
// items are normalized to forward slashes.
func Section(text, header string) []string {
	lines := strings.Split(NormalizeNewlines(text), "\n")

	var items []string

	inSection := false

	for _, line := range lines {
		if strings.TrimSpace(line) == header {
			inSection = true
			continue
		}

		if inSection && strings.HasPrefix(line, "## ") {
			break
		}

		if !inSection {
			continue
		}

		stripped := strings.TrimSpace(line)
		if !strings.HasPrefix(stripped, "-") {
			continue
		}

		item := strings.TrimSpace(strings.TrimLeft(stripped, "-"))
		if item == "" || item == "(none)" {
			continue
		}

		items = append(items, strings.ReplaceAll(item, "\\", "/"))
	}

	return items
}

// Lines splits text into trimmed lines after newline normalization.
func Lines(text string) []string {
	raw := strings.Split(NormalizeNewlines(text), "\n")

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, strings.TrimSpace(line))
	}

	return lines
}
