// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package textutil holds the text normalization and fence-extraction
// helpers used by both the extractor and the matcher.
package textutil

import "strings"

// NormalizeLineEndings converts CRLF line endings to LF.
func NormalizeLineEndings(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// NormalizeWhitespace normalizes whitespace for loose comparisons.
//
// With preserveStructure false, every whitespace run (newlines included)
// collapses to a single space and the ends are trimmed. This answers
// "do these match ignoring formatting".
//
// With preserveStructure true, only intra-line whitespace is collapsed and
// line breaks survive, for comparisons that still care about line boundaries.
func NormalizeWhitespace(text string, preserveStructure bool) string {
	if !preserveStructure {
		return strings.Join(strings.Fields(text), " ")
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.Join(lines, "\n")
}

// LeadingSpaces returns the number of leading space/tab characters of line,
// counting tabs as single characters.
func LeadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// Indent prefixes every non-blank line of text with n spaces.
func Indent(text string, n int) string {
	if n <= 0 {
		return text
	}
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
