// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"regexp"
	"strings"

	"github.com/petar-djukic/changeset/internal/textutil"
)

var (
	fencedBlockRe = regexp.MustCompile("(?s)```(?:xml|html)?[ \t]*\n(.*?)\n[ \t]*```")

	// Documentation-only sections that never carry edits.
	planSectionRe = regexp.MustCompile(`(?is)<plan\b[^>]*>.*?</plan>`)
	// Inline only: multi-line comments can be a content fence convention
	// and must survive until body extraction.
	xmlCommentRe = regexp.MustCompile(`<!--[^\n]*?-->`)

	// Instruction wrappers that demonstrate the expected format to the
	// LLM. Any edit markup inside them is an example, not a real change.
	instructionRe = regexp.MustCompile(`(?is)<(formatting_instructions|instructions|example|examples)\b[^>]*>.*?</(?:formatting_instructions|instructions|example|examples)>`)
)

// containerAnchor marks the start of real edit markup. When an input
// carries a long instructions block, the genuine payload is the last
// container in the text.
const containerAnchor = "<code_changes"

// preprocess runs the lossy cleanup passes that precede any structural
// parsing: line-ending normalization, markdown unwrapping, instruction
// and comment stripping, and root wrapping for bare sibling edit blocks.
func preprocess(raw string) string {
	text := textutil.NormalizeLineEndings(raw)
	text = unwrapMarkdown(text)
	text = stripNoise(text)
	return wrapRoot(text)
}

// unwrapMarkdown replaces the input with the body of its first fenced
// code block, when the input is not already markup and the block holds
// markup.
func unwrapMarkdown(text string) string {
	if strings.HasPrefix(strings.TrimLeft(text, " \t\n"), "<") {
		return text
	}
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		if strings.Contains(m[1], "<") {
			return m[1]
		}
	}
	return text
}

// stripNoise removes sections that are documentation rather than edits:
// instruction/example wrappers, plan sections, and comments. When the
// distinctive container anchor appears after an instructions block, slice
// from its last occurrence, which skips every demonstration copy.
func stripNoise(text string) string {
	text = instructionRe.ReplaceAllString(text, "")
	text = planSectionRe.ReplaceAllString(text, "")
	text = xmlCommentRe.ReplaceAllString(text, "")

	if idx := strings.LastIndex(text, containerAnchor); idx > 0 {
		text = text[idx:]
	}
	return strings.TrimSpace(text)
}

// wrapRoot encloses a bare sequence of sibling edit blocks in a synthetic
// root so tree parsing can proceed.
func wrapRoot(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "<file") || strings.HasPrefix(trimmed, "<change") ||
		strings.HasPrefix(trimmed, "<edit") {
		return "<changes_root>\n" + text + "\n</changes_root>"
	}
	return text
}
