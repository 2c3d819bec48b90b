// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package textutil

import (
	"regexp"
	"strings"
)

// fencePatterns are the recognized bracketing conventions, in priority
// order. LLMs wrap literal code and search text in ad-hoc fences to keep
// it apart from the surrounding markup, and the exact style drifts between
// responses, so extraction has to be maximally permissive.
var fencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?ms)^[ \t]*={3,}[ \t]*\n(.*?)\n[ \t]*={3,}[ \t]*$`),
	regexp.MustCompile("(?ms)^[ \t]*```[a-zA-Z0-9_+-]*[ \t]*\n(.*?)\n[ \t]*```[ \t]*$"),
	regexp.MustCompile(`(?ms)^[ \t]*-{3,}[ \t]*\n(.*?)\n[ \t]*-{3,}[ \t]*$`),
	regexp.MustCompile(`(?ms)^[ \t]*<!--[ \t]*\n(.*?)\n[ \t]*-->[ \t]*$`),
	regexp.MustCompile(`(?ms)^[ \t]*"""[ \t]*\n(.*?)\n[ \t]*"""[ \t]*$`),
	regexp.MustCompile(`(?ms)^[ \t]*<{3,}[ \t]*\n(.*?)\n[ \t]*>{3,}[ \t]*$`),
}

// delimiterTokens are accepted by the line-scan fallback: a line consisting
// solely of one of these opens or closes a literal section.
var delimiterTokens = map[string]bool{
	"===": true, "```": true, "---": true, `"""`: true,
	"<<<": true, ">>>": true, "~~~": true,
}

// ExtractDelimitedContent returns the literal content wrapped by the first
// recognized fence convention inside text. If no convention matches, it
// falls back to scanning for the first pair of lines that each consist
// solely of a known delimiter token. When nothing is recognized the input
// is returned unchanged (minus trailing whitespace).
func ExtractDelimitedContent(text string) string {
	for _, re := range fencePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimRight(m[1], " \t\n")
		}
	}

	lines := strings.Split(text, "\n")
	open := -1
	for i, line := range lines {
		if !isDelimiterLine(line) {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		return strings.TrimRight(strings.Join(lines[open+1:i], "\n"), " \t\n")
	}

	return strings.TrimRight(text, " \t\n")
}

func isDelimiterLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if delimiterTokens[trimmed] {
		return true
	}
	// Longer runs of the same fence character also count (e.g. "=====").
	if len(trimmed) > 3 {
		c := trimmed[0]
		if c != '=' && c != '-' && c != '`' && c != '~' {
			return false
		}
		for i := 1; i < len(trimmed); i++ {
			if trimmed[i] != c {
				return false
			}
		}
		return true
	}
	return false
}
