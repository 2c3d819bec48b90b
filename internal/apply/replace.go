// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package apply

import (
	"errors"
	"fmt"
	"strings"

	"github.com/petar-djukic/changeset/internal/match"
	"github.com/petar-djukic/changeset/internal/textutil"
)

// Replacement policy thresholds. Near-exact matches replace directly;
// mid-confidence matches must be unique or win a context-window vote by a
// clear margin; anything below the floor gets one last formatting-blind
// containment check before failing.
const (
	nearExactThreshold = 0.98
	directThreshold    = 0.80
	contextMargin      = 0.10
)

var errSearchNotFound = errors.New("search pattern not found")

func isNotFound(err error) bool { return errors.Is(err, errSearchNotFound) }

// replaceInText locates search inside fileText and substitutes
// replacement, according to the confidence-tier policy.
func replaceInText(fileText, search, replacement string) (string, error) {
	m := match.FindBestMatch(search, fileText)

	switch {
	case m.Found && m.Similarity >= nearExactThreshold:
		// Near-exact: every occurrence is the same text the caller wrote.
		return strings.ReplaceAll(fileText, m.Text, replacement), nil

	case m.Found && m.Similarity >= directThreshold:
		if strings.Count(fileText, m.Text) == 1 {
			return strings.Replace(fileText, m.Text, replacement, 1), nil
		}
		if out, ok := contextReplace(fileText, m.Text, replacement); ok {
			return out, nil
		}
		return "", fmt.Errorf("ambiguous match: search pattern corresponds to multiple locations (similarity %.2f)", m.Similarity)

	case m.Found:
		if out, ok := contextReplace(fileText, m.Text, replacement); ok {
			return out, nil
		}
		return "", fmt.Errorf("low-confidence match (similarity %.2f), refusing to guess", m.Similarity)

	default:
		// Formatting-blind containment: the pattern may still be present
		// with mangled whitespace.
		normSearch := textutil.NormalizeWhitespace(search, false)
		normFile := textutil.NormalizeWhitespace(fileText, false)
		if normSearch != "" && strings.Contains(normFile, normSearch) {
			if out, ok := reconstructReplace(fileText, search, replacement); ok {
				return out, nil
			}
		}
		return "", errSearchNotFound
	}
}

// contextReplace scores every line window of the matched text's length
// against the matched text and commits only when a single window wins by
// more than the margin over the runner-up.
func contextReplace(fileText, matched, replacement string) (string, bool) {
	lines := strings.Split(fileText, "\n")
	n := len(strings.Split(matched, "\n"))
	if n == 0 || n > len(lines) {
		return "", false
	}

	best, second := -1.0, -1.0
	bestIdx := -1
	for i := 0; i+n <= len(lines); i++ {
		window := strings.Join(lines[i:i+n], "\n")
		score := match.Ratio(window, matched)
		if score > best {
			second = best
			best = score
			bestIdx = i
		} else if score > second {
			second = score
		}
	}

	if bestIdx < 0 || best-second <= contextMargin {
		return "", false
	}

	out := make([]string, 0, len(lines))
	out = append(out, lines[:bestIdx]...)
	out = append(out, strings.Split(replacement, "\n")...)
	out = append(out, lines[bestIdx+n:]...)
	return strings.Join(out, "\n"), true
}

// reconstructReplace pairs search lines with file lines, replaces the
// covered span, and re-indents the replacement with the mean leading-space
// count of the matched lines.
func reconstructReplace(fileText, search, replacement string) (string, bool) {
	fileLines := strings.Split(fileText, "\n")
	searchLines := strings.Split(search, "\n")

	total, matched := 0, 0
	indentSum := 0
	minIdx, maxIdx := len(fileLines), -1

	for _, sl := range searchLines {
		sl = strings.TrimSpace(sl)
		if sl == "" {
			continue
		}
		total++

		bestScore := 0.0
		bestIdx := -1
		for i, fl := range fileLines {
			t := strings.TrimSpace(fl)
			if t == "" {
				continue
			}
			if score := match.Ratio(sl, t); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestScore > 0.80 {
			matched++
			indentSum += textutil.LeadingSpaces(fileLines[bestIdx])
			if bestIdx < minIdx {
				minIdx = bestIdx
			}
			if bestIdx > maxIdx {
				maxIdx = bestIdx
			}
		}
	}

	if total == 0 || matched == 0 || float64(matched)/float64(total) < 0.70 {
		return "", false
	}

	indented := textutil.Indent(replacement, indentSum/matched)

	out := make([]string, 0, len(fileLines))
	out = append(out, fileLines[:minIdx]...)
	out = append(out, strings.Split(indented, "\n")...)
	out = append(out, fileLines[maxIdx+1:]...)
	return strings.Join(out, "\n"), true
}
