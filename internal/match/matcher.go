// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package match locates the best candidate span for a search pattern
// inside file text, using progressively looser strategies. It reports a
// single best candidate with a confidence score; disambiguation between
// equally good occurrences is the applier's job.
package match

import (
	"strings"

	"github.com/petar-djukic/changeset/internal/textutil"
	"github.com/petar-djukic/changeset/pkg/types"
)

const (
	// MinSimilarity is the floor below which a candidate is not reported.
	MinSimilarity = 0.70

	// lineMatchThreshold is the per-line floor for the reconstruction stage.
	lineMatchThreshold = 0.80

	// lineCoverage is the fraction of search lines that must find a partner
	// for the reconstruction stage to produce a span.
	lineCoverage = 0.70

	// contextPad is how many extra lines of surrounding context a
	// line-range match reports alongside the core span, on each side.
	contextPad = 2

	chunkSize = 50
)

// FindBestMatch finds the span of fileText that best corresponds to
// pattern. Stages, each tried only when the previous found nothing:
// exact substring, whitespace-normalized sliding window, chunked
// whole-text comparison, and line-by-line reconstruction.
func FindBestMatch(pattern, fileText string) types.MatchResult {
	if pattern == "" || fileText == "" {
		return types.MatchResult{}
	}

	if strings.Contains(fileText, pattern) {
		return types.MatchResult{Text: pattern, Context: pattern, Similarity: 1.0, Found: true}
	}

	if r, ok := windowMatch(pattern, fileText); ok {
		return r
	}
	if r, ok := chunkMatch(pattern, fileText); ok {
		return r
	}
	if r, ok := reconstructMatch(pattern, fileText); ok {
		return r
	}

	return types.MatchResult{}
}

// windowMatch normalizes both texts preserving line structure, slides a
// window the length of the pattern over the file lines, and scores each
// window with the matching-blocks line ratio. The winning line range is
// mapped back onto the original file lines; the padded variant goes into
// Context only, so substitution never touches lines outside the window.
func windowMatch(pattern, fileText string) (types.MatchResult, bool) {
	normPattern := textutil.NormalizeWhitespace(pattern, true)
	normFile := textutil.NormalizeWhitespace(fileText, true)

	patternLines := strings.Split(normPattern, "\n")
	fileLines := strings.Split(normFile, "\n")
	origLines := strings.Split(fileText, "\n")

	n := len(patternLines)
	if n == 0 || n > len(fileLines) {
		return types.MatchResult{}, false
	}

	bestScore := 0.0
	bestStart := -1
	for i := 0; i+n <= len(fileLines); i++ {
		score := LineRatio(fileLines[i:i+n], patternLines)
		if score > bestScore {
			bestScore = score
			bestStart = i
		}
	}

	if bestStart < 0 || bestScore <= MinSimilarity {
		return types.MatchResult{}, false
	}

	lo, hi := padRange(bestStart, bestStart+n, len(origLines))
	return types.MatchResult{
		Text:       strings.Join(origLines[bestStart:bestStart+n], "\n"),
		Context:    strings.Join(origLines[lo:hi], "\n"),
		Similarity: bestScore,
		Found:      true,
	}, true
}

// chunkMatch compares the whole pattern against the whole file; when the
// overall ratio clears the floor, it scans overlapping fixed-size chunks
// and returns the best one that also clears the floor.
func chunkMatch(pattern, fileText string) (types.MatchResult, bool) {
	if Ratio(pattern, fileText) <= MinSimilarity {
		return types.MatchResult{}, false
	}

	step := chunkSize / 2
	bestScore := 0.0
	bestChunk := ""
	for i := 0; i < len(fileText); i += step {
		end := i + chunkSize
		if end > len(fileText) {
			end = len(fileText)
		}
		chunk := fileText[i:end]
		score := Ratio(chunk, pattern)
		if score > bestScore {
			bestScore = score
			bestChunk = chunk
		}
		if end == len(fileText) {
			break
		}
	}

	if bestScore <= MinSimilarity {
		return types.MatchResult{}, false
	}
	return types.MatchResult{Text: bestChunk, Context: bestChunk, Similarity: bestScore, Found: true}, true
}

// reconstructMatch pairs each non-blank pattern line with its best-scoring
// non-blank file line. When enough pattern lines find a partner, the span
// covering all matched file lines is returned with the mean similarity.
func reconstructMatch(pattern, fileText string) (types.MatchResult, bool) {
	patternLines := strings.Split(pattern, "\n")
	fileLines := strings.Split(fileText, "\n")

	total := 0
	matched := 0
	simSum := 0.0
	minIdx, maxIdx := len(fileLines), -1

	for _, pl := range patternLines {
		pl = strings.TrimSpace(pl)
		if pl == "" {
			continue
		}
		total++

		bestScore := 0.0
		bestIdx := -1
		for i, fl := range fileLines {
			fl = strings.TrimSpace(fl)
			if fl == "" {
				continue
			}
			if score := Ratio(pl, fl); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}

		if bestIdx >= 0 && bestScore > lineMatchThreshold {
			matched++
			simSum += bestScore
			if bestIdx < minIdx {
				minIdx = bestIdx
			}
			if bestIdx > maxIdx {
				maxIdx = bestIdx
			}
		}
	}

	if total == 0 || matched == 0 || float64(matched)/float64(total) < lineCoverage {
		return types.MatchResult{}, false
	}

	lo, hi := padRange(minIdx, maxIdx+1, len(fileLines))
	return types.MatchResult{
		Text:       strings.Join(fileLines[minIdx:maxIdx+1], "\n"),
		Context:    strings.Join(fileLines[lo:hi], "\n"),
		Similarity: simSum / float64(matched),
		Found:      true,
	}, true
}

// padRange widens [lo, hi) by contextPad lines on each side, clamped to
// [0, n).
func padRange(lo, hi, n int) (int, int) {
	lo -= contextPad
	if lo < 0 {
		lo = 0
	}
	hi += contextPad
	if hi > n {
		hi = n
	}
	return lo, hi
}
