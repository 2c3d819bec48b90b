// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package match

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Ratio computes the similarity ratio between two strings using the
// go-diff library's Levenshtein distance. Returns a value in [0, 1].
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LineRatio computes the matching-blocks ratio between two line lists:
// twice the number of lines on the longest common subsequence, over the
// total line count. This is the structural analogue of Ratio, insensitive
// to edits inside individual lines but sensitive to line order.
func LineRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	return 2.0 * float64(lcsLen(a, b)) / float64(len(a)+len(b))
}

// lcsLen returns the length of the longest common subsequence of two
// line lists, using a two-row DP table.
func lcsLen(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}
