// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLineEndings(t *testing.T) {
	assert.Equal(t, "a\nb\nc", NormalizeLineEndings("a\r\nb\r\nc"))
	assert.Equal(t, "a\nb", NormalizeLineEndings("a\nb"))
	assert.Equal(t, "", NormalizeLineEndings(""))
}

func TestNormalizeWhitespace_Flat(t *testing.T) {
	got := NormalizeWhitespace("  foo \t bar\n\n  baz  ", false)
	assert.Equal(t, "foo bar baz", got)
}

func TestNormalizeWhitespace_PreservesLines(t *testing.T) {
	got := NormalizeWhitespace("  foo \t bar\n  baz  qux ", true)
	assert.Equal(t, "foo bar\nbaz qux", got)
}

func TestNormalizeWhitespace_Idempotent(t *testing.T) {
	inputs := []string{
		"  a \t b\n c ",
		"already clean",
		"\n\n\n",
		"mixed\t\ttabs\n  and spaces",
	}
	for _, in := range inputs {
		for _, preserve := range []bool{true, false} {
			once := NormalizeWhitespace(in, preserve)
			twice := NormalizeWhitespace(once, preserve)
			assert.Equal(t, once, twice, "input %q preserve=%v", in, preserve)
		}
	}
}

func TestExtractDelimitedContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "triple equals fence",
			in:   "noise before\n===\nfunc main() {}\n===\nnoise after",
			want: "func main() {}",
		},
		{
			name: "backtick fence with language",
			in:   "```go\npackage main\n```",
			want: "package main",
		},
		{
			name: "triple dash fence",
			in:   "---\nsome: yaml\n---",
			want: "some: yaml",
		},
		{
			name: "comment fence",
			in:   "<!--\nhidden content\n-->",
			want: "hidden content",
		},
		{
			name: "quote fence",
			in:   "\"\"\"\ndocstring text\n\"\"\"",
			want: "docstring text",
		},
		{
			name: "angle fence",
			in:   "<<<\nliteral\n>>>",
			want: "literal",
		},
		{
			name: "longer equals run",
			in:   "=====\ninner\n=====",
			want: "inner",
		},
		{
			name: "line scan pair of mixed tokens",
			in:   "prose\n~~~~\nbody line\n~~~~\ntail",
			want: "body line",
		},
		{
			name: "no fence returns input",
			in:   "plain text   \n",
			want: "plain text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDelimitedContent(tt.in))
		})
	}
}

func TestIndent(t *testing.T) {
	got := Indent("a\n  b\n\nc", 4)
	assert.Equal(t, "    a\n    b\n\n    c", got)
	assert.Equal(t, "a", Indent("a", 0))
}

func TestLeadingSpaces(t *testing.T) {
	assert.Equal(t, 0, LeadingSpaces("x"))
	assert.Equal(t, 4, LeadingSpaces("    x"))
	assert.Equal(t, 2, LeadingSpaces("\t\tx"))
}
