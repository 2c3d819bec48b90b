// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the structs shared between the change extractor,
// the fuzzy matcher, and the applier.
package types

// Operation identifies what a Change does to its target file.
type Operation int

const (
	OpCreate Operation = iota // Write a new file
	OpUpdate                  // Overwrite an existing file (or create it)
	OpDelete                  // Remove a file
	OpModify                  // Search/replace inside an existing file
)

func (o Operation) String() string {
	switch o {
	case OpCreate:
		return "CREATE"
	case OpUpdate:
		return "UPDATE"
	case OpDelete:
		return "DELETE"
	case OpModify:
		return "MODIFY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the operation by name, so JSON and YAML encoders
// emit "CREATE" rather than an index.
func (o Operation) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Change is one declared file edit extracted from LLM output. It is built
// once by the extractor and never mutated afterwards.
//
// Content and Search distinguish "absent" (nil) from "present but empty":
// an empty Content is a legal full-file body, a nil Content on CREATE or
// UPDATE is an error at apply time.
type Change struct {
	Operation Operation `json:"operation" yaml:"operation"`
	Path      string    `json:"path" yaml:"path"`                           // Repository-relative (or absolute) target path
	Content   *string   `json:"content,omitempty" yaml:"content,omitempty"` // Full body for CREATE/UPDATE, replacement for MODIFY
	Search    *string   `json:"search,omitempty" yaml:"search,omitempty"`   // Pattern to locate, MODIFY only
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"` // Informational description, may be empty
}

// HasContent reports whether a content value was supplied, empty or not.
func (c Change) HasContent() bool { return c.Content != nil }

// HasSearch reports whether a search pattern was supplied.
func (c Change) HasSearch() bool { return c.Search != nil }

// ContentText returns the content value, or "" when absent.
func (c Change) ContentText() string {
	if c.Content == nil {
		return ""
	}
	return *c.Content
}

// SearchText returns the search pattern, or "" when absent.
func (c Change) SearchText() string {
	if c.Search == nil {
		return ""
	}
	return *c.Search
}

// MatchResult is the fuzzy matcher's verdict for one search pattern.
// Found is false when no candidate reached the minimum similarity floor,
// in which case Text is empty and Similarity is 0.
//
// Text is the exact span the pattern corresponds to; replacement and
// occurrence counting operate on it alone. Context widens it with
// surrounding lines for display purposes and must never be substituted,
// since it covers text the pattern never mentioned.
type MatchResult struct {
	Text       string  // Span of the file matching the pattern
	Context    string  // Text plus surrounding lines, for diagnostics
	Similarity float64 // 1.0 for an exact substring hit, else a computed ratio
	Found      bool
}

// ApplyResult records the outcome of applying a single Change. Exactly one
// is produced per input Change, in input order.
type ApplyResult struct {
	Change  Change `json:"change"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"` // Populated only on failure
}

// Preview describes what applying a Change would do, without touching disk.
type Preview struct {
	Operation  string  `json:"operation"`
	Path       string  `json:"path"`
	Exists     bool    `json:"exists"`
	Status     string  `json:"status"`
	Warning    string  `json:"warning,omitempty"`
	Summary    string  `json:"summary,omitempty"`
	MatchFound bool    `json:"match_found"`          // MODIFY only
	Similarity float64 `json:"similarity,omitempty"` // MODIFY only
	Diff       string  `json:"diff,omitempty"`       // Rendered when both sides are known
}

// StringPtr is a convenience for building Change literals.
func StringPtr(s string) *string { return &s }
