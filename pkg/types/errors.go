// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// StrategyAttempt records why one parsing strategy produced no changes.
type StrategyAttempt struct {
	Strategy string // Strategy name, e.g. "batch-container"
	Reason   string // What went wrong
}

// ParseError is returned when every extraction strategy came up empty.
// It enumerates the attempts so a new malformed input can be debugged
// from the error message alone.
type ParseError struct {
	Attempts []StrategyAttempt
}

func (e *ParseError) Error() string {
	if len(e.Attempts) == 0 {
		return "no changes found in input"
	}
	var b strings.Builder
	b.WriteString("no changes found in input; strategies attempted:")
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, " [%s: %s]", a.Strategy, a.Reason)
	}
	return b.String()
}

// ValidationError reports a structurally incomplete Change built from
// loose data, such as a missing path.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid change: %s: %s", e.Field, e.Message)
}

// NewChange validates loose extracted fields into a Change. Only the path
// is hard-required; a MODIFY without a search pattern is accepted here and
// fails later at apply time.
func NewChange(op Operation, path string, content, search *string, summary string) (Change, error) {
	if strings.TrimSpace(path) == "" {
		return Change{}, &ValidationError{Field: "path", Message: "must not be empty"}
	}
	return Change{
		Operation: op,
		Path:      strings.TrimSpace(path),
		Content:   content,
		Search:    search,
		Summary:   summary,
	}, nil
}
