// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"strings"

	"github.com/petar-djukic/changeset/internal/textutil"
	"github.com/petar-djukic/changeset/pkg/types"
)

// Candidate field names per logical field, in priority order. The format
// went through several spellings over time and the extractor accepts all
// of them, attribute or child element alike.
var (
	operationFields = []string{"action", "operation", "file_operation", "type", "op"}
	pathFields      = []string{"path", "file_path", "file", "filename", "name"}
	contentFields   = []string{"content", "file_code", "code", "new_content", "replacement"}
	searchFields    = []string{"search", "file_search", "find", "old_content", "pattern"}
	summaryFields   = []string{"summary", "file_summary", "description", "desc"}
)

// lookupField resolves a logical field on an edit node: attributes win,
// then direct child elements, each probed in candidate-name order.
func lookupField(n *node, names []string) (string, bool) {
	for _, name := range names {
		if v, ok := n.attrs[name]; ok {
			return v, true
		}
	}
	for _, name := range names {
		if c := n.child(name); c != nil {
			return c.text, true
		}
	}
	return "", false
}

// lookupBody is lookupField for literal code bodies: the value goes
// through the fence extractor so ad-hoc delimiters around the literal
// text are stripped.
func lookupBody(n *node, names []string) (string, bool) {
	v, ok := lookupField(n, names)
	if !ok {
		return "", false
	}
	return cleanBody(v), true
}

// cleanBody strips the single leading newline XML text nodes carry and
// unwraps any fence convention around the literal content.
func cleanBody(v string) string {
	v = strings.TrimPrefix(v, "\n")
	return textutil.ExtractDelimitedContent(v)
}

// normalizeOperation maps a raw operation string onto the Operation enum.
// REWRITE and REPLACE are historical synonyms for UPDATE. Unknown strings
// also fall back to UPDATE: recovering most of a batch beats rejecting all
// of it over one bad label.
func normalizeOperation(raw string) types.Operation {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CREATE":
		return types.OpCreate
	case "DELETE":
		return types.OpDelete
	case "MODIFY":
		return types.OpModify
	case "UPDATE", "REWRITE", "REPLACE":
		return types.OpUpdate
	default:
		return types.OpUpdate
	}
}

// looseChange is an edit candidate before validation.
type looseChange struct {
	op      string
	path    string
	content *string
	search  *string
	summary string
}

// finalize validates a candidate into a Change, applying operation
// normalization and the search-implies-MODIFY reclassification: a CREATE
// or UPDATE that carries a search pattern is really a MODIFY the LLM
// mislabeled, a known format inconsistency.
func (lc looseChange) finalize() (types.Change, error) {
	op := normalizeOperation(lc.op)
	if (op == types.OpCreate || op == types.OpUpdate) &&
		lc.search != nil && strings.TrimSpace(*lc.search) != "" {
		op = types.OpModify
	}
	return types.NewChange(op, lc.path, lc.content, lc.search, strings.TrimSpace(lc.summary))
}
