// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"errors"
	"fmt"
	"strings"
)

// strategy is one structural interpretation of the input. Strategies are
// tried in priority order; a strategy that cannot apply returns an error
// and the chain moves on. Errors here are expected control signals, not
// failures.
type strategy interface {
	name() string
	parse(text string) ([]looseChange, error)
}

var errNoEdits = errors.New("no edit declarations found")

// editNodeNames are element names recognized as edit declarations.
var editNodeNames = map[string]bool{
	"file": true, "change": true, "edit": true, "modification": true,
}

// changesFromEditNode expands one edit declaration into candidates. A
// declaration may carry one or more nested change blocks, each with its
// own description/search/content, which supports several edits against
// the same file. With no nested blocks the declaration itself is the
// single implicit edit.
func changesFromEditNode(n *node) []looseChange {
	op, _ := lookupField(n, operationFields)
	path, _ := lookupField(n, pathFields)
	summary, _ := lookupField(n, summaryFields)

	var blocks []*node
	blocks = append(blocks, n.childrenNamed("change")...)
	if wrapper := n.child("changes"); wrapper != nil {
		blocks = append(blocks, wrapper.childrenNamed("change")...)
	}

	if len(blocks) == 0 {
		lc := looseChange{op: op, path: path, summary: strings.TrimSpace(summary)}
		if v, ok := lookupBody(n, contentFields); ok {
			lc.content = &v
		} else if body := cleanBody(n.text); strings.TrimSpace(body) != "" {
			// No content element: the raw body is the content.
			lc.content = &body
		}
		if v, ok := lookupBody(n, searchFields); ok {
			lc.search = &v
		}
		return []looseChange{lc}
	}

	out := make([]looseChange, 0, len(blocks))
	for _, b := range blocks {
		lc := looseChange{op: op, path: path, summary: strings.TrimSpace(summary)}
		if v, ok := lookupField(b, summaryFields); ok {
			lc.summary = strings.TrimSpace(v)
		}
		if v, ok := lookupBody(b, contentFields); ok {
			lc.content = &v
		}
		if v, ok := lookupBody(b, searchFields); ok {
			lc.search = &v
		}
		out = append(out, lc)
	}
	return out
}

// batchContainer handles the document-style format: one container per
// message holding a changed-files list of edit declarations.
type batchContainer struct{}

func (batchContainer) name() string { return "batch-container" }

func (batchContainer) parse(text string) ([]looseChange, error) {
	root, perr := parseTree(text)
	if perr != nil {
		// A truncated tree can carry truncated bodies; let a later
		// strategy handle malformed markup instead.
		return nil, fmt.Errorf("tree parse failed: %w", perr)
	}
	var containers []*node
	root.walk(func(n *node) {
		if n.name == "code_changes" || n.name == "changed_files" {
			containers = append(containers, n)
		}
	})
	if len(containers) == 0 {
		return nil, errors.New("no batch container element")
	}

	seen := map[*node]bool{}
	var out []looseChange
	for _, c := range containers {
		c.walk(func(n *node) {
			if n.name != "file" || seen[n] {
				return
			}
			seen[n] = true
			out = append(out, changesFromEditNode(n)...)
		})
	}
	if len(out) == 0 {
		return nil, errNoEdits
	}
	return out, nil
}

// flatTag handles top-level edit declarations without a batch container:
// sibling <file ...> blocks, attributes in either order and either
// quoting style, each holding zero or more nested change blocks.
type flatTag struct{}

func (flatTag) name() string { return "flat-tag" }

func (flatTag) parse(text string) ([]looseChange, error) {
	root, perr := parseTree(text)
	if perr != nil {
		return nil, fmt.Errorf("tree parse failed: %w", perr)
	}
	if len(root.children) == 0 {
		return nil, errors.New("no elements found")
	}

	// Edit declarations sit at the top level, possibly under one synthetic
	// or unknown wrapper element.
	scopes := []*node{root}
	scopes = append(scopes, root.children...)

	seen := map[*node]bool{}
	var out []looseChange
	for _, s := range scopes {
		for _, c := range s.children {
			if c.name == "file" && !seen[c] {
				seen[c] = true
				out = append(out, changesFromEditNode(c)...)
			}
		}
	}
	if len(out) == 0 {
		return nil, errNoEdits
	}
	return out, nil
}

// genericScan is the tolerant pass: any recognizable edit declaration
// anywhere in the tree counts, regardless of nesting or element name
// spelling, as long as it resolves a path.
type genericScan struct{}

func (genericScan) name() string { return "generic-scan" }

func (genericScan) parse(text string) ([]looseChange, error) {
	root, perr := parseTree(text)
	if perr != nil {
		return nil, fmt.Errorf("tree parse failed: %w", perr)
	}

	var out []looseChange
	root.walk(func(n *node) {
		if !editNodeNames[n.name] {
			return
		}
		if _, ok := lookupField(n, pathFields); !ok {
			return
		}
		out = append(out, changesFromEditNode(n)...)
	})
	if len(out) == 0 {
		return nil, errNoEdits
	}
	return out, nil
}

// defaultStrategies returns the chain in priority order, ending with the
// regex scraper that needs no well-formed structure at all.
func defaultStrategies() []strategy {
	return []strategy{batchContainer{}, flatTag{}, genericScan{}, regexScrape{}}
}
