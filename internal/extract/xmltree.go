// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"encoding/xml"
	"io"
	"strings"
)

// node is one element of the loosely parsed markup tree. Attribute and
// element names are lowercased so field lookups are case-insensitive.
type node struct {
	name     string
	attrs    map[string]string
	children []*node
	text     string
}

// child returns the first direct child with the given name, or nil.
func (n *node) child(name string) *node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// childrenNamed returns all direct children with the given name.
func (n *node) childrenNamed(name string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// walk visits n and every descendant in document order.
func (n *node) walk(visit func(*node)) {
	visit(n)
	for _, c := range n.children {
		c.walk(visit)
	}
}

// parseTree parses markup into a node tree rooted at a synthetic element.
// The decoder runs in non-strict mode with HTML entity and auto-close
// tables, so common LLM malformations survive. When the decoder chokes
// partway through, the tree built so far is returned along with the error;
// the caller decides whether the partial tree is usable.
func parseTree(text string) (*node, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	root := &node{name: "#root", attrs: map[string]string{}}
	stack := []*node{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return root, nil
		}
		if err != nil {
			return root, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{
				name:  strings.ToLower(t.Name.Local),
				attrs: map[string]string{},
			}
			for _, a := range t.Attr {
				n.attrs[strings.ToLower(a.Name.Local)] = a.Value
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			stack[len(stack)-1].text += string(t)
		}
	}
}
