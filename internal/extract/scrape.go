// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package extract

import (
	"errors"
	"regexp"
	"strings"
)

// Last-resort patterns over the raw text. No well-formed structure is
// required: attribute order can be swapped and quotes can be missing or
// single. Content with stray '<' characters, which breaks every tree
// parse, still comes through here.
var (
	fileBlockRe = regexp.MustCompile(`(?is)<file\b([^>]*?)(/>|>(.*?)</file\s*>)`)

	pathAttrRe = regexp.MustCompile(`(?i)\b(?:path|file_path|filename|name)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)
	opAttrRe   = regexp.MustCompile(`(?i)\b(?:action|operation|type|op)\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'>]+))`)

	searchTagRe  = regexp.MustCompile(`(?is)<(?:search|file_search|find|old_content|pattern)\s*>(.*?)</(?:search|file_search|find|old_content|pattern)\s*>`)
	contentTagRe = regexp.MustCompile(`(?is)<(?:content|file_code|code|new_content|replacement)\s*>(.*?)</(?:content|file_code|code|new_content|replacement)\s*>`)
	summaryTagRe = regexp.MustCompile(`(?is)<(?:summary|file_summary|description|desc)\s*>(.*?)</(?:summary|file_summary|description|desc)\s*>`)
)

type regexScrape struct{}

func (regexScrape) name() string { return "regex-scrape" }

func (regexScrape) parse(text string) ([]looseChange, error) {
	matches := fileBlockRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil, errors.New("no file blocks matched")
	}

	var out []looseChange
	for _, m := range matches {
		attrs, body := m[1], m[3]

		lc := looseChange{
			path: firstGroup(pathAttrRe.FindStringSubmatch(attrs)),
			op:   firstGroup(opAttrRe.FindStringSubmatch(attrs)),
		}

		if sm := summaryTagRe.FindStringSubmatch(body); sm != nil {
			lc.summary = strings.TrimSpace(sm[1])
		}
		if sm := searchTagRe.FindStringSubmatch(body); sm != nil {
			v := cleanBody(sm[1])
			lc.search = &v
		}
		if cm := contentTagRe.FindStringSubmatch(body); cm != nil {
			v := cleanBody(cm[1])
			lc.content = &v
		} else if rest := strippedBody(body); rest != "" {
			// A bare body with no content tag is itself the content.
			v := cleanBody(rest)
			lc.content = &v
		}

		out = append(out, lc)
	}
	return out, nil
}

// firstGroup returns the first non-empty capture group of a submatch.
func firstGroup(m []string) string {
	for i := 1; i < len(m); i++ {
		if m[i] != "" {
			return m[i]
		}
	}
	return ""
}

// strippedBody removes all recognized child tags and reports what is left.
func strippedBody(body string) string {
	rest := searchTagRe.ReplaceAllString(body, "")
	rest = contentTagRe.ReplaceAllString(rest, "")
	rest = summaryTagRe.ReplaceAllString(rest, "")
	return strings.TrimSpace(rest)
}
