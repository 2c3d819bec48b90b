// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package apply

import (
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/changeset/internal/match"
	"github.com/petar-djukic/changeset/pkg/types"
)

// Preview reports what applying each change would do, without writing
// anything. MODIFY entries additionally report whether the search pattern
// would be found and at what confidence.
func Preview(changes []types.Change, root string) ([]types.Preview, error) {
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	previews := make([]types.Preview, 0, len(changes))
	for _, c := range changes {
		previews = append(previews, previewOne(c, root))
	}
	return previews, nil
}

func previewOne(c types.Change, root string) types.Preview {
	target := resolvePath(root, c.Path)
	_, statErr := os.Stat(target)
	exists := statErr == nil

	p := types.Preview{
		Operation: c.Operation.String(),
		Path:      c.Path,
		Exists:    exists,
		Summary:   c.Summary,
	}

	switch c.Operation {
	case types.OpCreate:
		p.Status = "Will create new file"
		if exists {
			p.Warning = "File already exists and will be overwritten"
			p.Diff = diffAgainstFile(target, c.ContentText())
		}

	case types.OpUpdate:
		if exists {
			p.Status = "Will update existing file"
			p.Diff = diffAgainstFile(target, c.ContentText())
		} else {
			p.Status = "Will create new file (marked as UPDATE)"
			p.Warning = "File doesn't exist but will be created"
		}

	case types.OpDelete:
		if exists {
			p.Status = "Will delete file"
		} else {
			p.Status = "Cannot delete (file doesn't exist)"
			p.Warning = "File doesn't exist"
		}

	case types.OpModify:
		previewModify(c, target, exists, &p)
	}

	return p
}

func previewModify(c types.Change, target string, exists bool, p *types.Preview) {
	if !exists {
		p.Status = "Cannot modify (file doesn't exist)"
		p.Warning = "File doesn't exist"
		return
	}
	if !c.HasSearch() {
		p.Status = "Cannot modify (no search pattern)"
		p.Warning = "MODIFY change carries no search pattern"
		return
	}

	fileText, err := readFileText(target)
	if err != nil {
		p.Status = "Cannot modify (unreadable)"
		p.Warning = err.Error()
		return
	}

	m := match.FindBestMatch(c.SearchText(), fileText)
	p.MatchFound = m.Found
	p.Similarity = m.Similarity
	if !m.Found {
		p.Status = "Search pattern not found"
		p.Warning = "MODIFY would fail"
		return
	}

	p.Status = fmt.Sprintf("Will replace matched section (similarity %.2f)", m.Similarity)
	if c.HasContent() {
		p.Diff = renderDiff(m.Text, c.ContentText())
	}
}

func diffAgainstFile(target, newContent string) string {
	old, err := readFileText(target)
	if err != nil {
		return ""
	}
	return renderDiff(old, newContent)
}

// renderDiff produces a compact +/- rendering of the change between two
// texts, semantic-cleaned so fragments align with human-readable edits.
func renderDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, true)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		text := strings.TrimRight(d.Text, "\n")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writeMarked(&b, "-", text)
		case diffmatchpatch.DiffInsert:
			writeMarked(&b, "+", text)
		case diffmatchpatch.DiffEqual:
			// Skip unchanged fragments; surrounding context is already
			// visible in the file.
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeMarked(b *strings.Builder, marker, text string) {
	for _, line := range strings.Split(text, "\n") {
		b.WriteString(marker)
		b.WriteString(" ")
		b.WriteString(line)
		b.WriteString("\n")
	}
}
