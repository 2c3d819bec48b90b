// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package apply

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/changeset/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestApply_CreateWritesFile(t *testing.T) {
	dir := t.TempDir()
	changes := []types.Change{{
		Operation: types.OpCreate,
		Path:      "sub/dir/a.txt",
		Content:   types.StringPtr("hello"),
	}}

	results, err := Apply(changes, dir, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, "hello", readFile(t, filepath.Join(dir, "sub/dir/a.txt")))
}

func TestApply_CreateEmptyContentIsLegal(t *testing.T) {
	dir := t.TempDir()
	changes := []types.Change{{
		Operation: types.OpCreate,
		Path:      "empty.txt",
		Content:   types.StringPtr(""),
	}}

	results, err := Apply(changes, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, "", readFile(t, filepath.Join(dir, "empty.txt")))
}

func TestApply_CreateWithoutContentFails(t *testing.T) {
	dir := t.TempDir()
	changes := []types.Change{{Operation: types.OpCreate, Path: "a.txt"}}

	results, err := Apply(changes, dir, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "no file content")
}

func TestApply_UpdateOverwrites(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "old content")

	results, err := Apply([]types.Change{{
		Operation: types.OpUpdate,
		Path:      "a.txt",
		Content:   types.StringPtr("new content"),
	}}, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, "new content", readFile(t, filepath.Join(dir, "a.txt")))
}

func TestApply_DeleteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "doomed.txt", "bye")
	change := []types.Change{{Operation: types.OpDelete, Path: "doomed.txt"}}

	results, err := Apply(change, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.NoFileExists(t, filepath.Join(dir, "doomed.txt"))

	// Second delete of the same path: the desired end state already
	// holds, so this succeeds too.
	results, err = Apply(change, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
}

func TestApply_ModifyExactUniqueMatch(t *testing.T) {
	dir := t.TempDir()
	original := "line one\nline two\nline three\n"
	writeFile(t, dir, "f.txt", original)

	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "f.txt",
		Search:    types.StringPtr("line two"),
		Content:   types.StringPtr("line 2"),
	}}, dir, Options{})
	require.NoError(t, err)
	require.True(t, results[0].Success, results[0].Error)
	assert.Equal(t, "line one\nline 2\nline three\n", readFile(t, filepath.Join(dir, "f.txt")))
}

func TestApply_ModifyNearExactReplacesAllOccurrences(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f.txt", "x = 1\ny = 2\nx = 1\n")

	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "f.txt",
		Search:    types.StringPtr("x = 1"),
		Content:   types.StringPtr("x = 9"),
	}}, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, "x = 9\ny = 2\nx = 9\n", readFile(t, filepath.Join(dir, "f.txt")))
}

func TestApply_ModifyAmbiguousMatchFails(t *testing.T) {
	// Three identical blocks with identical context. The fuzzy match
	// lands at 0.80 similarity and the matched span occurs twice, with
	// no context window winning by a margin.
	unit := "// marker\nval = 1\ntarget line one\ntarget line two\ntarget line three\nval = 1\n"
	file := unit + unit + unit + "// marker\n"
	dir := t.TempDir()
	writeFile(t, dir, "f.txt", file)

	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "f.txt",
		Search:    types.StringPtr("target line one\ntarget line two\ntarget line three\nval = 1\nextra line"),
		Content:   types.StringPtr("replacement"),
	}}, dir, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "ambiguous match")
	// Nothing was replaced.
	assert.Equal(t, file, readFile(t, filepath.Join(dir, "f.txt")))
}

func TestApply_ModifyDuplicateBlocksRefusesToGuess(t *testing.T) {
	// Two byte-identical function bodies and a near-miss search pattern.
	// The matched span occurs in both; neither may be rewritten, and no
	// neighboring line may be dragged into the substitution.
	file := "func doWork() {\n\tsetup()\n\trun()\n}\n\nfunc doWork() {\n\tsetup()\n\trun()\n}\n"
	dir := t.TempDir()
	writeFile(t, dir, "dup.go", file)

	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "dup.go",
		Search:    types.StringPtr("func doWork() {\n\tsetup()\n\trun()\n\tcleanup()"),
		Content:   types.StringPtr("func doWork() {\n\trewritten()\n}"),
	}}, dir, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, file, readFile(t, filepath.Join(dir, "dup.go")))
}

func TestApply_ModifyMissingSearchFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "f.txt", "content")

	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "f.txt",
		Content:   types.StringPtr("new"),
	}}, dir, Options{})
	require.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "missing search pattern")
}

func TestApply_ModifyMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	results, err := Apply([]types.Change{{
		Operation: types.OpModify,
		Path:      "ghost.txt",
		Search:    types.StringPtr("x"),
		Content:   types.StringPtr("y"),
	}}, dir, Options{})
	require.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "does not exist")
}

func TestApply_ModifyNotFoundLenient(t *testing.T) {
	dir := t.TempDir()
	original := "completely unrelated file body\n"
	writeFile(t, dir, "f.txt", original)

	change := []types.Change{{
		Operation: types.OpModify,
		Path:      "f.txt",
		Search:    types.StringPtr("pattern that matches nothing whatsoever"),
		Content:   types.StringPtr("new"),
	}}

	// Strict mode: failure.
	results, err := Apply(change, dir, Options{})
	require.NoError(t, err)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "not found")

	// Lenient mode: no-op success, file untouched.
	results, err = Apply(change, dir, Options{LenientSearch: true})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.Equal(t, original, readFile(t, filepath.Join(dir, "f.txt")))
}

func TestApply_BatchCardinalityAndOrder(t *testing.T) {
	dir := t.TempDir()
	changes := []types.Change{
		{Operation: types.OpCreate, Path: "one.txt", Content: types.StringPtr("1")},
		{Operation: types.OpModify, Path: "missing.txt", Search: types.StringPtr("x"), Content: types.StringPtr("y")},
		{Operation: types.OpCreate, Path: "two.txt", Content: types.StringPtr("2")},
		{Operation: types.OpDelete, Path: "never-there.txt"},
	}

	results, err := Apply(changes, dir, Options{})
	require.NoError(t, err)
	require.Len(t, results, len(changes))
	for i, r := range results {
		assert.Equal(t, changes[i].Path, r.Change.Path)
	}
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	// A failure in the middle never aborts the rest of the batch.
	assert.True(t, results[2].Success)
	assert.True(t, results[3].Success)
	assert.FileExists(t, filepath.Join(dir, "two.txt"))
}

func TestApply_InvalidRoot(t *testing.T) {
	_, err := Apply(nil, "/does/not/exist/anywhere", Options{})
	require.Error(t, err)
}

func TestApply_RedundantPathPrefixStripped(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Base(dir)

	results, err := Apply([]types.Change{{
		Operation: types.OpCreate,
		Path:      base + "/nested/file.txt",
		Content:   types.StringPtr("body"),
	}}, dir, Options{})
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.FileExists(t, filepath.Join(dir, "nested/file.txt"))
	assert.NoFileExists(t, filepath.Join(dir, base, "nested/file.txt"))
}

func TestContextReplace_UniqueWinner(t *testing.T) {
	file := "alpha\nbeta\ngamma\ndelta\n"
	out, ok := contextReplace(file, "beta\ngamma", "BETA\nGAMMA")
	require.True(t, ok)
	assert.Equal(t, "alpha\nBETA\nGAMMA\ndelta\n", out)
}

func TestContextReplace_TieFails(t *testing.T) {
	file := "same\nblock\nsame\nblock\n"
	_, ok := contextReplace(file, "same\nblock", "new\nblock")
	assert.False(t, ok)
}

func TestReconstructReplace_InfersIndentation(t *testing.T) {
	file := "def outer():\n    alpha = compute_alpha()\n    beta = compute_beta()\n    return alpha + beta\n"
	out, ok := reconstructReplace(file, "alpha = compute_alpha()\nbeta = compute_beta()", "gamma = compute_gamma()")
	require.True(t, ok)
	assert.Equal(t, "def outer():\n    gamma = compute_gamma()\n    return alpha + beta\n", out)
}

func TestReconstructReplace_LowCoverageFails(t *testing.T) {
	file := "one\ntwo\nthree\n"
	_, ok := reconstructReplace(file, "nothing\nalike\nhere\nat all", "x")
	assert.False(t, ok)
}

func TestRenderDiff(t *testing.T) {
	d := renderDiff("old body", "new body")
	assert.True(t, strings.HasPrefix(d, "- "), d)
	assert.Contains(t, d, "\n+ ")
}

func TestRenderDiff_EqualInputsAreEmpty(t *testing.T) {
	assert.Empty(t, renderDiff("same\ntext\n", "same\ntext\n"))
}
