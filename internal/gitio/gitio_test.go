// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package gitio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	readme := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(readme, []byte("# test\n"), 0o644))

	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.NotNil(t, repo)
}

func TestOpen_DetectsRootFromSubdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "deep", "nested")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(repo.Root())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestOpen_NotARepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestIsDirty_CleanRepo(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)
}

func TestIsDirty_WithUnstagedChanges(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# modified\n"), 0o644))

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestCommitApplied(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("body\n"), 0o644))

	err = repo.CommitApplied([]string{"new.txt"}, "apply edits: new.txt")
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	head, err := repo.repo.Head()
	require.NoError(t, err)
	commit, err := repo.repo.CommitObject(head.Hash())
	require.NoError(t, err)
	assert.Equal(t, "apply edits: new.txt", commit.Message)
}

func TestCommitApplied_NoPathsIsNoop(t *testing.T) {
	dir := initTestRepo(t)
	repo, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, repo.CommitApplied(nil, "nothing"))
}
