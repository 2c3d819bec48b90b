// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package gitio provides the small slice of git needed around edit
// application: locating the repository root, refusing to touch a dirty
// working tree, and optionally committing applied changes.
package gitio

import (
	"errors"
	"fmt"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

const (
	authorName  = "changeset"
	authorEmail = "noreply@changeset"
)

// ErrNoGit is returned when the directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// ErrDirtyWorkTree is returned when uncommitted changes exist and the
// caller declined to proceed anyway.
var ErrDirtyWorkTree = errors.New("uncommitted changes exist")

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
}

// Open walks up from dir looking for a .git directory and opens the
// enclosing repository. Returns ErrNoGit if dir is not inside one.
func Open(dir string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the working tree root of the repository.
func (r *Repo) Root() string { return r.root }

// IsDirty returns true if the working tree has uncommitted changes
// (either staged or unstaged).
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("getting worktree: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("getting status: %w", err)
	}

	return !status.IsClean(), nil
}

// CommitApplied stages the given paths (relative to the repository
// root) and commits them with the given message.
func (r *Repo) CommitApplied(paths []string, message string) error {
	if len(paths) == 0 {
		return nil
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("staging %s: %w", p, err)
		}
	}

	_, err = wt.Commit(message, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  authorName,
			Email: authorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}

	return nil
}
