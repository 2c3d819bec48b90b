// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package changeset defines the public interface for parsing structured
// edit markup out of model output and applying the resulting changes to
// a directory tree.
package changeset

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/petar-djukic/changeset/internal/apply"
	"github.com/petar-djukic/changeset/internal/extract"
	"github.com/petar-djukic/changeset/pkg/types"
)

// Options configures extraction and application behavior.
type Options struct {
	// LenientSearch treats an unlocatable MODIFY search pattern as a
	// no-op success instead of a failure.
	LenientSearch bool

	// Logger receives diagnostic output. Nil means silent.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Extract parses file change declarations out of raw model output.
// The input may be wrapped in markdown fences, surrounded by prose, or
// entity-encoded; every recognized container and tag synonym is tried
// before giving up. Returns *types.ParseError when no strategy yields
// a change.
func Extract(raw string, opts Options) ([]types.Change, error) {
	return extract.Extract(raw, extract.Config{Logger: opts.logger()})
}

// ValidateStructure reports whether raw looks like it contains
// well-formed change markup, with a human-readable reason when not.
// It is a cheap pre-flight check; Extract is the authority.
func ValidateStructure(raw string) (bool, string) {
	return extract.ValidateStructure(raw)
}

// Apply applies changes against the directory tree rooted at root.
// Every change is attempted; per-change failures are reported in the
// returned results rather than aborting the batch. The returned error
// covers batch-level problems only, such as an invalid root.
func Apply(changes []types.Change, root string, opts Options) ([]types.ApplyResult, error) {
	return apply.Apply(changes, root, apply.Options{
		LenientSearch: opts.LenientSearch,
		Logger:        opts.logger(),
	})
}

// Preview describes what Apply would do for each change without
// touching any file.
func Preview(changes []types.Change, root string) ([]types.Preview, error) {
	return apply.Preview(changes, root)
}

// Run extracts changes from raw model output and applies them in one
// step.
func Run(raw, root string, opts Options) ([]types.ApplyResult, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("root path %q does not exist or is not a directory", root)
	}

	changes, err := Extract(raw, opts)
	if err != nil {
		return nil, err
	}
	return Apply(changes, root, opts)
}
