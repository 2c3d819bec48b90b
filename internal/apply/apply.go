// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package apply consumes an ordered Change list and performs the edits
// against a root directory. One change's failure never aborts the batch:
// every change yields exactly one ApplyResult, in input order. Writes
// happen immediately per change; there is no rollback.
package apply

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/changeset/pkg/types"
)

// Options carries per-call applier settings.
type Options struct {
	// LenientSearch turns "search pattern not found" MODIFY failures into
	// no-op successes with a warning, for callers that prefer batch
	// continuation over strict correctness.
	LenientSearch bool
	Logger        *zap.Logger // Nop when nil
}

// Apply executes changes against root. Only a bad root aborts the whole
// call; individual change failures come back in their ApplyResult.
func Apply(changes []types.Change, root string, opts Options) ([]types.ApplyResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := checkRoot(root); err != nil {
		return nil, err
	}

	results := make([]types.ApplyResult, 0, len(changes))
	for _, c := range changes {
		err := applyOne(c, root, opts.LenientSearch, logger)
		r := types.ApplyResult{Change: c, Success: err == nil}
		if err != nil {
			r.Error = err.Error()
			logger.Warn("change failed",
				zap.String("operation", c.Operation.String()),
				zap.String("path", c.Path),
				zap.Error(err))
		}
		results = append(results, r)
	}
	return results, nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("invalid root path %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %s is not a directory", root)
	}
	return nil
}

func applyOne(c types.Change, root string, lenient bool, logger *zap.Logger) error {
	target := resolvePath(root, c.Path)

	switch c.Operation {
	case types.OpCreate, types.OpUpdate:
		return applyWrite(c, target)
	case types.OpDelete:
		return applyDelete(target, logger)
	case types.OpModify:
		return applyModify(c, target, lenient, logger)
	default:
		return fmt.Errorf("unknown operation: %s", c.Operation)
	}
}

// resolvePath maps a change path onto the filesystem. Absolute paths pass
// through. A relative path that redundantly repeats the root's base name
// ("myrepo/pkg/a.go" applied inside myrepo/) loses the prefix, a common
// LLM slip.
func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	base := filepath.Base(absOrSelf(root))
	if rest, ok := strings.CutPrefix(path, base+"/"); ok && rest != "" {
		path = rest
	}
	return filepath.Join(root, path)
}

func absOrSelf(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// applyWrite handles CREATE and UPDATE: writes the full body verbatim,
// overwriting anything already there. Last writer wins; the caller is an
// LLM edit stream that supplies the complete intended file.
func applyWrite(c types.Change, target string) error {
	if !c.HasContent() {
		return fmt.Errorf("no file content provided for %s operation", c.Operation)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	if err := atomicWrite(target, []byte(c.ContentText())); err != nil {
		return fmt.Errorf("writing %s: %w", c.Path, err)
	}
	return nil
}

// applyDelete removes the file. Deleting a file that is already gone is
// idempotent: the desired end state holds, so it logs and succeeds.
func applyDelete(target string, logger *zap.Logger) error {
	if _, err := os.Stat(target); os.IsNotExist(err) {
		logger.Warn("file does not exist, nothing to delete", zap.String("path", target))
		return nil
	}
	if err := os.Remove(target); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

func applyModify(c types.Change, target string, lenient bool, logger *zap.Logger) error {
	if !c.HasSearch() {
		return fmt.Errorf("missing search pattern for MODIFY operation")
	}
	if !c.HasContent() {
		return fmt.Errorf("missing replacement content for MODIFY operation")
	}

	fileText, err := readFileText(target)
	if err != nil {
		return err
	}

	newText, err := replaceInText(fileText, c.SearchText(), c.ContentText())
	if err != nil {
		if lenient && isNotFound(err) {
			logger.Warn("search pattern not found, skipping change",
				zap.String("path", c.Path))
			return nil
		}
		return err
	}

	if err := atomicWrite(target, []byte(newText)); err != nil {
		return fmt.Errorf("writing %s: %w", c.Path, err)
	}
	return nil
}

// readFileText reads target as UTF-8 text, substituting the replacement
// rune for invalid byte sequences.
func readFileText(target string) (string, error) {
	b, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file does not exist: %s", target)
		}
		return "", fmt.Errorf("reading %s: %w", target, err)
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}

// atomicWrite writes data to a temp file in the target's directory, then
// renames it over the target. Preserves existing file permissions.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	f, err := os.CreateTemp(dir, ".changeset-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
