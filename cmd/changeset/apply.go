// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/changeset/internal/gitio"
	"github.com/petar-djukic/changeset/pkg/changeset"
	"github.com/petar-djukic/changeset/pkg/types"
)

// newApplyCmd creates the "apply" command.
func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Extract changes from markup and apply them",
		Long:  "Apply parses the change markup and writes every change to the tree under --root. Per-change failures are reported without aborting the batch.",
		RunE:  runApply,
	}

	cmd.Flags().Bool("lenient", false, "Treat an unlocatable MODIFY search pattern as a no-op instead of a failure")
	cmd.Flags().Bool("force", false, "Apply even when the git working tree is dirty")
	cmd.Flags().Bool("commit", false, "Commit successfully applied changes")
	viper.BindPFlag("lenient", cmd.Flags().Lookup("lenient"))
	viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	viper.BindPFlag("commit", cmd.Flags().Lookup("commit"))

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	raw, err := readMarkup()
	if err != nil {
		return err
	}
	if ok, reason := changeset.ValidateStructure(raw); !ok {
		fmt.Fprintf(os.Stderr, "Warning: %s; attempting extraction anyway\n", reason)
	}

	root := viper.GetString("root")
	opts := changeset.Options{
		LenientSearch: viper.GetBool("lenient"),
		Logger:        newLogger(),
	}

	repo, err := gitio.Open(root)
	switch {
	case errors.Is(err, gitio.ErrNoGit):
		repo = nil // Not a repository; no safety net, no commits.
	case err != nil:
		return err
	case !viper.GetBool("force"):
		dirty, derr := repo.IsDirty()
		if derr != nil {
			return derr
		}
		if dirty {
			return fmt.Errorf("%w: commit or stash first, or pass --force", gitio.ErrDirtyWorkTree)
		}
	}

	changes, err := changeset.Extract(raw, opts)
	if err != nil {
		return fmt.Errorf("extracting changes: %w", err)
	}

	results, err := changeset.Apply(changes, root, opts)
	if err != nil {
		return err
	}

	if repo != nil && viper.GetBool("commit") {
		if err := commitResults(repo, results); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	printResults(results)
	if failed := countFailed(results); failed > 0 {
		return fmt.Errorf("%d of %d changes failed", failed, len(results))
	}
	fmt.Fprintf(os.Stderr, "Applied %d change(s)\n", len(results))
	return nil
}

// commitResults commits the paths of successful non-delete changes.
func commitResults(repo *gitio.Repo, results []types.ApplyResult) error {
	var paths []string
	for _, r := range results {
		if r.Success && r.Change.Operation != types.OpDelete {
			paths = append(paths, r.Change.Path)
		}
	}
	msg := fmt.Sprintf("Apply %d structured edit(s)", len(paths))
	return repo.CommitApplied(paths, msg)
}

func countFailed(results []types.ApplyResult) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}

// printResults outputs the results as JSON to stdout.
func printResults(results []types.ApplyResult) {
	out, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling results: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// newPreviewCmd creates the "preview" command.
func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Describe what apply would do without touching any file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readMarkup()
			if err != nil {
				return err
			}

			changes, err := changeset.Extract(raw, changeset.Options{Logger: newLogger()})
			if err != nil {
				return fmt.Errorf("extracting changes: %w", err)
			}

			previews, err := changeset.Preview(changes, viper.GetString("root"))
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(previews)
			if err != nil {
				return fmt.Errorf("marshaling previews: %w", err)
			}
			fmt.Print(string(out))
			return nil
		},
	}
}
