// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/petar-djukic/changeset/pkg/changeset"
)

// newParseCmd creates the "parse" command.
func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Extract changes from markup and print them",
		Long:  "Parse runs extraction only and prints the recognized changes as YAML, without touching the filesystem.",
		RunE:  runParse,
	}

	cmd.Flags().Bool("check", false, "Only report whether the markup looks structurally valid")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readMarkup()
	if err != nil {
		return err
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		ok, reason := changeset.ValidateStructure(raw)
		if !ok {
			return fmt.Errorf("invalid markup: %s", reason)
		}
		fmt.Println("markup looks valid")
		return nil
	}

	changes, err := changeset.Extract(raw, changeset.Options{Logger: newLogger()})
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(changes)
	if err != nil {
		return fmt.Errorf("marshaling changes: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
