// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command changeset parses structured edit markup from model output
// and applies the changes to a directory tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "changeset",
		Short: "Apply structured edit markup to a directory tree",
		Long:  "changeset extracts file change declarations from noisy model output and applies them: creating, updating, deleting, and surgically modifying files.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("root", ".", "Directory the changes are applied against")
	rootCmd.PersistentFlags().StringP("file", "f", "", "Read markup from this file instead of stdin")
	rootCmd.PersistentFlags().BoolP("clipboard", "c", false, "Read markup from the system clipboard")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable diagnostic logging")

	// Bind flags to viper.
	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("file", rootCmd.PersistentFlags().Lookup("file"))
	viper.BindPFlag("clipboard", rootCmd.PersistentFlags().Lookup("clipboard"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Env vars: CHANGESET_ROOT, CHANGESET_VERBOSE, etc.
	viper.SetEnvPrefix("CHANGESET")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".changeset")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newPreviewCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the diagnostic logger. Silent unless --verbose.
func newLogger() *zap.Logger {
	if !viper.GetBool("verbose") {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print changeset version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("changeset %s\n", version)
		},
	}
}
