// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/viper"
)

// readMarkup resolves the markup source in priority order: --file,
// --clipboard, then stdin.
func readMarkup() (string, error) {
	if path := viper.GetString("file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(b), nil
	}

	if viper.GetBool("clipboard") {
		text, err := clipboard.ReadAll()
		if err != nil {
			return "", fmt.Errorf("reading clipboard: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return "", fmt.Errorf("clipboard is empty")
		}
		return text, nil
	}

	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if len(b) == 0 {
		return "", fmt.Errorf("no input: pass --file, --clipboard, or pipe markup on stdin")
	}
	return string(b), nil
}
