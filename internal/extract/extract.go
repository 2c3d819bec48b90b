// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract turns noisy LLM output into an ordered list of Changes.
// It tries several structural interpretations of the input in priority
// order, falling back to regex scraping and finally to an entity-decoded
// retry of the whole chain.
package extract

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/petar-djukic/changeset/pkg/types"
)

// Config carries per-call extractor settings. There is no package-level
// state; concurrent calls are independent.
type Config struct {
	Logger *zap.Logger // Nop when nil
}

// Extract parses raw LLM output into an ordered Change list. It returns a
// *types.ParseError enumerating every attempted strategy when no strategy
// yields a single valid change.
func Extract(raw string, cfg Config) ([]types.Change, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	text := preprocess(raw)
	var attempts []types.StrategyAttempt

	changes, attempts := runChain(text, logger, attempts, "")
	if changes != nil {
		return changes, nil
	}

	// Entity-decoded retry: some responses arrive with the markup itself
	// HTML-escaped.
	if decoded := html.UnescapeString(text); decoded != text {
		changes, attempts = runChain(preprocess(decoded), logger, attempts, "entity-decoded ")
		if changes != nil {
			return changes, nil
		}
	}

	return nil, &types.ParseError{Attempts: attempts}
}

// runChain tries every strategy against text, returning the first
// non-empty validated result. Failed attempts accumulate for the final
// ParseError.
func runChain(text string, logger *zap.Logger, attempts []types.StrategyAttempt, label string) ([]types.Change, []types.StrategyAttempt) {
	for _, s := range defaultStrategies() {
		name := label + s.name()

		loose, err := s.parse(text)
		if err != nil {
			attempts = append(attempts, types.StrategyAttempt{Strategy: name, Reason: err.Error()})
			continue
		}

		changes := validate(loose, logger)
		if len(changes) > 0 {
			logger.Debug("extraction strategy succeeded",
				zap.String("strategy", name),
				zap.Int("changes", len(changes)))
			return changes, attempts
		}
		attempts = append(attempts, types.StrategyAttempt{
			Strategy: name,
			Reason:   fmt.Sprintf("%d candidates, none well-formed", len(loose)),
		})
	}
	return nil, attempts
}

// validate finalizes loose candidates, dropping malformed ones with a
// warning. An emptied result means the strategy failed.
func validate(loose []looseChange, logger *zap.Logger) []types.Change {
	changes := make([]types.Change, 0, len(loose))
	for _, lc := range loose {
		c, err := lc.finalize()
		if err != nil {
			logger.Warn("dropping malformed change candidate",
				zap.String("path", lc.path),
				zap.Error(err))
			continue
		}
		changes = append(changes, c)
	}
	return changes
}

// ValidateStructure is a cheap pre-flight check that the input even looks
// like change markup. It reports a human-readable reason when it does not;
// callers are expected to attempt the tolerant parse regardless.
func ValidateStructure(raw string) (bool, string) {
	text := preprocess(raw)

	if !strings.Contains(text, "<") {
		return false, "no markup found in input"
	}
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "<file") && !strings.Contains(lower, "<change") &&
		!strings.Contains(lower, "<edit") {
		return false, "no edit declarations found"
	}

	opens := strings.Count(lower, "<file")
	closes := strings.Count(lower, "</file")
	selfClosing := fileBlockRe.FindAllString(text, -1)
	if closes < opens && len(selfClosing) < opens {
		return false, fmt.Sprintf("unbalanced file tags: %d opened, %d closed", opens, closes)
	}
	return true, ""
}
