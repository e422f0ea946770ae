/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package assistantconfig loads the optional repository-local assistant
// configuration document. Every field has a downstream default, so a missing
// or malformed document degrades to the zero value rather than failing.
package assistantconfig

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/chainguard-dev/clog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the repository-relative location of the config document.
const DefaultPath = ".github/assistant-config.yaml"

// defaultSnippetLines bounds per-file excerpts when the document is silent.
const defaultSnippetLines = 40

// Config holds the repository-local assistant settings. All fields are
// optional; the zero value is fully usable.
type Config struct {
	// SystemPrompt overrides the built-in system instruction.
	SystemPrompt string `yaml:"system_prompt"`
	// PRPrompt is a task template for pull requests with {title}, {body},
	// {changed_files_list}, {repo_full} and {pr_number} placeholders.
	PRPrompt string `yaml:"pr_prompt"`
	// IssuePrompt is a task template for issues with {title}, {body},
	// {repo_full} and {issue_number} placeholders.
	IssuePrompt string `yaml:"issue_prompt"`
	// SensitivePaths is an ordered list of path-glob patterns surfaced to
	// the model as requiring extra review.
	SensitivePaths []string `yaml:"sensitive_paths"`
	// MaxFileSnippetLines caps each per-file excerpt.
	MaxFileSnippetLines int `yaml:"max_file_snippet_lines"`
}

// SnippetLines returns the per-file excerpt line cap, applying the default
// when the document did not set one.
func (c Config) SnippetLines() int {
	if c.MaxFileSnippetLines > 0 {
		return c.MaxFileSnippetLines
	}
	return defaultSnippetLines
}

// Load reads the config document at path. It never fails outward: a missing
// file is logged at info, a malformed one at error, and both return the zero
// Config.
func Load(ctx context.Context, path string) Config {
	log := clog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.With("path", path).Info("No assistant config found; using defaults")
		} else {
			log.With("path", path).With("error", err.Error()).
				Error("Failed to read assistant config; using defaults")
		}
		return Config{}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.With("path", path).With("error", err.Error()).
			Error("Failed to parse assistant config; using defaults")
		return Config{}
	}
	return cfg
}
