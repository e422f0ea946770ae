/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptbuilder deterministically assembles the conversation sent to
// the model: a system instruction, an optional context message, and a task
// message. Missing or malformed configuration always degrades to built-in
// defaults; building a conversation cannot fail.
package promptbuilder

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"chainguard.dev/ghassistant/assistantconfig"
	"chainguard.dev/ghassistant/completion"
	"chainguard.dev/ghassistant/snippets"
	"github.com/chainguard-dev/clog"
)

const (
	defaultPRSystemPrompt    = "You are a cautious, security-minded coding assistant. Prioritize human review and be concise."
	defaultIssueSystemPrompt = "You are a careful triage assistant. Request reproduction steps and emphasize security when relevant."

	prTaskSuffix    = "Task: Write a concise, reviewer-friendly PR description and a focused reviewer checklist. Highlight any security-sensitive files and recommend manual checks."
	issueTaskSuffix = "Task: Triage this issue, suggest severity and next steps."
)

// Placeholder allow-lists per template kind.
var (
	prTemplateKeys    = []string{"title", "body", "changed_files_list", "repo_full", "pr_number"}
	issueTemplateKeys = []string{"title", "body", "repo_full", "issue_number"}
)

// PRInput carries the event data for a pull-request conversation.
type PRInput struct {
	Title        string
	Body         string
	RepoFull     string
	Number       int
	ChangedFiles []string
	Snippets     []snippets.Snippet
}

// IssueInput carries the event data for an issue conversation.
type IssueInput struct {
	Title    string
	Body     string
	RepoFull string
	Number   int
}

// PRConversation builds the pull-request conversation: system instruction,
// context block, task. Identical inputs produce byte-identical output.
func PRConversation(ctx context.Context, cfg assistantconfig.Config, in PRInput) []completion.Message {
	system := cfg.SystemPrompt
	if system == "" {
		system = defaultPRSystemPrompt
	}

	changedFilesList := formatFileList(in.ChangedFiles)

	task := fmt.Sprintf("PR title: %s\n\nPR body:\n%s\n\nChanged files:\n%s", in.Title, in.Body, changedFilesList)
	if cfg.PRPrompt == "" {
		task += "\n\n" + prTaskSuffix
	} else if rendered, ok := renderTemplate(ctx, "pr_prompt", cfg.PRPrompt, prTemplateKeys, map[string]string{
		"title":              in.Title,
		"body":               in.Body,
		"changed_files_list": changedFilesList,
		"repo_full":          in.RepoFull,
		"pr_number":          strconv.Itoa(in.Number),
	}); ok {
		task = rendered
	}

	return []completion.Message{
		{Role: completion.RoleSystem, Content: system},
		{Role: completion.RoleUser, Content: contextBlock(changedFilesList, cfg.SensitivePaths, in.Snippets)},
		{Role: completion.RoleUser, Content: task},
	}
}

// IssueConversation builds the issue conversation: system instruction, task.
func IssueConversation(ctx context.Context, cfg assistantconfig.Config, in IssueInput) []completion.Message {
	system := cfg.SystemPrompt
	if system == "" {
		system = defaultIssueSystemPrompt
	}

	task := fmt.Sprintf("Issue title: %s\n\nBody:\n%s\n\n%s", in.Title, in.Body, issueTaskSuffix)
	if cfg.IssuePrompt != "" {
		if rendered, ok := renderTemplate(ctx, "issue_prompt", cfg.IssuePrompt, issueTemplateKeys, map[string]string{
			"title":        in.Title,
			"body":         in.Body,
			"repo_full":    in.RepoFull,
			"issue_number": strconv.Itoa(in.Number),
		}); ok {
			task = rendered
		}
	}

	return []completion.Message{
		{Role: completion.RoleSystem, Content: system},
		{Role: completion.RoleUser, Content: task},
	}
}

// renderTemplate parses and renders a configured template. A malformed
// template or disallowed placeholder is logged and reported as not-ok so the
// caller can fall back to the fixed default.
func renderTemplate(ctx context.Context, kind, template string, allowed []string, values map[string]string) (string, bool) {
	tmpl, err := ParseTemplate(template, allowed)
	if err != nil {
		clog.FromContext(ctx).With("template", kind).With("error", err.Error()).
			Error("Failed to parse configured template; falling back to default")
		return "", false
	}
	rendered, err := tmpl.Render(values)
	if err != nil {
		clog.FromContext(ctx).With("template", kind).With("error", err.Error()).
			Error("Failed to render configured template; falling back to default")
		return "", false
	}
	return rendered, true
}

// formatFileList renders the changed-file paths as a bulleted list.
func formatFileList(files []string) string {
	if len(files) == 0 {
		return "No file list available."
	}
	var sb strings.Builder
	for i, f := range files {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("- ")
		sb.WriteString(f)
	}
	return sb.String()
}

// contextBlock lists the changed files, configured sensitive-path patterns,
// and the bounded per-file snippets.
func contextBlock(changedFilesList string, sensitivePaths []string, snips []snippets.Snippet) string {
	lines := []string{"Changed files (top-level list):", changedFilesList, "", "Sensitive path patterns:"}
	for _, p := range sensitivePaths {
		lines = append(lines, "- "+p)
	}
	if len(snips) > 0 {
		lines = append(lines, "\nSnippets from changed files (limited):")
		for _, s := range snips {
			lines = append(lines, "--- "+s.Path+" ---")
			if s.Excerpt == "" {
				lines = append(lines, "(no snippet available)")
			} else {
				lines = append(lines, s.Excerpt)
			}
		}
	}
	return strings.Join(lines, "\n")
}
