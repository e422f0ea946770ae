/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptbuilder_test

import (
	"context"
	"strings"
	"testing"

	"chainguard.dev/ghassistant/assistantconfig"
	"chainguard.dev/ghassistant/completion"
	"chainguard.dev/ghassistant/promptbuilder"
	"chainguard.dev/ghassistant/snippets"
	"github.com/google/go-cmp/cmp"
)

func prInput() promptbuilder.PRInput {
	return promptbuilder.PRInput{
		Title:        "Add caching layer",
		Body:         "Speeds up lookups.",
		RepoFull:     "acme/widget",
		Number:       7,
		ChangedFiles: []string{"cache/cache.go", "cache/cache_test.go"},
		Snippets: []snippets.Snippet{
			{Path: "cache/cache.go", Excerpt: "@@ -0,0 +1 @@\n+package cache"},
			{Path: "cache/cache_test.go", Excerpt: ""},
		},
	}
}

func TestPRConversationShape(t *testing.T) {
	t.Parallel()
	msgs := promptbuilder.PRConversation(context.Background(), assistantconfig.Config{}, prInput())

	if err := completion.Validate(msgs); err != nil {
		t.Fatalf("conversation violates invariant: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != completion.RoleUser || msgs[2].Role != completion.RoleUser {
		t.Fatal("context and task messages must be user role")
	}
}

func TestPRConversationContextBlock(t *testing.T) {
	t.Parallel()
	cfg := assistantconfig.Config{SensitivePaths: []string{"secrets/**", "deploy/*.yaml"}}
	msgs := promptbuilder.PRConversation(context.Background(), cfg, prInput())

	want := strings.Join([]string{
		"Changed files (top-level list):",
		"- cache/cache.go",
		"- cache/cache_test.go",
		"",
		"Sensitive path patterns:",
		"- secrets/**",
		"- deploy/*.yaml",
		"\nSnippets from changed files (limited):",
		"--- cache/cache.go ---",
		"@@ -0,0 +1 @@\n+package cache",
		"--- cache/cache_test.go ---",
		"(no snippet available)",
	}, "\n")
	if diff := cmp.Diff(want, msgs[1].Content); diff != "" {
		t.Fatalf("context block mismatch (-want +got):\n%s", diff)
	}
}

func TestPRConversationDefaultTask(t *testing.T) {
	t.Parallel()
	msgs := promptbuilder.PRConversation(context.Background(), assistantconfig.Config{}, prInput())

	task := msgs[2].Content
	if !strings.Contains(task, "PR title: Add caching layer") {
		t.Errorf("task missing title: %q", task)
	}
	if !strings.Contains(task, "Task: Write a concise, reviewer-friendly PR description") {
		t.Errorf("task missing default instruction: %q", task)
	}
}

func TestPRConversationConfiguredTemplate(t *testing.T) {
	t.Parallel()
	cfg := assistantconfig.Config{
		PRPrompt: "Summarize {repo_full}#{pr_number}: {title}\n{changed_files_list}",
	}
	msgs := promptbuilder.PRConversation(context.Background(), cfg, prInput())

	want := "Summarize acme/widget#7: Add caching layer\n- cache/cache.go\n- cache/cache_test.go"
	if msgs[2].Content != want {
		t.Fatalf("task = %q, want %q", msgs[2].Content, want)
	}
}

func TestPRConversationTemplateFallback(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		name     string
		template string
	}{
		{"unknown placeholder", "Please review {not_a_key}"},
		{"malformed", "Please review {title"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := assistantconfig.Config{PRPrompt: tc.template}
			msgs := promptbuilder.PRConversation(context.Background(), cfg, prInput())

			task := msgs[2].Content
			if !strings.HasPrefix(task, "PR title: Add caching layer") {
				t.Fatalf("expected fallback task, got %q", task)
			}
			// The template-failure fallback omits the default task
			// instruction; only the missing-template path carries it.
			if strings.Contains(task, "Task: Write a concise") {
				t.Fatalf("fallback task should not carry the default instruction: %q", task)
			}
		})
	}
}

func TestPRConversationNoChangedFiles(t *testing.T) {
	t.Parallel()
	in := prInput()
	in.ChangedFiles = nil
	in.Snippets = nil
	msgs := promptbuilder.PRConversation(context.Background(), assistantconfig.Config{}, in)

	if !strings.Contains(msgs[1].Content, "No file list available.") {
		t.Fatalf("context block should note the missing file list: %q", msgs[1].Content)
	}
	if strings.Contains(msgs[1].Content, "Snippets from changed files") {
		t.Fatalf("context block should omit the snippet section: %q", msgs[1].Content)
	}
}

func TestPRConversationDeterministic(t *testing.T) {
	t.Parallel()
	cfg := assistantconfig.Config{SensitivePaths: []string{"secrets/**"}}
	first := promptbuilder.PRConversation(context.Background(), cfg, prInput())
	for range 5 {
		if diff := cmp.Diff(first, promptbuilder.PRConversation(context.Background(), cfg, prInput())); diff != "" {
			t.Fatalf("conversation not deterministic (-first +repeat):\n%s", diff)
		}
	}
}

func TestIssueConversation(t *testing.T) {
	t.Parallel()
	in := promptbuilder.IssueInput{Title: "Crash on startup", Body: "", RepoFull: "acme/widget", Number: 42}
	msgs := promptbuilder.IssueConversation(context.Background(), assistantconfig.Config{}, in)

	if err := completion.Validate(msgs); err != nil {
		t.Fatalf("conversation violates invariant: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	want := "Issue title: Crash on startup\n\nBody:\n\n\nTask: Triage this issue, suggest severity and next steps."
	if msgs[1].Content != want {
		t.Fatalf("task = %q, want %q", msgs[1].Content, want)
	}
}

func TestIssueConversationConfiguredTemplate(t *testing.T) {
	t.Parallel()
	cfg := assistantconfig.Config{
		SystemPrompt: "Be brief.",
		IssuePrompt:  "Triage {repo_full}#{issue_number}: {title}",
	}
	in := promptbuilder.IssueInput{Title: "Crash on startup", RepoFull: "acme/widget", Number: 42}
	msgs := promptbuilder.IssueConversation(context.Background(), cfg, in)

	if msgs[0].Content != "Be brief." {
		t.Fatalf("system = %q", msgs[0].Content)
	}
	if msgs[1].Content != "Triage acme/widget#42: Crash on startup" {
		t.Fatalf("task = %q", msgs[1].Content)
	}
}

func TestIssueConversationTemplateFallback(t *testing.T) {
	t.Parallel()
	cfg := assistantconfig.Config{IssuePrompt: "bad {pr_number} key for issues"}
	in := promptbuilder.IssueInput{Title: "Crash", Body: "boom", RepoFull: "acme/widget", Number: 42}
	msgs := promptbuilder.IssueConversation(context.Background(), cfg, in)

	if !strings.HasPrefix(msgs[1].Content, "Issue title: Crash") {
		t.Fatalf("expected fallback task, got %q", msgs[1].Content)
	}
}
