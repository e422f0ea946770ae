/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package event_test

import (
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/ghassistant/event"
	"github.com/google/go-cmp/cmp"
)

func TestParsePullRequest(t *testing.T) {
	t.Parallel()
	got, err := event.Parse([]byte(`{
		"pull_request": {
			"title": "Add caching layer",
			"body": "Speeds up lookups.",
			"number": 7,
			"head": {"ref": "feature/cache", "sha": "abc123"}
		},
		"repository": {"full_name": "acme/widget"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &event.Event{
		Kind:     event.KindPullRequest,
		RepoFull: "acme/widget",
		Number:   7,
		Title:    "Add caching layer",
		Body:     "Speeds up lookups.",
		HeadRef:  "feature/cache",
		HeadSHA:  "abc123",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestParseIssue(t *testing.T) {
	t.Parallel()
	got, err := event.Parse([]byte(`{
		"issue": {"title": "Crash on startup", "body": "", "number": 42},
		"repository": {"full_name": "acme/widget"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &event.Event{
		Kind:     event.KindIssue,
		RepoFull: "acme/widget",
		Number:   42,
		Title:    "Crash on startup",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNullBody(t *testing.T) {
	t.Parallel()
	got, err := event.Parse([]byte(`{
		"issue": {"title": "No body", "body": null, "number": 1},
		"repository": {"full_name": "acme/widget"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Body != "" {
		t.Fatalf("expected empty body for null, got %q", got.Body)
	}
}

func TestParsePullRequestPrecedence(t *testing.T) {
	t.Parallel()
	// A combined payload carrying both keys routes as a pull request.
	got, err := event.Parse([]byte(`{
		"pull_request": {"title": "PR", "number": 3, "head": {"sha": "def"}},
		"issue": {"title": "Issue view of the PR", "number": 3},
		"repository": {"full_name": "acme/widget"}
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != event.KindPullRequest {
		t.Fatalf("expected pull_request to win precedence, got %v", got.Kind)
	}
}

func TestParseOther(t *testing.T) {
	t.Parallel()
	got, err := event.Parse([]byte(`{"repository": {"full_name": "acme/widget"}, "action": "starred"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != event.KindOther {
		t.Fatalf("expected KindOther, got %v", got.Kind)
	}
	if got.RepoFull != "acme/widget" {
		t.Fatalf("expected repository to be carried through, got %q", got.RepoFull)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()
	if _, err := event.Parse([]byte(`{"pull_request": `)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(`{"issue": {"title": "t", "number": 9}, "repository": {"full_name": "a/b"}}`), 0o644); err != nil {
		t.Fatalf("writing payload: %v", err)
	}
	got, err := event.ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != event.KindIssue || got.Number != 9 {
		t.Fatalf("unexpected event: %+v", got)
	}

	if _, err := event.ParseFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestKindString(t *testing.T) {
	t.Parallel()
	for k, want := range map[event.Kind]string{
		event.KindPullRequest: "pull_request",
		event.KindIssue:       "issue",
		event.KindOther:       "other",
	} {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
