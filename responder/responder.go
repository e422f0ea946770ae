/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package responder posts the assistant's suggestion back to the pull request
// or issue and best-effort applies the assistant label. Posting requires an
// authenticated client; labeling failures never undo a posted comment.
package responder

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

const (
	labelColor       = "f29513"
	labelDescription = "AI-assisted content"
)

// Responder writes comments and labels through an authenticated GitHub
// client. A nil client disables writes entirely.
type Responder struct {
	client *github.Client
	label  string
}

// New returns a Responder applying the given label name after each comment.
// client may be nil when no hosting credential is configured; Post then skips
// silently.
func New(client *github.Client, label string) *Responder {
	return &Responder{client: client, label: label}
}

// Post creates the comment on the given entity, then best-effort ensures the
// assistant label is attached. Remote-write failures are logged and swallowed:
// by the time labeling runs the comment has already succeeded, and a failed
// comment still leaves the run's other work intact.
func (r *Responder) Post(ctx context.Context, repoFull string, number int, body string) {
	log := clog.FromContext(ctx)

	if r.client == nil {
		log.Info("GITHUB_TOKEN not available; skipping comment and label")
		return
	}

	owner, repo, ok := strings.Cut(repoFull, "/")
	if !ok || owner == "" || repo == "" {
		log.With("repo", repoFull).Error("Invalid repository name; skipping comment")
		return
	}

	if _, _, err := r.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	}); err != nil {
		log.With("repo", repoFull).With("number", number).With("error", err.Error()).
			Error("Failed to post comment; check permissions and GITHUB_TOKEN")
		return
	}
	log.With("repo", repoFull).With("number", number).Info("Posted suggestion comment")

	if err := r.ensureLabel(ctx, owner, repo, number); err != nil {
		log.With("label", r.label).With("error", err.Error()).
			Warn("Failed to add label (non-fatal)")
	}
}

// ensureLabel attaches the assistant label, creating it first if the
// repository does not have it yet.
func (r *Responder) ensureLabel(ctx context.Context, owner, repo string, number int) error {
	if _, _, err := r.client.Issues.GetLabel(ctx, owner, repo, r.label); err != nil {
		if _, _, err := r.client.Issues.CreateLabel(ctx, owner, repo, &github.Label{
			Name:        github.Ptr(r.label),
			Color:       github.Ptr(labelColor),
			Description: github.Ptr(labelDescription),
		}); err != nil {
			// Likely a permissions gap; the comment already landed.
			return fmt.Errorf("creating label %q: %w", r.label, err)
		}
	}

	if _, _, err := r.client.Issues.AddLabelsToIssue(ctx, owner, repo, number, []string{r.label}); err != nil {
		return fmt.Errorf("adding label %q: %w", r.label, err)
	}
	return nil
}
