/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package snippets retrieves bounded textual excerpts for a pull request's
// changed files. Excerpts exist purely to give the model limited file context
// without high token cost, so every retrieval failure degrades to an empty
// result rather than aborting prompt construction.
package snippets

import (
	"context"
	"fmt"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// ChangedFile is one file touched by a pull request, as reported by the
// hosting API. Patch is the unified diff fragment when the API provides one.
type ChangedFile struct {
	Path      string
	Patch     string
	Additions int
	Deletions int
}

// Snippet pairs a changed-file path with its bounded excerpt. A slice of
// Snippets preserves the order files were listed.
type Snippet struct {
	Path    string
	Excerpt string
}

// Extractor fetches changed files and excerpts for one repository.
type Extractor struct {
	client *github.Client
	owner  string
	repo   string
}

// NewExtractor returns an Extractor for the given "owner/repo" name.
func NewExtractor(client *github.Client, repoFull string) (*Extractor, error) {
	owner, repo, ok := strings.Cut(repoFull, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository name %q", repoFull)
	}
	return &Extractor{client: client, owner: owner, repo: repo}, nil
}

// ChangedFiles lists the files changed by the pull request. Failures are
// logged and return an empty list; an absent file list only degrades the
// prompt, it never aborts the run.
func (e *Extractor) ChangedFiles(ctx context.Context, prNumber int) []ChangedFile {
	files, _, err := e.client.PullRequests.ListFiles(ctx, e.owner, e.repo, prNumber, &github.ListOptions{PerPage: 100})
	if err != nil {
		clog.FromContext(ctx).With("pr", prNumber).With("error", err.Error()).
			Error("Failed to fetch changed files")
		return nil
	}
	changed := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, ChangedFile{
			Path:      f.GetFilename(),
			Patch:     f.GetPatch(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
		})
	}
	return changed
}

// Collect produces excerpts for the first maxFiles changed files, each capped
// at maxLines lines. The file cap bounds the token cost of the downstream
// model call. A file's patch is preferred; otherwise the file content at
// headSHA is fetched. Either way a retrieval failure yields an empty excerpt.
func (e *Extractor) Collect(ctx context.Context, files []ChangedFile, headSHA string, maxFiles, maxLines int) []Snippet {
	if maxFiles < 0 {
		maxFiles = 0
	}
	if maxFiles < len(files) {
		files = files[:maxFiles]
	}
	out := make([]Snippet, 0, len(files))
	for _, f := range files {
		out = append(out, Snippet{
			Path:    f.Path,
			Excerpt: e.excerpt(ctx, f, headSHA, maxLines),
		})
	}
	return out
}

func (e *Extractor) excerpt(ctx context.Context, f ChangedFile, headSHA string, maxLines int) string {
	if f.Patch != "" {
		return firstLines(f.Patch, maxLines)
	}

	// No patch (binary or very large change); fall back to the file
	// content at the PR head.
	content, _, _, err := e.client.Repositories.GetContents(ctx, e.owner, e.repo, f.Path,
		&github.RepositoryContentGetOptions{Ref: headSHA})
	if err != nil || content == nil {
		clog.FromContext(ctx).With("path", f.Path).With("ref", headSHA).
			Debug("Could not fetch content for changed file")
		return ""
	}
	text, err := content.GetContent()
	if err != nil {
		clog.FromContext(ctx).With("path", f.Path).With("error", err.Error()).
			Debug("Could not decode content for changed file")
		return ""
	}
	return firstLines(text, maxLines)
}

// firstLines returns at most n leading lines of s, without a trailing newline.
func firstLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
