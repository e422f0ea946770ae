/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package event parses the webhook payload delivered via GITHUB_EVENT_PATH
// into a small tagged union consumed by the dispatcher.
package event

import (
	"encoding/json"
	"fmt"
	"os"
)

// Kind classifies the payload shape.
type Kind int

const (
	// KindOther covers every payload that is neither a pull request nor an
	// issue; the dispatcher treats it as a no-op.
	KindOther Kind = iota
	KindPullRequest
	KindIssue
)

func (k Kind) String() string {
	switch k {
	case KindPullRequest:
		return "pull_request"
	case KindIssue:
		return "issue"
	default:
		return "other"
	}
}

// Event is the parsed webhook payload. Number, Title and Body describe the
// pull request or issue; HeadRef and HeadSHA are set for pull requests only.
type Event struct {
	Kind     Kind
	RepoFull string
	Number   int
	Title    string
	Body     string
	HeadRef  string
	HeadSHA  string
}

type payload struct {
	PullRequest *struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Number int    `json:"number"`
		Head   struct {
			Ref string `json:"ref"`
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
	Issue *struct {
		Title  string `json:"title"`
		Body   string `json:"body"`
		Number int    `json:"number"`
	} `json:"issue"`
	Repository struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
}

// Parse decodes a webhook payload. The pull_request key takes precedence over
// issue: some review events nest a pull request reference under issue, and
// checking pull_request first keeps routing deterministic for combined
// payloads.
func Parse(data []byte) (*Event, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing event payload: %w", err)
	}

	ev := &Event{
		Kind:     KindOther,
		RepoFull: p.Repository.FullName,
	}
	switch {
	case p.PullRequest != nil:
		ev.Kind = KindPullRequest
		ev.Number = p.PullRequest.Number
		ev.Title = p.PullRequest.Title
		ev.Body = p.PullRequest.Body
		ev.HeadRef = p.PullRequest.Head.Ref
		ev.HeadSHA = p.PullRequest.Head.SHA
	case p.Issue != nil:
		ev.Kind = KindIssue
		ev.Number = p.Issue.Number
		ev.Title = p.Issue.Title
		ev.Body = p.Issue.Body
	}
	return ev, nil
}

// ParseFile reads and parses the payload file at path.
func ParseFile(path string) (*Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event payload: %w", err)
	}
	return Parse(data)
}
