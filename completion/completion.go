/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package completion wraps the language-model completion APIs behind a small
// conversation-in, text-out facade with bounded retry.
package completion

import (
	"context"
	"errors"
	"strings"

	"chainguard.dev/ghassistant/retry"
	"github.com/chainguard-dev/clog"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is one entry in the conversation sent to the model. An assembled
// conversation is never empty and always begins with one system message.
type Message struct {
	Role    Role
	Content string
}

// Validate checks the conversation invariant.
func Validate(msgs []Message) error {
	if len(msgs) == 0 {
		return errors.New("conversation is empty")
	}
	if msgs[0].Role != RoleSystem {
		return errors.New("conversation must begin with a system message")
	}
	return nil
}

// Caller produces an assistant reply for a conversation.
type Caller interface {
	// Complete returns the assistant's text reply.
	Complete(ctx context.Context, msgs []Message) (string, error)
}

// Suggester invokes a Caller with bounded exponential-backoff retry. A nil
// Caller means no model credential is configured; every call is skipped.
type Suggester struct {
	caller Caller
	cfg    retry.Config
}

// NewSuggester wraps caller with the given retry configuration. caller may be
// nil, in which case Suggest always reports absence without attempting a call.
func NewSuggester(caller Caller, cfg retry.Config) *Suggester {
	return &Suggester{caller: caller, cfg: cfg}
}

// Suggest returns the model's reply for the conversation, or ok=false when no
// suggestion was produced: no credential configured, retries exhausted, or an
// empty reply. Failures are logged here; callers treat absence as "do nothing
// further".
func (s *Suggester) Suggest(ctx context.Context, msgs []Message) (string, bool) {
	log := clog.FromContext(ctx)

	if s.caller == nil {
		log.Info("Skipping completion call because no model credential is set")
		return "", false
	}
	if err := Validate(msgs); err != nil {
		log.With("error", err.Error()).Error("Refusing to send malformed conversation")
		return "", false
	}

	reply, err := retry.WithBackoff(ctx, s.cfg, "chat_completion", func() (string, error) {
		return s.caller.Complete(ctx, msgs)
	})
	if err != nil {
		log.With("error", err.Error()).Error("Completion calls exhausted, no suggestion produced")
		return "", false
	}

	reply = strings.TrimSpace(reply)
	return reply, reply != ""
}
