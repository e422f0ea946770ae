/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements the GitHub AI assistant. It runs once per webhook
// delivery: read the event payload, gather context, ask the model, post the
// suggestion as a comment, and exit.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/ghassistant/assistant"
	"chainguard.dev/ghassistant/assistantconfig"
	"chainguard.dev/ghassistant/completion"
	"chainguard.dev/ghassistant/event"
	"chainguard.dev/ghassistant/retry"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/oauth2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg assistant.Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		clog.FatalContextf(ctx, "processing config: %v", err)
	}

	if cfg.EventPath == "" {
		clog.InfoContextf(ctx, "No GITHUB_EVENT_PATH present; exiting")
		return
	}
	ev, err := event.ParseFile(cfg.EventPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			clog.InfoContextf(ctx, "Event payload %s does not exist; exiting", cfg.EventPath)
			return
		}
		// A payload we cannot parse is the one fatal input error.
		clog.FatalContextf(ctx, "parsing event payload: %v", err)
	}

	repoCfg := assistantconfig.Load(ctx, cfg.ConfigPath)

	var gh *github.Client
	if cfg.GitHubToken != "" {
		tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.GitHubToken}))
		gh = github.NewClient(tc)
		if cfg.GitHubAPIURL != "" {
			if gh, err = gh.WithEnterpriseURLs(cfg.GitHubAPIURL, cfg.GitHubAPIURL); err != nil {
				clog.FatalContextf(ctx, "configuring GitHub API URL: %v", err)
			}
		}
	} else {
		clog.InfoContextf(ctx, "GITHUB_TOKEN not set; comment and label posting will be skipped")
	}

	var caller completion.Caller
	switch {
	case cfg.OpenAIAPIKey != "":
		caller = completion.NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.Temperature, cfg.MaxResponseTokens)
	case cfg.AnthropicAPIKey != "":
		caller = completion.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.Temperature, cfg.MaxResponseTokens)
	default:
		clog.WarnContextf(ctx, "No model credential set; the assistant will not call a model API")
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.Attempts = cfg.RetryAttempts
	retryCfg.BackoffBase = cfg.RetryBackoff
	suggester := completion.NewSuggester(caller, retryCfg)

	a := assistant.New(cfg, repoCfg, gh, suggester)
	if err := a.Handle(ctx, ev); err != nil {
		clog.FatalContextf(ctx, "handling %s event: %v", ev.Kind, err)
	}
}
