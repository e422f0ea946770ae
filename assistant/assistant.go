/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package assistant dispatches a parsed webhook event to the pull-request or
// issue handling path: gather context, build the conversation, ask the model,
// post the suggestion. Failures in optional enrichment (file lists, snippets,
// templates, labels) never prevent the comment from being attempted.
package assistant

import (
	"context"

	"chainguard.dev/ghassistant/assistantconfig"
	"chainguard.dev/ghassistant/completion"
	"chainguard.dev/ghassistant/event"
	"chainguard.dev/ghassistant/promptbuilder"
	"chainguard.dev/ghassistant/responder"
	"chainguard.dev/ghassistant/snippets"
	"github.com/chainguard-dev/clog"
	"github.com/google/go-github/v84/github"
)

// Config is the process configuration, read once from the environment at
// startup and passed by reference; nothing does ambient lookup after that.
type Config struct {
	// EventPath points at the JSON webhook payload. Absence means there is
	// nothing to do and the process exits cleanly.
	EventPath string `env:"GITHUB_EVENT_PATH"`

	// GitHubToken authenticates comment and label writes. Absence skips them.
	GitHubToken string `env:"GITHUB_TOKEN"`
	// GitHubAPIURL overrides the API base URL (GitHub Enterprise).
	GitHubAPIURL string `env:"GITHUB_API_URL"`

	// OpenAIAPIKey enables the OpenAI completion backend. Without any model
	// credential the completion call is skipped entirely.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL,default=gpt-4o"`
	// AnthropicAPIKey enables the Anthropic backend when no OpenAI key is
	// configured.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	AnthropicModel  string `env:"ANTHROPIC_MODEL,default=claude-sonnet-4-20250514"`

	Temperature       float64 `env:"OPENAI_TEMPERATURE,default=0.0"`
	MaxResponseTokens int     `env:"MAX_RESPONSE_TOKENS,default=600"`
	RetryAttempts     int     `env:"OPENAI_RETRY_ATTEMPTS,default=3"`
	RetryBackoff      float64 `env:"OPENAI_RETRY_BACKOFF,default=2.0"`

	Label           string `env:"ASSISTANT_LABEL,default=ai-assisted"`
	MaxSnippetFiles int    `env:"MAX_SNIPPET_FILES,default=5"`
	ConfigPath      string `env:"ASSISTANT_CONFIG_PATH,default=.github/assistant-config.yaml"`
}

// Comment framing around the model's verbatim reply.
const (
	prCommentPrefix = ":robot: AI assistant suggestion (please review carefully):\n\n"
	prCommentSuffix = "\n\n_Note: This is an automated suggestion. All AI-generated content must be reviewed by a human before merging._"

	issueCommentPrefix = ":robot: AI assistant triage suggestion (please review):\n\n"
	issueCommentSuffix = "\n\n_Note: This is an automated suggestion. All AI-generated content must be reviewed by a human._"
)

// Suggester produces the model's reply for a conversation, or reports
// absence. completion.Suggester is the production implementation.
type Suggester interface {
	Suggest(ctx context.Context, msgs []completion.Message) (string, bool)
}

// Assistant ties the components together for one event.
type Assistant struct {
	cfg       Config
	repoCfg   assistantconfig.Config
	gh        *github.Client // nil without a hosting credential
	suggester Suggester
	responder *responder.Responder
}

// New assembles an Assistant. gh may be nil; reads and writes against the
// hosting service are then skipped.
func New(cfg Config, repoCfg assistantconfig.Config, gh *github.Client, s Suggester) *Assistant {
	return &Assistant{
		cfg:       cfg,
		repoCfg:   repoCfg,
		gh:        gh,
		suggester: s,
		responder: responder.New(gh, cfg.Label),
	}
}

// Handle routes the event. Unrecognized shapes are a logged no-op. An error
// return is reserved for unexpected dispatch-level failures and makes the
// process exit non-zero.
func (a *Assistant) Handle(ctx context.Context, ev *event.Event) error {
	switch ev.Kind {
	case event.KindPullRequest:
		return a.handlePullRequest(ctx, ev)
	case event.KindIssue:
		return a.handleIssue(ctx, ev)
	default:
		clog.FromContext(ctx).Info("Event is not a pull_request or issue; nothing to do")
		return nil
	}
}

func (a *Assistant) handlePullRequest(ctx context.Context, ev *event.Event) error {
	log := clog.FromContext(ctx)

	if ev.RepoFull == "" || ev.Number == 0 {
		log.Error("PR payload missing repository or number; skipping")
		return nil
	}
	log.With("repo", ev.RepoFull).With("pr", ev.Number).Info("Handling pull request")

	var paths []string
	var snips []snippets.Snippet
	if a.gh != nil {
		ex, err := snippets.NewExtractor(a.gh, ev.RepoFull)
		if err != nil {
			log.With("repo", ev.RepoFull).With("error", err.Error()).
				Error("Invalid repository name; skipping")
			return nil
		}
		changed := ex.ChangedFiles(ctx, ev.Number)
		for _, f := range changed {
			paths = append(paths, f.Path)
		}
		snips = ex.Collect(ctx, changed, ev.HeadSHA, a.cfg.MaxSnippetFiles, a.repoCfg.SnippetLines())
	}

	msgs := promptbuilder.PRConversation(ctx, a.repoCfg, promptbuilder.PRInput{
		Title:        ev.Title,
		Body:         ev.Body,
		RepoFull:     ev.RepoFull,
		Number:       ev.Number,
		ChangedFiles: paths,
		Snippets:     snips,
	})

	suggestion, ok := a.suggester.Suggest(ctx, msgs)
	if !ok {
		log.Info("No suggestion produced for pull request")
		return nil
	}

	a.responder.Post(ctx, ev.RepoFull, ev.Number, prCommentPrefix+suggestion+prCommentSuffix)
	return nil
}

func (a *Assistant) handleIssue(ctx context.Context, ev *event.Event) error {
	log := clog.FromContext(ctx)

	if ev.RepoFull == "" || ev.Number == 0 {
		log.Error("Issue payload missing repository or number; skipping")
		return nil
	}
	log.With("repo", ev.RepoFull).With("issue", ev.Number).Info("Handling issue")

	msgs := promptbuilder.IssueConversation(ctx, a.repoCfg, promptbuilder.IssueInput{
		Title:    ev.Title,
		Body:     ev.Body,
		RepoFull: ev.RepoFull,
		Number:   ev.Number,
	})

	suggestion, ok := a.suggester.Suggest(ctx, msgs)
	if !ok {
		log.Info("No suggestion produced for issue")
		return nil
	}

	a.responder.Post(ctx, ev.RepoFull, ev.Number, issueCommentPrefix+suggestion+issueCommentSuffix)
	return nil
}
