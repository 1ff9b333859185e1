// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the four newsletter stages: research,
// insights, writing, editing. Two eager web searches run first and their
// digest is injected into the first two stages; each later stage consumes
// only the previous stage's text output. Search is performed out-of-band
// rather than left to the research agent because models proved unreliable
// at deciding to invoke the search tool on their own.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/newsletter-engine/internal/agent"
	"github.com/pdiddy/newsletter-engine/internal/search"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

const (
	primaryRecencyDays   = 30
	secondaryRecencyDays = 60
	searchMaxResults     = 5

	// digestReuseLimit caps the digest when it is re-injected into the
	// insights stage. Kept at the historical value for compatibility.
	digestReuseLimit = 1000
)

// Orchestrator wires the search client, the agent runner, and the four
// role configurations into one runnable pipeline. Construct once; Run may
// be called repeatedly.
type Orchestrator struct {
	searcher search.Client
	runner   agent.Runner
	roles    Roles
	log      *slog.Logger
}

// New builds an orchestrator. A nil logger falls back to slog.Default().
func New(searcher search.Client, runner agent.Runner, roles Roles, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{searcher: searcher, runner: runner, roles: roles, log: log}
}

// Run produces one newsletter for a topic, narrating stage progress to w.
// It fails by propagating the first unrecovered agent error; failed
// searches only degrade the digest.
func (o *Orchestrator) Run(ctx context.Context, topic string, w io.Writer) (types.PipelineResult, error) {
	primary := o.runSearch(ctx, w, types.SearchQuery{
		Query:       fmt.Sprintf("latest developments in %s", topic),
		RecencyDays: primaryRecencyDays,
		MaxResults:  searchMaxResults,
	})
	secondary := o.runSearch(ctx, w, types.SearchQuery{
		Query:       fmt.Sprintf("impact of %s", topic),
		RecencyDays: secondaryRecencyDays,
		MaxResults:  searchMaxResults,
	})

	digest := buildDigest(primary, secondary)

	// Stage 1: research.
	fmt.Fprintf(w, "stage 1/4: researching %s\n", topic)
	researchMsg, err := renderPrompt(researchPromptTmpl, struct{ Topic, Digest string }{topic, digest})
	if err != nil {
		return types.PipelineResult{}, err
	}
	researchText, err := o.runStage(ctx, w, o.roles.Researcher, researchMsg)
	if err != nil {
		return types.PipelineResult{}, err
	}

	// Stage 2: insights, reusing a truncated digest.
	fmt.Fprintf(w, "stage 2/4: generating insights\n")
	insightsMsg, err := renderPrompt(insightsPromptTmpl, struct{ Topic, Research, Digest string }{
		topic, researchText, truncate(digest, digestReuseLimit),
	})
	if err != nil {
		return types.PipelineResult{}, err
	}
	insightsText, err := o.runStage(ctx, w, o.roles.Insights, insightsMsg)
	if err != nil {
		return types.PipelineResult{}, err
	}

	// Stage 3: writing.
	fmt.Fprintf(w, "stage 3/4: drafting newsletter\n")
	writingMsg, err := renderPrompt(writingPromptTmpl, struct{ Topic, Insights string }{topic, insightsText})
	if err != nil {
		return types.PipelineResult{}, err
	}
	draftText, err := o.runStage(ctx, w, o.roles.Writer, writingMsg)
	if err != nil {
		return types.PipelineResult{}, err
	}

	// Stage 4: editing.
	fmt.Fprintf(w, "stage 4/4: editing and finalizing\n")
	editingMsg, err := renderPrompt(editingPromptTmpl, struct{ Topic, Draft string }{topic, draftText})
	if err != nil {
		return types.PipelineResult{}, err
	}
	finalText, err := o.runStage(ctx, w, o.roles.Editor, editingMsg)
	if err != nil {
		return types.PipelineResult{}, err
	}

	return types.PipelineResult{
		Research: researchText,
		Insights: insightsText,
		Draft:    draftText,
		Final:    finalText,
	}, nil
}

// runSearch executes one search and narrates the outcome. Failures are
// recovered here: the caller just sees an unsuccessful envelope.
func (o *Orchestrator) runSearch(ctx context.Context, w io.Writer, query types.SearchQuery) types.SearchResponse {
	fmt.Fprintf(w, "searching: %q (last %d days)\n", query.Query, query.RecencyDays)

	resp := o.searcher.Search(ctx, query)
	if !resp.Success {
		fmt.Fprintf(w, "  search failed: %s\n", resp.ErrorMessage)
		o.log.Warn("search failed", "query", query.Query, "error", resp.ErrorMessage)
		return resp
	}

	fmt.Fprintf(w, "  found %d results\n", len(resp.Results))
	return resp
}

// runStage invokes one agent with a fresh single-turn history and
// extracts the stage text from whichever field the provider populated.
func (o *Orchestrator) runStage(ctx context.Context, w io.Writer, role agent.Role, message string) (string, error) {
	history := []types.ConversationTurn{{Role: "user", Content: message}}

	resp, err := o.runner.Run(ctx, role, history)
	if err != nil {
		return "", fmt.Errorf("%s stage: %w", role.Name, err)
	}

	if n := len(resp.ToolCalls); n > 0 {
		fmt.Fprintf(w, "  made %d follow-up tool call(s)\n", n)
		o.log.Debug("stage tool calls", "stage", role.Name, "count", n)
	}

	return resp.Text(), nil
}

// buildDigest concatenates the digest sections of the successful search
// responses. A failed search contributes nothing: its section is simply
// absent.
func buildDigest(responses ...types.SearchResponse) string {
	var b strings.Builder
	b.WriteString("SEARCH RESULTS:\n\n")
	for i, resp := range responses {
		if !resp.Success {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(search.Format(resp.Results, resp.Query))
	}
	return b.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
