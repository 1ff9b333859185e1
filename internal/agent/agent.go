// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent runs role-configured language-model agents. A Role is the
// fixed persona/instructions/tool bundle for one pipeline stage; a Runner
// turns a role plus a conversation history into a single text response.
package agent

import (
	"context"
	"fmt"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Tool is a capability the model may invoke during a stage. Execute
// receives the raw JSON arguments and returns the tool output as text;
// tool faults are reported in the output string, never as panics.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any
	Execute     func(ctx context.Context, arguments string) string
}

// Role configures one agent: who it is, what it must do, how it must
// format its answer, and which tools it may call. Roles are built once at
// orchestrator initialization and are read-only afterwards.
type Role struct {
	// Name identifies the stage the role backs (e.g. "researcher").
	Name string `yaml:"name"`

	// Persona is the role description for the system prompt.
	Persona string `yaml:"persona"`

	// Instructions are the core task instructions.
	Instructions string `yaml:"instructions"`

	// OutputInstructions describe the required output shape.
	OutputInstructions string `yaml:"output_instructions"`

	// Tools lists the capabilities available to this role. Empty for
	// roles that only transform text.
	Tools []Tool `yaml:"-"`

	// MaxToolAttempts bounds the tool-call loop for tool-using roles.
	MaxToolAttempts int `yaml:"max_tool_attempts"`
}

// ToolCall records one tool invocation the model made during a run.
type ToolCall struct {
	Name      string
	Arguments string
}

// Response is the provider's answer for one stage. Providers differ in
// which text field they populate, so all candidates are optional; use
// Text to extract the answer.
type Response struct {
	// ResponseMessage, Content, and ResponseContent are the candidate
	// text fields, probed in that order.
	ResponseMessage string
	Content         string
	ResponseContent string

	// Raw is the provider's raw message payload, used as the extraction
	// fallback when no candidate field is populated.
	Raw string

	// ToolCalls lists the tool invocations recorded during the run.
	ToolCalls []ToolCall
}

// textExtractors is the ordered list of named extractors tried against a
// response. The set is configuration for the provider boundary, not a
// stable protocol: new providers may grow it.
var textExtractors = []struct {
	name string
	get  func(Response) string
}{
	{"response_message", func(r Response) string { return r.ResponseMessage }},
	{"content", func(r Response) string { return r.Content }},
	{"response_content", func(r Response) string { return r.ResponseContent }},
}

// Text returns the response text from whichever candidate field the
// provider populated, falling back to the raw payload and finally to a
// printed rendering of the response itself.
func (r Response) Text() string {
	for _, e := range textExtractors {
		if v := e.get(r); v != "" {
			return v
		}
	}
	if r.Raw != "" {
		return r.Raw
	}
	return fmt.Sprintf("%+v", r)
}

// Runner produces one response for a role and a conversation history.
// Each implementation wraps one language-model provider.
type Runner interface {
	Run(ctx context.Context, role Role, history []types.ConversationTurn) (Response, error)
}
