// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ConversationTurn is one message in an agent conversation. The pipeline
// builds a fresh single-turn history for each stage; no stage ever sees the
// full prior transcript.
type ConversationTurn struct {
	// Role is the message role tag ("user", "assistant", "system", "tool").
	Role string `json:"role" yaml:"role"`

	// Content is the message text.
	Content string `json:"content" yaml:"content"`
}

// PipelineResult bundles the four stage outputs of one completed run.
// Immutable once returned.
type PipelineResult struct {
	// Research is the researcher stage output.
	Research string `json:"research" yaml:"research"`

	// Insights is the insights stage output.
	Insights string `json:"insights" yaml:"insights"`

	// Draft is the writer stage output.
	Draft string `json:"draft" yaml:"draft"`

	// Final is the edited, publication-ready newsletter.
	Final string `json:"final" yaml:"final"`
}
