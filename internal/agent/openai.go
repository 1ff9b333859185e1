// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/newsletter-engine/internal/httputil"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// openaiAPIURL is the chat completions endpoint. Declared as a var so
// tests can substitute an httptest server.
var openaiAPIURL = "https://api.openai.com/v1/chat/completions"

const defaultMaxTokens = 4096

// OpenAIRunner runs roles against an OpenAI-compatible chat completions
// API, executing tool calls locally in a bounded loop.
type OpenAIRunner struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	UserAgent   string
	Client      *http.Client
}

// NewOpenAIRunner builds a runner from config.
func NewOpenAIRunner(cfg types.AgentConfig) *OpenAIRunner {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAIRunner{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   maxTokens,
		UserAgent:   cfg.UserAgent,
		Client:      &http.Client{Timeout: timeout},
	}
}

// Chat completions wire types (OpenAI-compatible).

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	ToolCalls  []chatToolCall `json:"tool_calls,omitempty"`
}

type chatTool struct {
	Type     string           `json:"type"`
	Function chatToolFunction `json:"function"`
}

type chatToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type chatToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools,omitempty"`
	ToolChoice  string        `json:"tool_choice,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// Run sends the role's system prompt plus the stage history to the chat
// API. When the role carries tools, responses requesting tool calls are
// executed locally and fed back; the loop is bounded by MaxToolAttempts,
// after which tools are withheld so the model must answer in text.
func (r *OpenAIRunner) Run(ctx context.Context, role Role, history []types.ConversationTurn) (Response, error) {
	messages := []chatMessage{{Role: "system", Content: buildSystemPrompt(role)}}
	for _, turn := range history {
		messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Content})
	}

	toolDefs := toolDefinitions(role.Tools)
	maxRounds := role.MaxToolAttempts
	if maxRounds <= 0 || len(toolDefs) == 0 {
		maxRounds = 0
	}

	var recorded []ToolCall
	for round := 0; ; round++ {
		tools := toolDefs
		if round >= maxRounds {
			tools = nil
		}

		msg, raw, err := r.complete(ctx, messages, tools)
		if err != nil {
			return Response{}, err
		}

		if len(msg.ToolCalls) == 0 || tools == nil {
			return Response{Content: msg.Content, Raw: raw, ToolCalls: recorded}, nil
		}

		messages = append(messages, msg)
		for _, tc := range msg.ToolCalls {
			recorded = append(recorded, ToolCall{Name: tc.Function.Name, Arguments: tc.Function.Arguments})
			messages = append(messages, chatMessage{
				Role:       "tool",
				ToolCallID: tc.ID,
				Content:    executeTool(ctx, role.Tools, tc),
			})
		}
	}
}

// complete issues one chat completions request and returns the assistant
// message plus the raw response body for the extraction fallback.
func (r *OpenAIRunner) complete(ctx context.Context, messages []chatMessage, tools []chatTool) (chatMessage, string, error) {
	reqBody := chatRequest{
		Model:       r.Model,
		Messages:    messages,
		Tools:       tools,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
	}
	if len(tools) > 0 {
		reqBody.ToolChoice = "auto"
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return chatMessage{}, "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiAPIURL, bytes.NewReader(payload))
	if err != nil {
		return chatMessage{}, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	if r.UserAgent != "" {
		req.Header.Set("User-Agent", r.UserAgent)
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return chatMessage{}, "", fmt.Errorf("calling chat API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatMessage{}, "", fmt.Errorf("reading chat API response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return chatMessage{}, "", fmt.Errorf("chat API returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var cResp chatResponse
	if err := json.Unmarshal(body, &cResp); err != nil {
		return chatMessage{}, "", fmt.Errorf("decoding chat API response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return chatMessage{}, "", fmt.Errorf("chat API returned no choices")
	}

	return cResp.Choices[0].Message, string(body), nil
}

// buildSystemPrompt assembles the system message from the role's persona,
// instructions, and output format, mirroring the fixed section order the
// stages were tuned against.
func buildSystemPrompt(role Role) string {
	var b strings.Builder
	b.WriteString(role.Persona)
	if role.Instructions != "" {
		b.WriteString("\n\n")
		b.WriteString(role.Instructions)
	}
	if role.OutputInstructions != "" {
		b.WriteString("\n\nOutput instructions:\n")
		b.WriteString(role.OutputInstructions)
	}
	if len(role.Tools) > 0 {
		names := make([]string, 0, len(role.Tools))
		for _, t := range role.Tools {
			names = append(names, t.Name)
		}
		fmt.Fprintf(&b, "\n\nYou have access to the following tools: %s. Use them to find current information.", strings.Join(names, ", "))
	}
	return b.String()
}

// toolDefinitions converts role tools into wire-format definitions.
func toolDefinitions(tools []Tool) []chatTool {
	defs := make([]chatTool, 0, len(tools))
	for _, t := range tools {
		defs = append(defs, chatTool{
			Type: "function",
			Function: chatToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return defs
}

// executeTool dispatches one model tool call to the matching role tool.
func executeTool(ctx context.Context, tools []Tool, tc chatToolCall) string {
	for _, t := range tools {
		if t.Name == tc.Function.Name {
			return t.Execute(ctx, tc.Function.Arguments)
		}
	}
	return fmt.Sprintf("error: unknown tool %q", tc.Function.Name)
}
