package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "newsletter-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search client. The API key is an
// explicit field: components never read the environment themselves, the
// CLI resolves credentials and passes them in.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the Exa API key. Empty means search is degraded: every
	// call reports failure and the pipeline runs without a digest.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxResults caps results per search call (default 5).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// AgentConfig holds settings for the language-model provider backing the
// agent stages.
type AgentConfig struct {
	HTTPConfig `yaml:",inline"`

	// Model is the chat model identifier (e.g. "gpt-4-turbo").
	Model string `json:"model" yaml:"model"`

	// APIKey is the provider authentication key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Temperature is the sampling temperature for tool-using stages.
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// MaxTokens bounds the response length (default 4096).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`
}

// ArchiveConfig holds settings for the newsletter run archive.
type ArchiveConfig struct {
	// Path is the SQLite database file (default "newsletters.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default page size for archive listings (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all component configurations for one pipeline.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Agent   AgentConfig   `json:"agent" yaml:"agent"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// RolesFile optionally overrides the built-in agent role
	// configurations from a YAML file.
	RolesFile string `json:"roles_file,omitempty" yaml:"roles_file,omitempty"`
}
