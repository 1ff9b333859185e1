// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the newsletter pipeline.
// All entities live for a single pipeline invocation; nothing here carries
// cross-run state.
package types

// SearchQuery holds the parameters for one web search call. Constructed
// per call and never mutated afterwards.
type SearchQuery struct {
	// Query is the free-text keyword query.
	Query string `json:"query" yaml:"query"`

	// RecencyDays scopes the search to results published within the last
	// N days.
	RecencyDays int `json:"recency_days" yaml:"recency_days"`

	// MaxResults caps the number of results returned.
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// SearchResult is a single record returned by the search provider.
// Result order is the provider's relevance order; results are not
// deduplicated.
type SearchResult struct {
	// Title is the page title as returned by the provider.
	Title string `json:"title" yaml:"title"`

	// URL is the result link.
	URL string `json:"url" yaml:"url"`

	// PublishedDate is the publication date string from the provider,
	// empty when the provider does not know it.
	PublishedDate string `json:"published_date" yaml:"published_date"`

	// ContentPreview is a snippet of page content, possibly empty.
	ContentPreview string `json:"content_preview" yaml:"content_preview"`
}

// SearchResponse is the envelope every search call returns. Search clients
// never fail with an error: provider and network faults are reported
// through Success and ErrorMessage so a failed search degrades the digest
// instead of aborting the pipeline.
type SearchResponse struct {
	// Success reports whether the search completed.
	Success bool `json:"success" yaml:"success"`

	// Query echoes the query text that was executed.
	Query string `json:"query" yaml:"query"`

	// Results holds the result records in provider order.
	Results []SearchResult `json:"results" yaml:"results"`

	// ErrorMessage describes the failure when Success is false.
	ErrorMessage string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
