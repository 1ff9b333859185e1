// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/newsletter-engine/internal/httputil"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// exaAPIURL is the Exa search endpoint. Declared as a var so tests can
// substitute an httptest server.
var exaAPIURL = "https://api.exa.ai/search"

// previewMaxCharacters bounds the page content requested per result.
const previewMaxCharacters = 1000

// ExaClient queries the Exa search API. A zero API key is a valid
// degraded state: every call reports failure through the envelope and the
// pipeline continues without search context.
type ExaClient struct {
	APIKey string
	Config types.SearchConfig
	Client *http.Client
}

// NewExaClient builds a client from config, wiring the HTTP timeout.
func NewExaClient(cfg types.SearchConfig) *ExaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExaClient{
		APIKey: cfg.APIKey,
		Config: cfg,
		Client: &http.Client{Timeout: timeout},
	}
}

// exaRequest is the request body for the Exa search endpoint.
type exaRequest struct {
	Query              string      `json:"query"`
	NumResults         int         `json:"numResults"`
	StartPublishedDate string      `json:"startPublishedDate,omitempty"`
	Contents           exaContents `json:"contents"`
}

type exaContents struct {
	Text exaTextOpts `json:"text"`
}

type exaTextOpts struct {
	MaxCharacters int `json:"maxCharacters"`
}

// exaResponse is the response body from the Exa search endpoint.
type exaResponse struct {
	Results []exaResult `json:"results"`
}

type exaResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate"`
	Text          string `json:"text"`
}

// Search executes one query. It never returns an error: provider faults,
// decode failures, and a missing API key all land in the envelope.
func (c *ExaClient) Search(ctx context.Context, query types.SearchQuery) types.SearchResponse {
	if c.APIKey == "" {
		return Failure(query, "no Exa API key configured")
	}

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = c.Config.MaxResults
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	body := exaRequest{
		Query:      query.Query,
		NumResults: maxResults,
		Contents:   exaContents{Text: exaTextOpts{MaxCharacters: previewMaxCharacters}},
	}
	if query.RecencyDays > 0 {
		start := time.Now().UTC().AddDate(0, 0, -query.RecencyDays)
		body.StartPublishedDate = start.Format("2006-01-02")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Failure(query, fmt.Sprintf("encoding request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaAPIURL, bytes.NewReader(payload))
	if err != nil {
		return Failure(query, fmt.Sprintf("creating request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	if c.Config.UserAgent != "" {
		req.Header.Set("User-Agent", c.Config.UserAgent)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return Failure(query, fmt.Sprintf("Exa API request: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Failure(query, fmt.Sprintf("Exa API returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(detail)))
	}

	var eResp exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&eResp); err != nil {
		return Failure(query, fmt.Sprintf("parsing Exa response: %v", err))
	}

	results := make([]types.SearchResult, 0, len(eResp.Results))
	for _, r := range eResp.Results {
		results = append(results, types.SearchResult{
			Title:          r.Title,
			URL:            r.URL,
			PublishedDate:  r.PublishedDate,
			ContentPreview: r.Text,
		})
	}

	return types.SearchResponse{
		Success: true,
		Query:   query.Query,
		Results: results,
	}
}
