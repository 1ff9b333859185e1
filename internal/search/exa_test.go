// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

func testQuery() types.SearchQuery {
	return types.SearchQuery{
		Query:       "latest developments in quantum computing",
		RecencyDays: 30,
		MaxResults:  5,
	}
}

func newExaTestClient(url string) *ExaClient {
	return &ExaClient{
		APIKey: "test-key",
		Config: types.SearchConfig{MaxResults: 5},
		Client: &http.Client{Timeout: time.Second},
	}
}

func TestExaSearchSuccess(t *testing.T) {
	var gotReq exaRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing x-api-key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(exaResponse{Results: []exaResult{
			{Title: "Qubit milestone", URL: "https://a.example", PublishedDate: "2026-08-10", Text: "preview text"},
			{Title: "Error correction", URL: "https://b.example"},
		}})
	}))
	defer ts.Close()

	oldURL := exaAPIURL
	exaAPIURL = ts.URL
	defer func() { exaAPIURL = oldURL }()

	resp := newExaTestClient(ts.URL).Search(context.Background(), testQuery())

	if !resp.Success {
		t.Fatalf("Success = false, error: %s", resp.ErrorMessage)
	}
	if resp.Query != "latest developments in quantum computing" {
		t.Errorf("Query = %q", resp.Query)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Title != "Qubit milestone" || resp.Results[0].ContentPreview != "preview text" {
		t.Errorf("first result mapped wrong: %+v", resp.Results[0])
	}
	// Provider order is preserved.
	if resp.Results[1].Title != "Error correction" {
		t.Errorf("result order not preserved")
	}

	if gotReq.NumResults != 5 {
		t.Errorf("NumResults = %d, want 5", gotReq.NumResults)
	}
	wantStart := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	if gotReq.StartPublishedDate != wantStart {
		t.Errorf("StartPublishedDate = %q, want %q", gotReq.StartPublishedDate, wantStart)
	}
}

func TestExaSearchMissingAPIKey(t *testing.T) {
	c := &ExaClient{Client: http.DefaultClient}
	resp := c.Search(context.Background(), testQuery())

	if resp.Success {
		t.Fatalf("Success = true without an API key")
	}
	if resp.ErrorMessage == "" {
		t.Errorf("expected an error message")
	}
	if resp.Query != testQuery().Query {
		t.Errorf("failed envelope should echo the query")
	}
}

func TestExaSearchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer ts.Close()

	oldURL := exaAPIURL
	exaAPIURL = ts.URL
	defer func() { exaAPIURL = oldURL }()

	resp := newExaTestClient(ts.URL).Search(context.Background(), testQuery())

	if resp.Success {
		t.Fatalf("Success = true on HTTP 403")
	}
}

func TestExaSearchBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	oldURL := exaAPIURL
	exaAPIURL = ts.URL
	defer func() { exaAPIURL = oldURL }()

	resp := newExaTestClient(ts.URL).Search(context.Background(), testQuery())

	if resp.Success {
		t.Fatalf("Success = true on undecodable body")
	}
}
