// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pdiddy/newsletter-engine/internal/agent"
	"github.com/pdiddy/newsletter-engine/internal/search"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// searchToolInput is the argument schema the model fills when it calls
// the search tool.
type searchToolInput struct {
	SearchQuery string `json:"search_query"`
	DaysAgo     int    `json:"days_ago"`
	MaxResults  int    `json:"max_results"`
}

// SearchTool bridges model tool calls to the search client. Tool faults
// are reported in the returned text so a bad call never aborts a stage.
func SearchTool(client search.Client) agent.Tool {
	return agent.Tool{
		Name:        "search_and_contents",
		Description: "Search the web for recent pages matching a keyword query and return their titles, URLs, dates, and content previews.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"search_query": map[string]any{
					"type":        "string",
					"description": "The keyword query to search for",
				},
				"days_ago": map[string]any{
					"type":        "integer",
					"description": "How many days back to search (default 30)",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results (default 5)",
				},
			},
			"required": []string{"search_query"},
		},
		Execute: func(ctx context.Context, arguments string) string {
			var in searchToolInput
			if err := json.Unmarshal([]byte(arguments), &in); err != nil {
				return fmt.Sprintf("error: invalid search arguments: %v", err)
			}
			if in.DaysAgo <= 0 {
				in.DaysAgo = 30
			}
			if in.MaxResults <= 0 {
				in.MaxResults = 5
			}

			resp := client.Search(ctx, types.SearchQuery{
				Query:       in.SearchQuery,
				RecencyDays: in.DaysAgo,
				MaxResults:  in.MaxResults,
			})
			if !resp.Success {
				return fmt.Sprintf("search failed: %s", resp.ErrorMessage)
			}
			return search.Format(resp.Results, resp.Query)
		},
	}
}
