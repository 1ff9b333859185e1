// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/newsletter-engine/internal/search"
	"github.com/pdiddy/newsletter-engine/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Run a one-off recency-bounded web search",
	Long: `Search executes a single keyword query against the search provider and
prints the formatted digest the pipeline would inject into a prompt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("days", 30, "recency window in days")
	searchCmd.Flags().Int("max-results", 5, "maximum number of results")
	searchCmd.Flags().Bool("json", false, "output the raw response as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	days, _ := cmd.Flags().GetInt("days")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	asJSON, _ := cmd.Flags().GetBool("json")

	client := search.NewExaClient(cfg.Search)
	resp := client.Search(cmd.Context(), types.SearchQuery{
		Query:       strings.Join(args, " "),
		RecencyDays: days,
		MaxResults:  maxResults,
	})

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if !resp.Success {
		return fmt.Errorf("search failed: %s", resp.ErrorMessage)
	}
	fmt.Fprint(out, search.Format(resp.Results, resp.Query))
	return nil
}
