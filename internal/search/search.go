// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search executes recency-bounded web searches and renders the
// results into prompt-ready digests.
package search

import (
	"context"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// Client executes one keyword search bounded by a recency window and a
// result cap. Implementations never fail with an error: faults are
// reported through the response envelope so callers can degrade instead
// of aborting.
type Client interface {
	Search(ctx context.Context, query types.SearchQuery) types.SearchResponse
}

// Failure builds a failed response envelope for a query.
func Failure(query types.SearchQuery, msg string) types.SearchResponse {
	return types.SearchResponse{
		Success:      false,
		Query:        query.Query,
		ErrorMessage: msg,
	}
}
