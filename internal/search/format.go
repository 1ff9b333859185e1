// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"fmt"
	"strings"

	"github.com/pdiddy/newsletter-engine/pkg/types"
)

// previewCap bounds the content preview rendered per result.
const previewCap = 300

// Format renders search results into a human-readable digest section for
// injection into an agent prompt. It is a pure function: absent fields
// render as empty values, previews are capped at previewCap characters,
// and the same input always yields the same string.
func Format(results []types.SearchResult, query string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Search for '%s' found %d results:\n\n", query, len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "[Result %d]\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", r.Title)
		fmt.Fprintf(&b, "URL: %s\n", r.URL)
		fmt.Fprintf(&b, "Published: %s\n", r.PublishedDate)
		if r.ContentPreview != "" {
			fmt.Fprintf(&b, "Preview: %s...\n\n", truncate(r.ContentPreview, previewCap))
		}
	}

	return b.String()
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
