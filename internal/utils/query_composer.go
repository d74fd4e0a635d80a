// Package utils holds small pure helpers shared by the services.
package utils

import (
	"strings"

	"github.com/justsurfingit/Job-Search-Agent/internal/models"
)

// ComposedQuery is one per-platform search string, ready to hand to the
// search provider. Ephemeral - whether it gets persisted is the caller's call.
type ComposedQuery struct {
	PlatformID     uint   `json:"platform_id"`
	PlatformDomain string `json:"platform_domain"`
	QueryText      string `json:"query_text"`
}

// BuildPlatformQueries builds one "site:" restricted query per target:
//
//	site:greenhouse.io ("senior software engineer" OR "senior developer") (Bangalore OR Mumbai)
//
// Locations keep their input order, no dedup, no escaping. The caller is
// expected to filter inactive targets before calling; the composer trusts
// its input. Empty targets yields an empty (non-nil) slice.
func BuildPlatformQueries(queryString string, locations []string, targets []models.PlatformURL) []ComposedQuery {
	locationPart := ""
	if len(locations) > 0 {
		locationPart = "(" + strings.Join(locations, " OR ") + ")"
	}

	composed := make([]ComposedQuery, 0, len(targets))
	for _, target := range targets {
		if target.URL == "" {
			continue
		}

		parts := []string{"site:" + target.URL, queryString}
		if locationPart != "" {
			parts = append(parts, locationPart)
		}

		composed = append(composed, ComposedQuery{
			PlatformID:     target.ID,
			PlatformDomain: target.URL,
			QueryText:      strings.Join(parts, " "),
		})
	}
	return composed
}
