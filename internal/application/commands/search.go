package commands

import (
	"context"
	"sort"
	"strings"

	"laserlab/internal/domain"
)

// CatalogResult wraps a library entry with a relevance score
type CatalogResult struct {
	domain.LibraryEntry
	Score int
}

// SearchCatalogCommand filters the library and ranks the matches
type SearchCatalogCommand struct {
	catalog  *domain.Catalog
	Category domain.Category
	Query    string
}

// NewSearchCatalogCommand creates a new SearchCatalogCommand
func NewSearchCatalogCommand(catalog *domain.Catalog, category domain.Category, query string) *SearchCatalogCommand {
	return &SearchCatalogCommand{
		catalog:  catalog,
		Category: category,
		Query:    query,
	}
}

// Execute returns the entries the catalog filter admits. With a query they
// are ranked by relevance; without one they keep catalog order.
func (c *SearchCatalogCommand) Execute(ctx context.Context) ([]CatalogResult, error) {
	category := c.Category
	if category == "" {
		category = domain.CategoryAll
	}
	entries := c.catalog.Filter(category, c.Query)

	results := make([]CatalogResult, len(entries))
	for i, e := range entries {
		results[i] = CatalogResult{
			LibraryEntry: e,
			Score:        max(FuzzyScore(e.ID, c.Query), FuzzyScore(e.DisplayName, c.Query)),
		}
	}
	if c.Query != "" {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	}
	return results, nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive
			}
			if i == 0 {
				score += 15
			}
			if i > 0 && (target[i-1] == '-' || target[i-1] == ' ') {
				score += 10 // after separator
			}
			score++
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}
