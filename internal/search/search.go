package search

import (
	"strings"

	"storefront/engine/internal/domain"
)

// Search narrows products to those matching the free-text query and
// every present filter. Each criterion is skipped entirely when empty or
// nil, so absence never excludes a product. The result preserves the
// input iteration order; sorting and pagination are the caller's job.
func Search(query string, filters domain.Filters, products []domain.Product) []domain.Product {
	results := make([]domain.Product, 0, len(products))

	query = strings.ToLower(strings.TrimSpace(query))

	for _, p := range products {
		if query != "" && !matchesQuery(p, query) {
			continue
		}
		if filters.Category != "" && !containsElement(p.CategoryPath, filters.Category) {
			continue
		}
		if filters.MinPrice != nil && p.DiscountedPrice < *filters.MinPrice {
			continue
		}
		if filters.MaxPrice != nil && p.DiscountedPrice > *filters.MaxPrice {
			continue
		}
		if filters.MinRating != nil && p.Rating < *filters.MinRating {
			continue
		}
		results = append(results, p)
	}

	return results
}

// matchesQuery tests the product name and every category path segment.
func matchesQuery(p domain.Product, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(p.ProductName), lowerQuery) {
		return true
	}
	for _, segment := range p.CategoryPath {
		if strings.Contains(strings.ToLower(segment), lowerQuery) {
			return true
		}
	}
	return false
}

// containsElement requires an exact path element match, not a substring.
func containsElement(path []string, value string) bool {
	for _, segment := range path {
		if segment == value {
			return true
		}
	}
	return false
}
