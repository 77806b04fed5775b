package recommend

import (
	"sort"

	"storefront/engine/internal/domain"
)

// SortBy selects how a recommendation list is presented.
type SortBy string

const (
	SortRecommended  SortBy = "recommended"
	SortPriceLowHigh SortBy = "price-low"
	SortPriceHighLow SortBy = "price-high"
	SortRating       SortBy = "rating"
)

// Sort returns a sorted copy of products. SortRecommended (and any
// unknown mode) keeps the recommender's original order.
func Sort(products []domain.Product, by SortBy) []domain.Product {
	sorted := make([]domain.Product, len(products))
	copy(sorted, products)

	switch by {
	case SortPriceLowHigh:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DiscountedPrice < sorted[j].DiscountedPrice
		})
	case SortPriceHighLow:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].DiscountedPrice > sorted[j].DiscountedPrice
		})
	case SortRating:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Rating > sorted[j].Rating
		})
	}

	return sorted
}
