package recommend

import (
	"math/rand"
	"sort"

	"storefront/engine/internal/domain"
)

// Catalog is the read view the local recommender needs. Satisfied by
// catalog.Cache.
type Catalog interface {
	Products() []domain.Product
	ByID(id string) (*domain.Product, error)
	Popular(n int) []domain.Product
}

// SimilarTo computes an in-process "similar products" list: every other
// product sharing the source's leaf category, ordered by rating
// descending, truncated to count. An unknown source id degrades to the
// popular list instead of erroring, so the caller always has something
// to show when the remote recommender is down.
func SimilarTo(productID string, count int, cat Catalog) []domain.Product {
	source, err := cat.ByID(productID)
	if err != nil {
		return cat.Popular(count)
	}

	candidates := make([]domain.Product, 0)
	for _, p := range cat.Products() {
		if p.ProductID != productID && p.CategoryLeaf == source.CategoryLeaf {
			candidates = append(candidates, p)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Rating > candidates[j].Rating
	})

	if count < len(candidates) {
		candidates = candidates[:count]
	}
	return candidates
}

// PersonalizedFeed builds a browsing feed from the viewed history: items
// sharing a viewed leaf category first, topped up with popular items,
// shuffled. An empty history falls back to the popular list.
func PersonalizedFeed(viewedIDs []string, count int, cat Catalog) []domain.Product {
	if len(viewedIDs) == 0 {
		return cat.Popular(count)
	}

	viewed := make(map[string]struct{}, len(viewedIDs))
	leaves := make(map[string]struct{})
	for _, id := range viewedIDs {
		viewed[id] = struct{}{}
		if p, err := cat.ByID(id); err == nil {
			leaves[p.CategoryLeaf] = struct{}{}
		}
	}

	recommended := make([]domain.Product, 0, count)
	picked := make(map[string]struct{})
	for _, p := range cat.Products() {
		if _, isViewed := viewed[p.ProductID]; isViewed {
			continue
		}
		if _, hasLeaf := leaves[p.CategoryLeaf]; hasLeaf {
			recommended = append(recommended, p)
			picked[p.ProductID] = struct{}{}
		}
	}

	// Top up with popular items when category matches run short.
	if len(recommended) < count {
		for _, p := range cat.Popular(count * 2) {
			if len(recommended) >= count {
				break
			}
			if _, isViewed := viewed[p.ProductID]; isViewed {
				continue
			}
			if _, already := picked[p.ProductID]; already {
				continue
			}
			recommended = append(recommended, p)
			picked[p.ProductID] = struct{}{}
		}
	}

	rand.Shuffle(len(recommended), func(i, j int) {
		recommended[i], recommended[j] = recommended[j], recommended[i]
	})

	if count < len(recommended) {
		recommended = recommended[:count]
	}
	return recommended
}
