package catalog

import (
	"context"
	"errors"
	"sort"
	"sync"

	"storefront/engine/internal/client"
	"storefront/engine/internal/domain"

	log "github.com/sirupsen/logrus"
)

// LoadState tracks the catalog fetch lifecycle. The allowed transitions
// are NotLoaded -> Loading -> {Loaded, Failed} and Failed -> Loading on
// an explicit re-trigger. Loaded is terminal for the session.
type LoadState int

const (
	StateNotLoaded LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateNotLoaded:
		return "NotLoaded"
	case StateLoading:
		return "Loading"
	case StateLoaded:
		return "Loaded"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ErrNotFound is returned by ByID for unknown product ids.
var ErrNotFound = errors.New("catalog: product not found")

// Cache holds the session's product set in memory. The load is guarded
// so a concurrent trigger while a fetch is in flight is a no-op, and a
// completed load is never repeated.
type Cache struct {
	client    client.StorefrontClient
	pageLimit int

	mu       sync.Mutex
	state    LoadState
	products []domain.Product
	byID     map[string]*domain.Product
}

// NewCache returns an unloaded cache fetching at most pageLimit products.
func NewCache(cl client.StorefrontClient, pageLimit int) *Cache {
	return &Cache{
		client:    cl,
		pageLimit: pageLimit,
		state:     StateNotLoaded,
		byID:      make(map[string]*domain.Product),
	}
}

// Load fetches the catalog once. Calls while a fetch is in flight return
// immediately; calls after a successful load do not re-fetch. A failed
// load leaves the cache in StateFailed and a later call may retry (the
// caller decides when, nothing retries automatically).
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateLoading, StateLoaded:
		c.mu.Unlock()
		return nil
	}
	c.state = StateLoading
	c.mu.Unlock()

	products, err := c.client.FetchProducts(ctx, c.pageLimit)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state = StateFailed
		log.Errorf("Catalog load failed: %v", err)
		return err
	}

	c.products = products
	c.byID = make(map[string]*domain.Product, len(products))
	for i := range c.products {
		c.byID[c.products[i].ProductID] = &c.products[i]
	}
	c.state = StateLoaded

	log.Infof("Catalog loaded with %d products", len(products))
	return nil
}

// State returns the current load state.
func (c *Cache) State() LoadState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Products returns the cached product set in fetch order.
func (c *Cache) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByID looks up a product by id.
func (c *Cache) ByID(id string) (*domain.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// Popular returns the top n products by rating count, descending.
func (c *Cache) Popular(n int) []domain.Product {
	products := c.Products()

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].RatingCount > products[j].RatingCount
	})

	if n < len(products) {
		products = products[:n]
	}
	return products
}

// Categories returns the sorted set of distinct top-level categories
// present in the catalog.
func (c *Cache) Categories() []string {
	products := c.Products()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for _, p := range products {
		if p.CategoryTop == "" {
			continue
		}
		if _, ok := seen[p.CategoryTop]; !ok {
			seen[p.CategoryTop] = struct{}{}
			categories = append(categories, p.CategoryTop)
		}
	}

	sort.Strings(categories)
	return categories
}
