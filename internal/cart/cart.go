package cart

import (
	"context"
	"encoding/json"

	"storefront/engine/internal/domain"
	"storefront/engine/internal/state"

	log "github.com/sirupsen/logrus"
)

// Store owns the session cart. Every mutation recomputes the total and
// writes the cart back to persistent storage. Persistence failures never
// surface to the caller: a failed restore yields an empty cart and a
// failed write is logged and swallowed.
type Store struct {
	store      state.Store
	storageKey string
	cart       domain.Cart
}

// NewStore restores the cart persisted under storageKey, or starts empty
// when nothing usable is stored.
func NewStore(ctx context.Context, store state.Store, storageKey string) *Store {
	s := &Store{
		store:      store,
		storageKey: storageKey,
		cart:       domain.Cart{Items: []domain.CartItem{}},
	}

	data, err := store.Get(ctx, storageKey)
	if err != nil {
		if err != state.ErrNotFound {
			log.Warnf("Failed to load cart, starting empty: %v", err)
		}
		return s
	}

	var restored domain.Cart
	if err := json.Unmarshal(data, &restored); err != nil {
		log.Warnf("Failed to decode persisted cart, starting empty: %v", err)
		return s
	}
	if restored.Items == nil {
		restored.Items = []domain.CartItem{}
	}
	restored.Recompute()
	s.cart = restored

	return s
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	items := make([]domain.CartItem, len(s.cart.Items))
	copy(items, s.cart.Items)
	return domain.Cart{Items: items, Total: s.cart.Total}
}

// Add merges quantity into an existing line for the product or appends a
// new line with an add-time price snapshot. Quantity must be positive by
// caller contract.
func (s *Store) Add(ctx context.Context, product domain.Product, quantity int) {
	found := false
	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == product.ProductID {
			s.cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}

	if !found {
		s.cart.Items = append(s.cart.Items, domain.CartItem{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Price:        product.DiscountedPrice,
			Quantity:     quantity,
			ImgLink:      product.ImgLink,
			CategoryLeaf: product.CategoryLeaf,
		})
	}

	s.cart.Recompute()
	s.persist(ctx)
}

// Remove drops the line for productID. Removing an absent product is a
// no-op, not an error.
func (s *Store) Remove(ctx context.Context, productID string) {
	items := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	s.cart.Items = items

	s.cart.Recompute()
	s.persist(ctx)
}

// SetQuantity overwrites the quantity for productID. A quantity of zero
// or less removes the line entirely.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity <= 0 {
		s.Remove(ctx, productID)
		return
	}

	for i := range s.cart.Items {
		if s.cart.Items[i].ProductID == productID {
			s.cart.Items[i].Quantity = quantity
			break
		}
	}

	s.cart.Recompute()
	s.persist(ctx)
}

// Clear resets to the empty cart.
func (s *Store) Clear(ctx context.Context) {
	s.cart = domain.Cart{Items: []domain.CartItem{}}
	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.cart)
	if err != nil {
		log.Errorf("Failed to encode cart: %v", err)
		return
	}
	if err := s.store.Set(ctx, s.storageKey, data); err != nil {
		log.Errorf("Failed to save cart: %v", err)
	}
}
