package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/engine/internal/cart"
	"storefront/engine/internal/catalog"
	"storefront/engine/internal/client"
	"storefront/engine/internal/domain"
	"storefront/engine/internal/history"
	"storefront/engine/internal/recommend"
	"storefront/engine/internal/repository"
	"storefront/engine/internal/search"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrMissingShipping    = errors.New("missing required shipping details")
	ErrMissingPayment     = errors.New("missing required payment details")
	ErrInvalidPrediction  = errors.New("invalid price prediction input")
	ErrCatalogUnavailable = errors.New("catalog is not loaded")
)

// ProductView is what the product detail operation hands to the caller:
// the product itself plus its "you may also like" list.
type ProductView struct {
	Product *domain.Product
	Similar []domain.Product
}

// Session drives one storefront session: it owns the catalog cache, the
// persisted cart and viewed history, and the remote API client, and
// exposes the operations the UI pages are built on.
type Session struct {
	catalog *catalog.Cache
	client  client.StorefrontClient
	cart    *cart.Store
	history *history.Store
	orders  repository.OrderRepository
	taxRate float64
}

func NewSession(
	cat *catalog.Cache,
	cl client.StorefrontClient,
	cartStore *cart.Store,
	historyStore *history.Store,
	orders repository.OrderRepository,
	taxRate float64,
) *Session {
	return &Session{
		catalog: cat,
		client:  cl,
		cart:    cartStore,
		history: historyStore,
		orders:  orders,
		taxRate: taxRate,
	}
}

// EnsureCatalog triggers the one-time catalog load. Safe to call on
// every page render; only the first call fetches.
func (s *Session) EnsureCatalog(ctx context.Context) error {
	return s.catalog.Load(ctx)
}

// Browse applies the free-text query and filters to the cached catalog.
func (s *Session) Browse(query string, filters domain.Filters) []domain.Product {
	return search.Search(query, filters, s.catalog.Products())
}

// Categories lists the distinct top-level categories for the filter UI.
func (s *Session) Categories() []string {
	return s.catalog.Categories()
}

// Popular returns the top n products by rating count.
func (s *Session) Popular(n int) []domain.Product {
	return s.catalog.Popular(n)
}

// Cart returns the current cart snapshot.
func (s *Session) Cart() domain.Cart {
	return s.cart.Cart()
}

// AddToCart adds a catalog product to the cart. Quantity defaults to 1
// when zero or negative.
func (s *Session) AddToCart(ctx context.Context, productID string, quantity int) error {
	product, err := s.catalog.ByID(productID)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		quantity = 1
	}
	s.cart.Add(ctx, *product, quantity)
	return nil
}

// RemoveFromCart drops a product from the cart.
func (s *Session) RemoveFromCart(ctx context.Context, productID string) {
	s.cart.Remove(ctx, productID)
}

// SetCartQuantity overwrites a cart line's quantity; zero removes it.
func (s *Session) SetCartQuantity(ctx context.Context, productID string, quantity int) {
	s.cart.SetQuantity(ctx, productID, quantity)
}

// ProductDetail looks up a product, records the view, and assembles its
// similar-items list. The remote recommender is preferred; any failure
// falls back to the locally computed list so the page always renders.
func (s *Session) ProductDetail(ctx context.Context, productID string, similarCount int) (*ProductView, error) {
	product, err := s.catalog.ByID(productID)
	if err != nil {
		return nil, err
	}

	s.history.Add(ctx, productID)

	similar, err := s.client.RecommendationsForProduct(ctx, productID, similarCount)
	if err != nil {
		log.Warnf("Remote recommendations unavailable for %s, using local fallback: %v", productID, err)
		similar = recommend.SimilarTo(productID, similarCount, s.catalog)
	}

	return &ProductView{Product: product, Similar: similar}, nil
}

// CartSuggestions fetches cart-driven recommendations. An empty cart
// yields an empty list; a remote failure falls back to the local list
// seeded from the first cart item.
func (s *Session) CartSuggestions(ctx context.Context, count int) []domain.Product {
	current := s.cart.Cart()
	if len(current.Items) == 0 {
		return []domain.Product{}
	}

	payload := make([]client.CartItemPayload, 0, len(current.Items))
	for _, item := range current.Items {
		payload = append(payload, client.CartItemPayload{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			Price:        item.Price,
			Quantity:     item.Quantity,
			CategoryLeaf: item.CategoryLeaf,
		})
	}

	products, err := s.client.RecommendationsForCart(ctx, payload, count)
	if err != nil {
		log.Warnf("Cart recommendations unavailable, using local fallback: %v", err)
		return recommend.SimilarTo(current.Items[0].ProductID, count, s.catalog)
	}

	return products
}

// HomeFeed fetches the general recommendation feed. The backend treats
// an empty cart payload as "popular" mode; when it is unreachable the
// feed is computed locally from the viewed history.
func (s *Session) HomeFeed(ctx context.Context, count int) []domain.Product {
	products, err := s.client.RecommendationsForCart(ctx, nil, count)
	if err != nil {
		log.Warnf("Home feed unavailable, using local fallback: %v", err)
		return recommend.PersonalizedFeed(s.history.IDs(), count, s.catalog)
	}
	return products
}

// SortSuggestions re-orders a recommendation list for display.
func (s *Session) SortSuggestions(products []domain.Product, by recommend.SortBy) []domain.Product {
	return recommend.Sort(products, by)
}

// PredictPrice validates the model features and calls the prediction
// endpoint.
func (s *Session) PredictPrice(ctx context.Context, req client.PricePredictionRequest) (*domain.PricePrediction, error) {
	if req.ActualPrice < 0 || req.RatingCount < 0 || req.Rating < 0 || req.Rating > 5 {
		return nil, ErrInvalidPrediction
	}
	return s.client.PredictPrice(ctx, req)
}

// Checkout validates the shipping and payment blocks, records the order,
// and clears the cart. The charge itself is simulated; the order row is
// the only durable effect and its persistence is best-effort.
func (s *Session) Checkout(ctx context.Context, shipping domain.ShippingInfo, payment domain.PaymentInfo) (*domain.Order, error) {
	current := s.cart.Cart()
	if len(current.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if shipping.Name == "" || shipping.Email == "" || shipping.Phone == "" || shipping.Address == "" {
		return nil, ErrMissingShipping
	}
	if payment.CardName == "" || payment.CardNumber == "" || payment.ExpiryDate == "" || payment.CVV == "" {
		return nil, ErrMissingPayment
	}

	tax := current.Total * s.taxRate
	order := &domain.Order{
		OrderID:   uuid.NewString(),
		Items:     current.Items,
		Subtotal:  current.Total,
		Tax:       tax,
		Total:     current.Total + tax,
		Shipping:  shipping,
		CardRef:   domain.MaskCard(payment.CardNumber),
		CreatedAt: time.Now().UTC(),
	}

	if s.orders != nil {
		if err := s.orders.SaveOrder(ctx, order); err != nil {
			log.Errorf("Failed to record order %s: %v", order.OrderID, err)
		}
	}

	s.cart.Clear(ctx)
	log.Infof("✅ Order %s placed, total %.2f", order.OrderID, order.Total)

	return order, nil
}

// Run executes a demo session: load the catalog, then fetch the home
// feed and cart suggestions in parallel.
func (s *Session) Run(ctx context.Context) error {
	if err := s.EnsureCatalog(ctx); err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	log.Infof("🛍️ Categories: %v", s.Categories())
	for _, p := range s.Popular(5) {
		log.Infof("⭐ %s (%d ratings)", p.ProductName, p.RatingCount)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		feed := s.HomeFeed(ctx, 20)
		log.Infof("Home feed ready with %d products", len(feed))
		return nil
	})

	g.Go(func() error {
		suggestions := s.CartSuggestions(ctx, 20)
		log.Infof("Cart suggestions ready with %d products", len(suggestions))
		return nil
	})

	return g.Wait()
}
