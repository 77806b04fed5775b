package service

import (
	"context"
	"errors"
	"testing"

	"storefront/engine/internal/cart"
	"storefront/engine/internal/catalog"
	"storefront/engine/internal/client"
	"storefront/engine/internal/domain"
	"storefront/engine/internal/history"
	"storefront/engine/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStorefrontClient is a mock implementation of client.StorefrontClient
type MockStorefrontClient struct {
	mock.Mock
}

func (m *MockStorefrontClient) FetchProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefrontClient) RecommendationsForCart(ctx context.Context, items []client.CartItemPayload, count int) ([]domain.Product, error) {
	args := m.Called(ctx, items, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefrontClient) RecommendationsForProduct(ctx context.Context, productID string, count int) ([]domain.Product, error) {
	args := m.Called(ctx, productID, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockStorefrontClient) PredictPrice(ctx context.Context, req client.PricePredictionRequest) (*domain.PricePrediction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PricePrediction), args.Error(1)
}

// MockOrderRepository is a mock implementation of repository.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func sessionProducts() []domain.Product {
	return []domain.Product{
		{ProductID: "cable-1", ProductName: "USB-C Cable", CategoryLeaf: "USB Cables", CategoryTop: "Computers & Accessories", CategoryPath: []string{"Computers&Accessories", "Cables"}, DiscountedPrice: 199, Rating: 4.2, RatingCount: 900},
		{ProductID: "cable-2", ProductName: "Lightning Cable", CategoryLeaf: "USB Cables", CategoryTop: "Computers & Accessories", CategoryPath: []string{"Computers&Accessories", "Cables"}, DiscountedPrice: 299, Rating: 4.6, RatingCount: 400},
		{ProductID: "watch-1", ProductName: "Fitness Watch", CategoryLeaf: "Smart Watches", CategoryTop: "Electronics", CategoryPath: []string{"Electronics", "SmartWatches"}, DiscountedPrice: 1999, Rating: 4.4, RatingCount: 2100},
	}
}

func newTestSession(t *testing.T) (*Session, *MockStorefrontClient, *MockOrderRepository) {
	t.Helper()
	ctx := context.Background()

	mockClient := new(MockStorefrontClient)
	mockClient.On("FetchProducts", mock.Anything, mock.Anything).Return(sessionProducts(), nil).Once()

	cat := catalog.NewCache(mockClient, 100)
	require.NoError(t, cat.Load(ctx))

	kv := state.NewMemoryStore()
	orders := new(MockOrderRepository)

	session := NewSession(
		cat,
		mockClient,
		cart.NewStore(ctx, kv, "shopping_cart"),
		history.NewStore(ctx, kv, "viewed_products", 20),
		orders,
		0.1,
	)
	return session, mockClient, orders
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		Name:    "Asha Rao",
		Email:   "asha@example.com",
		Phone:   "5550100",
		Address: "12 Market Street",
		City:    "Pune",
		Zipcode: "411001",
	}
}

func validPayment() domain.PaymentInfo {
	return domain.PaymentInfo{
		CardName:   "Asha Rao",
		CardNumber: "4111111111111111",
		ExpiryDate: "12/27",
		CVV:        "123",
	}
}

func TestSession_Browse(t *testing.T) {
	session, _, _ := newTestSession(t)

	results := session.Browse("cable", domain.Filters{})
	assert.Len(t, results, 2)

	minRating := 4.5
	results = session.Browse("cable", domain.Filters{MinRating: &minRating})
	require.Len(t, results, 1)
	assert.Equal(t, "cable-2", results[0].ProductID)
}

func TestSession_AddToCart(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.AddToCart(ctx, "cable-1", 0)) // defaults to 1
	require.NoError(t, session.AddToCart(ctx, "cable-1", 2))

	current := session.Cart()
	require.Len(t, current.Items, 1)
	assert.Equal(t, 3, current.Items[0].Quantity)
	assert.Equal(t, 597.0, current.Total)
}

func TestSession_AddToCart_UnknownProduct(t *testing.T) {
	session, _, _ := newTestSession(t)

	err := session.AddToCart(context.Background(), "missing", 1)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSession_ProductDetail_RecordsViewAndUsesRemote(t *testing.T) {
	session, mockClient, _ := newTestSession(t)
	ctx := context.Background()

	remote := []domain.Product{{ProductID: "cable-2"}}
	mockClient.On("RecommendationsForProduct", mock.Anything, "cable-1", 3).Return(remote, nil).Once()

	view, err := session.ProductDetail(ctx, "cable-1", 3)

	require.NoError(t, err)
	assert.Equal(t, "USB-C Cable", view.Product.ProductName)
	assert.Equal(t, remote, view.Similar)
	mockClient.AssertExpectations(t)
}

func TestSession_ProductDetail_FallsBackLocally(t *testing.T) {
	session, mockClient, _ := newTestSession(t)
	ctx := context.Background()

	mockClient.On("RecommendationsForProduct", mock.Anything, "cable-1", 3).
		Return(nil, errors.New("backend down")).Once()

	view, err := session.ProductDetail(ctx, "cable-1", 3)

	require.NoError(t, err)
	require.Len(t, view.Similar, 1)
	assert.Equal(t, "cable-2", view.Similar[0].ProductID)
}

func TestSession_ProductDetail_UnknownProduct(t *testing.T) {
	session, _, _ := newTestSession(t)

	_, err := session.ProductDetail(context.Background(), "missing", 3)
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSession_CartSuggestions_EmptyCart(t *testing.T) {
	session, mockClient, _ := newTestSession(t)

	suggestions := session.CartSuggestions(context.Background(), 10)

	assert.Empty(t, suggestions)
	mockClient.AssertNotCalled(t, "RecommendationsForCart")
}

func TestSession_CartSuggestions_SendsCartPayload(t *testing.T) {
	session, mockClient, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.AddToCart(ctx, "cable-1", 2))

	expected := []client.CartItemPayload{{
		ProductID:    "cable-1",
		ProductName:  "USB-C Cable",
		Price:        199,
		Quantity:     2,
		CategoryLeaf: "USB Cables",
	}}
	remote := []domain.Product{{ProductID: "watch-1"}}
	mockClient.On("RecommendationsForCart", mock.Anything, expected, 10).Return(remote, nil).Once()

	suggestions := session.CartSuggestions(ctx, 10)

	assert.Equal(t, remote, suggestions)
	mockClient.AssertExpectations(t)
}

func TestSession_CartSuggestions_FallsBackLocally(t *testing.T) {
	session, mockClient, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.AddToCart(ctx, "cable-1", 1))
	mockClient.On("RecommendationsForCart", mock.Anything, mock.Anything, 10).
		Return(nil, errors.New("backend down")).Once()

	suggestions := session.CartSuggestions(ctx, 10)

	require.Len(t, suggestions, 1)
	assert.Equal(t, "cable-2", suggestions[0].ProductID)
}

func TestSession_HomeFeed_FallsBackToPersonalized(t *testing.T) {
	session, mockClient, _ := newTestSession(t)
	ctx := context.Background()

	mockClient.On("RecommendationsForCart", mock.Anything, mock.Anything, 5).
		Return(nil, errors.New("backend down")).Once()

	// No views yet, so the fallback is the popular list.
	feed := session.HomeFeed(ctx, 5)

	require.Len(t, feed, 3)
	assert.Equal(t, "watch-1", feed[0].ProductID)
}

func TestSession_PredictPrice_Validation(t *testing.T) {
	session, _, _ := newTestSession(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  client.PricePredictionRequest
	}{
		{"negative price", client.PricePredictionRequest{ActualPrice: -1, Rating: 4, RatingCount: 10}},
		{"rating above five", client.PricePredictionRequest{ActualPrice: 100, Rating: 5.5, RatingCount: 10}},
		{"negative rating count", client.PricePredictionRequest{ActualPrice: 100, Rating: 4, RatingCount: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.PredictPrice(ctx, tt.req)
			assert.ErrorIs(t, err, ErrInvalidPrediction)
		})
	}
}

func TestSession_Checkout_Success(t *testing.T) {
	session, _, orders := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.AddToCart(ctx, "cable-1", 2))
	orders.On("SaveOrder", mock.Anything, mock.Anything).Return(nil).Once()

	order, err := session.Checkout(ctx, validShipping(), validPayment())

	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, 398.0, order.Subtotal)
	assert.InDelta(t, 39.8, order.Tax, 0.001)
	assert.InDelta(t, 437.8, order.Total, 0.001)
	assert.Equal(t, "****1111", order.CardRef)

	// Checkout completion clears the cart.
	assert.Empty(t, session.Cart().Items)
	orders.AssertExpectations(t)
}

func TestSession_Checkout_EmptyCart(t *testing.T) {
	session, _, _ := newTestSession(t)

	_, err := session.Checkout(context.Background(), validShipping(), validPayment())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSession_Checkout_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.ShippingInfo, *domain.PaymentInfo)
		expected error
	}{
		{"missing name", func(s *domain.ShippingInfo, _ *domain.PaymentInfo) { s.Name = "" }, ErrMissingShipping},
		{"missing email", func(s *domain.ShippingInfo, _ *domain.PaymentInfo) { s.Email = "" }, ErrMissingShipping},
		{"missing phone", func(s *domain.ShippingInfo, _ *domain.PaymentInfo) { s.Phone = "" }, ErrMissingShipping},
		{"missing address", func(s *domain.ShippingInfo, _ *domain.PaymentInfo) { s.Address = "" }, ErrMissingShipping},
		{"missing card number", func(_ *domain.ShippingInfo, p *domain.PaymentInfo) { p.CardNumber = "" }, ErrMissingPayment},
		{"missing cvv", func(_ *domain.ShippingInfo, p *domain.PaymentInfo) { p.CVV = "" }, ErrMissingPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session, _, _ := newTestSession(t)
			ctx := context.Background()
			require.NoError(t, session.AddToCart(ctx, "cable-1", 1))

			shipping := validShipping()
			payment := validPayment()
			tt.mutate(&shipping, &payment)

			_, err := session.Checkout(ctx, shipping, payment)
			assert.ErrorIs(t, err, tt.expected)

			// A rejected checkout leaves the cart untouched.
			assert.Len(t, session.Cart().Items, 1)
		})
	}
}

func TestSession_Checkout_OrderSaveFailureStillCompletes(t *testing.T) {
	session, _, orders := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, session.AddToCart(ctx, "cable-1", 1))
	orders.On("SaveOrder", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	order, err := session.Checkout(ctx, validShipping(), validPayment())

	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Empty(t, session.Cart().Items)
}
