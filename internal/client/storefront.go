package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/engine/internal/config"
	"storefront/engine/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// StorefrontClient wraps the backend recommendation and catalog API.
type StorefrontClient interface {
	FetchProducts(ctx context.Context, limit int) ([]domain.Product, error)
	RecommendationsForCart(ctx context.Context, items []CartItemPayload, count int) ([]domain.Product, error)
	RecommendationsForProduct(ctx context.Context, productID string, count int) ([]domain.Product, error)
	PredictPrice(ctx context.Context, req PricePredictionRequest) (*domain.PricePrediction, error)
}

// CartItemPayload is the cart line shape the recommendation endpoint
// expects. An empty slice signals "general/popular" mode.
type CartItemPayload struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	CategoryLeaf string  `json:"category_leaf"`
}

// PricePredictionRequest carries the three model features.
type PricePredictionRequest struct {
	ActualPrice float64 `json:"actual_price"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
}

// envelope is the standard response wrapper every backend endpoint uses.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Count     int             `json:"count,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	Error     string          `json:"error,omitempty"`
}

type storefrontClient struct {
	rl         ratelimit.Limiter
	config     config.APIConfig
	httpClient *resty.Client
}

// NewStorefrontClient builds a client for the storefront backend API.
func NewStorefrontClient(cfg config.APIConfig) StorefrontClient {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	rps := cfg.MaxRequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &storefrontClient{
		rl:         ratelimit.New(rps),
		config:     cfg,
		httpClient: client,
	}
}

func (c *storefrontClient) FetchProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := c.getJSON(ctx, fmt.Sprintf("/products?limit=%d", limit), &products)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	for i := range products {
		products[i].DeriveCategoryFields()
	}

	log.Debugf("Fetched %d products from backend", len(products))
	return products, nil
}

func (c *storefrontClient) RecommendationsForCart(ctx context.Context, items []CartItemPayload, count int) ([]domain.Product, error) {
	if items == nil {
		items = []CartItemPayload{}
	}
	body := map[string]interface{}{
		"cart_items": items,
		"count":      count,
	}

	var products []domain.Product
	err := c.postJSON(ctx, "/recommendations", body, &products)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart recommendations: %w", err)
	}

	log.Debugf("Fetched %d recommendations for %d cart items", len(products), len(items))
	return products, nil
}

func (c *storefrontClient) RecommendationsForProduct(ctx context.Context, productID string, count int) ([]domain.Product, error) {
	var products []domain.Product
	err := c.getJSON(ctx, fmt.Sprintf("/recommendations-for-product/%s?count=%d", productID, count), &products)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations for product %s: %w", productID, err)
	}

	return products, nil
}

func (c *storefrontClient) PredictPrice(ctx context.Context, req PricePredictionRequest) (*domain.PricePrediction, error) {
	var prediction domain.PricePrediction
	err := c.postJSON(ctx, "/price-prediction", req, &prediction)
	if err != nil {
		return nil, fmt.Errorf("failed to predict price: %w", err)
	}

	return &prediction, nil
}

func (c *storefrontClient) getJSON(ctx context.Context, path string, out interface{}) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(path)

	return c.decode(resp, err, out)
}

func (c *storefrontClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)

	return c.decode(resp, err, out)
}

// decode unwraps the response envelope. Transport failures, non-2xx
// statuses, and a present envelope error field are all surfaced as
// errors for the calling operation to convert into a user-facing state.
func (c *storefrontClient) decode(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var env envelope
	if decodeErr := json.Unmarshal(resp.Bytes(), &env); decodeErr != nil {
		if resp.IsError() {
			return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
		}
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}

	if env.Error != "" {
		return fmt.Errorf("backend error: %s", env.Error)
	}
	if resp.IsError() {
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	if len(env.Data) == 0 {
		return fmt.Errorf("response envelope missing data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}

	return nil
}
