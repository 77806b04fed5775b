package container

import (
	"context"
	"fmt"

	"storefront/engine/internal/cart"
	"storefront/engine/internal/catalog"
	"storefront/engine/internal/client"
	"storefront/engine/internal/config"
	"storefront/engine/internal/history"
	"storefront/engine/internal/repository"
	"storefront/engine/internal/service"
	"storefront/engine/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.StorefrontClient
	Catalog *catalog.Cache
	Cart    *cart.Store
	History *history.Store
	Orders  repository.OrderRepository

	Session *service.Session

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	container.redis = rdb

	log.Info("✅ Connected to Redis successfully")

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	orderRepo := repository.NewOrderRepository(db)
	container.Orders = orderRepo

	storefrontClient := client.NewStorefrontClient(cfg.API)
	container.Client = storefrontClient

	container.Catalog = catalog.NewCache(storefrontClient, cfg.API.PageLimit)

	kv := state.NewRedisStore(rdb)
	container.Cart = cart.NewStore(context.Background(), kv, cfg.Session.CartKey)
	container.History = history.NewStore(context.Background(), kv, cfg.Session.ViewedKey, cfg.Session.ViewedLimit)

	container.Session = service.NewSession(
		container.Catalog,
		storefrontClient,
		container.Cart,
		container.History,
		orderRepo,
		cfg.Session.TaxRate,
	)

	return container, nil
}

// Run executes the demo session
func (c *Container) Run(ctx context.Context) error {
	return c.Session.Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
