package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Get when no value exists under the key.
var ErrNotFound = errors.New("state: key not found")

// Store is scoped key-value persistence with best-effort durability.
// Session stores (cart, viewed history) treat read failures as "no
// persisted data" and write failures as non-fatal.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type redisStore struct {
	redisClient *redis.Client
	keyPrefix   string
}

// NewRedisStore returns a Store persisting values under a fixed prefix.
func NewRedisStore(redisClient *redis.Client) Store {
	return &redisStore{
		redisClient: redisClient,
		keyPrefix:   "storefront:session:",
	}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get state for key %s: %w", key, err)
	}
	return val, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	err := s.redisClient.Set(ctx, s.keyPrefix+key, value, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set state for key %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	err := s.redisClient.Del(ctx, s.keyPrefix+key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete state for key %s: %w", key, err)
	}
	return nil
}
