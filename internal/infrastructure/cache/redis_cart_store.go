package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/infrastructure/config"
)

const cartKeyPrefix = "cart:operator:"

// RedisCartStore keeps operator carts in Redis so any instance can serve an
// operator's next request. Carts expire after the configured TTL of
// inactivity; a lost cart is a minor inconvenience, not data loss.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore connects to Redis and returns a cart store
func NewRedisCartStore(cfg config.RedisConfig, ttl time.Duration) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{client: client, ttl: ttl}, nil
}

// NewRedisCartStoreWithClient wraps an existing client; useful for tests
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(operatorID uuid.UUID) string {
	return cartKeyPrefix + operatorID.String()
}

// Get returns the operator's cart; a missing key yields an empty cart
func (s *RedisCartStore) Get(ctx context.Context, operatorID uuid.UUID) (*billing.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(operatorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &billing.Cart{}, nil
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart billing.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Put stores the operator's cart and refreshes its TTL
func (s *RedisCartStore) Put(ctx context.Context, operatorID uuid.UUID, cart *billing.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(operatorID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store cart: %w", err)
	}
	return nil
}

// Delete removes the operator's cart
func (s *RedisCartStore) Delete(ctx context.Context, operatorID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(operatorID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (s *RedisCartStore) Close() error {
	return s.client.Close()
}
