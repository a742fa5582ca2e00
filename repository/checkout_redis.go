package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/redis/go-redis/v9"
)

const checkoutKeyPrefix = "checkout:"

// RedisCheckoutStore keeps snapshots as JSON strings with a TTL.
type RedisCheckoutStore struct {
	client *redis.Client
}

func NewRedisCheckoutStore(client *redis.Client) *RedisCheckoutStore {
	return &RedisCheckoutStore{client: client}
}

func (s *RedisCheckoutStore) Save(ctx context.Context, snap *models.CheckoutSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal checkout snapshot: %w", err)
	}
	return s.client.Set(ctx, checkoutKeyPrefix+snap.GatewayOrderID, data, ttl).Err()
}

func (s *RedisCheckoutStore) Get(ctx context.Context, gatewayOrderID string) (*models.CheckoutSnapshot, error) {
	data, err := s.client.Get(ctx, checkoutKeyPrefix+gatewayOrderID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var snap models.CheckoutSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal checkout snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisCheckoutStore) Delete(ctx context.Context, gatewayOrderID string) error {
	return s.client.Del(ctx, checkoutKeyPrefix+gatewayOrderID).Err()
}
