package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	ProductListCachePrefix = "products:v:"
	CacheVersionKey        = "products:version"
	DefaultCacheTTL        = 10 * time.Minute
)

// CacheManager caches product list pages. Writers bump a version key instead
// of deleting pages; stale pages expire on their own.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCacheManager returns nil for a nil client. A nil manager never hits.
func NewCacheManager(client *redis.Client, ttl time.Duration) *CacheManager {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheManager{redis: client, ttl: ttl}
}

// GetProductList loads a cached page into dst. It also returns the version it
// read, which callers hand back to SetProductList so a page fetched before an
// Invalidate is never stored under the newer version. Version 0 means the
// cache is unavailable.
func (cm *CacheManager) GetProductList(ctx context.Context, page, perPage int, dst interface{}) (int64, bool) {
	if cm == nil {
		return 0, false
	}
	version, err := cm.getCacheVersion(ctx)
	if err != nil {
		return 0, false
	}

	cached, err := cm.redis.Get(ctx, listCacheKey(version, page, perPage)).Bytes()
	if err != nil {
		return version, false
	}
	if err := json.Unmarshal(cached, dst); err != nil {
		zap.L().Warn("Failed to unmarshal cached product list", zap.Error(err))
		return version, false
	}
	return version, true
}

// SetProductList caches a page under version.
func (cm *CacheManager) SetProductList(ctx context.Context, version int64, page, perPage int, value interface{}) {
	if cm == nil || version <= 0 {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		zap.L().Warn("Failed to marshal product list for cache", zap.Error(err))
		return
	}
	if err := cm.redis.Set(ctx, listCacheKey(version, page, perPage), payload, cm.ttl).Err(); err != nil {
		zap.L().Warn("Failed to cache product list", zap.Error(err))
	}
}

// SetProductListAsync is SetProductList off the request path.
func (cm *CacheManager) SetProductListAsync(version int64, page, perPage int, value interface{}) {
	if cm == nil || version <= 0 {
		return
	}
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		cm.SetProductList(bgCtx, version, page, perPage, value)
	}()
}

// Invalidate makes every cached page unreachable by bumping the version.
func (cm *CacheManager) Invalidate(ctx context.Context) {
	if cm == nil {
		return
	}
	newVersion, err := cm.redis.Incr(ctx, CacheVersionKey).Result()
	if err != nil {
		zap.L().Error("Failed to invalidate product cache", zap.Error(err))
		return
	}
	zap.L().Debug("Product cache invalidated", zap.Int64("new_version", newVersion))
}

func (cm *CacheManager) getCacheVersion(ctx context.Context) (int64, error) {
	ver, err := cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err == nil && ver > 0 {
		return ver, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, err
	}
	// SetNX so a concurrent Invalidate is not overwritten.
	if err := cm.redis.SetNX(ctx, CacheVersionKey, 1, 0).Err(); err != nil {
		return 0, err
	}
	ver, err = cm.redis.Get(ctx, CacheVersionKey).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to read cache version: %w", err)
	}
	return ver, nil
}

func listCacheKey(version int64, page, perPage int) string {
	return fmt.Sprintf("%s%d:p:%d:l:%d", ProductListCachePrefix, version, page, perPage)
}
