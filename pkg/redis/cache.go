package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache provides typed caching with Redis as the primary store and an
// in-process LRU as the fallback when Redis is disabled.
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client     *Client
	prefix     string
	local      *lru.LRU[string, localEntry]
	defaultTTL time.Duration
}

// localEntry carries its own deadline so the fallback honors the TTL
// passed to Set, not one fixed TTL for the whole cache
type localEntry struct {
	data      []byte
	expiresAt time.Time
}

// localCacheSize bounds the in-process fallback cache
const localCacheSize = 512

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string, defaultTTL time.Duration) *Cache {
	return &Cache{
		client:     client,
		prefix:     prefix,
		local:      lru.NewLRU[string, localEntry](localCacheSize, nil, 0),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached value
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	fullKey := c.fullKey(key)

	var data []byte
	if c.client.Enabled() {
		b, err := c.client.Redis().Get(ctx, fullKey).Bytes()
		if err != nil {
			// Key not found is not an error
			return false, nil
		}
		data = b
	} else {
		entry, ok := c.local.Get(fullKey)
		if !ok {
			return false, nil
		}
		if time.Now().After(entry.expiresAt) {
			c.local.Remove(fullKey)
			return false, nil
		}
		data = entry.data
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	fullKey := c.fullKey(key)
	if c.client.Enabled() {
		return c.client.Redis().Set(ctx, fullKey, data, ttl).Err()
	}

	c.local.Add(fullKey, localEntry{data: data, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.fullKey(key)
	if c.client.Enabled() {
		return c.client.Redis().Del(ctx, fullKey).Err()
	}

	c.local.Remove(fullKey)
	return nil
}

func (c *Cache) fullKey(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Predefined TTLs
const (
	TTLValuation  = 10 * time.Minute // 통합 감정 결과
	TTLStatistics = 1 * time.Hour    // 지역 통계 조회
)

// Common cache key generators

func ValuationKey(caseNumber string) string {
	return fmt.Sprintf("valuation:%s", caseNumber)
}

func DistrictKey(region, district string) string {
	return fmt.Sprintf("stats:district:%s:%s", region, district)
}
