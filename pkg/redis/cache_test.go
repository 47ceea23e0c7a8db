package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Redis 비활성화 시 로컬 폴백 캐시
func localCache(t *testing.T, defaultTTL time.Duration) *Cache {
	t.Helper()
	return NewCache(&Client{enabled: false}, "test", defaultTTL)
}

func TestCache_LocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := localCache(t, time.Minute)

	require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "강남구", Count: 3}, time.Minute))

	var got cachedValue
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, cachedValue{Name: "강남구", Count: 3}, got)
}

// 로컬 폴백도 Set에 넘긴 TTL을 항목별로 지켜야 한다 (생성자 기본값이 아니라)
func TestCache_LocalHonorsPerEntryTTL(t *testing.T) {
	ctx := context.Background()
	cache := localCache(t, time.Hour)

	require.NoError(t, cache.Set(ctx, "short", cachedValue{Name: "a"}, 20*time.Millisecond))
	require.NoError(t, cache.Set(ctx, "long", cachedValue{Name: "b"}, time.Hour))

	var got cachedValue
	found, err := cache.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.True(t, found, "만료 전에는 조회되어야 함")

	time.Sleep(40 * time.Millisecond)

	found, err = cache.Get(ctx, "short", &got)
	require.NoError(t, err)
	assert.False(t, found, "짧은 TTL 항목은 만료되어야 함")

	found, err = cache.Get(ctx, "long", &got)
	require.NoError(t, err)
	assert.True(t, found, "긴 TTL 항목은 살아 있어야 함")
}

func TestCache_LocalZeroTTLUsesDefault(t *testing.T) {
	ctx := context.Background()
	cache := localCache(t, 20*time.Millisecond)

	require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "a"}, 0))

	time.Sleep(40 * time.Millisecond)

	var got cachedValue
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found, "TTL 0은 기본 TTL로 대체되어 만료되어야 함")
}

func TestCache_LocalDelete(t *testing.T) {
	ctx := context.Background()
	cache := localCache(t, time.Minute)

	require.NoError(t, cache.Set(ctx, "k", cachedValue{Name: "a"}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	var got cachedValue
	found, err := cache.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
}
