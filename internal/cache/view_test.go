package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryViewCachePutGet(t *testing.T) {
	now := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	c := NewMemoryViewCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	c.Put(ctx, StatusKey("2026/01/06"), []byte(`{"count":2}`), 30*time.Second)

	payload, ok := c.Get(ctx, StatusKey("2026/01/06"))
	require.True(t, ok)
	assert.Equal(t, []byte(`{"count":2}`), payload)
}

func TestMemoryViewCacheExpiry(t *testing.T) {
	now := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	c := NewMemoryViewCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	c.Put(ctx, "status:2026/01/06", []byte("payload"), 30*time.Second)

	// TTL 内命中
	now = now.Add(29 * time.Second)
	_, ok := c.Get(ctx, "status:2026/01/06")
	assert.True(t, ok)

	// 模拟时钟拨过 TTL 之后未命中
	now = now.Add(2 * time.Second)
	_, ok = c.Get(ctx, "status:2026/01/06")
	assert.False(t, ok)
}

func TestMemoryViewCacheOverwrite(t *testing.T) {
	now := time.Date(2026, 1, 6, 10, 0, 0, 0, time.UTC)
	c := NewMemoryViewCache().WithClock(func() time.Time { return now })
	ctx := context.Background()

	c.Put(ctx, "k", []byte("old"), 30*time.Second)
	c.Put(ctx, "k", []byte("new"), 30*time.Second)

	payload, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("new"), payload)
}

func TestMemoryViewCacheMiss(t *testing.T) {
	c := NewMemoryViewCache()
	_, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "status:2026/01/06", StatusKey("2026/01/06"))
	// 昵称保留原始大小写，不同写法是不同条目
	assert.Equal(t, "history:Alice::2026-01", HistoryKey("Alice", "2026-01"))
	assert.NotEqual(t, HistoryKey("Alice", "2026-01"), HistoryKey("alice", "2026-01"))
}
