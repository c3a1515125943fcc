package cache

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"RollCall/pkg/logger"
	"RollCall/storage/redis"
)

const viewPrefix = "view"

// ViewCache 是聚合视图的短 TTL 缓存。尽力而为：缓存故障等同未命中，
// 永远不能把读请求搞挂。条目写入后不原地改，只会整体覆盖或过期。
type ViewCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

// StatusKey 按日视图的缓存键。
func StatusKey(dateKey string) string {
	return "status:" + dateKey
}

// HistoryKey 按昵称+月视图的缓存键。昵称用查询方传来的原始大小写，
// 不同写法各占一个条目，这是接受了的小代价。
func HistoryKey(nickname, monthKey string) string {
	return "history:" + nickname + "::" + monthKey
}

// ========== Redis 实现 ==========

type RedisViewCache struct{}

func NewRedisViewCache() *RedisViewCache {
	return &RedisViewCache{}
}

func (c *RedisViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	payload, err := redis.Client().Get(ctx, redis.Key(viewPrefix, key)).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		// 缓存故障降级为未命中
		logger.Logger.Warn("View cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	return payload, true
}

func (c *RedisViewCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if err := redis.Client().Set(ctx, redis.Key(viewPrefix, key), payload, ttl).Err(); err != nil {
		logger.Logger.Warn("View cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// ========== 内存实现 ==========

// MemoryViewCache 进程内实现，测试和无 redis 的部署用。
// 过期条目读取时惰性剔除。
type MemoryViewCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryViewCache() *MemoryViewCache {
	return &MemoryViewCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// WithClock 注入时钟，只给测试模拟过期用。
func (c *MemoryViewCache) WithClock(now func() time.Time) *MemoryViewCache {
	c.now = now
	return c
}

func (c *MemoryViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

func (c *MemoryViewCache) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = memoryEntry{
		payload:   payload,
		expiresAt: c.now().Add(ttl),
	}
}
