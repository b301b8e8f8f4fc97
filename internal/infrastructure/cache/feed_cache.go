package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	appblog "github.com/blogicum/backend/internal/application/blog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient creates and pings a Redis client
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisFeedCache caches rendered feed pages in Redis.
//
// Invalidation bumps a version counter instead of scanning for keys, so a
// post mutation makes every cached page unreachable in a single round trip.
// Stale versioned entries simply expire with their TTL.
type RedisFeedCache struct {
	client     *redis.Client
	keyPrefix  string
	versionKey string
	ttl        time.Duration
	logger     *zap.Logger
}

// NewRedisFeedCache creates a feed cache backed by an existing Redis client
func NewRedisFeedCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisFeedCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisFeedCache{
		client:     client,
		keyPrefix:  "feed:cache:",
		versionKey: "feed:cache:version",
		ttl:        ttl,
		logger:     logger,
	}
}

// GetPage returns a cached page, or false on a miss.
// Cache errors are logged and treated as misses.
func (c *RedisFeedCache) GetPage(ctx context.Context, key string) (*appblog.PostPage, bool) {
	data, err := c.client.Get(ctx, c.versionedKey(ctx, key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Feed cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var page appblog.PostPage
	if err := json.Unmarshal(data, &page); err != nil {
		c.logger.Warn("Feed cache entry corrupted", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &page, true
}

// SetPage stores a page under the current cache version
func (c *RedisFeedCache) SetPage(ctx context.Context, key string, page *appblog.PostPage) {
	data, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Feed cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.versionedKey(ctx, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Feed cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate discards every cached page by bumping the version counter
func (c *RedisFeedCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, c.versionKey).Err(); err != nil {
		c.logger.Warn("Feed cache invalidation failed", zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisFeedCache) Close() error {
	return c.client.Close()
}

func (c *RedisFeedCache) versionedKey(ctx context.Context, key string) string {
	version, err := c.client.Get(ctx, c.versionKey).Int64()
	if err != nil && err != redis.Nil {
		c.logger.Warn("Feed cache version read failed", zap.Error(err))
	}
	return fmt.Sprintf("%sv%d:%s", c.keyPrefix, version, key)
}

// InMemoryFeedCache is a process-local feed cache for single-instance
// deployments and tests
type InMemoryFeedCache struct {
	mu      sync.RWMutex
	entries map[string]inMemoryFeedEntry
	ttl     time.Duration
}

type inMemoryFeedEntry struct {
	page      *appblog.PostPage
	expiresAt time.Time
}

// NewInMemoryFeedCache creates an in-memory feed cache
func NewInMemoryFeedCache(ttl time.Duration) *InMemoryFeedCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &InMemoryFeedCache{
		entries: make(map[string]inMemoryFeedEntry),
		ttl:     ttl,
	}
}

// GetPage returns a cached page, or false on a miss. Expired entries are
// removed so the map cannot accumulate dead pages between mutations.
func (c *InMemoryFeedCache) GetPage(_ context.Context, key string) (*appblog.PostPage, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if current, still := c.entries[key]; still && time.Now().After(current.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.page, true
}

// SetPage stores a page, dropping any entries that expired in the meantime
func (c *InMemoryFeedCache) SetPage(_ context.Context, key string, page *appblog.PostPage) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, k)
		}
	}
	c.entries[key] = inMemoryFeedEntry{page: page, expiresAt: now.Add(c.ttl)}
}

// Invalidate discards every cached page
func (c *InMemoryFeedCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]inMemoryFeedEntry)
}

// Ensure both caches satisfy the application contract
var (
	_ appblog.FeedCache = (*RedisFeedCache)(nil)
	_ appblog.FeedCache = (*InMemoryFeedCache)(nil)
)
