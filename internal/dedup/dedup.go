package dedup

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long a scraped URL stays "seen".
const DefaultTTL = 30 * 24 * time.Hour

// SeenCache remembers which posting URLs were already processed so the
// pipeline does not rescore them on every run.
type SeenCache interface {
	IsSeen(ctx context.Context, url string) bool
	Add(ctx context.Context, urls []string) error
}

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// FileCache persists seen URLs to seen_jobs.json, dropping entries older
// than ttl on load.
type FileCache struct {
	mu       sync.Mutex
	filePath string
	ttl      time.Duration
	now      func() time.Time
	seen     map[string]int64
}

func NewFileCache(cacheDir string, ttl time.Duration) *FileCache {
	return newFileCache(cacheDir, ttl, time.Now)
}

func newFileCache(cacheDir string, ttl time.Duration, now func() time.Time) *FileCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Printf("⚠️ Failed to create cache directory: %v", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache := &FileCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		ttl:      ttl,
		now:      now,
		seen:     make(map[string]int64),
	}
	cache.load()
	return cache
}

func (c *FileCache) IsSeen(_ context.Context, url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts, ok := c.seen[url]
	if !ok {
		return false
	}
	return c.now().UnixMilli()-ts <= c.ttl.Milliseconds()
}

func (c *FileCache) Add(_ context.Context, urls []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UnixMilli()
	changed := false
	for _, url := range urls {
		if url == "" {
			continue
		}
		if ts, exists := c.seen[url]; !exists || now-ts > c.ttl.Milliseconds() {
			c.seen[url] = now
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return c.save()
}

func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}

func (c *FileCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := c.now().UnixMilli() - c.ttl.Milliseconds()
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	log.Printf("📋 Loaded %d previously seen URLs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (c *FileCache) save() error {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen urls: %w", err)
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("write seen_jobs.json: %w", err)
	}
	log.Printf("💾 Saved %d seen URLs to cache", len(entries))
	return nil
}

const redisKeyPrefix = "jobhunter:seen:"

// RedisCache stores one key per URL with a TTL, so expiry is handled by Redis.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// IsSeen treats Redis errors as "not seen" so a flaky cache never hides postings.
func (c *RedisCache) IsSeen(ctx context.Context, url string) bool {
	n, err := c.rdb.Exists(ctx, redisKeyPrefix+url).Result()
	if err != nil {
		log.Printf("⚠️ Redis seen lookup failed: %v", err)
		return false
	}
	return n > 0
}

func (c *RedisCache) Add(ctx context.Context, urls []string) error {
	pipe := c.rdb.Pipeline()
	queued := 0
	for _, url := range urls {
		if url == "" {
			continue
		}
		pipe.SetNX(ctx, redisKeyPrefix+url, time.Now().UnixMilli(), c.ttl)
		queued++
	}
	if queued == 0 {
		return nil
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis mark seen: %w", err)
	}
	return nil
}
