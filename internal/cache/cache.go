// Package cache implements the Redis-backed query result cache.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pulseboard/internal/domain"
)

// DefaultTTL applies when a caller passes a non-positive TTL.
const DefaultTTL = 300 * time.Second

// Key derives the deterministic cache key for a query against a dashboard.
// The query text is normalized (surrounding whitespace trimmed, lowercased)
// so trivially different spellings share one entry. The dashboard ID is its
// own key segment, so identical queries on different dashboards never
// collide. Hashing keeps keys bounded regardless of query length.
func Key(dashboardID, query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return "results:" + dashboardID + ":" + hex.EncodeToString(sum[:])
}

// RedisCache implements domain.ResultCache. Every backend failure is
// absorbed here: logged, then reported as a miss (Get) or swallowed
// (Set/Delete). Callers never see a cache error.
type RedisCache struct {
	client  *redis.Client
	logger  *slog.Logger
	enabled bool
}

// New connects to redisURL and pings once to decide whether the cache is
// usable for this process. An empty URL, a bad URL, or a failed ping yields
// a disabled cache whose operations are transparent no-ops. The capability
// is decided here, once — there is no runtime re-probing.
func New(ctx context.Context, redisURL string, logger *slog.Logger) *RedisCache {
	if redisURL == "" {
		logger.Info("result cache disabled: no backend configured")
		return &RedisCache{logger: logger}
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("result cache disabled: invalid REDIS_URL", "error", err)
		return &RedisCache{logger: logger}
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("result cache disabled: backend unreachable", "addr", opt.Addr, "error", err)
		_ = client.Close()
		return &RedisCache{logger: logger}
	}

	logger.Info("result cache enabled", "addr", opt.Addr)
	return &RedisCache{client: client, logger: logger, enabled: true}
}

// Enabled reports whether a backend was reachable at startup.
func (c *RedisCache) Enabled() bool { return c.enabled }

// Get returns the cached result for key. Absent keys, backend errors, and
// corrupt entries are all a miss.
func (c *RedisCache) Get(ctx context.Context, key string) (domain.TableData, bool) {
	if !c.enabled {
		return domain.TableData{}, false
	}

	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed", "key", key, "error", err)
		}
		return domain.TableData{}, false
	}

	var data domain.TableData
	if err := json.Unmarshal(raw, &data); err != nil {
		c.logger.Warn("cache entry corrupt, treating as miss", "key", key, "error", err)
		return domain.TableData{}, false
	}
	return data, true
}

// Set stores data under key for ttl (DefaultTTL when ttl <= 0).
func (c *RedisCache) Set(ctx context.Context, key string, data domain.TableData, ttl time.Duration) {
	if !c.enabled {
		return
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Warn("cache set skipped: marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete removes key. Missing keys and backend errors are ignored.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if !c.enabled {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// Close releases the underlying client. Safe on a disabled cache.
func (c *RedisCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

var _ domain.ResultCache = (*RedisCache)(nil)
