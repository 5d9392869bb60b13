package ai

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/prepwise/ai-interview-evaluator/internal/domain"
)

// cachedGenerator wraps a TextGenerator with a Redis response cache
// keyed by prompt hash. Identical prompts within the TTL reuse the
// previous response, which both shortens evaluation runs and keeps
// repeated runs inside free-tier quotas. Cache failures are logged and
// otherwise ignored; the base generator is always authoritative.
type cachedGenerator struct {
	base domain.TextGenerator
	rdb  *redis.Client
	ttl  time.Duration
}

// NewGenerationCache wraps base with a Redis cache. If rdb is nil or
// ttl <= 0 the base generator is returned unmodified.
func NewGenerationCache(base domain.TextGenerator, rdb *redis.Client, ttl time.Duration) domain.TextGenerator {
	if base == nil || rdb == nil || ttl <= 0 {
		return base
	}
	return &cachedGenerator{base: base, rdb: rdb, ttl: ttl}
}

func (c *cachedGenerator) Generate(ctx domain.Context, prompt string) (string, error) {
	key := cacheKey(prompt)
	if v, err := c.rdb.Get(ctx, key).Result(); err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	} else if err != nil && err != redis.Nil {
		slog.Warn("generation cache read failed", slog.Any("error", err))
	}
	out, err := c.base.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if err := c.rdb.Set(ctx, key, out, c.ttl).Err(); err != nil {
		slog.Warn("generation cache write failed", slog.Any("error", err))
	}
	return out, nil
}

func cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(prompt)))
	return "gencache:" + hex.EncodeToString(h[:])
}
