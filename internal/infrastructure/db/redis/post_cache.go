package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/pressroom/blog-api/internal/core/domain"
	"github.com/pressroom/blog-api/internal/pkg/metrics"
)

const (
	defaultPostTTL = 5 * time.Minute
	slugKeyPrefix  = "post:slug:"
)

// PostCache stores serialized posts under post:slug:<slug>. Every Redis
// failure degrades to a cache miss; a nil client disables the cache.
type PostCache struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewPostCache(client *redis.Client, ttl time.Duration, log zerolog.Logger) *PostCache {
	if ttl <= 0 {
		ttl = defaultPostTTL
	}
	return &PostCache{client: client, ttl: ttl, log: log}
}

// cachedPost is the wire form; it keeps the cache format independent of domain tags.
type cachedPost struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Slug       string    `json:"slug"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (c *PostCache) GetBySlug(ctx context.Context, slug string) (*domain.Post, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.PostCacheTotal.WithLabelValues("miss").Inc()
		} else {
			metrics.PostCacheTotal.WithLabelValues("error").Inc()
			c.log.Warn().Err(err).Str("slug", slug).Msg("post cache read failed")
		}
		return nil, false
	}

	var cp cachedPost
	if err := json.Unmarshal(raw, &cp); err != nil {
		metrics.PostCacheTotal.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("slug", slug).Msg("post cache entry corrupt")
		return nil, false
	}

	metrics.PostCacheTotal.WithLabelValues("hit").Inc()
	return &domain.Post{
		ID:         cp.ID,
		Title:      cp.Title,
		Content:    cp.Content,
		Slug:       cp.Slug,
		AuthorID:   cp.AuthorID,
		AuthorName: cp.AuthorName,
		CreatedAt:  cp.CreatedAt,
		UpdatedAt:  cp.UpdatedAt,
	}, true
}

func (c *PostCache) SetBySlug(ctx context.Context, p *domain.Post) {
	if c == nil || c.client == nil || p == nil {
		return
	}

	raw, err := json.Marshal(cachedPost{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Slug:       p.Slug,
		AuthorID:   p.AuthorID,
		AuthorName: p.AuthorName,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(p.Slug), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("slug", p.Slug).Msg("post cache write failed")
	}
}

func (c *PostCache) Invalidate(ctx context.Context, slugs ...string) {
	if c == nil || c.client == nil || len(slugs) == 0 {
		return
	}

	keys := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if s != "" {
			keys = append(keys, key(s))
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn().Err(err).Strs("slugs", slugs).Msg("post cache invalidation failed")
	}
}

func key(slug string) string {
	return slugKeyPrefix + slug
}
