package ports

import (
	"context"

	"github.com/pressroom/blog-api/internal/core/domain"
)

// PostCache is a best-effort read cache keyed by slug. Implementations
// swallow backend failures: a broken cache behaves like an empty one.
type PostCache interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Post, bool)
	SetBySlug(ctx context.Context, post *domain.Post)
	Invalidate(ctx context.Context, slugs ...string)
}
