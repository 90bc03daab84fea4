package ports

import (
	"context"

	"github.com/pressroom/blog-api/internal/core/domain"
)

// PostRepository defines persistence operations for posts. Reads populate
// Post.AuthorName from the users collection.
type PostRepository interface {
	// Create inserts the post and sets its ID. A duplicate slug yields domain.ErrSlugTaken.
	Create(ctx context.Context, post *domain.Post) error
	// FindByID returns domain.ErrPostNotFound for unknown or malformed ids.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*domain.Post, error)
	// Update rewrites title, content, slug and updated_at. The author is never touched.
	Update(ctx context.Context, post *domain.Post) error
	Delete(ctx context.Context, id string) error
}
