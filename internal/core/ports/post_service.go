package ports

import (
	"context"

	"github.com/pressroom/blog-api/internal/core/domain"
)

// CreatePostInput carries a new post. AuthorID comes from the session token.
type CreatePostInput struct {
	AuthorID string
	Title    string
	Content  string
}

// UpdatePostInput carries a partial update. Nil fields are left unchanged.
type UpdatePostInput struct {
	ID      string
	UserID  string
	Title   *string
	Content *string
}

// PostService defines use-case operations for posts.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	UpdatePost(ctx context.Context, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id, userID string) error
	// Authorize loads the post and checks that userID authored it.
	// Not-found is reported before forbidden.
	Authorize(ctx context.Context, id, userID string) (*domain.Post, error)
}
