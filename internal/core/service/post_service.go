package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pressroom/blog-api/internal/core/domain"
	"github.com/pressroom/blog-api/internal/core/ports"
	"github.com/pressroom/blog-api/internal/pkg/metrics"
	"github.com/pressroom/blog-api/internal/pkg/slug"
)

type PostService struct {
	repo  ports.PostRepository
	cache ports.PostCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewPostService wires the post use cases. cache may be nil.
func NewPostService(repo ports.PostRepository, cache ports.PostCache, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, cache: cache, log: log, now: time.Now}
}

func (s *PostService) CreatePost(ctx context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, fmt.Errorf("%w: title and content are required", domain.ErrValidation)
	}
	postSlug, err := slugFor(title)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	post := &domain.Post{
		Title:     title,
		Content:   content,
		Slug:      postSlug,
		AuthorID:  in.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	metrics.PostsWrittenTotal.WithLabelValues("create").Inc()
	s.log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Str("author_id", post.AuthorID).Msg("post created")

	// Re-read so the author name is populated like every other read.
	created, err := s.repo.FindByID(ctx, post.ID)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID).Msg("reload after create failed")
		return post, nil
	}
	return created, nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PostService) GetPostBySlug(ctx context.Context, postSlug string) (*domain.Post, error) {
	if s.cache != nil {
		if p, ok := s.cache.GetBySlug(ctx, postSlug); ok {
			return p, nil
		}
	}

	post, err := s.repo.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.SetBySlug(ctx, post)
	}
	return post, nil
}

// Authorize always reads from the repository, never from the cache.
func (s *PostService) Authorize(ctx context.Context, id, userID string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.OwnedBy(userID) {
		s.log.Warn().Str("post_id", id).Str("user_id", userID).Msg("ownership check failed")
		return nil, domain.ErrForbidden
	}
	return post, nil
}

// UpdatePost checks existence, then ownership, then the payload.
func (s *PostService) UpdatePost(ctx context.Context, in ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.Authorize(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title == nil && in.Content == nil {
		return nil, fmt.Errorf("%w: title or content is required", domain.ErrValidation)
	}

	oldSlug := post.Slug
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
		}
		if post.Slug, err = slugFor(title); err != nil {
			return nil, err
		}
		post.Title = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, fmt.Errorf("%w: content cannot be empty", domain.ErrValidation)
		}
		post.Content = content
	}
	post.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) || errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.invalidate(ctx, oldSlug, post.Slug)

	metrics.PostsWrittenTotal.WithLabelValues("update").Inc()
	s.log.Info().Str("post_id", post.ID).Str("slug", post.Slug).Msg("post updated")
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id, userID string) error {
	post, err := s.Authorize(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, post.ID); err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return err
		}
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidate(ctx, post.Slug)

	metrics.PostsWrittenTotal.WithLabelValues("delete").Inc()
	s.log.Info().Str("post_id", post.ID).Msg("post deleted")
	return nil
}

func (s *PostService) invalidate(ctx context.Context, slugs ...string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, slugs...)
	}
}

func slugFor(title string) (string, error) {
	out := slug.Make(title)
	if out == "" {
		return "", fmt.Errorf("%w: title must contain at least one letter or digit", domain.ErrValidation)
	}
	return out, nil
}
