package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/api/middleware"
	"github.com/pressroom/blog-api/internal/core/domain"
	"github.com/pressroom/blog-api/internal/core/ports"
)

type stubPostService struct {
	posts map[string]*domain.Post

	created *ports.CreatePostInput
	updated *ports.UpdatePostInput
	deleted string
}

func newStubPostService(posts ...*domain.Post) *stubPostService {
	s := &stubPostService{posts: make(map[string]*domain.Post)}
	for _, p := range posts {
		s.posts[p.ID] = p
	}
	return s
}

func (s *stubPostService) CreatePost(_ context.Context, in ports.CreatePostInput) (*domain.Post, error) {
	s.created = &in
	return &domain.Post{ID: "post-new", Title: in.Title, Content: in.Content, Slug: "hello-world", AuthorID: in.AuthorID, AuthorName: "Alice"}, nil
}

func (s *stubPostService) ListPosts(context.Context) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPostService) GetPost(_ context.Context, id string) (*domain.Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return p, nil
}

func (s *stubPostService) GetPostBySlug(_ context.Context, slug string) (*domain.Post, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, domain.ErrPostNotFound
}

func (s *stubPostService) UpdatePost(ctx context.Context, in ports.UpdatePostInput) (*domain.Post, error) {
	p, err := s.Authorize(ctx, in.ID, in.UserID)
	if err != nil {
		return nil, err
	}
	s.updated = &in
	if in.Title != nil {
		p.Title = *in.Title
	}
	return p, nil
}

func (s *stubPostService) DeletePost(ctx context.Context, id, userID string) error {
	if _, err := s.Authorize(ctx, id, userID); err != nil {
		return err
	}
	s.deleted = id
	return nil
}

func (s *stubPostService) Authorize(ctx context.Context, id, userID string) (*domain.Post, error) {
	p, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(userID) {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func alicePost() *domain.Post {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Post{
		ID: "post-1", Title: "Hello World", Content: "Body", Slug: "hello-world",
		AuthorID: "alice", AuthorName: "Alice", CreatedAt: now, UpdatedAt: now,
	}
}

// postContext builds an echo context for a post route. An empty userID
// simulates a request that did not pass through the Auth middleware.
func postContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID, id string) echo.Context {
	c := e.NewContext(req, rec)
	if id != "" {
		c.SetParamNames("id")
		c.SetParamValues(id)
	}
	if userID != "" {
		c.Set(middleware.UserIDKey, userID)
	}
	return c
}

func TestPostHandler_Create_UsesTokenSubject(t *testing.T) {
	e := newEcho()
	svc := newStubPostService()
	h := NewPostHandler(svc)

	rec := httptest.NewRecorder()
	req := jsonRequest(http.MethodPost, "/posts", `{"title":"Hello World","content":"Body","author_id":"mallory"}`)
	c := postContext(e, req, rec, "alice", "")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.created == nil || svc.created.AuthorID != "alice" {
		t.Fatalf("author must come from the token, got %+v", svc.created)
	}

	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Slug != "hello-world" || resp.Author.ID != "alice" || resp.Author.Name != "Alice" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestPostHandler_Create_Validation(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService())

	c := postContext(e, jsonRequest(http.MethodPost, "/posts", `{"title":"Hello"}`), httptest.NewRecorder(), "alice", "")
	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPostHandler_Create_RequiresSubject(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService())

	c := postContext(e, jsonRequest(http.MethodPost, "/posts", `{"title":"Hello","content":"Body"}`), httptest.NewRecorder(), "", "")
	if err := h.Create(c); !errors.Is(err, domain.ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestPostHandler_Get(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService(alicePost()))

	rec := httptest.NewRecorder()
	c := postContext(e, httptest.NewRequest(http.MethodGet, "/posts/post-1", nil), rec, "", "post-1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c = postContext(e, httptest.NewRequest(http.MethodGet, "/posts/missing", nil), httptest.NewRecorder(), "", "missing")
	if err := h.Get(c); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostHandler_GetBySlug(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService(alicePost()))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/posts/slug/hello-world", nil), rec)
	c.SetParamNames("slug")
	c.SetParamValues("hello-world")

	if err := h.GetBySlug(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "post-1" {
		t.Fatalf("unexpected post: %+v", resp)
	}
}

func TestPostHandler_List(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService(alicePost()))

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/posts", nil), rec)
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []postResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].Author.Name != "Alice" {
		t.Fatalf("unexpected list: %+v", resp)
	}
}

func TestPostHandler_Update(t *testing.T) {
	e := newEcho()
	svc := newStubPostService(alicePost())
	h := NewPostHandler(svc)

	rec := httptest.NewRecorder()
	c := postContext(e, jsonRequest(http.MethodPut, "/posts/post-1", `{"title":"New Title"}`), rec, "alice", "post-1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.updated == nil || svc.updated.Title == nil || *svc.updated.Title != "New Title" || svc.updated.Content != nil {
		t.Fatalf("unexpected update input: %+v", svc.updated)
	}
}

func TestPostHandler_Update_NotOwner(t *testing.T) {
	e := newEcho()
	svc := newStubPostService(alicePost())
	h := NewPostHandler(svc)

	c := postContext(e, jsonRequest(http.MethodPut, "/posts/post-1", `{"title":"Hijack"}`), httptest.NewRecorder(), "bob", "post-1")
	if err := h.Update(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if svc.updated != nil {
		t.Fatalf("post must not be updated")
	}
}

func TestPostHandler_Update_MalformedBody(t *testing.T) {
	e := newEcho()
	h := NewPostHandler(newStubPostService(alicePost()))

	tests := []struct {
		name   string
		userID string
		id     string
		check  func(error) bool
	}{
		{"stranger is forbidden", "bob", "post-1", func(err error) bool { return errors.Is(err, domain.ErrForbidden) }},
		{"missing post is not found", "alice", "missing", func(err error) bool { return errors.Is(err, domain.ErrPostNotFound) }},
		{"owner gets bad request", "alice", "post-1", func(err error) bool {
			var he *echo.HTTPError
			return errors.As(err, &he) && he.Code == http.StatusBadRequest
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := postContext(e, jsonRequest(http.MethodPut, "/posts/"+tt.id, `{"title":`), httptest.NewRecorder(), tt.userID, tt.id)
			if err := h.Update(c); !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostHandler_Delete(t *testing.T) {
	e := newEcho()
	svc := newStubPostService(alicePost())
	h := NewPostHandler(svc)

	c := postContext(e, httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil), httptest.NewRecorder(), "bob", "post-1")
	if err := h.Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	rec := httptest.NewRecorder()
	c = postContext(e, httptest.NewRequest(http.MethodDelete, "/posts/post-1", nil), rec, "alice", "post-1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if svc.deleted != "post-1" || rec.Code != http.StatusOK {
		t.Fatalf("expected deletion, got deleted=%q code=%d", svc.deleted, rec.Code)
	}
}
