package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pressroom/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for blog posts.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List returns every post, newest first.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Success      200  {array}   postResponse
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	posts, err := h.service.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(posts))
}

// Create publishes a post authored by the caller.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.service.CreatePost(c.Request().Context(), ports.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPostResponse(post))
}

// Get returns a post by id.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  messageResponse
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// GetBySlug returns a post by its slug.
//
// @Summary      Get post by slug
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Post slug"
// @Success      200   {object}  postResponse
// @Failure      404   {object}  messageResponse
// @Router       /posts/slug/{slug} [get]
func (h *PostHandler) GetBySlug(c echo.Context) error {
	post, err := h.service.GetPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Update edits a post owned by the caller.
//
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      409   {object}  messageResponse
// @Router       /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	id := c.Param("id")

	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		// A stranger's malformed request is still forbidden.
		if _, authErr := h.service.Authorize(c.Request().Context(), id, userID); authErr != nil {
			return authErr
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	post, err := h.service.UpdatePost(c.Request().Context(), ports.UpdatePostInput{
		ID:      id,
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// Delete removes a post owned by the caller.
//
// @Summary      Delete post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePost(c.Request().Context(), c.Param("id"), userID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post deleted successfully"})
}
