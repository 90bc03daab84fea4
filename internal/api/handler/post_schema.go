package handler

import "time"

type createPostRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// updatePostRequest is a partial update; omitted fields keep their value.
// It is not tag-validated: ownership is checked before the payload.
type updatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type authorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type postResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Slug      string         `json:"slug"`
	Author    authorResponse `json:"author"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
