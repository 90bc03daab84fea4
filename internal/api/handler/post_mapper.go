package handler

import "github.com/pressroom/blog-api/internal/core/domain"

func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:      p.ID,
		Title:   p.Title,
		Content: p.Content,
		Slug:    p.Slug,
		Author: authorResponse{
			ID:   p.AuthorID,
			Name: p.AuthorName,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}
	return out
}
