package handler

import "github.com/pressroom/blog-api/internal/core/domain"

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    userResponse `json:"user"`
}

type meResponse struct {
	User userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
