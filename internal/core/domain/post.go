package domain

import "time"

// Post is a blog entry owned by exactly one user.
type Post struct {
	ID      string
	Title   string
	Content string
	Slug    string
	// AuthorID is set at creation and never rewritten.
	AuthorID string
	// AuthorName is populated on reads; it is not stored on the post.
	AuthorName string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OwnedBy reports whether userID is the post's author.
func (p *Post) OwnedBy(userID string) bool {
	return p.AuthorID != "" && p.AuthorID == userID
}
