package model

import (
	"strings"
	"time"
)

// Defaults substituted for blank or whitespace-only fields at creation time.
const (
	DefaultAuthor  = "Anonymous"
	DefaultTitle   = "New note"
	DefaultContent = "Hello!"
)

// Card is one sticky note on the wall. ID and CreatedAt are assigned by the
// database; OwnerID is immutable after creation.
type Card struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateCardRequest struct {
	Author  string  `json:"author"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

// ApplyDefaults replaces blank fields with the fixed defaults. Whitespace-only
// input counts as blank; non-blank input is trimmed.
func (r *CreateCardRequest) ApplyDefaults() {
	r.Author = orDefault(r.Author, DefaultAuthor)
	r.Title = orDefault(r.Title, DefaultTitle)
	r.Content = orDefault(r.Content, DefaultContent)
}

func orDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

type MoveCardRequest struct {
	ID int64   `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type IdentityRequest struct {
	UserID string `json:"user_id"`
}

type IdentityResponse struct {
	Token string `json:"token"`
}
