package reviews

import (
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("review not found")
	ErrDuplicate       = errors.New("you have already reviewed this product")
	ErrProductNotFound = errors.New("product not found")
)

type Review struct {
	ID        int64     `json:"id"`
	ProductID int64     `json:"product_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined fields
	Author *Author `json:"user,omitempty"`
}

// Author is the public slice of a user shown next to a review.
type Author struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type Stats struct {
	Total   int     `json:"total_reviews"`
	Average float64 `json:"average"`
}
