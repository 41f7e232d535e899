package categories

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("category not found")
	ErrDuplicate = errors.New("category with this name already exists")
)

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
