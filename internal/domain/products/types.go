package products

import (
	"errors"
	"time"

	"storefront/internal/domain/reviews"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category does not exist")
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price" swaggertype:"string" example:"19.99"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	CategoryID   int64           `json:"category_id"`
	CuratorsPick bool            `json:"curators_pick"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductWithReviews is a product together with its reviews, newest first.
type ProductWithReviews struct {
	*Product
	Reviews []*reviews.Review `json:"reviews"`
}

// AttachReviews pairs every product with its entry in byProduct. Products
// without reviews get an empty, non-nil slice.
func AttachReviews(list []*Product, byProduct map[int64][]*reviews.Review) []*ProductWithReviews {
	out := make([]*ProductWithReviews, 0, len(list))
	for _, p := range list {
		rs := byProduct[p.ID]
		if rs == nil {
			rs = []*reviews.Review{}
		}
		out = append(out, &ProductWithReviews{Product: p, Reviews: rs})
	}
	return out
}

// IDs returns the ids of list in order.
func IDs(list []*Product) []int64 {
	ids := make([]int64, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}
