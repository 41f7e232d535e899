package reviews

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/db"

	"github.com/jackc/pgx/v5"
)

type Store interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, id int64) (*Review, error)
	Delete(ctx context.Context, id int64) error
	ListByProduct(ctx context.Context, productID int64) ([]*Review, error)
	ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*Review, error)
	GetStats(ctx context.Context, productID int64) (Stats, error)
}

type Repository struct {
	q db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{q: q}
}

func (r *Repository) Create(ctx context.Context, review *Review) error {
	query := `
        INSERT INTO reviews (product_id, user_id, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `
	err := r.q.QueryRow(ctx, query,
		review.ProductID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return ErrDuplicate
		case db.IsForeignKeyViolation(err):
			return ErrProductNotFound
		default:
			return fmt.Errorf("create review: %w", err)
		}
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Review, error) {
	query := `
        SELECT id, product_id, user_id, rating, comment, created_at, updated_at
        FROM reviews
        WHERE id = $1
    `
	rv := &Review{}
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get review: %w", err)
	}
	return rv, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const selectWithAuthor = `
        SELECT r.id, r.product_id, r.user_id, r.rating, r.comment,
               r.created_at, r.updated_at, u.username
        FROM reviews r
        JOIN users u ON u.id = r.user_id
`

func (r *Repository) ListByProduct(ctx context.Context, productID int64) ([]*Review, error) {
	rows, err := r.q.Query(ctx, selectWithAuthor+`
        WHERE r.product_id = $1
        ORDER BY r.created_at DESC, r.id DESC
    `, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	list, err := scanReviews(rows)
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListByProducts loads the reviews of many products in one round trip,
// keyed by product id. Products without reviews have no entry.
func (r *Repository) ListByProducts(ctx context.Context, productIDs []int64) (map[int64][]*Review, error) {
	out := make(map[int64][]*Review, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	rows, err := r.q.Query(ctx, selectWithAuthor+`
        WHERE r.product_id = ANY($1)
        ORDER BY r.created_at DESC, r.id DESC
    `, productIDs)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	list, err := scanReviews(rows)
	if err != nil {
		return nil, err
	}
	for _, rv := range list {
		out[rv.ProductID] = append(out[rv.ProductID], rv)
	}
	return out, nil
}

func scanReviews(rows pgx.Rows) ([]*Review, error) {
	defer rows.Close()

	list := []*Review{}
	for rows.Next() {
		rv := &Review{Author: &Author{}}
		err := rows.Scan(
			&rv.ID,
			&rv.ProductID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.CreatedAt,
			&rv.UpdatedAt,
			&rv.Author.Username,
		)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.Author.ID = rv.UserID
		list = append(list, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}

func (r *Repository) GetStats(ctx context.Context, productID int64) (Stats, error) {
	query := `
        SELECT
            COUNT(id) AS total_reviews,
            COALESCE(AVG(rating), 0)::float8 AS average_rating
        FROM reviews
        WHERE product_id = $1
    `
	var s Stats
	if err := r.q.QueryRow(ctx, query, productID).Scan(&s.Total, &s.Average); err != nil {
		return Stats{}, fmt.Errorf("review stats: %w", err)
	}
	return s, nil
}
