package products

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/db"

	"github.com/jackc/pgx/v5"
)

// Store is the data access abstraction for the products domain.
type Store interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*Product, int, error)
	ListByCategory(ctx context.Context, categoryID int64) ([]*Product, error)
	ListCuratorsPicks(ctx context.Context) ([]*Product, error)
}

type Repository struct {
	q db.Querier
}

func NewRepository(q db.Querier) Store {
	return &Repository{q: q}
}

const productColumns = `id, name, price, description, image, category_id, curators_pick, created_at, updated_at`

func scanProduct(row pgx.Row, p *Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Price,
		&p.Description,
		&p.Image,
		&p.CategoryID,
		&p.CuratorsPick,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *Repository) Create(ctx context.Context, p *Product) error {
	query := `
		INSERT INTO products (name, price, description, image, category_id, curators_pick)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns

	row := r.q.QueryRow(ctx, query, p.Name, p.Price, p.Description, p.Image, p.CategoryID, p.CuratorsPick)
	if err := scanProduct(row, p); err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p := &Product{}
	if err := scanProduct(r.q.QueryRow(ctx, query, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update overwrites the editable fields. The image and category are kept.
func (r *Repository) Update(ctx context.Context, p *Product) error {
	query := `
		UPDATE products
		SET name = $1,
		    price = $2,
		    description = $3,
		    curators_pick = $4,
		    updated_at = now()
		WHERE id = $5
		RETURNING ` + productColumns

	row := r.q.QueryRow(ctx, query, p.Name, p.Price, p.Description, p.CuratorsPick, p.ID)
	if err := scanProduct(row, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns a page of products and the total count. A limit of zero or
// less returns every product.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Product, int, error) {
	if offset < 0 {
		offset = 0
	}

	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.q.Query(ctx, `
			SELECT `+productColumns+`, COUNT(*) OVER() AS total_count
			FROM products
			ORDER BY id ASC
			LIMIT $1 OFFSET $2`, limit, offset)
	} else {
		rows, err = r.q.Query(ctx, `
			SELECT `+productColumns+`, COUNT(*) OVER() AS total_count
			FROM products
			ORDER BY id ASC`)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var (
		list  = []*Product{}
		total int
	)
	for rows.Next() {
		p := &Product{}
		var t int
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Price, &p.Description, &p.Image,
			&p.CategoryID, &p.CuratorsPick, &p.CreatedAt, &p.UpdatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		total = t
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}

	// Paged past the end: no rows, but the table may not be empty.
	if len(list) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count products: %w", err)
		}
	}

	return list, total, nil
}

func (r *Repository) ListByCategory(ctx context.Context, categoryID int64) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, categoryID)
}

func (r *Repository) ListCuratorsPicks(ctx context.Context) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE curators_pick = TRUE ORDER BY id ASC`
	return r.list(ctx, query)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := []*Product{}
	for rows.Next() {
		p := &Product{}
		if err := scanProduct(rows, p); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return list, nil
}
