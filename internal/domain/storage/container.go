package storage

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/categories"
	"storefront/internal/domain/products"
	"storefront/internal/domain/reviews"
	"storefront/internal/domain/users"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Container struct {
	pool       *pgxpool.Pool
	Users      users.Store
	Categories categories.Store
	Products   products.Store
	Reviews    reviews.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		pool:       db,
		Users:      users.NewRepository(db),
		Categories: categories.NewRepository(db),
		Products:   products.NewRepository(db),
		Reviews:    reviews.NewRepository(db),
	}
}

// Tx is a tx-scoped set of repositories for atomic units of work.
type Tx struct {
	Users      users.Store
	Categories categories.Store
	Products   products.Store
	Reviews    reviews.Store
}

// WithTx runs fn inside a single transaction and commits when fn returns nil.
func (c *Container) WithTx(ctx context.Context, fn func(s *Tx) error) error {
	if c.pool == nil {
		return errors.New("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op once committed
	}()

	s := &Tx{
		Users:      users.NewRepository(tx),
		Categories: categories.NewRepository(tx),
		Products:   products.NewRepository(tx),
		Reviews:    reviews.NewRepository(tx),
	}

	if err := fn(s); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
