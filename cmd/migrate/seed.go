package main

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain/categories"
	"storefront/internal/domain/products"
	"storefront/internal/domain/storage"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name, price, description, image, category string
	curatorsPick                              bool
}

var seedCategories = []string{"Electronics", "Books", "Home"}

var seedProducts = []seedProduct{
	{"Wireless Headphones", "89.99", "Over-ear headphones with 30 hours of battery.", "https://picsum.photos/seed/headphones/600", "Electronics", true},
	{"USB-C Charger", "24.50", "65W fast charger with two ports.", "https://picsum.photos/seed/charger/600", "Electronics", false},
	{"The Go Programming Language", "39.00", "A thorough introduction to Go.", "https://picsum.photos/seed/gobook/600", "Books", true},
	{"Ceramic Mug", "12.00", "Stoneware mug, 350ml.", "https://picsum.photos/seed/mug/600", "Home", false},
}

// seed inserts demo categories and products in one transaction. Categories
// that already exist are reused; products are only added to an empty catalog.
func seed(ctx context.Context, store *storage.Container) (int, error) {
	created := 0

	err := store.WithTx(ctx, func(tx *storage.Tx) error {
		ids := make(map[string]int64, len(seedCategories))
		for _, name := range seedCategories {
			c, err := tx.Categories.GetByName(ctx, name)
			if errors.Is(err, categories.ErrNotFound) {
				c = &categories.Category{Name: name}
				err = tx.Categories.Create(ctx, c)
			}
			if err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
			ids[name] = c.ID
		}

		existing, total, err := tx.Products.List(ctx, 1, 0)
		if err != nil {
			return err
		}
		if total > 0 || len(existing) > 0 {
			return nil
		}

		for _, sp := range seedProducts {
			p := &products.Product{
				Name:         sp.name,
				Price:        decimal.RequireFromString(sp.price),
				Description:  sp.description,
				Image:        sp.image,
				CategoryID:   ids[sp.category],
				CuratorsPick: sp.curatorsPick,
			}
			if err := tx.Products.Create(ctx, p); err != nil {
				return fmt.Errorf("product %q: %w", sp.name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
