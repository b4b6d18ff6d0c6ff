package catalog

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a product key matches nothing.
var ErrNotFound = errors.New("catalog: not found")

// Source provides read-only catalog content. *Client, *Fixture and *Cached
// implement it.
type Source interface {
	Banners(ctx context.Context) ([]Banner, error)
	Categories(ctx context.Context) ([]Category, error)
	Products(ctx context.Context, query ProductQuery) ([]Product, error)
	Product(ctx context.Context, key string) (Product, error)
	Search(ctx context.Context, query string) ([]Suggestion, error)
}

var (
	_ Source = (*Client)(nil)
	_ Source = (*Fixture)(nil)
	_ Source = (*Cached)(nil)
)
