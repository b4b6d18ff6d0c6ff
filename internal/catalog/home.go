package catalog

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// FeaturedLimit is how many products the landing page shows.
const FeaturedLimit = 12

// LoadHome fetches banners, categories and featured products concurrently.
// Any failure fails the whole load.
func LoadHome(ctx context.Context, src Source) (Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		banners, err := src.Banners(gctx)
		if err != nil {
			return fmt.Errorf("load banners: %w", err)
		}
		home.Banners = banners
		return nil
	})
	g.Go(func() error {
		categories, err := src.Categories(gctx)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		home.Categories = categories
		return nil
	})
	g.Go(func() error {
		products, err := src.Products(gctx, ProductQuery{Limit: FeaturedLimit})
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		home.Products = products
		return nil
	})

	if err := g.Wait(); err != nil {
		return Home{}, err
	}
	return home, nil
}

// Slides returns the banners for the carousel, or the default banner when
// there are none.
func (h Home) Slides() []Banner {
	if len(h.Banners) == 0 {
		return []Banner{DefaultBanner()}
	}
	return h.Banners
}
