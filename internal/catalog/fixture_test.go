package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `
banners:
  - id: b1
    title: Weekend sale
    subtitle: Everything must go
    cta_text: Browse
    cta_url: /products
categories:
  - id: c1
    title: Beverages
    slug: beverages
  - id: c2
    title: Home
    slug: home
products:
  - id: p1
    title: Green Tea
    slug: green-tea
    price: 80
    category: beverages
    image: tea.png
  - id: p2
    title: Teapot
    price: 450.5
    category: Home
  - id: p3
    title: Coffee Beans
    slug: coffee-beans
    category: c1
  - id: p4
    title: Steel Kettle
    category: home
`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	require.NoError(t, err)
	ctx := context.Background()

	banners, err := f.Banners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Everything must go", banners[0].Subtitle())

	categories, err := f.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	products, err := f.Products(ctx, ProductQuery{})
	require.NoError(t, err)
	require.Len(t, products, 4)
	assert.Equal(t, ImageRef("tea.png"), products[0].Image)
	assert.Nil(t, products[2].Price)
}

func TestLoadFixture_Errors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read catalog fixture")

	_, err = LoadFixture(writeFixture(t, "products: [unclosed"))
	assert.ErrorContains(t, err, "parse catalog fixture")
}

func TestFixture_ProductsByCategory(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	require.NoError(t, err)

	products, err := f.Products(context.Background(), ProductQuery{Category: "home"})
	require.NoError(t, err)
	var ids []string
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	// matched by category title and by slug
	assert.Equal(t, []string{"p2", "p4"}, ids)

	products, err = f.Products(context.Background(), ProductQuery{Category: "beverages", Limit: 1})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "p1", products[0].ID)
}

func TestFixture_ProductLookup(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	require.NoError(t, err)
	ctx := context.Background()

	p, err := f.Product(ctx, "green-tea")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	p, err = f.Product(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, "Teapot", p.Title)

	_, err = f.Product(ctx, "nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestFixture_SearchRanksAndBounds(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	require.NoError(t, err)
	ctx := context.Background()

	results, err := f.Search(ctx, " tea ")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	titles := make([]string, 0, len(results))
	for _, r := range results {
		titles = append(titles, r.Title)
	}
	assert.Contains(t, titles, "Green Tea")
	assert.Contains(t, titles, "Teapot")
	assert.NotContains(t, titles, "Coffee Beans")

	results, err = f.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, results)

	var many Home
	for i := 0; i < 20; i++ {
		many.Products = append(many.Products, Product{ID: string(rune('a' + i)), Title: "Tea sample"})
	}
	results, err = NewFixture(many).Search(ctx, "tea")
	require.NoError(t, err)
	assert.Len(t, results, MaxSuggestions)
}

func TestFixture_ReloadKeepsDataOnError(t *testing.T) {
	path := writeFixture(t, sampleFixture)
	f, err := LoadFixture(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("products: ["), 0o644))
	assert.Error(t, f.Reload())

	products, err := f.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, products, 4)

	require.NoError(t, os.WriteFile(path, []byte("products:\n  - id: only\n    title: Only\n"), 0o644))
	require.NoError(t, f.Reload())
	products, err = f.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestFixture_RespectsCancelledContext(t *testing.T) {
	f := NewFixture(Home{Products: []Product{{ID: "p1", Title: "Tea"}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Search(ctx, "tea")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFixture_NonFinitePriceRendersAsZero(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, `
products:
  - id: p1
    title: Broken price
    price: .inf
  - id: p2
    title: Not a number
    price: .nan
`))
	require.NoError(t, err)

	products, err := f.Products(context.Background(), ProductQuery{})
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		assert.NotPanics(t, func() {
			assert.True(t, p.DisplayPrice().IsZero(), p.Title)
			assert.Zero(t, p.PriceValue(), p.Title)
		})
	}
}
