package catalog

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// MaxSuggestions bounds fixture search results.
const MaxSuggestions = 8

// fixtureFile is the on-disk YAML layout.
type fixtureFile struct {
	Banners    []Banner   `yaml:"banners"`
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
}

// Fixture serves the catalog from a YAML file. It is used for offline demos
// and tests, and can be reloaded while running.
type Fixture struct {
	path string

	mu   sync.RWMutex
	data fixtureFile
}

// LoadFixture reads and parses path.
func LoadFixture(path string) (*Fixture, error) {
	f := &Fixture{path: path}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFixture builds an in-memory fixture, mainly for tests.
func NewFixture(home Home) *Fixture {
	return &Fixture{data: fixtureFile{
		Banners:    home.Banners,
		Categories: home.Categories,
		Products:   home.Products,
	}}
}

// Path returns the backing file, empty for in-memory fixtures.
func (f *Fixture) Path() string {
	return f.path
}

// Reload re-reads the backing file. On error the previous data is kept.
func (f *Fixture) Reload() error {
	if f.path == "" {
		return nil
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("read catalog fixture: %w", err)
	}
	var data fixtureFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse catalog fixture: %w", err)
	}
	f.mu.Lock()
	f.data = data
	f.mu.Unlock()
	return nil
}

func (f *Fixture) Banners(ctx context.Context) ([]Banner, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.data.Banners), nil
}

func (f *Fixture) Categories(ctx context.Context) ([]Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return slices.Clone(f.data.Categories), nil
}

// Products filters by category (slug, id or title, case-insensitive) and
// fuzzy search text, then applies the limit.
func (f *Fixture) Products(ctx context.Context, query ProductQuery) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	products := f.data.Products
	if cat := strings.TrimSpace(query.Category); cat != "" {
		products = f.inCategory(cat)
	}
	if q := strings.TrimSpace(query.Search); q != "" {
		matches := fuzzy.FindFrom(q, productTitles(products))
		ranked := make([]Product, 0, len(matches))
		for _, m := range matches {
			ranked = append(ranked, products[m.Index])
		}
		products = ranked
	}
	if query.Limit > 0 && len(products) > query.Limit {
		products = products[:query.Limit]
	}
	return slices.Clone(products), nil
}

func (f *Fixture) inCategory(key string) []Product {
	names := []string{key}
	for _, c := range f.data.Categories {
		if strings.EqualFold(c.Slug, key) || strings.EqualFold(c.ID, key) {
			names = append(names, c.Slug, c.ID, c.Title)
		}
	}
	var out []Product
	for _, p := range f.data.Products {
		for _, n := range names {
			if n != "" && strings.EqualFold(p.Category, n) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Product looks up by slug first, then id.
func (f *Fixture) Product(ctx context.Context, key string) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, p := range f.data.Products {
		if p.Slug != "" && p.Slug == key {
			return p, nil
		}
	}
	for _, p := range f.data.Products {
		if p.ID == key {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("product %q: %w", key, ErrNotFound)
}

// Search ranks product titles against query, best match first.
func (f *Fixture) Search(ctx context.Context, query string) ([]Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	matches := fuzzy.FindFrom(query, productTitles(f.data.Products))
	if len(matches) > MaxSuggestions {
		matches = matches[:MaxSuggestions]
	}
	out := make([]Suggestion, 0, len(matches))
	for _, m := range matches {
		p := f.data.Products[m.Index]
		out = append(out, Suggestion{ID: p.ID, Title: p.Title, Price: p.Price, Slug: p.Slug})
	}
	return out, nil
}

type productTitles []Product

func (p productTitles) String(i int) string { return p[i].Title }
func (p productTitles) Len() int            { return len(p) }
