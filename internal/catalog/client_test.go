package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	require.NoError(t, err)
	assert.Equal(t, "http", u.Scheme)
	assert.Equal(t, defaultAPIBase, u.Host)

	u, err = parseBaseURL("https://shop.example:8443/base?x=1#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example:8443", u.String())
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	c, err := NewClient(server.URL, nil)
	require.NoError(t, err)
	return c
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_Endpoints(t *testing.T) {
	t.Parallel()

	var (
		mu            sync.Mutex
		productsQuery url.Values
		requestIDs    []string
	)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		requestIDs = append(requestIDs, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/banners":
			_, _ = w.Write([]byte(`{"banners":[{"id":"b1","title":"Sale","description":"Half off","ctaText":"Go","ctaUrl":"/category/shoes"}]}`))
		case "/api/categories":
			_, _ = w.Write([]byte(`{"categories":[{"id":"c1","title":"Shoes","slug":"shoes"}]}`))
		case "/api/products":
			productsQuery = r.URL.Query()
			_, _ = w.Write([]byte(`{"products":[{"id":"p1","title":"Boot","price":1200,"image":{"asset":{"_ref":"image-abc"}}}]}`))
		case "/api/products/boot":
			_, _ = w.Write([]byte(`{"id":"p1","title":"Boot","slug":"boot"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := testContext(t)

	banners, err := c.Banners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Half off", banners[0].Subtitle())

	categories, err := c.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "/category/shoes", categories[0].Route().Path())

	products, err := c.Products(ctx, ProductQuery{Limit: 12, Category: " shoes "})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, ImageRef("image-abc"), products[0].Image)
	mu.Lock()
	assert.Equal(t, "12", productsQuery.Get("limit"))
	assert.Equal(t, "shoes", productsQuery.Get("category"))
	assert.False(t, productsQuery.Has("search"))
	mu.Unlock()

	p, err := c.Product(ctx, "boot")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	_, err = c.Product(ctx, "ghost")
	assert.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requestIDs, 5)
	for _, id := range requestIDs {
		_, perr := uuid.Parse(id)
		assert.NoError(t, perr, "request id %q", id)
	}
	assert.NotEqual(t, requestIDs[0], requestIDs[1])
}

func TestClient_SearchTrimsAndDecodes(t *testing.T) {
	t.Parallel()

	gotQ := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ <- r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"results":[{"id":"p1","title":"Green tea","price":80,"slug":"green-tea"},{"id":"p2","title":"Tea cup"}]}`))
	})

	results, err := c.Search(testContext(t), "  tea ")
	require.NoError(t, err)
	assert.Equal(t, "tea", <-gotQ)
	require.Len(t, results, 2)
	assert.Equal(t, "/products/green-tea", results[0].Route().Path())
	assert.Equal(t, "/products/p2", results[1].Route().Path())
	assert.Nil(t, results[1].Price)
}

func TestClient_SearchMissingResultsIsEmpty(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	results, err := c.Search(testContext(t), "tea")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestClient_Errors(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/banners":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte(`{"categories":`))
		}
	})
	ctx := testContext(t)

	_, err := c.Banners(ctx)
	assert.EqualError(t, err, "api /api/banners returned status 500")

	_, err = c.Categories(ctx)
	assert.ErrorContains(t, err, "decode response")
}

func TestClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "tea")
	assert.ErrorIs(t, err, context.Canceled)
}
