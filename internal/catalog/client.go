package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
}

const (
	defaultAPIBase   = "127.0.0.1:3000"
	defaultUserAgent = "nurye/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for apiBase, a host:port or URL.
func NewClient(apiBase string, logger *zap.Logger) (*Client, error) {
	base, err := parseBaseURL(apiBase)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type bannersResponse struct {
	Banners []Banner `json:"banners"`
}

type categoriesResponse struct {
	Categories []Category `json:"categories"`
}

type productsResponse struct {
	Products []Product `json:"products"`
}

type searchResponse struct {
	Results []Suggestion `json:"results"`
}

// Banners lists hero banners.
func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	var payload bannersResponse
	if err := c.do(ctx, &url.URL{Path: "/api/banners"}, &payload); err != nil {
		return nil, err
	}
	return payload.Banners, nil
}

// Categories lists product categories.
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var payload categoriesResponse
	if err := c.do(ctx, &url.URL{Path: "/api/categories"}, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}

// Products lists products matching query.
func (c *Client) Products(ctx context.Context, query ProductQuery) ([]Product, error) {
	values := url.Values{}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if cat := strings.TrimSpace(query.Category); cat != "" {
		values.Set("category", cat)
	}
	if q := strings.TrimSpace(query.Search); q != "" {
		values.Set("search", q)
	}
	var payload productsResponse
	if err := c.do(ctx, &url.URL{Path: "/api/products", RawQuery: values.Encode()}, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// Product fetches one product by slug or id.
func (c *Client) Product(ctx context.Context, key string) (Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Product{}, ErrNotFound
	}
	var payload Product
	rel := &url.URL{Path: "/api/products/" + key, RawPath: "/api/products/" + url.PathEscape(key)}
	if err := c.do(ctx, rel, &payload); err != nil {
		return Product{}, err
	}
	return payload, nil
}

// Search asks the backend for suggestions. The query is sent trimmed; a
// response without a results field decodes as no results.
func (c *Client) Search(ctx context.Context, query string) ([]Suggestion, error) {
	values := url.Values{}
	values.Set("q", strings.TrimSpace(query))
	var payload searchResponse
	if err := c.do(ctx, &url.URL{Path: "/api/search", RawQuery: values.Encode()}, &payload); err != nil {
		return nil, err
	}
	return payload.Results, nil
}

func (c *Client) do(ctx context.Context, rel *url.URL, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("catalog request",
		zap.String("path", rel.Path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("api %s: %w", rel.Path, ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBase string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBase)
	if trimmed == "" {
		trimmed = defaultAPIBase
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_base %q: %w", apiBase, err)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
