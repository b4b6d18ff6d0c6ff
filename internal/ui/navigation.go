package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/route"
)

type listingMsg struct {
	route    route.Route
	products []catalog.Product
	err      error
}

type productMsg struct {
	key     string
	product catalog.Product
	err     error
}

// navigate pushes r onto the history and enters it.
func (m *Model) navigate(r route.Route) tea.Cmd {
	m.history.Push(r)
	m.status = ""
	return m.enter(r)
}

// back returns to the previous route.
func (m *Model) back() tea.Cmd {
	r, ok := m.history.Back()
	if !ok {
		return nil
	}
	m.status = ""
	return m.enter(r)
}

// reload re-enters the current route, fetching its data again.
func (m *Model) reload() tea.Cmd {
	r := m.current()
	if r.Kind == route.Home && m.store != nil {
		return fetchSnapshotCmd(m.store)
	}
	return m.enter(r)
}

// enter prepares page state for r and returns the command that loads it.
func (m *Model) enter(r route.Route) tea.Cmd {
	switch r.Kind {
	case route.Home:
		// Restart autoplay from a full interval.
		m.home.carouselSeq++
		return carouselCmd(m.home.carouselSeq)

	case route.Products, route.Category, route.SearchResults:
		m.listing = listingState{route: r, loading: true}
		return loadListingCmd(m.ctx, m.catalog, r)

	case route.ProductDetail:
		m.detail = detailState{key: r.Key, loading: true, qty: 1}
		m.updateDetailViewport()
		return loadProductCmd(m.ctx, m.catalog, r.Key)

	case route.Cart:
		m.clampCart()

	case route.Profile:
		m.profile.editing = false
		m.profile.status = ""
	}
	return nil
}

func loadListingCmd(ctx context.Context, src catalog.Source, r route.Route) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()

		var q catalog.ProductQuery
		switch r.Kind {
		case route.Category:
			q.Category = r.Key
		case route.SearchResults:
			q.Search = r.Key
		}
		products, err := src.Products(ctx, q)
		return listingMsg{route: r, products: products, err: err}
	}
}

func loadProductCmd(ctx context.Context, src catalog.Source, key string) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
		defer cancel()

		p, err := src.Product(ctx, key)
		return productMsg{key: key, product: p, err: err}
	}
}

func (m *Model) handleListing(msg listingMsg) {
	if msg.route != m.listing.route {
		return
	}
	m.listing.loading = false
	m.listing.err = msg.err
	m.listing.products = msg.products
	m.listing.cursor = clampIndex(m.listing.cursor, len(msg.products))
	if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
		m.logger.Warn("listing load failed",
			zap.String("route", msg.route.Path()),
			zap.Error(msg.err),
		)
	}
}

func (m *Model) handleProduct(msg productMsg) {
	if msg.key != m.detail.key {
		return
	}
	m.detail.loading = false
	m.detail.err = msg.err
	m.detail.product = msg.product
	m.detail.rendered = ""
	if msg.err != nil && !errors.Is(msg.err, catalog.ErrNotFound) {
		m.logger.Warn("product load failed",
			zap.String("key", msg.key),
			zap.Error(msg.err),
		)
	}
	m.updateDetailViewport()
}

// clampIndex keeps a cursor inside [0, n-1], or 0 when n is 0.
func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
