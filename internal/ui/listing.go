package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/route"
)

// listingState backs the products, category and search results pages.
type listingState struct {
	route    route.Route
	products []catalog.Product
	loading  bool
	err      error
	cursor   int
}

func (m Model) handleListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.listing.products)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.listing.cursor = clampIndex(m.listing.cursor-1, n)
	case key.Matches(msg, m.keys.Down):
		m.listing.cursor = clampIndex(m.listing.cursor+1, n)
	case key.Matches(msg, m.keys.Top):
		m.listing.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.listing.cursor = clampIndex(n-1, n)
	case key.Matches(msg, m.keys.Confirm):
		if p, ok := m.listingProduct(); ok {
			cmd := m.navigate(p.Route())
			return m, cmd
		}
	case key.Matches(msg, m.keys.AddToCart):
		if p, ok := m.listingProduct(); ok {
			cmd := m.addToCart(p, 1)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) listingProduct() (catalog.Product, bool) {
	i := m.listing.cursor
	if i < 0 || i >= len(m.listing.products) {
		return catalog.Product{}, false
	}
	return m.listing.products[i], true
}

// listingTitle names the page for the current listing route.
func (m Model) listingTitle() string {
	r := m.listing.route
	switch r.Kind {
	case route.Category:
		for _, c := range m.snapshot.Home.Categories {
			if c.Slug == r.Key || c.ID == r.Key {
				return c.Title
			}
		}
		return r.Key
	case route.SearchResults:
		return "Results for " + strconv.Quote(r.Key)
	default:
		return "All products"
	}
}

func (m Model) renderListing() string {
	styles := m.theme.Styles()
	width := max(20, m.width-2)

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(" " + m.listingTitle()))
	if !m.listing.loading && m.listing.err == nil {
		b.WriteString(styles.FaintText.Render("  " + plural(len(m.listing.products), "product", "products")))
	}
	b.WriteString("\n\n")

	switch {
	case m.listing.loading:
		b.WriteString(styles.MutedText.Render("  Loading..."))
	case m.listing.err != nil:
		b.WriteString(styles.WarningText.Render("  Could not load products. Press r to retry."))
	case len(m.listing.products) == 0:
		b.WriteString(styles.MutedText.Render("  No products found"))
	default:
		start := scrollStart(m.listing.cursor, len(m.listing.products), m.contentHeight()-3)
		for i := start; i < len(m.listing.products); i++ {
			b.WriteString(m.renderProductRow(m.listing.products[i], i == m.listing.cursor, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderProductRow renders a product card as one line: title, image label
// and price.
func (m Model) renderProductRow(p catalog.Product, selected bool, width int) string {
	styles := m.theme.Styles()

	price := money.Format(p.DisplayPrice(), m.currency)
	image := "[" + truncate(p.Image.Label(), 18) + "]"
	titleWidth := max(6, width-lipgloss.Width(price)-lipgloss.Width(image)-6)
	title := padRight(truncate(p.Title, titleWidth), titleWidth)

	if selected {
		return styles.Selected.Width(width).Render("  " + title + "  " + image + "  " + price)
	}
	return "  " + styles.Text.Render(title) + "  " +
		styles.FaintText.Render(image) + "  " +
		styles.AccentText.Render(price)
}

// scrollStart returns the first visible row so that cursor stays on screen.
func scrollStart(cursor, total, visible int) int {
	if visible <= 0 || total <= visible || cursor < visible {
		return 0
	}
	return min(cursor-visible+1, total-visible)
}
