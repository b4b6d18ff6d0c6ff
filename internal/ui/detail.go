package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/money"
)

// detailHeaderLines is the height of the fixed block above the description.
const detailHeaderLines = 7

type detailState struct {
	key      string
	product  catalog.Product
	loading  bool
	err      error
	qty      int
	viewport viewport.Model
	rendered string // cached description markdown
	width    int    // width rendered was wrapped at
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Increase):
		m.detail.qty++
		return m, nil
	case key.Matches(msg, m.keys.Decrease):
		m.detail.qty = max(1, m.detail.qty-1)
		return m, nil
	case key.Matches(msg, m.keys.AddToCart):
		if m.detail.loading || m.detail.err != nil {
			return m, nil
		}
		cmd := m.addToCart(m.detail.product, m.detail.qty)
		return m, cmd
	case key.Matches(msg, m.keys.Top):
		m.detail.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.detail.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// updateDetailViewport sizes the description viewport and refreshes its
// content.
func (m *Model) updateDetailViewport() {
	w := max(20, m.width-4)
	h := max(3, m.contentHeight()-detailHeaderLines)
	if m.detail.viewport.Width == 0 {
		m.detail.viewport = viewport.New(w, h)
	} else {
		m.detail.viewport.Width = w
		m.detail.viewport.Height = h
	}
	if m.detail.loading || m.detail.err != nil {
		m.detail.viewport.SetContent("")
		return
	}
	if m.detail.rendered == "" || m.detail.width != w {
		m.detail.rendered = m.renderDescription(m.detail.product.Description, w)
		m.detail.width = w
	}
	m.detail.viewport.SetContent(m.detail.rendered)
}

// renderDescription renders markdown for the current theme, falling back to
// the raw text.
func (m Model) renderDescription(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return m.theme.Styles().FaintText.Render("No description")
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(ternary(m.theme.Dark, "dark", "light")),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.logger.Debug("markdown renderer unavailable", zap.Error(err))
		return text
	}
	out, err := renderer.Render(text)
	if err != nil {
		m.logger.Debug("render description failed", zap.Error(err))
		return text
	}
	return strings.Trim(out, "\n")
}

func (m Model) renderDetail() string {
	styles := m.theme.Styles()

	switch {
	case m.detail.loading:
		return styles.MutedText.Render(" Loading product...")
	case errors.Is(m.detail.err, catalog.ErrNotFound):
		return styles.WarningText.Render(" Product not found") + "\n" +
			styles.FaintText.Render(" Press b to go back.")
	case m.detail.err != nil:
		return styles.WarningText.Render(" Could not load product. Press r to retry.")
	}

	p := m.detail.product
	var b strings.Builder
	b.WriteString(" " + styles.Text.Bold(true).Render(p.Title))
	b.WriteString("\n ")
	b.WriteString(styles.AccentText.Bold(true).Render(money.Format(p.DisplayPrice(), m.currency)))
	b.WriteString("\n ")
	b.WriteString(styles.FaintText.Render(p.Image.Label()))
	b.WriteString("\n ")

	var meta []string
	if p.Category != "" {
		meta = append(meta, "Category: "+p.Category)
	}
	if p.Vendor != "" {
		meta = append(meta, "Sold by "+p.Vendor)
	}
	b.WriteString(styles.MutedText.Render(strings.Join(meta, "  ")))
	b.WriteString("\n\n ")

	b.WriteString(styles.MutedText.Render("Qty "))
	b.WriteString(styles.Badge.Render("- " + strconv.Itoa(m.detail.qty) + " +"))
	b.WriteString("  ")
	b.WriteString(styles.FaintText.Render("a add to cart  +/- quantity"))
	b.WriteString("\n\n")

	b.WriteString(m.detail.viewport.View())
	return b.String()
}
