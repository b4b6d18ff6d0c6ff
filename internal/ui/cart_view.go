package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nurye/shop/internal/cart"
	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/route"
)

type cartState struct {
	cursor int
}

func (m Model) cartLines() []cart.Line {
	if m.cart == nil {
		return nil
	}
	return m.cart.Lines()
}

func (m *Model) clampCart() {
	m.cartView.cursor = clampIndex(m.cartView.cursor, len(m.cartLines()))
}

func (m Model) selectedLine() (cart.Line, bool) {
	lines := m.cartLines()
	i := m.cartView.cursor
	if i < 0 || i >= len(lines) {
		return cart.Line{}, false
	}
	return lines[i], true
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cart == nil {
		return m, nil
	}
	n := len(m.cartLines())

	switch {
	case key.Matches(msg, m.keys.Up):
		m.cartView.cursor = clampIndex(m.cartView.cursor-1, n)
	case key.Matches(msg, m.keys.Down):
		m.cartView.cursor = clampIndex(m.cartView.cursor+1, n)
	case key.Matches(msg, m.keys.Top):
		m.cartView.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.cartView.cursor = clampIndex(n-1, n)
	case key.Matches(msg, m.keys.Increase):
		if l, ok := m.selectedLine(); ok {
			m.cart.ChangeQuantity(l.ID, 1)
		}
	case key.Matches(msg, m.keys.Decrease):
		if l, ok := m.selectedLine(); ok {
			m.cart.ChangeQuantity(l.ID, -1)
		}
	case key.Matches(msg, m.keys.RemoveLine):
		if l, ok := m.selectedLine(); ok {
			m.cart.Remove(l.ID)
			m.status = "Removed " + truncate(l.Title, 40)
			m.clampCart()
		}
	case key.Matches(msg, m.keys.ClearCart):
		m.cart.Clear()
		m.status = "Cart cleared"
		m.clampCart()
	case key.Matches(msg, m.keys.Confirm):
		if l, ok := m.selectedLine(); ok {
			cmd := m.navigate(route.ToProduct(l.ID))
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) renderCart() string {
	styles := m.theme.Styles()
	width := max(30, m.width-2)
	lines := m.cartLines()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(" Your cart"))
	if m.cart != nil {
		b.WriteString(styles.FaintText.Render("  " + plural(m.cart.Count(), "item", "items")))
	}
	b.WriteString("\n\n")

	if len(lines) == 0 {
		b.WriteString(styles.MutedText.Render("  Your cart is empty. Press P to browse products."))
		return b.String()
	}

	const qtyWidth = 8
	totalWidth := 18
	titleWidth := max(8, width-qtyWidth-2*totalWidth-6)

	header := "  " + padRight("Item", titleWidth) + "  " +
		padRight("Price", totalWidth) + padRight("Qty", qtyWidth) + "Total"
	b.WriteString(styles.FaintText.Render(header))
	b.WriteString("\n")

	start := scrollStart(m.cartView.cursor, len(lines), m.contentHeight()-7)
	for i := start; i < len(lines); i++ {
		l := lines[i]
		row := "  " + padRight(truncate(l.Title, titleWidth), titleWidth) + "  " +
			padRight(money.Format(l.UnitPrice(), m.currency), totalWidth) +
			padRight(strconv.Itoa(l.Quantity), qtyWidth) +
			money.Format(l.Total(), m.currency)
		if i == m.cartView.cursor {
			row = styles.Selected.Width(width).Render(row)
		} else {
			row = styles.Text.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	subtotal := "Subtotal  " + money.Format(m.cart.Subtotal(), m.currency)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(
		styles.AccentText.Bold(true).Render(subtotal)))
	b.WriteString("\n")

	if m.cart.LastPersistError() != nil {
		b.WriteString(styles.WarningText.Render("  Cart could not be saved; changes last until exit."))
		b.WriteString("\n")
	}
	b.WriteString(styles.FaintText.Render("  +/- quantity  x remove  X clear  enter view product"))
	return b.String()
}
