package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/route"
)

const (
	brandName         = "Nurye Shop"
	searchPlaceholder = "Search products..."
	searchPrompt      = "/ "
	searchCharLimit   = 120
)

func (m *Model) initSearchInput() {
	ti := textinput.New()
	ti.Placeholder = searchPlaceholder
	ti.Prompt = searchPrompt
	ti.CharLimit = searchCharLimit
	m.searchInput = ti
	m.applyInputStyles()
}

// applyInputStyles re-skins the text inputs after a theme change.
func (m *Model) applyInputStyles() {
	styles := m.theme.Styles()
	apply := func(ti *textinput.Model) {
		ti.PromptStyle = styles.AccentText
		ti.TextStyle = styles.Text
		ti.PlaceholderStyle = styles.FaintText
		ti.Cursor.Style = styles.AccentText
	}
	apply(&m.searchInput)
	for i := range m.profile.inputs {
		apply(&m.profile.inputs[i])
	}
}

// searchWidth is the visible width of the search field.
func (m Model) searchWidth() int {
	if m.width < LayoutCompactWidth {
		return max(12, m.width/3)
	}
	return DropdownWidth - 8
}

// searchColumn is the screen column where the search field starts.
func (m Model) searchColumn() int {
	// header padding + brand + separator
	return 1 + lipgloss.Width(brandName) + 2
}

// focusSearch moves keyboard focus into the navbar field and reopens the
// suggestion panel.
func (m *Model) focusSearch() tea.Cmd {
	if m.search == nil {
		return nil
	}
	m.focus = focusSearch
	m.search.Open()
	m.syncSearch()
	return m.searchInput.Focus()
}

// blurSearch returns focus to the page.
func (m *Model) blurSearch() {
	m.focus = focusPage
	m.searchInput.Blur()
}

// syncSearch reads the controller state after a synchronous call.
func (m *Model) syncSearch() {
	if m.search == nil {
		return
	}
	m.searchState = m.search.State()
}

// spinIfLoading starts the spinner when a query is pending.
func (m *Model) spinIfLoading() tea.Cmd {
	if !m.searchState.Loading() || m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// handleSearchKey processes keys while the navbar field has focus. Keys are
// matched by name so letters used as page shortcuts can still be typed.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "down":
		m.search.Down()
		m.syncSearch()
		return m, nil

	case "up":
		m.search.Up()
		m.syncSearch()
		return m, nil

	case "enter":
		dest, ok := m.search.Enter()
		m.syncSearch()
		if !ok {
			return m, nil
		}
		m.blurSearch()
		cmd := m.navigate(dest)
		return m, cmd

	case "esc":
		if m.searchState.Open {
			m.search.Escape()
		} else {
			m.blurSearch()
			m.search.Dismiss()
		}
		m.syncSearch()
		return m, nil

	case "tab", "shift+tab":
		m.blurSearch()
		m.search.Dismiss()
		m.syncSearch()
		return m, nil
	}

	before := m.searchInput.Value()
	var inputCmd tea.Cmd
	m.searchInput, inputCmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.search.Input(value)
		m.syncSearch()
	}
	spinCmd := m.spinIfLoading()
	return m, tea.Batch(inputCmd, spinCmd)
}

// renderHeader renders the navbar: brand, search field, links and cart badge.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := newBarStyle(m.theme)

	parts := []string{
		bg.Render(brandName, styles.Logo),
		m.renderSearchField(bg, styles),
	}
	if m.width >= LayoutCompactWidth {
		parts = append(parts, m.renderNavLinks(bg, styles))
	}
	parts = append(parts, m.renderCartBadge(styles))

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderSearchField(bg barStyle, styles Styles) string {
	field := padRight(m.searchInput.View(), m.searchWidth()+lipgloss.Width(searchPrompt)+1)
	if m.searchState.Loading() && m.focus == focusSearch {
		return field + bg.Space() + m.spinner.View()
	}
	return field + bg.Spaces(2)
}

func (m Model) renderNavLinks(bg barStyle, styles Styles) string {
	links := []struct {
		label string
		kinds []route.Kind
	}{
		{"Home", []route.Kind{route.Home}},
		{"Products", []route.Kind{route.Products, route.Category, route.SearchResults, route.ProductDetail}},
		{"Profile", []route.Kind{route.Profile}},
	}

	current := m.current().Kind
	parts := make([]string, 0, len(links))
	for _, link := range links {
		style := styles.MutedText
		for _, k := range link.kinds {
			if k == current {
				style = styles.AccentText.Bold(true)
				break
			}
		}
		parts = append(parts, bg.Render(link.label, style))
	}
	return bg.Join(parts, "  ")
}

// renderCartBadge shows the live item count. The badge changes color for a
// moment after every add.
func (m Model) renderCartBadge(styles Styles) string {
	count := 0
	if m.cart != nil {
		count = m.cart.Count()
	}
	style := styles.Badge
	if m.pulsing {
		style = styles.BadgePulse
	}
	return style.Render("Cart " + strconv.Itoa(count))
}

// renderDropdown renders the suggestion panel under the search field.
func (m Model) renderDropdown() string {
	s := m.searchState
	if m.focus != focusSearch || !s.Open || strings.TrimSpace(s.Input) == "" {
		return ""
	}

	styles := m.theme.Styles()
	width := min(DropdownWidth, max(20, m.width-m.searchColumn()-1))
	inner := width - 4

	var lines []string
	switch {
	case s.Loading():
		lines = append(lines, m.spinner.View()+" "+styles.MutedText.Render("Loading…"))
	case len(s.Results) == 0:
		lines = append(lines, styles.MutedText.Render("No results"))
	default:
		for i, r := range s.Results {
			var price string
			if r.Price != nil {
				price = money.Format(money.FromPtr(r.Price), m.currency)
			}
			title := truncate(r.Title, max(4, inner-lipgloss.Width(price)-1))
			gap := max(1, inner-lipgloss.Width(title)-lipgloss.Width(price))
			line := title + strings.Repeat(" ", gap) + price
			if i == s.Selected {
				lines = append(lines, styles.Selected.Width(inner).Render(line))
			} else {
				lines = append(lines, styles.Text.Render(title)+strings.Repeat(" ", gap)+styles.MutedText.Render(price))
			}
		}
	}

	return styles.PanelFocus.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// overlayTop draws overlay over the first lines of base starting at col.
func overlayTop(base, overlay string, col int) string {
	baseLines := strings.Split(base, "\n")
	for i, line := range strings.Split(overlay, "\n") {
		if i >= len(baseLines) {
			baseLines = append(baseLines, "")
		}
		under := baseLines[i]
		left := padRight(ansi.Truncate(under, col, ""), col)
		right := ansi.TruncateLeft(under, col+lipgloss.Width(line), "")
		baseLines[i] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

// fitHeight clips or pads content to exactly height lines.
func fitHeight(content string, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
