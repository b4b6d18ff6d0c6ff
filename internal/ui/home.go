package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/route"
)

// homeState tracks the landing page. The cursor walks the hero banner,
// then categories, then featured products.
type homeState struct {
	banner      int
	cursor      int
	carouselSeq int
}

func (m Model) slides() []catalog.Banner {
	return m.snapshot.Home.Slides()
}

func (m Model) homeItems() int {
	return 1 + len(m.snapshot.Home.Categories) + len(m.snapshot.Home.Products)
}

// clampHome keeps the banner and cursor valid after a snapshot change.
func (m *Model) clampHome() {
	if n := len(m.slides()); m.home.banner >= n {
		m.home.banner = 0
	}
	m.home.cursor = clampIndex(m.home.cursor, m.homeItems())
}

// carouselPaused reports whether autoplay should hold the current slide.
func (m Model) carouselPaused() bool {
	return m.focus == focusSearch && m.searchState.Open
}

func (m Model) handleCarouselTick(msg carouselTickMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.home.carouselSeq || m.current().Kind != route.Home {
		return m, nil
	}
	if !m.carouselPaused() {
		m.home.banner = (m.home.banner + 1) % len(m.slides())
	}
	return m, carouselCmd(m.home.carouselSeq)
}

// stepBanner moves the carousel by delta with wraparound and restarts the
// autoplay interval.
func (m *Model) stepBanner(delta int) tea.Cmd {
	n := len(m.slides())
	m.home.banner = ((m.home.banner+delta)%n + n) % n
	m.home.carouselSeq++
	return carouselCmd(m.home.carouselSeq)
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Left):
		cmd := m.stepBanner(-1)
		return m, cmd
	case key.Matches(msg, m.keys.Right):
		cmd := m.stepBanner(1)
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		m.home.cursor = clampIndex(m.home.cursor-1, m.homeItems())
	case key.Matches(msg, m.keys.Down):
		m.home.cursor = clampIndex(m.home.cursor+1, m.homeItems())
	case key.Matches(msg, m.keys.Top):
		m.home.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		m.home.cursor = m.homeItems() - 1
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.navigate(m.homeTarget())
		return m, cmd
	case key.Matches(msg, m.keys.AddToCart):
		if p, ok := m.homeProduct(); ok {
			cmd := m.addToCart(p, 1)
			return m, cmd
		}
	}
	return m, nil
}

// homeTarget is where Enter goes from the current cursor.
func (m Model) homeTarget() route.Route {
	cats := m.snapshot.Home.Categories
	switch i := m.home.cursor; {
	case i == 0:
		slides := m.slides()
		return slides[m.home.banner%len(slides)].Destination()
	case i <= len(cats):
		return cats[i-1].Route()
	}
	if p, ok := m.homeProduct(); ok {
		return p.Route()
	}
	return route.ToProducts()
}

func (m Model) homeProduct() (catalog.Product, bool) {
	i := m.home.cursor - 1 - len(m.snapshot.Home.Categories)
	products := m.snapshot.Home.Products
	if i < 0 || i >= len(products) {
		return catalog.Product{}, false
	}
	return products[i], true
}

func (m Model) renderHome() string {
	styles := m.theme.Styles()
	width := max(20, m.width-2)

	var b strings.Builder
	b.WriteString(m.renderHero(width))
	b.WriteString("\n")

	if !m.snapshot.HasData {
		if m.snapshot.LastError != nil {
			b.WriteString(styles.WarningText.Render(" Catalog unavailable, retrying..."))
		} else {
			b.WriteString(styles.MutedText.Render(" Loading catalog..."))
		}
		return b.String()
	}

	cats := m.snapshot.Home.Categories
	if len(cats) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render(" Categories"))
		b.WriteString("\n")
		for i, c := range cats {
			line := "  " + truncate(c.Title, width-4)
			if m.home.cursor == i+1 {
				line = styles.Selected.Width(width).Render(line)
			} else {
				line = styles.Text.Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.AccentText.Bold(true).Render(" Featured products"))
	b.WriteString("\n")
	products := m.snapshot.Home.Products
	if len(products) == 0 {
		b.WriteString(styles.MutedText.Render("  No products yet"))
		return b.String()
	}
	offset := 1 + len(cats)
	for i, p := range products {
		b.WriteString(m.renderProductRow(p, m.home.cursor == offset+i, width))
		b.WriteString("\n")
	}
	return b.String()
}

// renderHero renders the current banner with its slide indicator.
func (m Model) renderHero(width int) string {
	styles := m.theme.Styles()
	slides := m.slides()
	banner := slides[m.home.banner%len(slides)]

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(banner.Title))
	if sub := banner.Subtitle(); sub != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render(truncate(sub, width-6)))
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(banner.Image.Label()))
	b.WriteString("\n\n")

	cta := banner.CTAText
	if cta == "" {
		cta = catalog.DefaultBanner().CTAText
	}
	ctaStyle := styles.Badge
	if m.home.cursor != 0 {
		ctaStyle = styles.AccentText.Bold(true)
	}
	b.WriteString(ctaStyle.Render(cta + " >"))

	if len(slides) > 1 {
		dots := make([]string, len(slides))
		for i := range slides {
			dots[i] = ternary(i == m.home.banner, "●", "○")
		}
		b.WriteString("   ")
		b.WriteString(styles.FaintText.Render(strings.Join(dots, " ")))
	}

	panel := styles.Panel
	if m.home.cursor == 0 {
		panel = styles.PanelFocus
	}
	return panel.Width(width - 2).Render(b.String())
}
