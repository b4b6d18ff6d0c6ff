package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/prefs"
)

const (
	fieldName = iota
	fieldEmail
	fieldAvatar
	fieldCount
)

var profileLabels = [fieldCount]string{"Name", "Email", "Avatar"}

type profileState struct {
	editing  bool
	inputs   [fieldCount]textinput.Model
	focusIdx int
	status   string
	failed   bool
}

func (m *Model) initProfileInputs() {
	placeholders := [fieldCount]string{"Your name", "you@example.com", "Image reference"}
	limits := [fieldCount]int{80, 254, 512}
	for i := range m.profile.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		ti.Prompt = ""
		m.profile.inputs[i] = ti
	}
	m.applyInputStyles()
}

// startEditing fills the form from the saved profile.
func (m *Model) startEditing() tea.Cmd {
	p := m.prefs.Profile
	values := [fieldCount]string{p.Name, p.Email, p.Avatar}
	for i := range m.profile.inputs {
		m.profile.inputs[i].SetValue(values[i])
		m.profile.inputs[i].Blur()
	}
	m.profile.editing = true
	m.profile.focusIdx = fieldName
	m.profile.status = ""
	return m.profile.inputs[fieldName].Focus()
}

func (m *Model) stopEditing() {
	m.profile.editing = false
	for i := range m.profile.inputs {
		m.profile.inputs[i].Blur()
	}
}

func (m *Model) focusField(idx int) tea.Cmd {
	idx = ((idx % fieldCount) + fieldCount) % fieldCount
	m.profile.inputs[m.profile.focusIdx].Blur()
	m.profile.focusIdx = idx
	return m.profile.inputs[idx].Focus()
}

// saveProfile validates the form and writes it to the preferences file.
func (m *Model) saveProfile() {
	next := prefs.Profile{
		Name:   strings.TrimSpace(m.profile.inputs[fieldName].Value()),
		Email:  strings.TrimSpace(m.profile.inputs[fieldEmail].Value()),
		Avatar: strings.TrimSpace(m.profile.inputs[fieldAvatar].Value()),
	}
	if err := next.Validate(); err != nil {
		m.profile.status = err.Error()
		m.profile.failed = true
		return
	}
	m.prefs.Profile = next
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.profile.status = "Could not save profile"
			m.profile.failed = true
			return
		}
	}
	m.stopEditing()
	m.profile.status = "Profile saved"
	m.profile.failed = false
}

func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.profile.editing {
		if key.Matches(msg, m.keys.EditProfile) {
			cmd := m.startEditing()
			return m, cmd
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.stopEditing()
		m.profile.status = ""
		return m, nil
	case "tab", "down":
		cmd := m.focusField(m.profile.focusIdx + 1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.focusField(m.profile.focusIdx - 1)
		return m, cmd
	case "enter":
		if m.profile.focusIdx < fieldCount-1 {
			cmd := m.focusField(m.profile.focusIdx + 1)
			return m, cmd
		}
		m.saveProfile()
		return m, nil
	case "ctrl+s":
		m.saveProfile()
		return m, nil
	}

	var cmd tea.Cmd
	i := m.profile.focusIdx
	m.profile.inputs[i], cmd = m.profile.inputs[i].Update(msg)
	return m, cmd
}

func (m Model) renderProfile() string {
	styles := m.theme.Styles()
	p := m.prefs.Profile

	var b strings.Builder
	b.WriteString(" " + styles.Text.Bold(true).Render("Hello, "+p.DisplayName()))
	b.WriteString("\n\n")

	if m.profile.editing {
		for i, label := range profileLabels {
			labelStyle := styles.MutedText
			if i == m.profile.focusIdx {
				labelStyle = styles.AccentText.Bold(true)
			}
			b.WriteString("  " + labelStyle.Render(padRight(label, 8)))
			b.WriteString(m.profile.inputs[i].View())
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("  tab next field  enter save  esc cancel"))
	} else {
		values := [fieldCount]string{p.Name, p.Email, catalog.ImageRef(p.Avatar).Label()}
		for i, label := range profileLabels {
			v := values[i]
			if v == "" {
				v = "-"
			}
			b.WriteString("  " + styles.MutedText.Render(padRight(label, 8)) + styles.Text.Render(v))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		count := 0
		subtotal := money.Format(money.FromFloat(0), m.currency)
		if m.cart != nil {
			count = m.cart.Count()
			subtotal = money.Format(m.cart.Subtotal(), m.currency)
		}
		b.WriteString("  " + styles.MutedText.Render(padRight("Cart", 8)) +
			styles.Text.Render(plural(count, "item", "items")+", "+subtotal))
		b.WriteString("\n")
		b.WriteString("  " + styles.MutedText.Render(padRight("Theme", 8)) +
			styles.Text.Render(m.theme.Name))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("  e edit profile  T toggle dark mode"))
	}

	if m.profile.status != "" {
		b.WriteString("\n\n  ")
		if m.profile.failed {
			b.WriteString(styles.DangerText.Render(m.profile.status))
		} else {
			b.WriteString(styles.SuccessText.Render(m.profile.status))
		}
	}
	return b.String()
}
