package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the top status bar: logo, identity, freshness.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{
		bg.Render("ladle", styles.Logo),
	}

	if m.session.SignedIn() {
		name := m.session.Fullname
		if name == "" {
			name = m.session.Username
		}
		parts = append(parts, bg.Render(name, styles.Text))
	}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("OFFLINE", styles.DangerText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("retrying", styles.WarningText))
	}

	if !m.snapshot.LastUpdated.IsZero() {
		age := humanizeDuration(time.Since(m.snapshot.LastUpdated))
		parts = append(parts, bg.Render("updated "+age, styles.MutedText))
	}

	parts = append(parts, bg.Render(m.theme.Name, styles.FaintText))

	content := strings.Join(parts, sep)
	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}
