package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// profileData holds the user profile modal's fetched state.
type profileData struct {
	loading     bool
	errMsg      string
	user        recipeshare.User
	recipes     []recipeshare.Recipe
	followers   int
	following   bool
	toggling    bool
	selectedRow int
}

// isSelf reports whether the open profile belongs to the signed-in user.
func (m Model) profileIsSelf() bool {
	u, ok := m.sel.User()
	return ok && u.ID.Int() == m.session.UserID
}

// handleProfileKey processes keyboard input while a profile modal is open.
func (m Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	user, ok := m.sel.User()
	if !ok {
		m.sel = m.sel.Close()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.sel = m.sel.Close()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.profile.selectedRow < len(m.profile.recipes)-1 {
			m.profile.selectedRow++
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.profile.selectedRow > 0 {
			m.profile.selectedRow--
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.profile.selectedRow >= len(m.profile.recipes) {
			return m, nil
		}
		recipe := m.profile.recipes[m.profile.selectedRow]
		// Drilling into a recipe replaces the profile modal; closing the
		// recipe returns to the feed, not the profile.
		m.sel = m.sel.OpenRecipe(recipe)
		m.detail = newDetailData()
		m.detail.loading = true
		return m, openRecipeCmd(m.ctx, m.client, recipe.ID.Int(), m.session.UserID)

	case key.Matches(msg, m.keys.Follow):
		if m.profile.toggling {
			return m, nil
		}
		if m.profileIsSelf() {
			m.profile.errMsg = "You cannot follow yourself"
			return m, nil
		}
		m.profile.toggling = true
		m.profile.errMsg = ""
		return m, toggleFollowCmd(m.ctx, m.client, m.session.UserID, user.ID.Int())

	case key.Matches(msg, m.keys.EditRecipe):
		if m.profile.selectedRow >= len(m.profile.recipes) {
			return m, nil
		}
		recipe := m.profile.recipes[m.profile.selectedRow]
		if next := m.sel.OpenEdit(recipe, m.session.UserID); next.Kind() != m.sel.Kind() {
			m.sel = next
			m.form = newRecipeForm(recipe, m.session.UserID)
		}
		return m, nil
	}

	return m, nil
}

// renderProfile renders the user profile modal.
func (m Model) renderProfile() string {
	user, ok := m.sel.User()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	width := min(m.width-8, 64)

	var b strings.Builder
	name := user.DisplayName()
	b.WriteString(styles.Text.Bold(true).Render(name))
	if user.Username != "" && user.Username != name {
		b.WriteString(styles.MutedText.Render("  @" + user.Username))
	}
	b.WriteString("\n")

	switch {
	case m.profile.loading:
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Loading profile..."))
		b.WriteString("\n")
	case m.profile.errMsg != "" && len(m.profile.recipes) == 0:
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(m.profile.errMsg))
		b.WriteString("\n")
	default:
		followers := fmt.Sprintf("%d followers", m.profile.followers)
		b.WriteString(styles.MutedText.Render(followers))
		if m.profileIsSelf() {
			b.WriteString(styles.FaintText.Render("  ·  this is you"))
		} else if m.profile.following {
			b.WriteString(styles.SuccessText.Render("  ·  following"))
		}
		b.WriteString("\n\n")

		b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Recipes (%d)", len(m.profile.recipes))))
		b.WriteString("\n")
		if len(m.profile.recipes) == 0 {
			b.WriteString(styles.FaintText.Render("No recipes yet"))
			b.WriteString("\n")
		}
		for i, r := range m.profile.recipes {
			line := fmt.Sprintf("%s  %s", truncate(r.Name, width-18), averageStars(float64(r.AverageRating)))
			if i == m.profile.selectedRow {
				b.WriteString(styles.Selected.Render("› " + line))
			} else {
				b.WriteString(styles.Text.Render("  " + line))
			}
			b.WriteString("\n")
		}
		if m.profile.errMsg != "" {
			b.WriteString(styles.DangerText.Render(m.profile.errMsg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.profile.toggling:
		b.WriteString(styles.MutedText.Render("Updating..."))
	case m.profileIsSelf():
		b.WriteString(styles.FaintText.Render("enter open · e edit recipe · esc close"))
	default:
		b.WriteString(styles.FaintText.Render("enter open · f follow/unfollow · esc close"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(1, 2).
		Width(width).
		MaxHeight(m.height - 2).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
