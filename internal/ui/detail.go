package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// detailData holds the recipe detail modal's fetched state. The recipe
// itself lives in the selection; this is the ratings/comments overlay.
type detailData struct {
	loading    bool
	errMsg     string
	summary    recipeshare.RatingSummary
	entries    []recipeshare.RatingEntry
	commenting bool
	submitting bool
	input      textinput.Model
}

func newDetailData() detailData {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "say something about this recipe"
	input.CharLimit = 400
	return detailData{input: input}
}

// handleDetailKey processes keyboard input while a recipe modal is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	recipe, ok := m.sel.Recipe()
	if !ok {
		m.sel = m.sel.Close()
		return m, nil
	}

	if m.detail.commenting {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.detail.commenting = false
			m.detail.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			// A comment rides along with the rater's current rating so the
			// backend's single upsert keeps both.
			return m.submitRating(recipe, int(m.detail.summary.User), strings.TrimSpace(m.detail.input.Value()))
		}
		var cmd tea.Cmd
		m.detail.input, cmd = m.detail.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.sel = m.sel.Close()
		return m, nil

	case key.Matches(msg, m.keys.Rate):
		// A star keypress submits immediately with an empty comment; the
		// backend upserts rating and comment as one record per user.
		rating := int(msg.String()[0] - '0')
		return m.submitRating(recipe, rating, "")

	case key.Matches(msg, m.keys.Comment):
		m.detail.commenting = true
		m.detail.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.OpenAuthor):
		author := recipe.Author()
		m.sel = m.sel.Close().OpenProfile(author)
		m.profile = profileData{loading: true}
		return m, openProfileCmd(m.ctx, m.client, author.ID.Int(), m.session.UserID)
	}

	return m, nil
}

// submitRating sends the conflated rating/comment upsert for the open recipe.
func (m Model) submitRating(recipe recipeshare.Recipe, rating int, comment string) (tea.Model, tea.Cmd) {
	if m.detail.submitting {
		return m, nil
	}
	m.detail.submitting = true
	m.detail.commenting = false
	m.detail.input.Blur()
	return m, submitRatingCmd(m.ctx, m.client, recipe.ID.Int(), m.session.UserID, rating, comment)
}

// renderDetail renders the recipe detail modal.
func (m Model) renderDetail() string {
	recipe, ok := m.sel.Recipe()
	if !ok {
		return ""
	}
	styles := m.theme.Styles()
	width := min(m.width-8, 76)
	inner := width - 6

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(recipe.Name))
	b.WriteString("\n")
	author := recipe.AuthorName()
	if author == "" {
		author = "unknown"
	}
	b.WriteString(styles.MutedText.Render("by " + author))
	if meals := strings.Join(recipe.MealTypes(), ", "); meals != "" {
		b.WriteString(styles.FaintText.Render("  ·  " + meals))
	}
	if recipe.CookingTime != "" {
		b.WriteString(styles.FaintText.Render("  ·  " + recipe.CookingTime))
	}
	b.WriteString("\n\n")

	if recipe.Description != "" {
		b.WriteString(styles.Text.Render(wrap(recipe.Description, inner)))
		b.WriteString("\n\n")
	}

	if recipe.Ingredients != "" {
		b.WriteString(styles.AccentText.Bold(true).Render("Ingredients"))
		b.WriteString("\n")
		b.WriteString(styles.Text.Render(wrap(recipe.Ingredients, inner)))
		b.WriteString("\n\n")
	}

	if steps := recipe.Steps(); len(steps) > 0 {
		b.WriteString(styles.AccentText.Bold(true).Render("Steps"))
		b.WriteString("\n")
		for i, step := range steps {
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("%2d. ", i+1)))
			b.WriteString(styles.Text.Render(wrap(step, inner-4)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.detail.loading:
		b.WriteString(styles.MutedText.Render("Loading ratings..."))
		b.WriteString("\n")
	case m.detail.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.detail.errMsg))
		b.WriteString("\n")
	default:
		b.WriteString(styles.WarningText.Render(averageStars(float64(m.detail.summary.Average))))
		b.WriteString(styles.MutedText.Render(fmt.Sprintf("  ·  your rating: %s", stars(int(m.detail.summary.User)))))
		b.WriteString("\n\n")

		if len(m.detail.entries) == 0 {
			b.WriteString(styles.FaintText.Render("No comments yet"))
			b.WriteString("\n")
		}
		for _, entry := range m.detail.entries {
			b.WriteString(styles.AccentText.Render(entry.Username))
			b.WriteString(styles.WarningText.Render("  " + stars(int(entry.Rating))))
			b.WriteString("\n")
			if entry.Comment != "" {
				b.WriteString(styles.Text.Render(wrap(entry.Comment, inner)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	if m.detail.commenting {
		b.WriteString(m.detail.input.View())
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render("enter submits · esc cancels"))
	} else if m.detail.submitting {
		b.WriteString(styles.MutedText.Render("Submitting..."))
	} else {
		b.WriteString(styles.FaintText.Render("1-5 rate · c comment · u author · esc close"))
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

// wrap soft-wraps text to the given width, preserving words.
func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var b strings.Builder
	lineLen := 0
	for i, w := range words {
		wl := len([]rune(w))
		if i > 0 {
			if lineLen+1+wl > width {
				b.WriteString("\n")
				lineLen = 0
			} else {
				b.WriteString(" ")
				lineLen++
			}
		}
		b.WriteString(w)
		lineLen += wl
	}
	return b.String()
}
