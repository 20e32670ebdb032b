package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// recipeForm is the add/edit recipe modal. Editing pre-fills the fields
// from the existing recipe.
type recipeForm struct {
	recipeID   int
	userID     int
	inputs     [7]textinput.Model
	focusIdx   int
	submitting bool
	errMsg     string
}

var recipeFormLabels = [7]string{
	"Name",
	"Description",
	"Ingredients",
	"Cooking time",
	"Meal types (comma separated)",
	"Steps (separate with ||)",
	"Image path",
}

// newRecipeForm builds the form. A zero-ID recipe means adding; a non-zero
// ID pre-fills for editing.
func newRecipeForm(r recipeshare.Recipe, userID int) recipeForm {
	f := recipeForm{recipeID: r.ID.Int(), userID: userID}
	for i := range f.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 500
		f.inputs[i] = input
	}
	f.inputs[0].SetValue(r.Name)
	f.inputs[1].SetValue(r.Description)
	f.inputs[2].SetValue(r.Ingredients)
	f.inputs[3].SetValue(r.CookingTime)
	f.inputs[4].SetValue(strings.Join(r.MealTypes(), ", "))
	f.inputs[5].SetValue(strings.Join(r.Steps(), " || "))
	f.inputs[4].Placeholder = "dinner, dessert"
	f.inputs[5].Placeholder = "Preheat oven || Mix batter || Bake 40m"
	f.inputs[6].Placeholder = "~/pictures/cake.jpg"
	f.inputs[0].Focus()
	return f
}

func (f *recipeForm) editing() bool { return f.recipeID != 0 }

func (f *recipeForm) focusField(idx int) {
	if idx < 0 {
		idx = len(f.inputs) - 1
	}
	if idx >= len(f.inputs) {
		idx = 0
	}
	f.focusIdx = idx
	for i := range f.inputs {
		if i == idx {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// form assembles the submission payload from the inputs.
func (f *recipeForm) form() recipeshare.RecipeForm {
	return recipeshare.RecipeForm{
		RecipeID:    f.recipeID,
		UserID:      f.userID,
		Name:        strings.TrimSpace(f.inputs[0].Value()),
		Description: strings.TrimSpace(f.inputs[1].Value()),
		Ingredients: strings.TrimSpace(f.inputs[2].Value()),
		CookingTime: strings.TrimSpace(f.inputs[3].Value()),
		MealTypes:   splitList(f.inputs[4].Value(), ","),
		Steps:       splitList(f.inputs[5].Value(), "||"),
		ImagePath:   strings.TrimSpace(f.inputs[6].Value()),
	}
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// handleFormKey processes keyboard input while the add/edit modal is open.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.sel = m.sel.Close()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.form.focusField(m.form.focusIdx + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.form.focusField(m.form.focusIdx - 1)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		payload := m.form.form()
		if payload.Name == "" {
			m.form.errMsg = "Name is required"
			return m, nil
		}
		if !m.form.editing() && payload.ImagePath == "" {
			m.form.errMsg = "Image path is required"
			return m, nil
		}
		m.form.submitting = true
		m.form.errMsg = ""
		return m, saveRecipeCmd(m.ctx, m.client, payload, m.form.editing())
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focusIdx], cmd = m.form.inputs[m.form.focusIdx].Update(msg)
	return m, cmd
}

// renderForm renders the add/edit recipe modal.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	width := min(m.width-8, 68)

	title := "Add recipe"
	if m.form.editing() {
		title = "Edit recipe"
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render(title))
	b.WriteString("\n\n")

	for i := range m.form.inputs {
		label := styles.MutedText.Render(recipeFormLabels[i])
		if i == m.form.focusIdx {
			label = styles.AccentText.Render(recipeFormLabels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.form.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.form.submitting:
		b.WriteString(styles.MutedText.Render("Saving..."))
	case m.form.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.form.errMsg))
	default:
		b.WriteString(styles.FaintText.Render("enter saves · tab next field · esc cancels"))
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
