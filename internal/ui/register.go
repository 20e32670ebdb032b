package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-playground/validator/v10"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// registerForm holds the account creation screen state.
type registerForm struct {
	inputs     [5]textinput.Model // fullname, username, password, confirm, profile image
	focusIdx   int
	submitting bool
	errMsg     string
	doneMsg    string
}

var registerLabels = [5]string{
	"Full name",
	"Username",
	"Password",
	"Confirm password",
	"Profile image path (optional)",
}

func newRegisterForm() registerForm {
	var f registerForm
	for i := range f.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 128
		f.inputs[i] = input
	}
	f.inputs[0].Placeholder = "Jane Cook"
	f.inputs[1].Placeholder = "janecook"
	f.inputs[2].EchoMode = textinput.EchoPassword
	f.inputs[2].EchoCharacter = '•'
	f.inputs[3].EchoMode = textinput.EchoPassword
	f.inputs[3].EchoCharacter = '•'
	f.inputs[4].Placeholder = "~/pictures/me.jpg"
	f.inputs[0].Focus()
	return f
}

func (f *registerForm) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.focusIdx = 0
	f.submitting = false
	f.errMsg = ""
	f.doneMsg = ""
	f.inputs[0].Focus()
}

func (f *registerForm) focusField(idx int) {
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

func (f *registerForm) registration() recipeshare.Registration {
	return recipeshare.Registration{
		Fullname:        strings.TrimSpace(f.inputs[0].Value()),
		Username:        strings.TrimSpace(f.inputs[1].Value()),
		Password:        f.inputs[2].Value(),
		ConfirmPassword: f.inputs[3].Value(),
		ProfileImage:    strings.TrimSpace(f.inputs[4].Value()),
	}
}

// handleRegisterKey processes keyboard input on the registration screen.
func (m Model) handleRegisterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.register.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.screen = screenLogin
		m.login.reset()
		return m, nil

	case key.Matches(msg, m.keys.NextField):
		m.register.focusField(m.register.focusIdx + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.register.focusField(m.register.focusIdx - 1)
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.register.submitting = true
		m.register.errMsg = ""
		return m, registerCmd(m.ctx, m.client, m.register.registration())
	}

	var cmd tea.Cmd
	m.register.inputs[m.register.focusIdx], cmd = m.register.inputs[m.register.focusIdx].Update(msg)
	return m, cmd
}

// registrationErrMsg turns a failed registration into a short human message.
func registrationErrMsg(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		switch f := verrs[0]; f.Field() {
		case "Fullname":
			return "Full name is required"
		case "Username":
			return "Username must be at least 3 characters"
		case "Password":
			return "Password must be at least 6 characters"
		case "ConfirmPassword":
			return "Passwords do not match"
		case "ProfileImage":
			return "Profile image file not found"
		default:
			return "Check the " + strings.ToLower(f.Field()) + " field"
		}
	}
	if apiErr, ok := recipeshare.IsAPIError(err); ok {
		return apiErr.UserMessage()
	}
	return err.Error()
}

// renderRegister renders the centered registration card.
func (m Model) renderRegister() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("ladle"))
	b.WriteString(styles.MutedText.Render("  ·  RecipeShare"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Bold(true).Render("Create account"))
	b.WriteString("\n\n")

	for i := range m.register.inputs {
		label := styles.MutedText.Render(registerLabels[i])
		if i == m.register.focusIdx {
			label = styles.AccentText.Render(registerLabels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.register.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case m.register.submitting:
		b.WriteString(styles.MutedText.Render("Creating account..."))
	case m.register.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.register.errMsg))
	case m.register.doneMsg != "":
		b.WriteString(styles.SuccessText.Render(m.register.doneMsg))
	default:
		b.WriteString(styles.FaintText.Render("enter to register · esc to sign in"))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Width(52).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
