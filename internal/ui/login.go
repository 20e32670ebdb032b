package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginForm holds the sign-in screen state.
type loginForm struct {
	inputs     [2]textinput.Model // username, password
	focusIdx   int
	submitting bool
	errMsg     string
}

func newLoginForm() loginForm {
	var f loginForm

	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "username"
	username.CharLimit = 64
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "password"
	password.CharLimit = 64
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	f.inputs[0] = username
	f.inputs[1] = password
	return f
}

func (f *loginForm) reset() {
	f.inputs[0].SetValue("")
	f.inputs[1].SetValue("")
	f.focusIdx = 0
	f.submitting = false
	f.errMsg = ""
	f.inputs[0].Focus()
	f.inputs[1].Blur()
}

func (f *loginForm) focusField(idx int) {
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

// handleLoginKey processes keyboard input on the sign-in screen.
func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.submitting {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextField):
		m.login.focusField(m.login.focusIdx + 1)
		return m, nil

	case key.Matches(msg, m.keys.PrevField):
		m.login.focusField(m.login.focusIdx - 1)
		return m, nil

	case msg.String() == "ctrl+r":
		m.screen = screenRegister
		m.register.reset()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		username := strings.TrimSpace(m.login.inputs[0].Value())
		password := m.login.inputs[1].Value()
		if username == "" || password == "" {
			m.login.errMsg = "Enter a username and password"
			return m, nil
		}
		m.login.submitting = true
		m.login.errMsg = ""
		return m, loginCmd(m.ctx, m.client, username, password)
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focusIdx], cmd = m.login.inputs[m.login.focusIdx].Update(msg)
	return m, cmd
}

// renderLogin renders the centered sign-in card.
func (m Model) renderLogin() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Logo.Render("ladle"))
	b.WriteString(styles.MutedText.Render("  ·  RecipeShare"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Bold(true).Render("Sign in"))
	b.WriteString("\n\n")

	labels := [2]string{"Username", "Password"}
	for i := range m.login.inputs {
		label := styles.MutedText.Render(labels[i])
		if i == m.login.focusIdx {
			label = styles.AccentText.Render(labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(m.login.inputs[i].View())
		b.WriteString("\n\n")
	}

	switch {
	case m.login.submitting:
		b.WriteString(styles.MutedText.Render("Signing in..."))
	case m.login.errMsg != "":
		b.WriteString(styles.DangerText.Render(m.login.errMsg))
	case m.status != "":
		b.WriteString(styles.SuccessText.Render(m.status))
	default:
		b.WriteString(styles.FaintText.Render("enter to sign in · ctrl+r to register"))
	}

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 3).
		Width(44).
		Render(b.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}
