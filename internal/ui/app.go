package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recipeshare/ladle/internal/prefs"
	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/selection"
	"github.com/recipeshare/ladle/internal/session"
	"github.com/recipeshare/ladle/internal/state"
)

// screen is the top-level screen the UI shows.
type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenFeed
)

// FeedRefresher is the subset of the background refresher the UI drives:
// switching users on sign-in/out and forcing a refresh after mutations.
type FeedRefresher interface {
	SetUser(id int)
	Kick()
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *recipeshare.Client
	Store     *state.Store
	Sessions  *session.Store
	Refresher FeedRefresher
	Session   session.Session
	PollTick  time.Duration
	ThemeName string
	StartTab  string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *recipeshare.Client
	store     *state.Store
	sessions  *session.Store
	refresher FeedRefresher
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	width    int
	height   int
	ready    bool
	screen   screen
	showHelp bool
	status   string

	// Identity
	session session.Session

	// Data state
	snapshot state.Snapshot

	// Feed state
	feed feedState

	// Auth screens
	login    loginForm
	register registerForm

	// Modal state
	sel     selection.State
	detail  detailData
	profile profileData
	form    recipeForm
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Raspberry"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	scr := screenLogin
	if opts.Session.SignedIn() {
		scr = screenFeed
	}

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     opts.Store,
		sessions:  opts.Sessions,
		refresher: opts.Refresher,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		screen:    scr,
		session:   opts.Session,
		feed:      newFeedState(TabFromString(opts.StartTab)),
		login:     newLoginForm(),
		register:  newRegisterForm(),
		sel:       selection.None(),
		detail:    newDetailData(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.feed.input.Width = max(m.width-4, 20)
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.feed.SetCollections(m.snapshot.All, m.snapshot.Following)
		return m, nil

	case authMsg:
		return m.handleAuth(msg)

	case registerDoneMsg:
		m.register.submitting = false
		if msg.err != nil {
			m.register.errMsg = registrationErrMsg(msg.err)
			return m, nil
		}
		m.screen = screenLogin
		m.login.reset()
		m.login.inputs[0].SetValue(msg.username)
		m.login.focusField(1)
		m.login.errMsg = ""
		m.register.doneMsg = ""
		m.status = "Account created, sign in to continue"
		return m, nil

	case recipeDetailMsg:
		return m.handleRecipeDetail(msg)

	case profileMsg:
		if m.sel.Kind() != selection.UserProfile {
			return m, nil
		}
		m.profile.loading = false
		if msg.err != nil {
			m.profile.errMsg = errText(msg.err)
			return m, nil
		}
		m.profile.user = msg.user
		m.profile.recipes = msg.recipes
		m.profile.followers = msg.followers
		m.profile.following = msg.following
		return m, nil

	case ratingSubmittedMsg:
		return m.handleRatingSubmitted(msg)

	case followToggledMsg:
		m.profile.toggling = false
		if msg.err != nil {
			if errors.Is(msg.err, recipeshare.ErrSelfFollow) {
				m.profile.errMsg = "You cannot follow yourself"
			} else {
				m.profile.errMsg = errText(msg.err)
			}
			return m, nil
		}
		m.profile.following = msg.following
		m.profile.followers = msg.followers
		// The following feed changed; refetch it.
		m.refresher.Kick()
		return m, nil

	case recipeSavedMsg:
		m.form.submitting = false
		if msg.err != nil {
			m.form.errMsg = errText(msg.err)
			return m, nil
		}
		m.sel = m.sel.Close()
		m.status = "Recipe saved"
		m.refresher.Kick()
		// Closing an edit lands back on the profile; refetch it so the
		// edited recipe shows its new fields.
		if u, ok := m.sel.User(); ok && m.sel.Kind() == selection.UserProfile {
			m.profile.loading = true
			return m, openProfileCmd(m.ctx, m.client, u.ID.Int(), m.session.UserID)
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.screen {
	case screenLogin:
		return m.renderLogin()
	case screenRegister:
		return m.renderRegister()
	}

	if m.showHelp {
		return m.renderHelp()
	}

	switch m.sel.Kind() {
	case selection.RecipeDetail:
		return m.renderDetail()
	case selection.UserProfile:
		return m.renderProfile()
	case selection.AddRecipe, selection.EditRecipe:
		return m.renderForm()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(m.renderFeed())
	return b.String()
}

// handleKey routes keyboard input to the active screen or modal.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenLogin:
		return m.handleLoginKey(msg)
	case screenRegister:
		return m.handleRegisterKey(msg)
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	switch m.sel.Kind() {
	case selection.RecipeDetail:
		return m.handleDetailKey(msg)
	case selection.UserProfile:
		return m.handleProfileKey(msg)
	case selection.AddRecipe, selection.EditRecipe:
		return m.handleFormKey(msg)
	}

	return m.handleFeedKey(msg)
}

// handleFeedKey processes keyboard input on the feed screen.
func (m Model) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	if m.feed.searching {
		switch {
		case key.Matches(msg, m.keys.Escape):
			m.feed.searching = false
			m.feed.input.Blur()
			m.feed.input.SetValue("")
			m.feed.SetQuery("")
			return m, nil
		case key.Matches(msg, m.keys.Confirm):
			m.feed.searching = false
			m.feed.input.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.feed.input, cmd = m.feed.input.Update(msg)
		m.feed.SetQuery(m.feed.input.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.TabAll):
		m.setTab(TabAll)
		return m, nil

	case key.Matches(msg, m.keys.TabFollowing):
		m.setTab(TabFollowing)
		return m, nil

	case key.Matches(msg, m.keys.SwitchTab):
		if m.feed.tab == TabAll {
			m.setTab(TabFollowing)
		} else {
			m.setTab(TabAll)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.feed.searching = true
		m.feed.input.SetValue(m.feed.query)
		m.feed.input.Focus()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.feed.query != "" {
			m.feed.input.SetValue("")
			m.feed.SetQuery("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.feed.MoveDown()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.feed.MoveUp()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.feed.MoveTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.feed.MoveBottom()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		recipe, ok := m.feed.Selected()
		if !ok {
			return m, nil
		}
		m.sel = m.sel.OpenRecipe(recipe)
		m.detail = newDetailData()
		m.detail.loading = true
		return m, openRecipeCmd(m.ctx, m.client, recipe.ID.Int(), m.session.UserID)

	case key.Matches(msg, m.keys.OpenAuthor):
		recipe, ok := m.feed.Selected()
		if !ok {
			return m, nil
		}
		author := recipe.Author()
		m.sel = m.sel.OpenProfile(author)
		m.profile = profileData{loading: true}
		return m, openProfileCmd(m.ctx, m.client, author.ID.Int(), m.session.UserID)

	case key.Matches(msg, m.keys.AddRecipe):
		m.sel = m.sel.OpenAddRecipe()
		m.form = newRecipeForm(recipeshare.Recipe{}, m.session.UserID)
		return m, nil

	case key.Matches(msg, m.keys.MyProfile):
		me := m.session.User()
		m.sel = m.sel.OpenProfile(me)
		m.profile = profileData{loading: true}
		return m, openProfileCmd(m.ctx, m.client, me.ID.Int(), m.session.UserID)

	case key.Matches(msg, m.keys.Refresh):
		m.refresher.Kick()
		return m, nil

	case key.Matches(msg, m.keys.SignOut):
		return m.signOut()
	}

	return m, nil
}

// setTab switches feed tabs and persists the choice.
func (m *Model) setTab(t Tab) {
	m.feed.SetTab(t)
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme: m.theme.Name,
		Tab:   m.feed.tab.String(),
	})
}

// handleAuth applies a login result.
func (m Model) handleAuth(msg authMsg) (tea.Model, tea.Cmd) {
	m.login.submitting = false
	if msg.err != nil {
		m.login.errMsg = errText(msg.err)
		return m, nil
	}

	m.session = msg.session
	if m.sessions != nil {
		_ = m.sessions.Save(m.session)
	}
	m.refresher.SetUser(m.session.UserID)
	m.screen = screenFeed
	m.status = ""
	return m, fetchSnapshotCmd(m.store)
}

// handleRecipeDetail applies fetched ratings/comments to the open modal.
// Stale responses for a different recipe are dropped.
func (m Model) handleRecipeDetail(msg recipeDetailMsg) (tea.Model, tea.Cmd) {
	recipe, ok := m.sel.Recipe()
	if !ok || recipe.ID.Int() != msg.recipeID {
		return m, nil
	}
	m.detail.loading = false
	if msg.err != nil {
		m.detail.errMsg = errText(msg.err)
		return m, nil
	}
	m.detail.errMsg = ""
	m.detail.summary = msg.summary
	m.detail.entries = msg.entries
	return m, nil
}

// handleRatingSubmitted refetches the modal after a successful upsert.
func (m Model) handleRatingSubmitted(msg ratingSubmittedMsg) (tea.Model, tea.Cmd) {
	m.detail.submitting = false
	if msg.err != nil {
		m.detail.errMsg = errText(msg.err)
		return m, nil
	}
	m.detail.input.SetValue("")
	m.detail.errMsg = ""
	m.refresher.Kick()
	recipe, ok := m.sel.Recipe()
	if !ok || recipe.ID.Int() != msg.recipeID {
		return m, nil
	}
	return m, openRecipeCmd(m.ctx, m.client, msg.recipeID, m.session.UserID)
}

// signOut clears the persisted session and returns to the login screen.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	if m.sessions != nil {
		_ = m.sessions.Clear()
	}
	m.session = session.Session{}
	m.refresher.SetUser(0)
	if m.store != nil {
		m.store.Reset()
	}
	m.snapshot = state.Snapshot{}
	m.screen = screenLogin
	m.login.reset()
	m.sel = selection.None()
	m.feed = newFeedState(TabAll)
	m.status = ""
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// errText turns an error into a short inline message, preferring the
// backend's own wording for application-level failures.
func errText(err error) string {
	if apiErr, ok := recipeshare.IsAPIError(err); ok {
		return apiErr.UserMessage()
	}
	return err.Error()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
