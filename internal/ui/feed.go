package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/search"
)

// Tab identifies which recipe collection the feed shows.
type Tab int

const (
	TabAll Tab = iota
	TabFollowing
)

func (t Tab) String() string {
	if t == TabFollowing {
		return "following"
	}
	return "all"
}

// TabFromString maps a persisted preference back to a Tab.
func TabFromString(s string) Tab {
	if s == "following" {
		return TabFollowing
	}
	return TabAll
}

// feedState holds the recipe feed: both collections, the active tab, the
// free-text filter, and the cursor. The filter applies to whichever tab is
// active; switching tabs clears it, while fresh data keeps it.
type feedState struct {
	tab   Tab
	query string

	all       []recipeshare.Recipe
	following []recipeshare.Recipe
	visible   []recipeshare.Recipe

	selectedRow int

	searching bool
	input     textinput.Model
}

func newFeedState(tab Tab) feedState {
	input := textinput.New()
	input.Prompt = "/"
	input.Placeholder = "filter by name, author, or meal type"
	input.CharLimit = 120
	return feedState{tab: tab, input: input}
}

// SetTab switches the active tab. Changing tabs resets the filter; selecting
// the tab that is already active does nothing.
func (f *feedState) SetTab(t Tab) {
	if t == f.tab {
		return
	}
	f.tab = t
	f.query = ""
	f.input.SetValue("")
	f.searching = false
	f.selectedRow = 0
	f.reapply()
}

// SetQuery replaces the filter text and recomputes the visible rows.
func (f *feedState) SetQuery(q string) {
	f.query = q
	f.reapply()
}

// SetCollections installs freshly fetched feeds. The current filter and tab
// survive a refresh; the cursor follows the selected recipe by ID when it is
// still visible.
func (f *feedState) SetCollections(all, following []recipeshare.Recipe) {
	f.all = all
	f.following = following
	f.reapply()
}

// Selected returns the recipe under the cursor, or false when the list is empty.
func (f *feedState) Selected() (recipeshare.Recipe, bool) {
	if f.selectedRow < 0 || f.selectedRow >= len(f.visible) {
		return recipeshare.Recipe{}, false
	}
	return f.visible[f.selectedRow], true
}

func (f *feedState) MoveUp() {
	if f.selectedRow > 0 {
		f.selectedRow--
	}
}

func (f *feedState) MoveDown() {
	if f.selectedRow < len(f.visible)-1 {
		f.selectedRow++
	}
}

func (f *feedState) MoveTop()    { f.selectedRow = 0 }
func (f *feedState) MoveBottom() { f.selectedRow = max(len(f.visible)-1, 0) }

// source returns the active tab's unfiltered collection.
func (f *feedState) source() []recipeshare.Recipe {
	if f.tab == TabFollowing {
		return f.following
	}
	return f.all
}

// reapply recomputes visible rows from the active collection and filter,
// keeping the cursor on the same recipe when possible.
func (f *feedState) reapply() {
	var selectedID int
	if r, ok := f.Selected(); ok {
		selectedID = r.ID.Int()
	}

	f.visible = search.Filter(f.source(), f.query)

	if selectedID != 0 {
		for i, r := range f.visible {
			if r.ID.Int() == selectedID {
				f.selectedRow = i
				return
			}
		}
	}
	if f.selectedRow >= len(f.visible) {
		f.selectedRow = max(len(f.visible)-1, 0)
	}
}

// renderFeed renders the recipe list for the active tab.
func (m Model) renderFeed() string {
	styles := m.theme.Styles()
	contentHeight := m.height - 3 // header + tab bar + footer
	if m.feed.searching || m.feed.query != "" {
		contentHeight-- // filter line
	}
	if m.status != "" {
		contentHeight--
	}

	var body string
	switch {
	case len(m.feed.source()) == 0 && !m.snapshot.HasData:
		body = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render("Loading recipes..."))
	case len(m.feed.visible) == 0 && m.feed.query != "":
		body = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(fmt.Sprintf("No recipes match %q", m.feed.query)))
	case len(m.feed.visible) == 0:
		msg := "No recipes yet"
		if m.feed.tab == TabFollowing {
			msg = "Nobody you follow has posted a recipe"
		}
		body = lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center,
			styles.MutedText.Render(msg))
	default:
		body = m.renderFeedRows(contentHeight)
	}

	var b strings.Builder
	b.WriteString(body)
	if m.feed.searching {
		b.WriteString("\n")
		b.WriteString(m.feed.input.View())
	} else if m.feed.query != "" {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Render("/" + m.feed.query))
		b.WriteString(styles.FaintText.Render("  (esc clears)"))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderFooter renders the short key hints under the feed, taken from the
// key map.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, 4)
	for _, binding := range m.keys.ShortHelp() {
		h := binding.Help()
		parts = append(parts, h.Key+" "+strings.ToLower(h.Desc))
	}
	return styles.FaintText.Render(strings.Join(parts, " · "))
}

// renderFeedRows renders visible recipes as styled rows, scrolled so the
// cursor stays on screen.
func (m Model) renderFeedRows(height int) string {
	rows := m.feed.visible
	if height < 1 {
		height = 1
	}

	start := 0
	if m.feed.selectedRow >= height {
		start = m.feed.selectedRow - height + 1
	}
	end := min(start+height, len(rows))

	var lines []string
	for i := start; i < end; i++ {
		lines = append(lines, m.formatFeedRow(rows[i], i == m.feed.selectedRow))
	}
	return strings.Join(lines, "\n")
}

// formatFeedRow formats one recipe row: "Name · by author · ★★★★☆ 3.7 · meal types".
func (m Model) formatFeedRow(r recipeshare.Recipe, selected bool) string {
	styles := m.theme.Styles()

	bgColor := m.theme.Background
	nameStyle := styles.Text
	metaStyle := styles.MutedText
	sepStyle := styles.FaintText
	if selected {
		bgColor = m.theme.SelectionBg
		selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		nameStyle, metaStyle, sepStyle = selText, selText, selText
	}
	bg := NewBgStyle(bgColor)

	author := r.AuthorName()
	if author == "" {
		author = "unknown"
	}
	meta := "by " + author
	rating := averageStars(float64(r.AverageRating))
	meals := strings.Join(r.MealTypes(), ", ")

	nameWidth := max(m.width/3, 16)
	parts := []string{
		bg.Render(truncate(r.Name, nameWidth), nameStyle),
		bg.Render(meta, metaStyle),
		bg.Render(rating, metaStyle),
	}
	if meals != "" {
		parts = append(parts, bg.Render(truncate(meals, 30), metaStyle))
	}

	sep := bg.Render(" · ", sepStyle)
	return bg.FillLine(strings.Join(parts, sep), m.width)
}

// renderTabBar renders the All/Following tabs with counts and the active
// tab highlighted.
func (m Model) renderTabBar() string {
	styles := m.theme.Styles().Surface
	bg := NewBgStyle(m.theme.Surface)

	active := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Underline(true)
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted))

	allLabel := fmt.Sprintf("All (%d)", len(m.feed.all))
	followingLabel := fmt.Sprintf("Following (%d)", len(m.feed.following))

	allStyle, followingStyle := active, inactive
	if m.feed.tab == TabFollowing {
		allStyle, followingStyle = inactive, active
	}

	line := bg.Render("[1] "+allLabel, allStyle) +
		bg.Spaces(3) +
		bg.Render("[2] "+followingLabel, followingStyle)
	return styles.Width(m.width).Render(line)
}
