package ui

import "testing"

func TestGetThemeFallsBackToRaspberry(t *testing.T) {
	theme := GetTheme("NoSuchTheme")
	if theme.Name != "Raspberry" {
		t.Errorf("fallback theme = %q, want Raspberry", theme.Name)
	}
}

func TestNextThemeCyclesThroughAll(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] {
		t.Errorf("cycle did not return to start: ended at %q", name)
	}
	for _, want := range themeOrder {
		if !seen[want] {
			t.Errorf("theme %q never visited", want)
		}
	}
}

func TestNextThemeUnknownName(t *testing.T) {
	if got := NextTheme("bogus"); got != themeOrder[0] {
		t.Errorf("NextTheme(bogus) = %q, want %q", got, themeOrder[0])
	}
}

func TestAllThemesComplete(t *testing.T) {
	for _, name := range themeOrder {
		theme := themes[name]
		if theme.Background == "" || theme.Text == "" || theme.Accent == "" {
			t.Errorf("theme %q has empty core colors", name)
		}
		if theme.Name != name {
			t.Errorf("theme registered as %q reports name %q", name, theme.Name)
		}
	}
}
