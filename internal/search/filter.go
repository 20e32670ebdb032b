// Package search implements the recipe feed's free-text filter.
package search

import (
	"strings"

	"github.com/recipeshare/ladle/internal/recipeshare"
)

// Filter returns the recipes whose author username, author full name,
// recipe name, or meal type tags contain query, case-insensitively. The
// result is a stable subsequence of src; an empty query returns src
// unchanged. Recipes with missing fields match against empty strings
// rather than failing.
func Filter(src []recipeshare.Recipe, query string) []recipeshare.Recipe {
	if query == "" {
		return src
	}
	needle := strings.ToLower(query)

	out := make([]recipeshare.Recipe, 0, len(src))
	for _, r := range src {
		if Matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether one recipe matches an already-lowercased query.
func Matches(r recipeshare.Recipe, needle string) bool {
	for _, field := range []string{r.Username, r.Fullname, r.Name, r.RawMealTypes} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
