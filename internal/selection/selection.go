// Package selection models which overlay, if any, the UI currently
// presents. A single discriminated value replaces the per-modal boolean
// flags this flow is usually built from, so "at most one modal open" holds
// by construction.
package selection

import (
	"github.com/recipeshare/ladle/internal/recipeshare"
)

// Kind identifies the active overlay.
type Kind int

const (
	// Closed means no overlay is open.
	Closed Kind = iota
	// RecipeDetail shows a single recipe.
	RecipeDetail
	// AddRecipe shows the new-recipe form.
	AddRecipe
	// UserProfile shows another user's (or one's own) profile.
	UserProfile
	// EditRecipe shows the edit form for one of the session user's own
	// recipes. Reachable only from UserProfile.
	EditRecipe
)

// String returns a short label for logging and tests.
func (k Kind) String() string {
	switch k {
	case Closed:
		return "closed"
	case RecipeDetail:
		return "recipe-detail"
	case AddRecipe:
		return "add-recipe"
	case UserProfile:
		return "user-profile"
	case EditRecipe:
		return "edit-recipe"
	}
	return "unknown"
}

// State is an immutable selection value. The zero value is Closed.
// Transitions return a new State; invalid transitions return the receiver
// unchanged, making misuse a no-op rather than a corrupt overlay stack.
type State struct {
	kind    Kind
	recipe  recipeshare.Recipe
	user    recipeshare.User
	profile recipeshare.User // profile to return to from EditRecipe
}

// None returns the closed state.
func None() State { return State{} }

// Kind returns the active overlay kind.
func (s State) Kind() Kind { return s.kind }

// Recipe returns the recipe behind RecipeDetail or EditRecipe.
func (s State) Recipe() (recipeshare.Recipe, bool) {
	if s.kind == RecipeDetail || s.kind == EditRecipe {
		return s.recipe, true
	}
	return recipeshare.Recipe{}, false
}

// User returns the profile behind UserProfile, or the profile an edit form
// will return to.
func (s State) User() (recipeshare.User, bool) {
	switch s.kind {
	case UserProfile:
		return s.user, true
	case EditRecipe:
		return s.profile, true
	}
	return recipeshare.User{}, false
}

// OpenRecipe opens the detail overlay for r. Allowed from Closed and from
// UserProfile; opening from a profile replaces the profile overlay and the
// profile context is lost.
func (s State) OpenRecipe(r recipeshare.Recipe) State {
	switch s.kind {
	case Closed, UserProfile:
		return State{kind: RecipeDetail, recipe: r}
	}
	return s
}

// OpenAddRecipe opens the new-recipe form. Allowed only from Closed.
func (s State) OpenAddRecipe() State {
	if s.kind != Closed {
		return s
	}
	return State{kind: AddRecipe}
}

// OpenProfile opens u's profile. Allowed only from Closed; the profile may
// belong to the session user.
func (s State) OpenProfile(u recipeshare.User) State {
	if s.kind != Closed {
		return s
	}
	return State{kind: UserProfile, user: u}
}

// OpenEdit opens the edit form for r. Permitted only while viewing one's
// own profile: the viewed profile's id must equal sessionUserID. Any other
// attempt is a no-op.
func (s State) OpenEdit(r recipeshare.Recipe, sessionUserID int) State {
	if s.kind != UserProfile {
		return s
	}
	if s.user.ID.Int() != sessionUserID {
		return s
	}
	return State{kind: EditRecipe, recipe: r, profile: s.user}
}

// Close dismisses the active overlay. EditRecipe returns to the profile it
// was opened from; every other overlay returns to Closed. Closing while
// already closed is a no-op.
func (s State) Close() State {
	if s.kind == EditRecipe {
		return State{kind: UserProfile, user: s.profile}
	}
	return State{}
}
