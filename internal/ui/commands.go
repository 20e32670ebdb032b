package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/recipeshare/ladle/internal/recipeshare"
	"github.com/recipeshare/ladle/internal/session"
	"github.com/recipeshare/ladle/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// authMsg carries the outcome of a login or registration-then-login attempt.
type authMsg struct {
	session session.Session
	err     error
}

// registerDoneMsg reports a completed registration; the user still signs in.
type registerDoneMsg struct {
	username string
	err      error
}

// recipeDetailMsg carries ratings and comments for an open recipe.
type recipeDetailMsg struct {
	recipeID int
	summary  recipeshare.RatingSummary
	entries  []recipeshare.RatingEntry
	err      error
}

// profileMsg carries everything the profile modal shows.
type profileMsg struct {
	user      recipeshare.User
	recipes   []recipeshare.Recipe
	followers int
	following bool
	err       error
}

// ratingSubmittedMsg reports a rating/comment upsert for an open recipe.
type ratingSubmittedMsg struct {
	recipeID int
	err      error
}

// followToggledMsg reports a follow state change for an open profile.
type followToggledMsg struct {
	userID    int
	following bool
	followers int
	err       error
}

// recipeSavedMsg reports a completed add or edit.
type recipeSavedMsg struct {
	edited bool
	err    error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// loginCmd signs in and hydrates the session from the user's profile. A
// failed profile fetch still signs in with just the id and username.
func loginCmd(ctx context.Context, svc recipeshare.Service, username, password string) tea.Cmd {
	return func() tea.Msg {
		id, err := svc.Login(ctx, username, password)
		if err != nil {
			return authMsg{err: err}
		}
		user, err := svc.FetchUserInfo(ctx, id)
		if err != nil {
			return authMsg{session: session.Session{UserID: id, Username: username}}
		}
		return authMsg{session: session.FromUser(user)}
	}
}

func registerCmd(ctx context.Context, svc recipeshare.Service, reg recipeshare.Registration) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Register(ctx, reg); err != nil {
			return registerDoneMsg{err: err}
		}
		return registerDoneMsg{username: reg.Username}
	}
}

func openRecipeCmd(ctx context.Context, svc recipeshare.Service, recipeID, viewerID int) tea.Cmd {
	return func() tea.Msg {
		summary, err := svc.FetchRecipeRatings(ctx, recipeID, viewerID)
		if err != nil {
			return recipeDetailMsg{recipeID: recipeID, err: err}
		}
		entries, err := svc.FetchRatingsAndComments(ctx, recipeID)
		return recipeDetailMsg{recipeID: recipeID, summary: summary, entries: entries, err: err}
	}
}

// openProfileCmd assembles profile data with sequential fetches. The backend
// has no combined endpoint, so a failure on any call fails the whole modal.
func openProfileCmd(ctx context.Context, svc recipeshare.Service, userID, viewerID int) tea.Cmd {
	return func() tea.Msg {
		user, err := svc.FetchUserInfo(ctx, userID)
		if err != nil {
			return profileMsg{err: err}
		}
		recipes, err := svc.FetchUserRecipes(ctx, userID)
		if err != nil {
			return profileMsg{err: err}
		}
		followers, err := svc.FetchFollowerCount(ctx, userID)
		if err != nil {
			return profileMsg{err: err}
		}
		following := false
		if userID != viewerID {
			following, err = svc.CheckFollowStatus(ctx, viewerID, userID)
			if err != nil {
				return profileMsg{err: err}
			}
		}
		return profileMsg{user: user, recipes: recipes, followers: followers, following: following}
	}
}

func submitRatingCmd(ctx context.Context, svc recipeshare.Service, recipeID, userID, ratingValue int, comment string) tea.Cmd {
	return func() tea.Msg {
		_, err := svc.SubmitRatingAndComment(ctx, recipeID, userID, float64(ratingValue), comment)
		return ratingSubmittedMsg{recipeID: recipeID, err: err}
	}
}

func toggleFollowCmd(ctx context.Context, svc recipeshare.Service, followerID, followedID int) tea.Cmd {
	return func() tea.Msg {
		result, err := svc.ToggleFollow(ctx, followerID, followedID)
		if err != nil {
			return followToggledMsg{userID: followedID, err: err}
		}
		return followToggledMsg{userID: followedID, following: result.Following, followers: result.FollowerCount}
	}
}

func saveRecipeCmd(ctx context.Context, svc recipeshare.Service, form recipeshare.RecipeForm, edit bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if edit {
			_, err = svc.EditRecipe(ctx, form)
		} else {
			_, err = svc.AddRecipe(ctx, form)
		}
		return recipeSavedMsg{edited: edit, err: err}
	}
}
