// Package session holds the signed-in user's identity and its persistence.
//
// The identity is an explicit value injected into the components that need
// it rather than ambient process state: login produces one, logout clears
// it, and nothing reads it from anywhere else. A small bolt database under
// the user's state directory remembers the last session so a restart can
// resume without re-entering credentials.
package session

import (
	"github.com/recipeshare/ladle/internal/recipeshare"
)

// Session is the current signed-in identity. The zero value means signed
// out.
type Session struct {
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	ProfileImage string `json:"profile_image"`
}

// SignedIn reports whether a user is signed in.
func (s Session) SignedIn() bool {
	return s.UserID > 0
}

// User returns the identity as a recipeshare.User.
func (s Session) User() recipeshare.User {
	return recipeshare.User{
		ID:           recipeshare.ID(s.UserID),
		Username:     s.Username,
		Fullname:     s.Fullname,
		ProfileImage: s.ProfileImage,
	}
}

// FromUser builds a session from a fetched user record.
func FromUser(u recipeshare.User) Session {
	return Session{
		UserID:       u.ID.Int(),
		Username:     u.Username,
		Fullname:     u.Fullname,
		ProfileImage: u.ProfileImage,
	}
}
