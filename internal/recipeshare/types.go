package recipeshare

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Recipe describes a shared recipe in transport-friendly form. The backend
// denormalizes author fields onto every recipe row.
type Recipe struct {
	ID            ID     `json:"recipe_id"`
	Name          string `json:"recipe_name"`
	Description   string `json:"description"`
	Ingredients   string `json:"ingredients"`
	CookingTime   string `json:"cooking_time"`
	RawSteps      string `json:"steps"`
	RawMealTypes  string `json:"mealtype"`
	Image         string `json:"recipe_image"`
	AverageRating Rating `json:"average_rating"`

	UserID       ID     `json:"user_id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	ProfileImage string `json:"profile_image"`
}

// Steps splits the backend's "||"-separated step encoding into an ordered
// list. Empty segments are dropped.
func (r Recipe) Steps() []string {
	return splitTrimmed(r.RawSteps, "||")
}

// MealTypes splits the comma-separated meal type tags.
func (r Recipe) MealTypes() []string {
	return splitTrimmed(r.RawMealTypes, ",")
}

// Author returns the denormalized author fields as a User.
func (r Recipe) Author() User {
	return User{
		ID:           r.UserID,
		Username:     r.Username,
		Fullname:     r.Fullname,
		ProfileImage: r.ProfileImage,
	}
}

// AuthorName returns the author's display name, or empty when the backend
// omitted both name fields.
func (r Recipe) AuthorName() string {
	return r.Author().DisplayName()
}

func splitTrimmed(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// User is the lightweight user record used both for the session identity
// and for viewed profiles.
type User struct {
	ID           ID     `json:"user_id"`
	Username     string `json:"username"`
	Fullname     string `json:"fullname"`
	ProfileImage string `json:"profile_image"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Fullname); name != "" {
		return name
	}
	return strings.TrimSpace(u.Username)
}

// RatingEntry is one rating/comment row from getRatingsAndComments.
type RatingEntry struct {
	Username string `json:"username"`
	Comment  string `json:"comment"`
	Rating   Rating `json:"rating"`
}

// RatingSummary aggregates the ratings for one recipe as seen by one user.
type RatingSummary struct {
	Average Rating
	User    Rating
}

// FollowResult is the outcome of a follow/unfollow toggle.
type FollowResult struct {
	Following     bool
	FollowerCount int
	Message       string
}

// Rating is a star rating in [0, 5]. The backend emits ratings as numbers,
// numeric strings, or occasionally garbage; decoding never fails and
// out-of-range or non-numeric values collapse to the clamped default.
type Rating float64

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	*r = Rating(clampRating(flexFloat(data)))
	return nil
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}

// ID is an integer identifier that the backend serializes inconsistently as
// either a JSON number or a numeric string. Unparseable values decode to 0.
type ID int

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(int(flexFloat(data)))
	return nil
}

// Int returns the identifier as a plain int.
func (id ID) Int() int { return int(id) }

// Flag is a boolean the backend serializes as true/false, 0/1, or "0"/"1".
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true":
		*f = true
		return nil
	case "false", "null":
		*f = false
		return nil
	}
	*f = flexFloat(trimmed) != 0
	return nil
}

// flexFloat parses a JSON number or a string-wrapped number, returning 0
// for anything else. Missing and malformed fields are a backend defect the
// client tolerates rather than propagates.
func flexFloat(data []byte) float64 {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return 0
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return v
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return 0
	}
	return v
}
