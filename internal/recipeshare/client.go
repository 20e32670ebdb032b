package recipeshare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Service defines the operations the RecipeShare backend exposes. It is
// implemented by *Client and can be used for testing.
type Service interface {
	FetchAllRecipes(ctx context.Context) ([]Recipe, error)
	FetchFollowingRecipes(ctx context.Context, userID int) ([]Recipe, error)
	FetchUserInfo(ctx context.Context, userID int) (User, error)
	FetchUserRecipes(ctx context.Context, userID int) ([]Recipe, error)
	FetchFollowerCount(ctx context.Context, userID int) (int, error)
	CheckFollowStatus(ctx context.Context, followerID, followedID int) (bool, error)
	FetchRecipeRatings(ctx context.Context, recipeID, userID int) (RatingSummary, error)
	FetchRatingsAndComments(ctx context.Context, recipeID int) ([]RatingEntry, error)
	SubmitRatingAndComment(ctx context.Context, recipeID, userID int, rating float64, comment string) (Rating, error)
	ToggleFollow(ctx context.Context, followerID, followedID int) (FollowResult, error)
	AddRecipe(ctx context.Context, form RecipeForm) (string, error)
	EditRecipe(ctx context.Context, form RecipeForm) (string, error)
	Login(ctx context.Context, username, password string) (int, error)
	Register(ctx context.Context, reg Registration) error
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// ErrSelfFollow is returned when a follow toggle targets the session's own
// account. The guard runs before any request is sent.
var ErrSelfFollow = errors.New("cannot follow your own account")

// Client talks to the RecipeShare PHP HTTP API.
type Client struct {
	api       *url.URL
	auth      *url.URL
	assets    *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "ladle/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client from the API, auth, and asset base URLs.
func NewClient(apiURL, authURL, assetURL string) (*Client, error) {
	api, err := parseEndpoint(apiURL, "api_url")
	if err != nil {
		return nil, err
	}
	auth, err := parseEndpoint(authURL, "auth_url")
	if err != nil {
		return nil, err
	}
	assets, err := parseEndpoint(assetURL, "asset_url")
	if err != nil {
		return nil, err
	}
	return &Client{
		api:    api,
		auth:   auth,
		assets: assets,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchAllRecipes retrieves the global recipe feed.
func (c *Client) FetchAllRecipes(ctx context.Context) ([]Recipe, error) {
	values := url.Values{}
	values.Set("operation", "getAllRecipes")
	var recipes []Recipe
	if err := c.get(ctx, values, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FetchFollowingRecipes retrieves recipes from users the given user follows.
func (c *Client) FetchFollowingRecipes(ctx context.Context, userID int) ([]Recipe, error) {
	values := url.Values{}
	values.Set("operation", "getFollowingRecipes")
	values.Set("user_id", strconv.Itoa(userID))
	var recipes []Recipe
	if err := c.get(ctx, values, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FetchUserInfo retrieves the profile fields for one user.
func (c *Client) FetchUserInfo(ctx context.Context, userID int) (User, error) {
	values := url.Values{}
	values.Set("operation", "getUserInfo")
	values.Set("user_id", strconv.Itoa(userID))
	var user User
	if err := c.get(ctx, values, &user); err != nil {
		return User{}, err
	}
	if user.ID == 0 {
		user.ID = ID(userID)
	}
	return user, nil
}

// FetchUserRecipes retrieves all recipes authored by one user.
func (c *Client) FetchUserRecipes(ctx context.Context, userID int) ([]Recipe, error) {
	values := url.Values{}
	values.Set("operation", "getUserRecipes")
	values.Set("user_id", strconv.Itoa(userID))
	var recipes []Recipe
	if err := c.get(ctx, values, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FetchFollowerCount retrieves the follower count for one user.
func (c *Client) FetchFollowerCount(ctx context.Context, userID int) (int, error) {
	values := url.Values{}
	values.Set("operation", "getFollowerCount")
	values.Set("user_id", strconv.Itoa(userID))
	var payload struct {
		FollowerCount ID `json:"follower_count"`
	}
	if err := c.get(ctx, values, &payload); err != nil {
		return 0, err
	}
	return payload.FollowerCount.Int(), nil
}

// CheckFollowStatus reports whether follower currently follows followed.
func (c *Client) CheckFollowStatus(ctx context.Context, followerID, followedID int) (bool, error) {
	values := url.Values{}
	values.Set("operation", "checkFollowStatus")
	values.Set("follower_id", strconv.Itoa(followerID))
	values.Set("followed_id", strconv.Itoa(followedID))
	var payload struct {
		IsFollowing Flag `json:"is_following"`
	}
	if err := c.get(ctx, values, &payload); err != nil {
		return false, err
	}
	return bool(payload.IsFollowing), nil
}

// FetchRecipeRatings retrieves the average and the caller's own rating for
// one recipe.
func (c *Client) FetchRecipeRatings(ctx context.Context, recipeID, userID int) (RatingSummary, error) {
	values := url.Values{}
	values.Set("operation", "getRecipeRatings")
	values.Set("recipe_id", strconv.Itoa(recipeID))
	values.Set("user_id", strconv.Itoa(userID))
	var payload struct {
		Success       Flag   `json:"success"`
		Message       string `json:"message"`
		AverageRating Rating `json:"average_rating"`
		UserRating    Rating `json:"user_rating"`
	}
	if err := c.get(ctx, values, &payload); err != nil {
		return RatingSummary{}, err
	}
	if !payload.Success {
		return RatingSummary{}, &APIError{Op: "getRecipeRatings", Message: payload.Message}
	}
	return RatingSummary{Average: payload.AverageRating, User: payload.UserRating}, nil
}

// FetchRatingsAndComments retrieves the rating/comment entries for a recipe.
func (c *Client) FetchRatingsAndComments(ctx context.Context, recipeID int) ([]RatingEntry, error) {
	values := url.Values{}
	values.Set("operation", "getRatingsAndComments")
	values.Set("recipe_id", strconv.Itoa(recipeID))
	var payload struct {
		Success Flag          `json:"success"`
		Message string        `json:"message"`
		Ratings []RatingEntry `json:"ratings"`
	}
	if err := c.get(ctx, values, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &APIError{Op: "getRatingsAndComments", Message: payload.Message}
	}
	return payload.Ratings, nil
}

// SubmitRatingAndComment upserts the caller's rating and comment for a
// recipe. A rating-only submission carries an empty comment; a comment
// submission carries the caller's current rating. Returns the new average.
func (c *Client) SubmitRatingAndComment(ctx context.Context, recipeID, userID int, rating float64, comment string) (Rating, error) {
	values := url.Values{}
	values.Set("operation", "addRatingAndComment")
	values.Set("recipe_id", strconv.Itoa(recipeID))
	values.Set("user_id", strconv.Itoa(userID))
	values.Set("rating", strconv.FormatFloat(rating, 'f', -1, 64))
	values.Set("comment", comment)
	var payload struct {
		Success       Flag   `json:"success"`
		Message       string `json:"message"`
		AverageRating Rating `json:"average_rating"`
	}
	if err := c.postForm(ctx, c.api, values, &payload); err != nil {
		return 0, err
	}
	if !payload.Success {
		return 0, &APIError{Op: "addRatingAndComment", Message: payload.Message}
	}
	return payload.AverageRating, nil
}

// ToggleFollow flips the follow relationship between two users. Toggling a
// follow on oneself is rejected locally with ErrSelfFollow.
func (c *Client) ToggleFollow(ctx context.Context, followerID, followedID int) (FollowResult, error) {
	if followerID == followedID {
		return FollowResult{}, ErrSelfFollow
	}
	values := url.Values{}
	values.Set("operation", "followUnfollowUser")
	values.Set("follower_id", strconv.Itoa(followerID))
	values.Set("followed_id", strconv.Itoa(followedID))
	var payload struct {
		Success       Flag   `json:"success"`
		IsFollowing   Flag   `json:"is_following"`
		FollowerCount ID     `json:"follower_count"`
		Message       string `json:"message"`
	}
	if err := c.postForm(ctx, c.api, values, &payload); err != nil {
		return FollowResult{}, err
	}
	if !payload.Success {
		return FollowResult{}, &APIError{Op: "followUnfollowUser", Message: payload.Message}
	}
	return FollowResult{
		Following:     bool(payload.IsFollowing),
		FollowerCount: payload.FollowerCount.Int(),
		Message:       payload.Message,
	}, nil
}

// RecipeForm carries the fields for addRecipe and editRecipe submissions.
// MealTypes and Steps are JSON-encoded arrays on the wire, and the image is
// attached from a local file path when set.
type RecipeForm struct {
	RecipeID    int
	UserID      int
	Name        string
	CookingTime string
	Ingredients string
	Description string
	MealTypes   []string
	Steps       []string
	ImagePath   string
}

// AddRecipe creates a recipe. The image is required. Returns the stored
// image reference.
func (c *Client) AddRecipe(ctx context.Context, form RecipeForm) (string, error) {
	if strings.TrimSpace(form.ImagePath) == "" {
		return "", fmt.Errorf("recipe image is required")
	}
	fields, err := form.fields("addRecipe")
	if err != nil {
		return "", err
	}
	fields["user_id"] = strconv.Itoa(form.UserID)
	return c.submitRecipe(ctx, "addRecipe", fields, form.ImagePath)
}

// EditRecipe updates an existing recipe. The image is optional; when absent
// the backend keeps the current one.
func (c *Client) EditRecipe(ctx context.Context, form RecipeForm) (string, error) {
	fields, err := form.fields("editRecipe")
	if err != nil {
		return "", err
	}
	fields["recipe_id"] = strconv.Itoa(form.RecipeID)
	return c.submitRecipe(ctx, "editRecipe", fields, form.ImagePath)
}

func (f RecipeForm) fields(operation string) (map[string]string, error) {
	mealTypes, err := json.Marshal(orEmpty(f.MealTypes))
	if err != nil {
		return nil, fmt.Errorf("encode mealtype: %w", err)
	}
	steps, err := json.Marshal(orEmpty(f.Steps))
	if err != nil {
		return nil, fmt.Errorf("encode steps: %w", err)
	}
	return map[string]string{
		"operation":    operation,
		"recipe_name":  f.Name,
		"cooking_time": f.CookingTime,
		"ingredients":  f.Ingredients,
		"description":  f.Description,
		"mealtype":     string(mealTypes),
		"steps":        string(steps),
	}, nil
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func (c *Client) submitRecipe(ctx context.Context, op string, fields map[string]string, imagePath string) (string, error) {
	var payload struct {
		Success     Flag   `json:"success"`
		Message     string `json:"message"`
		RecipeImage string `json:"recipe_image"`
	}
	if err := c.postMultipart(ctx, c.api, fields, "recipe_image", imagePath, &payload); err != nil {
		return "", err
	}
	if !payload.Success {
		return "", &APIError{Op: op, Message: payload.Message}
	}
	return payload.RecipeImage, nil
}

// Login authenticates against the auth endpoint. The backend answers with a
// bare array: empty means bad credentials, otherwise the first element
// carries the user id.
func (c *Client) Login(ctx context.Context, username, password string) (int, error) {
	values := url.Values{}
	values.Set("operation", "login")
	values.Set("username", username)
	values.Set("password", password)
	var rows []User
	if err := c.postForm(ctx, c.auth, values, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, &APIError{Op: "login", Message: "Invalid username or password"}
	}
	return rows[0].ID.Int(), nil
}

// Registration carries the register form fields. The profile image is
// optional.
type Registration struct {
	Fullname        string `validate:"required"`
	Username        string `validate:"required,min=3"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	ProfileImage    string `validate:"omitempty,file"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Register creates an account via the auth endpoint. The form is validated
// locally first; the backend reports duplicate usernames.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if err := validate.Struct(reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	fields := map[string]string{
		"operation": "register",
		"fullname":  reg.Fullname,
		"username":  reg.Username,
		"password":  reg.Password,
	}
	var payload struct {
		Success Flag   `json:"success"`
		Message string `json:"message"`
	}
	if err := c.postMultipart(ctx, c.auth, fields, "profile_image", reg.ProfileImage, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return &APIError{Op: "register", Message: payload.Message}
	}
	return nil
}

// RecipeImageURL resolves a recipe's image reference against the asset base.
func (c *Client) RecipeImageURL(r Recipe) string {
	if strings.TrimSpace(r.Image) == "" {
		return ""
	}
	return c.assetURL(path.Join("assets", "images", r.Image))
}

// ProfileImageURL resolves a user's profile image reference.
func (c *Client) ProfileImageURL(u User) string {
	if strings.TrimSpace(u.ProfileImage) == "" {
		return ""
	}
	return c.assetURL(path.Join("assets", u.ProfileImage))
}

func (c *Client) assetURL(rel string) string {
	joined := *c.assets
	joined.Path = path.Join(joined.Path, rel)
	return joined.String()
}

func (c *Client) get(ctx context.Context, values url.Values, dest any) error {
	reqURL := *c.api
	reqURL.RawQuery = values.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, values.Get("operation"), dest)
}

func (c *Client) postForm(ctx context.Context, endpoint *url.URL, values url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, values.Get("operation"), dest)
}

func (c *Client) postMultipart(ctx context.Context, endpoint *url.URL, fields map[string]string, fileField, filePath string, dest any) error {
	var body strings.Builder
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if strings.TrimSpace(filePath) != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("open %s: %w", fileField, err)
		}
		defer func() { _ = file.Close() }()
		part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return fmt.Errorf("create %s part: %w", fileField, err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("copy %s: %w", fileField, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(body.String()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(req, fields["operation"], dest)
}

func (c *Client) do(req *http.Request, operation string, dest any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", operation, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseEndpoint(raw, name string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%s is empty", name)
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
