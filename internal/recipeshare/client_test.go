package recipeshare

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func newTestClient(t *testing.T, apiURL, authURL string) *Client {
	t.Helper()
	c, err := NewClient(apiURL, authURL, apiURL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestParseEndpoint_DefaultsSchemeAndNormalizes(t *testing.T) {
	u, err := parseEndpoint("localhost/recipeshare/api/api.php?x=1#frag", "api_url")
	if err != nil {
		t.Fatalf("parseEndpoint returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err := parseEndpoint("  ", "auth_url"); err == nil {
		t.Fatal("parseEndpoint accepted empty input, want error")
	}
}

func TestClient_QueryOperations(t *testing.T) {
	t.Parallel()

	var gotQueries []url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQueries = append(gotQueries, r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("operation") {
		case "getAllRecipes":
			_, _ = w.Write([]byte(`[{"recipe_id":1,"recipe_name":"Cake","username":"amy"},{"recipe_id":"2","recipe_name":"Soup","average_rating":"abc"}]`))
		case "getFollowingRecipes":
			_, _ = w.Write([]byte(`[{"recipe_id":3,"recipe_name":"Stew"}]`))
		case "getUserInfo":
			_, _ = w.Write([]byte(`{"username":"amy","fullname":"Amy Adams","profile_image":"profiles/amy.jpg"}`))
		case "getUserRecipes":
			_, _ = w.Write([]byte(`[]`))
		case "getFollowerCount":
			_, _ = w.Write([]byte(`{"follower_count":"12"}`))
		case "checkFollowStatus":
			_, _ = w.Write([]byte(`{"is_following":"1"}`))
		case "getRecipeRatings":
			_, _ = w.Write([]byte(`{"success":true,"average_rating":"4.2","user_rating":3}`))
		case "getRatingsAndComments":
			_, _ = w.Write([]byte(`{"success":1,"ratings":[{"username":"bob","comment":"nice","rating":"5"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	recipes, err := c.FetchAllRecipes(ctx)
	if err != nil {
		t.Fatalf("FetchAllRecipes returned error: %v", err)
	}
	if len(recipes) != 2 || recipes[0].Name != "Cake" || recipes[1].ID != 2 {
		t.Fatalf("FetchAllRecipes = %#v, want 2 recipes", recipes)
	}
	if recipes[1].AverageRating != 0 {
		t.Fatalf("malformed average_rating decoded to %v, want 0", recipes[1].AverageRating)
	}

	following, err := c.FetchFollowingRecipes(ctx, 42)
	if err != nil {
		t.Fatalf("FetchFollowingRecipes returned error: %v", err)
	}
	if len(following) != 1 || following[0].ID != 3 {
		t.Fatalf("FetchFollowingRecipes = %#v, want recipe 3", following)
	}

	user, err := c.FetchUserInfo(ctx, 42)
	if err != nil {
		t.Fatalf("FetchUserInfo returned error: %v", err)
	}
	if user.Username != "amy" || user.ID != 42 {
		t.Fatalf("FetchUserInfo = %#v, want amy with id backfilled to 42", user)
	}

	if _, err := c.FetchUserRecipes(ctx, 42); err != nil {
		t.Fatalf("FetchUserRecipes returned error: %v", err)
	}

	count, err := c.FetchFollowerCount(ctx, 42)
	if err != nil {
		t.Fatalf("FetchFollowerCount returned error: %v", err)
	}
	if count != 12 {
		t.Fatalf("FetchFollowerCount = %d, want 12", count)
	}

	following42, err := c.CheckFollowStatus(ctx, 42, 7)
	if err != nil {
		t.Fatalf("CheckFollowStatus returned error: %v", err)
	}
	if !following42 {
		t.Fatal("CheckFollowStatus = false, want true for \"1\"")
	}

	summary, err := c.FetchRecipeRatings(ctx, 3, 42)
	if err != nil {
		t.Fatalf("FetchRecipeRatings returned error: %v", err)
	}
	if summary.Average != 4.2 || summary.User != 3 {
		t.Fatalf("FetchRecipeRatings = %#v, want avg=4.2 user=3", summary)
	}

	entries, err := c.FetchRatingsAndComments(ctx, 3)
	if err != nil {
		t.Fatalf("FetchRatingsAndComments returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Username != "bob" || entries[0].Rating != 5 {
		t.Fatalf("FetchRatingsAndComments = %#v, want bob rating 5", entries)
	}

	// Every call identifies itself and scopes by the ids it was given.
	for _, q := range gotQueries {
		if q.Get("operation") == "" {
			t.Fatalf("request missing operation parameter: %v", q)
		}
	}
	last := gotQueries[len(gotQueries)-1]
	if last.Get("recipe_id") != "3" {
		t.Fatalf("getRatingsAndComments query = %v, want recipe_id=3", last)
	}
}

func TestClient_SubmitRatingAndComment(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"average_rating":"4.5"}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)
	avg, err := c.SubmitRatingAndComment(context.Background(), 3, 42, 4, "lovely")
	if err != nil {
		t.Fatalf("SubmitRatingAndComment returned error: %v", err)
	}
	if avg != 4.5 {
		t.Fatalf("average = %v, want 4.5", avg)
	}
	if gotForm.Get("operation") != "addRatingAndComment" ||
		gotForm.Get("recipe_id") != "3" ||
		gotForm.Get("user_id") != "42" ||
		gotForm.Get("rating") != "4" ||
		gotForm.Get("comment") != "lovely" {
		t.Fatalf("form = %v, want rating/comment fields encoded", gotForm)
	}
}

func TestClient_ToggleFollow(t *testing.T) {
	t.Parallel()

	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_ = r.ParseForm()
		if r.PostForm.Get("follower_id") != "42" || r.PostForm.Get("followed_id") != "7" {
			t.Errorf("form = %v, want follower 42 followed 7", r.PostForm)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"is_following":1,"follower_count":"8","message":"Followed"}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)

	result, err := c.ToggleFollow(context.Background(), 42, 7)
	if err != nil {
		t.Fatalf("ToggleFollow returned error: %v", err)
	}
	if !result.Following || result.FollowerCount != 8 || result.Message != "Followed" {
		t.Fatalf("ToggleFollow = %#v", result)
	}

	// Self-follow is rejected before any request goes out.
	_, err = c.ToggleFollow(context.Background(), 42, 42)
	if !errors.Is(err, ErrSelfFollow) {
		t.Fatalf("self follow error = %v, want ErrSelfFollow", err)
	}
	if requests != 1 {
		t.Fatalf("requests = %d, want 1 (self-follow must not hit the network)", requests)
	}
}

func TestClient_AddAndEditRecipeMultipart(t *testing.T) {
	t.Parallel()

	imagePath := filepath.Join(t.TempDir(), "cake.jpg")
	if err := os.WriteFile(imagePath, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write image fixture: %v", err)
	}

	type captured struct {
		fields   map[string]string
		filename string
		fileData string
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		got = captured{fields: map[string]string{}}
		for key, values := range r.MultipartForm.Value {
			got.fields[key] = values[0]
		}
		if files := r.MultipartForm.File["recipe_image"]; len(files) > 0 {
			got.filename = files[0].Filename
			f, err := files[0].Open()
			if err == nil {
				buf := make([]byte, 64)
				n, _ := f.Read(buf)
				got.fileData = string(buf[:n])
				_ = f.Close()
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","recipe_image":"stored.jpg"}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)

	form := RecipeForm{
		UserID:      42,
		Name:        "Cake",
		CookingTime: "45 min",
		Ingredients: "flour, sugar",
		Description: "A cake",
		MealTypes:   []string{"tea", "supper"},
		Steps:       []string{"Mix", "Bake"},
		ImagePath:   imagePath,
	}
	stored, err := c.AddRecipe(context.Background(), form)
	if err != nil {
		t.Fatalf("AddRecipe returned error: %v", err)
	}
	if stored != "stored.jpg" {
		t.Fatalf("stored image = %q, want stored.jpg", stored)
	}
	if got.fields["operation"] != "addRecipe" ||
		got.fields["recipe_name"] != "Cake" ||
		got.fields["user_id"] != "42" ||
		got.fields["mealtype"] != `["tea","supper"]` ||
		got.fields["steps"] != `["Mix","Bake"]` {
		t.Fatalf("multipart fields = %v", got.fields)
	}
	if got.filename != "cake.jpg" || got.fileData != "jpeg-bytes" {
		t.Fatalf("image part = %q/%q, want cake.jpg with fixture bytes", got.filename, got.fileData)
	}

	// Add without an image is rejected locally.
	form.ImagePath = ""
	if _, err := c.AddRecipe(context.Background(), form); err == nil {
		t.Fatal("AddRecipe without image returned nil error")
	}

	// Edit keys by recipe_id and tolerates a missing image.
	edit := RecipeForm{RecipeID: 3, Name: "Cake v2", Steps: []string{"Mix", "Bake", "Rest"}}
	if _, err := c.EditRecipe(context.Background(), edit); err != nil {
		t.Fatalf("EditRecipe returned error: %v", err)
	}
	if got.fields["operation"] != "editRecipe" || got.fields["recipe_id"] != "3" {
		t.Fatalf("edit fields = %v, want editRecipe recipe_id=3", got.fields)
	}
	if got.filename != "" {
		t.Fatalf("edit sent an image part %q, want none", got.filename)
	}
}

func TestClient_LoginShapes(t *testing.T) {
	t.Parallel()

	var response string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("operation") != "login" {
			t.Errorf("operation = %q, want login", r.PostForm.Get("operation"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)

	response = `[{"user_id":"42","username":"amy"}]`
	id, err := c.Login(context.Background(), "amy", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("Login id = %d, want 42", id)
	}

	// Empty array means bad credentials, surfaced as an APIError.
	response = `[]`
	_, err = c.Login(context.Background(), "amy", "wrong")
	apiErr, ok := IsAPIError(err)
	if !ok {
		t.Fatalf("Login error = %v, want APIError", err)
	}
	if apiErr.UserMessage() != "Invalid username or password" {
		t.Fatalf("UserMessage = %q", apiErr.UserMessage())
	}
}

func TestClient_RegisterFailureSurfacesMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"Username already taken"}`))
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)
	err := c.Register(context.Background(), Registration{
		Fullname:        "Amy Adams",
		Username:        "amy",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	})
	apiErr, ok := IsAPIError(err)
	if !ok || apiErr.UserMessage() != "Username already taken" {
		t.Fatalf("Register error = %v, want backend message", err)
	}
}

func TestClient_RegisterValidatesBeforeSending(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("invalid registration reached the network")
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)
	tests := []struct {
		name string
		reg  Registration
	}{
		{"missing fullname", Registration{Username: "amy", Password: "secret1", ConfirmPassword: "secret1"}},
		{"short username", Registration{Fullname: "Amy", Username: "ab", Password: "secret1", ConfirmPassword: "secret1"}},
		{"short password", Registration{Fullname: "Amy", Username: "amy", Password: "abc", ConfirmPassword: "abc"}},
		{"password mismatch", Registration{Fullname: "Amy", Username: "amy", Password: "secret1", ConfirmPassword: "secret2"}},
		{"missing profile image file", Registration{Fullname: "Amy", Username: "amy", Password: "secret1", ConfirmPassword: "secret1", ProfileImage: "/no/such/file.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Register(context.Background(), tt.reg)
			var verrs validator.ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Register error = %v, want validation error", err)
			}
		})
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("operation") {
		case "getAllRecipes":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		default:
			http.Error(w, "nope", http.StatusInternalServerError)
		}
	}))
	t.Cleanup(server.Close)

	c := newTestClient(t, server.URL, server.URL)

	_, err := c.FetchAllRecipes(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchAllRecipes error = %v, want decode response error", err)
	}

	_, err = c.FetchFollowerCount(context.Background(), 1)
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("FetchFollowerCount error = %v, want status 500 error", err)
	}
}

func TestClient_AssetURLs(t *testing.T) {
	c, err := NewClient("example.com/api/api.php", "example.com/api/auth.php", "http://example.com/recipeshare/")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	r := Recipe{Image: "cake.jpg"}
	if got := c.RecipeImageURL(r); got != "http://example.com/recipeshare/assets/images/cake.jpg" {
		t.Fatalf("RecipeImageURL = %q", got)
	}
	if got := c.RecipeImageURL(Recipe{}); got != "" {
		t.Fatalf("RecipeImageURL on empty image = %q, want empty", got)
	}

	u := User{ProfileImage: "profiles/amy.jpg"}
	if got := c.ProfileImageURL(u); got != "http://example.com/recipeshare/assets/profiles/amy.jpg" {
		t.Fatalf("ProfileImageURL = %q", got)
	}
}
