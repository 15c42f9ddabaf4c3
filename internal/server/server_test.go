package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bookshelf/internal/cache"
	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testPassword satisfies the signup password policy.
const testPassword = "Str0ngPassw0rd"

var testDBSeq int64

// testEnv wires a full server against in-memory SQLite, miniredis and a fake
// catalog HTTP server, then exercises it through app.Test.
type testEnv struct {
	srv     *Server
	app     *fiber.App
	mr      *miniredis.Miniredis
	catalog *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { cache.SetClient(nil) })

	dsn := fmt.Sprintf("file:srvtest%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	catalog := httptest.NewServer(http.HandlerFunc(serveFakeCatalog))
	t.Cleanup(catalog.Close)

	cfg := &config.Config{
		JWTSecret:        "server-test-secret-key-not-for-production",
		Port:             "0",
		Env:              "test",
		BooksAPIURL:      catalog.URL,
		BooksAppID:       "test-app-id",
		MediaDir:         t.TempDir(),
		LoginRedirectURL: "/posts",
	}

	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	srv.SetupRoutes(app)

	return &testEnv{srv: srv, app: app, mr: mr, catalog: catalog}
}

// serveFakeCatalog answers in the catalog's wire format. ISBN 0000000000000
// is reserved for the "no match" case.
func serveFakeCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("applicationId") == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	isbn := q.Get("isbn")
	if isbn == "0000000000000" {
		fmt.Fprint(w, `{"Items":[]}`)
		return
	}
	if isbn == "" {
		isbn = "9784101010014"
	}
	title := q.Get("title")
	if title == "" {
		title = "Kokoro"
	}

	fmt.Fprintf(w, `{"Items":[{"Item":{
		"title": %q,
		"author": "Natsume Soseki",
		"isbn": %q,
		"publisherName": "Shinchosha",
		"salesDate": "2004-03-01",
		"largeImageUrl": "https://books.example.com/cover.jpg",
		"itemUrl": "https://books.example.com/item"
	}}]}`, title, isbn)
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// signup registers a fresh account and returns its token and user ID.
func (e *testEnv) signup(t *testing.T, email string) (string, uint) {
	t.Helper()

	resp := e.request(t, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	require.NotEmpty(t, body.Token)
	require.NotZero(t, body.User.ID)
	return body.Token, body.User.ID
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
			Redis    string `json:"redis"`
		} `json:"checks"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks.Database)
	assert.Equal(t, "healthy", body.Checks.Redis)
}

func TestSignupCreatesProfile(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "reader@example.com")

	resp := env.request(t, fiber.MethodGet, "/api/profiles/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	assert.Equal(t, models.DefaultDisplayName, profile.Name)
	assert.Len(t, profile.Username, 16)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "dup@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/auth/signup", "", fiber.Map{
		"email":    "dup@example.com",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestSignupValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"missing fields", fiber.Map{}},
		{"bad email", fiber.Map{"email": "not-an-email", "password": testPassword}},
		{"weak password", fiber.Map{"email": "weak@example.com", "password": "short"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.request(t, fiber.MethodPost, "/api/auth/signup", "", tc.body)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "login@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "login@example.com",
		"password": "WrongPassword1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "nobody@example.com",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "login@example.com",
		"password": testPassword,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Token      string `json:"token"`
		RedirectTo string `json:"redirect_to"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "/posts", body.RedirectTo)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "logout@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, "/api/profiles/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodGet, "/api/profiles/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, "/api/profiles/me", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestPublicReadsNeedNoToken(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "browse@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/posts", token, createPostBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var post models.Post
	decodeBody(t, resp, &post)

	resp = env.request(t, fiber.MethodGet, "/api/profiles/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile models.Profile
	decodeBody(t, resp, &profile)

	public := []string{
		"/api/posts",
		fmt.Sprintf("/api/posts/%d", post.ID),
		fmt.Sprintf("/api/posts/%d/comments", post.ID),
		"/api/profiles/" + profile.Username,
		"/api/books/search?title=Kokoro",
		"/api/books/9784101010014",
	}
	for _, path := range public {
		resp := env.request(t, fiber.MethodGet, path, "", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
	}

	// The owner-scoped views still sit behind auth, and neither is
	// swallowed by the public wildcard next to it.
	resp = env.request(t, fiber.MethodGet, "/api/posts/mine", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp = env.request(t, fiber.MethodGet, "/api/profiles/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestDeleteAccountCascades(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "gone@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/posts", token, fiber.Map{
		"title":        "A quiet classic",
		"reason":       "Recommended by a friend",
		"impressions":  "Stayed with me for weeks.",
		"satisfaction": 5,
		"isbn":         "9784101010014",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeBody(t, resp, &post)

	resp = env.request(t, fiber.MethodDelete, "/api/auth/account", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, fiber.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), "", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "gone@example.com",
		"password": testPassword,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
