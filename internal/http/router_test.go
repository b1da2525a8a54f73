package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/crm-api/internal/auth"
	"github.com/redmonkez12/crm-api/internal/catalog"
	"github.com/redmonkez12/crm-api/internal/config"
	"github.com/redmonkez12/crm-api/internal/database/dbtest"
	"github.com/redmonkez12/crm-api/internal/logging"
	"github.com/redmonkez12/crm-api/internal/password"
	"github.com/redmonkez12/crm-api/internal/ratelimit"
	"github.com/redmonkez12/crm-api/internal/user"
)

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db := dbtest.New(t)

	hasher, err := password.New(password.AlgorithmBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewJWTService([]byte("0123456789abcdef0123456789abcdef"), "crm-api")
	require.NoError(t, err)

	userService := user.NewService(user.NewRepository(db), hasher)
	authService := auth.NewService(userService, tokens, time.Hour)
	catalogService := catalog.NewService(catalog.NewRepository(db))

	cfg := &config.Config{Server: config.ServerConfig{Env: "test"}}
	logger := logging.New(logging.Options{Level: "error", Output: io.Discard})

	router := NewRouter(cfg, Handlers{
		Auth:           auth.NewHandler(authService, ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 100, Window: time.Minute})),
		AuthMiddleware: auth.NewMiddleware(tokens, authService),
		Users:          user.NewHandler(userService),
		Catalog:        catalog.NewHandler(catalogService),
		DB:             db,
	}, logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t     *testing.T
	base  string
	token string
}

func (c *client) do(method, path string, body any) (*http.Response, []byte) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, data
}

func names(t *testing.T, data []byte) []string {
	t.Helper()
	var categories []catalog.Category
	require.NoError(t, json.Unmarshal(data, &categories))
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.Name)
	}
	return out
}

func TestRouter_ElectronicsScenario(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	resp, _ := anon.do(http.MethodPost, "/catalogs", map[string]any{"name": "Electronics"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data := anon.do(http.MethodPost, "/auth/register", map[string]any{
		"email": "ann@example.com", "password": "s3cret-password",
		"firstName": "Ann", "lastName": "Lee", "birthDate": "1990-04-12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotContains(t, string(data), "password")

	resp, data = anon.do(http.MethodPost, "/auth/login", map[string]any{"email": "ann@example.com", "password": "s3cret-password"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login auth.AuthResult
	require.NoError(t, json.Unmarshal(data, &login))

	ann := &client{t: t, base: srv.URL, token: login.AccessToken}

	resp, data = ann.do(http.MethodPost, "/catalogs", map[string]any{"name": "Electronics"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var electronics catalog.Category
	require.NoError(t, json.Unmarshal(data, &electronics))

	resp, _ = ann.do(http.MethodPost, "/catalogs", map[string]any{"name": "Electronics"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, data = anon.do(http.MethodGet, "/catalogs/active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotContains(t, names(t, data), "Electronics")

	resp, _ = anon.do(http.MethodPatch, "/catalogs/"+electronics.ID.String(), map[string]any{"isActive": true})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ann.do(http.MethodPatch, "/catalogs/"+electronics.ID.String(), map[string]any{"isActive": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = anon.do(http.MethodGet, "/catalogs/active", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Electronics"}, names(t, data))

	resp, data = anon.do(http.MethodGet, "/catalogs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Electronics"}, names(t, data))

	resp, _ = anon.do(http.MethodDelete, "/catalogs/"+electronics.ID.String(), nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, data = ann.do(http.MethodDelete, "/catalogs/"+electronics.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, data)

	resp, _ = anon.do(http.MethodGet, "/catalogs/"+electronics.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_UserEndpointsRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	for _, path := range []string{"/auth/me", "/users/me"} {
		resp, _ := anon.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp, data := anon.do(http.MethodPost, "/auth/register", map[string]any{
		"email": "ann@example.com", "password": "s3cret-password",
		"firstName": "Ann", "lastName": "Lee", "birthDate": "1990-04-12",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registered auth.AuthResult
	require.NoError(t, json.Unmarshal(data, &registered))

	ann := &client{t: t, base: srv.URL, token: registered.AccessToken}

	for _, path := range []string{"/auth/me", "/users/me"} {
		resp, data := ann.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		var me user.PublicUser
		require.NoError(t, json.Unmarshal(data, &me))
		require.Equal(t, registered.User.ID, me.ID)
	}

	resp, data = ann.do(http.MethodPatch, "/users/me", map[string]any{"firstName": "Annabel"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me user.PublicUser
	require.NoError(t, json.Unmarshal(data, &me))
	require.Equal(t, "Annabel", me.FirstName)
}

func TestRouter_HealthAndHeaders(t *testing.T) {
	srv := newTestServer(t)
	anon := &client{t: t, base: srv.URL}

	resp, data := anon.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"api is running"}`, string(data))
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))

	resp, _ = anon.do(http.MethodGet, "/swagger/index.html", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = anon.do(http.MethodPut, "/catalogs", nil)
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealth_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	handleHealth(failingPinger{})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
