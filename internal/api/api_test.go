package api_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Prateekiiitg56/SmartScribe/internal/api"
	"github.com/Prateekiiitg56/SmartScribe/internal/api/response"
	"github.com/Prateekiiitg56/SmartScribe/internal/factory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(t.Context(), factory.Config{})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:       logger,
		AuthService:  app.AuthService,
		EssayService: app.EssayService,
	})

	return &testServer{
		handler: router,
		app:     app,
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

// register creates an account and returns the session token
func (ts *testServer) register(t *testing.T, username, email string) string {
	t.Helper()

	body := map[string]string{
		"full_name":        "Test User",
		"username":         username,
		"email":            email,
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", body, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	// Register
	registerBody := map[string]string{
		"full_name":        "Alice Smith",
		"username":         "alice",
		"email":            "alice@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", registerBody, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	var registerResp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &registerResp))
	assert.True(t, registerResp.Authenticated)
	assert.Equal(t, "alice", registerResp.Username)
	assert.Equal(t, "Alice Smith", registerResp.FullName)

	// Logout
	rr = ts.request(http.MethodPost, "/api/v1/auth/logout", nil, registerResp.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Login again
	loginBody := map[string]string{
		"username": "alice",
		"password": "secret123",
	}
	rr = ts.request(http.MethodPost, "/api/v1/auth/login", loginBody, registerResp.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var loginResp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &loginResp))
	assert.True(t, loginResp.Authenticated)
	assert.Equal(t, "alice", loginResp.Username)
}

func TestRegisterValidationFailure(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]string{
		"full_name":        "Too Short",
		"username":         "ab",
		"email":            "ab@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", body, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "VALIDATION_FAILED")
	assert.Contains(t, rr.Body.String(), "username")
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "bob", "bob@example.com")

	body := map[string]string{
		"full_name":        "Bob Two",
		"username":         "bob",
		"email":            "other@example.com",
		"password":         "secret123",
		"confirm_password": "secret123",
	}
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", body, "")

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "USERNAME_EXISTS")
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "carol", "carol@example.com")

	missing := ts.request(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "nobody", "password": "secret123"}, "")
	wrong := ts.request(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "carol", "password": "badguess"}, "")

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, missing.Body.String(), wrong.Body.String())
}

func TestSessionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// Anonymous session
	rr := ts.request(http.MethodGet, "/api/v1/auth/session", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var anon response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &anon))
	assert.False(t, anon.Authenticated)
	assert.NotEmpty(t, anon.Token)

	// Authenticated session
	token := ts.register(t, "dave", "dave@example.com")
	rr = ts.request(http.MethodGet, "/api/v1/auth/session", nil, token)

	var authed response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &authed))
	assert.True(t, authed.Authenticated)
	assert.Equal(t, "dave", authed.Username)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodPatch, "/api/v1/profile"},
		{http.MethodPut, "/api/v1/auth/password"},
		{http.MethodPost, "/api/v1/essays"},
		{http.MethodGet, "/api/v1/essays"},
		{http.MethodGet, "/api/v1/dashboard"},
	}
	for _, p := range paths {
		rr := ts.request(p.method, p.path, map[string]string{}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "/login", rr.Header().Get("X-Login-Location"))
	}
}

func TestProfileGetAndUpdate(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "erin", "erin@example.com")

	rr := ts.request(http.MethodGet, "/api/v1/profile", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var user response.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "erin", user.Username)
	assert.NotContains(t, rr.Body.String(), "password")

	// Update bio and full name
	rr = ts.request(http.MethodPatch, "/api/v1/profile", map[string]string{
		"full_name": "Erin Updated",
		"bio":       "Writing about writing.",
	}, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "Erin Updated", user.FullName)
	assert.Equal(t, "Writing about writing.", user.Bio)

	// Empty patch is rejected
	rr = ts.request(http.MethodPatch, "/api/v1/profile", map[string]string{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChangePasswordFlow(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "frank", "frank@example.com")

	// Wrong current password
	rr := ts.request(http.MethodPut, "/api/v1/auth/password", map[string]string{
		"current_password": "badguess",
		"new_password":     "newsecret",
		"confirm_password": "newsecret",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "current_password")

	// Correct change
	rr = ts.request(http.MethodPut, "/api/v1/auth/password", map[string]string{
		"current_password": "secret123",
		"new_password":     "newsecret",
		"confirm_password": "newsecret",
	}, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	// Old password rejected, new accepted
	rr = ts.request(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "frank", "password": "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"username": "frank", "password": "newsecret"}, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestEssaySubmissionAndHistory(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "grace", "grace@example.com")

	// Submit
	rr := ts.request(http.MethodPost, "/api/v1/essays", map[string]string{
		"title":   "On Compilers",
		"content": "An essay about compilers.",
	}, token)
	assert.Equal(t, http.StatusCreated, rr.Code)

	var submitted response.Essay
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))
	assert.NotZero(t, submitted.ID)
	assert.Greater(t, submitted.OverallScore, 0.0)
	assert.NotEmpty(t, submitted.Feedback)

	// Blank title falls back to default
	rr = ts.request(http.MethodPost, "/api/v1/essays", map[string]string{
		"content": "Untitled content.",
	}, token)
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), "Untitled Essay")

	// Empty content is rejected
	rr = ts.request(http.MethodPost, "/api/v1/essays", map[string]string{
		"title": "No Body",
	}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "EMPTY_ESSAY")

	// History lists both, newest first
	rr = ts.request(http.MethodGet, "/api/v1/essays", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var list response.EssayList
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Essays, 2)

	// Fetch one by ID
	rr = ts.request(http.MethodGet, "/api/v1/essays/1", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var fetched response.Essay
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &fetched))
	assert.Equal(t, "On Compilers", fetched.Title)
	assert.Equal(t, "An essay about compilers.", fetched.Content)
}

func TestEssayOwnershipIsolation(t *testing.T) {
	ts := newTestServer(t)
	ownerToken := ts.register(t, "heidi", "heidi@example.com")
	otherToken := ts.register(t, "ivan", "ivan@example.com")

	rr := ts.request(http.MethodPost, "/api/v1/essays", map[string]string{
		"title":   "Private",
		"content": "My words.",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	var submitted response.Essay
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &submitted))

	rr = ts.request(http.MethodGet, "/api/v1/essays/1", nil, otherToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "judy", "judy@example.com")

	for i := 0; i < 3; i++ {
		rr := ts.request(http.MethodPost, "/api/v1/essays", map[string]string{
			"title":   "Essay",
			"content": "Some content.",
		}, token)
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/dashboard", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)

	var dash response.Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dash))
	assert.Equal(t, 3, dash.EssayCount)
	assert.Len(t, dash.Recent, 3)
	assert.Greater(t, dash.Averages.AvgOverall, 0.0)
}

func TestAnonymousRequestsDoNotAccumulateSessions(t *testing.T) {
	ts := newTestServer(t)
	sessions := ts.app.AuthService.Sessions()

	// Tokenless traffic, load balancer checks included, must not register anything
	for i := 0; i < 50; i++ {
		rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
		rr = ts.request(http.MethodGet, "/api/v1/auth/session", nil, "")
		require.Equal(t, http.StatusOK, rr.Code)
	}
	assert.Equal(t, 0, sessions.Count())

	// Only logins occupy the registry, and logout releases the slot
	token := ts.register(t, "judy", "judy@example.com")
	assert.Equal(t, 1, sessions.Count())

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, sessions.Count())
}

func TestSessionCookieFallback(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "mallory", "mallory@example.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "mallory")
}
