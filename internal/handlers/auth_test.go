package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"traffic-dashboard-backend/internal/domain"
)

func TestHandleHealth(t *testing.T) {
	e := newTestEnv(t)
	rec := do(t, e.HandleHealth, http.MethodGet, "/api/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", gjson.Get(rec.Body.String(), "status").String())
	assert.Equal(t, "test", gjson.Get(rec.Body.String(), "version").String())
}

func TestHandleSignUp(t *testing.T) {
	e := newTestEnv(t)
	body := map[string]string{
		"email":    "officer@example.com",
		"password": "secret1",
		"fullName": "Officer Ravi",
		"role":     "authority",
	}

	rec := do(t, e.HandleSignUp, http.MethodPost, "/api/auth/signup", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := gjson.Parse(rec.Body.String())
	assert.NotEmpty(t, res.Get("token").String())
	assert.Equal(t, "authority", res.Get("user.role").String())
	assert.Equal(t, "/authority/map", res.Get("homePath").String())
	assert.False(t, res.Get("user.passwordHash").Exists())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, res.Get("token").String(), cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	rec = do(t, e.HandleSignUp, http.MethodPost, "/api/auth/signup", body, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "This email is already registered. Please sign in.", gjson.Get(rec.Body.String(), "error").String())
}

func TestHandleSignUp_Validation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name string
		body any
		want string
	}{
		{"bad email", map[string]string{"email": "nope", "password": "secret1", "fullName": "A"}, "Please enter a valid email address"},
		{"short password", map[string]string{"email": "a@b.co", "password": "123", "fullName": "A"}, "Password must be at least 6 characters"},
		{"no name", map[string]string{"email": "a@b.co", "password": "secret1", "fullName": "  "}, "Please enter your full name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e.HandleSignUp, http.MethodPost, "/api/auth/signup", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, gjson.Get(rec.Body.String(), "error").String())
		})
	}

	rec := do(t, e.HandleSignUp, http.MethodPost, "/api/auth/signup", "{", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", gjson.Get(rec.Body.String(), "code").String())
}

func TestHandleSignIn(t *testing.T) {
	e := newTestEnv(t)
	signedIn(t, e, domain.RoleCitizen)

	rec := do(t, e.HandleSignIn, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": "citizen@example.com", "password": "wrong-pass"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid login credentials", gjson.Get(rec.Body.String(), "error").String())

	rec = do(t, e.HandleSignIn, http.MethodPost, "/api/auth/signin",
		map[string]string{"email": "Citizen@Example.com", "password": "secret1"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/citizen/congestion", gjson.Get(rec.Body.String(), "homePath").String())

	rec = do(t, e.HandleSignIn, http.MethodGet, "/api/auth/signin", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleMe(t *testing.T) {
	e := newTestEnv(t)

	rec := do(t, e.HandleMe, http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := signedIn(t, e, domain.RoleAuthority)
	rec = do(t, e.HandleMe, http.MethodGet, "/api/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	res := gjson.Parse(rec.Body.String())
	assert.Equal(t, "authority@example.com", res.Get("user.email").String())
	assert.Equal(t, "authority", res.Get("chatType").String())
	assert.Equal(t, []string{"Live Map", "Analytics", "Cost Calculator", "AI Helper"}, labels(res.Get("navLinks")))
}

func TestHandleMe_SessionCookie(t *testing.T) {
	e := newTestEnv(t)
	token := signedIn(t, e, domain.RoleCitizen)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	e.HandleMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "citizen", gjson.Get(rec.Body.String(), "user.role").String())
}

func TestHandleSignOut(t *testing.T) {
	e := newTestEnv(t)
	token := signedIn(t, e, domain.RoleCitizen)

	rec := do(t, e.HandleSignOut, http.MethodPost, "/api/auth/signout", nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, e.HandleMe, http.MethodGet, "/api/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func labels(links gjson.Result) []string {
	var out []string
	for _, l := range links.Array() {
		out = append(out, l.Get("label").String())
	}
	return out
}
