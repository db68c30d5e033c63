package handlers

import (
	"net/http"

	"traffic-dashboard-backend/internal/auth"
	"traffic-dashboard-backend/internal/domain"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
	Home  string      `json:"homePath"`
}

func (e *Env) setSessionCookie(w http.ResponseWriter, s domain.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// POST /api/auth/signup — регистрация и сразу вход
func (e *Env) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		e.methodNotAllowed(w, r)
		return
	}

	var req auth.SignUpInput
	if err := decodeJSON(r, &req); err != nil {
		e.writeError(w, r, err)
		return
	}

	if _, err := e.Auth.SignUp(r.Context(), req); err != nil {
		e.writeError(w, r, err)
		return
	}
	sess, u, err := e.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		e.writeError(w, r, err)
		return
	}

	e.setSessionCookie(w, sess)
	e.writeJSONStatus(w, http.StatusCreated, sessionResponse{Token: sess.Token, User: u, Home: domain.HomePath(u.Role)})
}

// POST /api/auth/signin
func (e *Env) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		e.methodNotAllowed(w, r)
		return
	}

	var req signInRequest
	if err := decodeJSON(r, &req); err != nil {
		e.writeError(w, r, err)
		return
	}

	sess, u, err := e.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		e.writeError(w, r, err)
		return
	}

	e.setSessionCookie(w, sess)
	e.writeJSON(w, sessionResponse{Token: sess.Token, User: u, Home: domain.HomePath(u.Role)})
}

// POST /api/auth/signout — удаляет сессию и cookie
func (e *Env) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		e.methodNotAllowed(w, r)
		return
	}

	if err := e.Auth.SignOut(r.Context(), sessionToken(r)); err != nil {
		e.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	w.WriteHeader(http.StatusNoContent)
}
