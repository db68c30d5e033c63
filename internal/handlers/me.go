package handlers

import (
	"net/http"

	"traffic-dashboard-backend/internal/domain"
)

type MeResponse struct {
	User     domain.User      `json:"user"`
	NavLinks []domain.NavLink `json:"navLinks"` // меню для роли
	HomePath string           `json:"homePath"`
	ChatType domain.ChatType  `json:"chatType"`
}

// HandleMe — отдаёт информацию о текущем пользователе и его меню.
func (e *Env) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		e.methodNotAllowed(w, r)
		return
	}

	u, ok := e.requireRole(w, r, "")
	if !ok {
		return
	}

	e.writeJSON(w, MeResponse{
		User:     u,
		NavLinks: domain.NavLinks(u.Role),
		HomePath: domain.HomePath(u.Role),
		ChatType: domain.ChatTypeFor(u.Role),
	})
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// GET /api/health
func (e *Env) HandleHealth(w http.ResponseWriter, r *http.Request) {
	e.writeJSON(w, healthResponse{Status: "ok", Version: e.Version})
}
