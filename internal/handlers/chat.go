package handlers

import (
	"net/http"
	"strings"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/assistant"
	"traffic-dashboard-backend/internal/domain"
)

type chatRequest struct {
	// message — сохраняем в историю; messages — разовый запрос без истории
	Message  string              `json:"message"`
	Messages []assistant.Message `json:"messages"`
	ChatType string              `json:"chatType"`
}

type chatResponse struct {
	Response string              `json:"response"`
	Message  *domain.ChatMessage `json:"message,omitempty"`
}

// chatTypeFor — тип чата из запроса; чужой тип чата запрещён
func chatTypeFor(u domain.User, raw string) (domain.ChatType, error) {
	own := domain.ChatTypeFor(u.Role)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return own, nil
	}
	if domain.ChatType(strings.ToLower(raw)) != own {
		return "", apperr.Forbidden("chat type " + raw + " is not available for your role")
	}
	return own, nil
}

// GET/POST/DELETE /api/chat
func (e *Env) HandleChat(w http.ResponseWriter, r *http.Request) {
	u, ok := e.requireRole(w, r, "")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := chatTypeFor(u, r.URL.Query().Get("type"))
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		history, err := e.Assistant.History(r.Context(), u, t)
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		if history == nil {
			history = []domain.ChatMessage{}
		}
		e.writeJSON(w, history)

	case http.MethodPost:
		var req chatRequest
		if err := decodeJSON(r, &req); err != nil {
			e.writeError(w, r, err)
			return
		}
		t, err := chatTypeFor(u, req.ChatType)
		if err != nil {
			e.writeError(w, r, err)
			return
		}

		if len(req.Messages) > 0 {
			reply, err := e.Assistant.Complete(r.Context(), t, req.Messages)
			if err != nil {
				e.writeError(w, r, err)
				return
			}
			e.writeJSON(w, chatResponse{Response: reply})
			return
		}

		msg, err := e.Assistant.Reply(r.Context(), u, t, req.Message)
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		e.writeJSON(w, chatResponse{Response: msg.Content, Message: &msg})

	case http.MethodDelete:
		t, err := chatTypeFor(u, r.URL.Query().Get("type"))
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		if err := e.Assistant.Clear(r.Context(), u, t); err != nil {
			e.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		e.methodNotAllowed(w, r)
	}
}
