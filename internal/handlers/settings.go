package handlers

import (
	"net/http"
	"strings"

	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

// AuthoritySettings — настройки, доступные дорожной службе.
// Токен бота наружу не отдаём, только признак, что он задан.
type AuthoritySettings struct {
	OSRMBaseURL      string `json:"osrmBaseUrl"`
	TelegramChatID   string `json:"telegramChatId"`
	TelegramBotToken string `json:"telegramBotToken,omitempty"`
	TelegramTokenSet bool   `json:"telegramTokenSet"`
}

func toAuthoritySettings(s store.Settings) AuthoritySettings {
	return AuthoritySettings{
		OSRMBaseURL:      s.OSRMBaseURL,
		TelegramChatID:   s.TelegramChatID,
		TelegramTokenSet: s.TelegramBotToken != "",
	}
}

// GET/POST /api/authority/settings
func (e *Env) HandleAuthoritySettings(w http.ResponseWriter, r *http.Request) {
	if _, ok := e.requireRole(w, r, domain.RoleAuthority); !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		st, err := e.Store.LoadSettings(r.Context())
		if err != nil {
			e.writeError(w, r, err)
			return
		}
		e.writeJSON(w, toAuthoritySettings(st))

	case http.MethodPost:
		var req AuthoritySettings
		if err := decodeJSON(r, &req); err != nil {
			e.writeError(w, r, err)
			return
		}

		st, err := e.Store.LoadSettings(r.Context())
		if err != nil {
			e.writeError(w, r, err)
			return
		}

		// Обновляем только если что-то прислали
		if v := strings.TrimSpace(req.OSRMBaseURL); v != "" {
			st.OSRMBaseURL = v
		}
		if v := strings.TrimSpace(req.TelegramBotToken); v != "" {
			st.TelegramBotToken = v
		}
		if v := strings.TrimSpace(req.TelegramChatID); v != "" {
			st.TelegramChatID = v
		}

		if err := e.Store.SaveSettings(r.Context(), st); err != nil {
			e.writeError(w, r, err)
			return
		}
		e.writeJSON(w, toAuthoritySettings(st))

	default:
		e.methodNotAllowed(w, r)
	}
}
