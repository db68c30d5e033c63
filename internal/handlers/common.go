package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/assistant"
	"traffic-dashboard-backend/internal/auth"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/live"
	"traffic-dashboard-backend/internal/store"
)

// SessionCookie — имя cookie с токеном сессии
const SessionCookie = "session"

// Env хранит зависимости для хендлеров.
type Env struct {
	Store     store.Store
	Auth      *auth.Service
	Assistant *assistant.Service
	Ingestor  *live.Ingestor

	CostFactors domain.CostFactors

	// базовый URL OSRM из конфига; настройка из БД важнее
	OSRMBaseURL  string
	RouteTimeout time.Duration

	Version string

	Log   *zap.Logger
	Pages *template.Template
}

// writeJSON отвечает 200 с телом v
func (e *Env) writeJSON(w http.ResponseWriter, v interface{}) {
	e.writeJSONStatus(w, http.StatusOK, v)
}

func (e *Env) writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		e.Log.Warn("write json", zap.Error(err))
	}
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  apperr.Code `json:"code"`
}

// writeError — ответ {"error": ..., "code": ...} со статусом по коду ошибки.
// Внутренние ошибки логируем, наружу отдаём только общий текст.
func (e *Env) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.CodeInternal || code == apperr.CodeUpstream {
		e.Log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	e.writeJSONStatus(w, code.HTTPStatus(), errorResponse{Error: apperr.MessageOf(err), Code: code})
}

func (e *Env) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	e.writeJSONStatus(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed", Code: "METHOD_NOT_ALLOWED"})
}

// decodeJSON читает тело запроса в v
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.InvalidInput("bad json: " + err.Error())
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Hijack нужен для апгрейда до websocket
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// WithLogging пишет в лог метод, путь, статус и длительность запроса
func WithLogging(log *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// sessionToken — токен из заголовка Authorization: Bearer или из cookie
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// CurrentUser — пользователь текущей сессии
func (e *Env) CurrentUser(r *http.Request) (domain.User, error) {
	return e.Auth.Resolve(r.Context(), sessionToken(r))
}

// requireRole возвращает пользователя, если он вошёл и у него нужная роль.
// Пустая роль — подходит любой вошедший пользователь.
func (e *Env) requireRole(w http.ResponseWriter, r *http.Request, role domain.Role) (domain.User, bool) {
	u, err := e.CurrentUser(r)
	if err != nil {
		e.writeError(w, r, err)
		return domain.User{}, false
	}
	if role != "" && u.Role != role {
		e.writeError(w, r, apperr.Forbidden("this action requires the "+string(role)+" role"))
		return domain.User{}, false
	}
	return u, true
}

// storeErr переводит ошибки хранилища в коды API
func storeErr(err error, what string) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.Wrap(apperr.CodeNotFound, what+" not found", err)
	case errors.Is(err, store.ErrConflict):
		return apperr.Wrap(apperr.CodeConflict, what+" already exists", err)
	default:
		return err
	}
}
