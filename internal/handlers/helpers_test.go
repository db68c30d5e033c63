package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/assistant"
	"traffic-dashboard-backend/internal/auth"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/live"
	"traffic-dashboard-backend/internal/store"
)

func newTestEnv(t *testing.T) *Env {
	t.Helper()
	st := store.NewMemoryStore()
	log := zap.NewNop()
	return &Env{
		Store:        st,
		Auth:         auth.NewService(st, time.Hour, log),
		Assistant:    assistant.NewService(st, nil, log),
		Ingestor:     live.NewIngestor(st, nil, nil, log),
		CostFactors:  domain.NewDefaultCostFactors(),
		RouteTimeout: time.Second,
		Version:      "test",
		Log:          log,
		Pages:        ParsePages(),
	}
}

// do вызывает хендлер; body — строка как есть или значение для json.Marshal
func do(t *testing.T, h http.HandlerFunc, method, target string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// signedIn регистрирует пользователя с ролью и возвращает токен сессии
func signedIn(t *testing.T, e *Env, role domain.Role) string {
	t.Helper()
	ctx := context.Background()
	email := string(role) + "@example.com"
	_, err := e.Auth.SignUp(ctx, auth.SignUpInput{
		Email:    email,
		Password: "secret1",
		FullName: "Test " + string(role),
		Role:     role,
	})
	require.NoError(t, err)
	sess, _, err := e.Auth.SignIn(ctx, email, "secret1")
	require.NoError(t, err)
	return sess.Token
}
