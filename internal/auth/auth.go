// Package auth — регистрация, вход по паролю и сессии с токеном.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

const (
	MinPasswordLen = 6
	MaxPasswordLen = 72 // предел bcrypt, в байтах
)

// Сообщения показываются пользователю как есть
const (
	msgInvalidEmail     = "Please enter a valid email address"
	msgShortPassword    = "Password must be at least 6 characters"
	msgLongPassword     = "Password must be at most 72 bytes"
	msgFullNameRequired = "Please enter your full name"
	msgAlreadyExists    = "This email is already registered. Please sign in."
	msgBadCredentials   = "Invalid login credentials"
	msgNotSignedIn      = "not signed in"
)

type Service struct {
	store store.Store
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewService(s store.Store, ttl time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: s, ttl: ttl, log: log, now: time.Now}
}

type SignUpInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
	Phone    string      `json:"phone"`
}

// normalizeEmail проверяет адрес и приводит к нижнему регистру
func normalizeEmail(s string) (string, error) {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	// "Name <a@b>" нам не подходит — нужен голый адрес
	if err != nil || addr.Address != s {
		return "", apperr.InvalidInput(msgInvalidEmail)
	}
	return strings.ToLower(addr.Address), nil
}

// SignUp создаёт пользователя. Роль по умолчанию — citizen.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (domain.User, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.User{}, err
	}
	if len(in.Password) < MinPasswordLen {
		return domain.User{}, apperr.InvalidInput(msgShortPassword)
	}
	if len(in.Password) > MaxPasswordLen {
		return domain.User{}, apperr.InvalidInput(msgLongPassword)
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return domain.User{}, apperr.InvalidInput(msgFullNameRequired)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     name,
		Role:         domain.ParseRole(string(in.Role)),
		Phone:        strings.TrimSpace(in.Phone),
		CreatedAt:    s.now(),
		PasswordHash: string(hash),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return domain.User{}, apperr.Conflict(msgAlreadyExists)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.log.Info("user signed up", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// SignIn проверяет пароль и выдаёт новую сессию
func (s *Service) SignIn(ctx context.Context, email, password string) (domain.Session, domain.User, error) {
	addr, err := normalizeEmail(email)
	if err != nil {
		return domain.Session{}, domain.User{}, err
	}

	u, err := s.store.UserByEmail(ctx, addr)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, domain.User{}, apperr.Unauthenticated(msgBadCredentials)
	}
	if err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("find user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return domain.Session{}, domain.User{}, apperr.Unauthenticated(msgBadCredentials)
	}

	sess := domain.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return domain.Session{}, domain.User{}, fmt.Errorf("create session: %w", err)
	}

	s.log.Debug("user signed in", zap.String("user_id", u.ID))
	return sess, u, nil
}

// SignOut удаляет сессию; неизвестный токен не ошибка
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Resolve — пользователь по токену сессии. Протухшую сессию сразу удаляем.
func (s *Service) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, apperr.Unauthenticated(msgNotSignedIn)
	}
	sess, err := s.store.SessionByToken(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, apperr.Unauthenticated(msgNotSignedIn)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve session: %w", err)
	}
	if sess.Expired(s.now()) {
		_ = s.store.DeleteSession(ctx, token)
		return domain.User{}, apperr.Unauthenticated(msgNotSignedIn)
	}

	u, err := s.store.UserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, apperr.Unauthenticated(msgNotSignedIn)
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("resolve user: %w", err)
	}
	return u, nil
}

// SweepExpired периодически чистит протухшие сессии, пока не отменён ctx
func (s *Service) SweepExpired(ctx context.Context, every time.Duration) error {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			n, err := s.store.DeleteExpiredSessions(ctx, s.now())
			if err != nil {
				s.log.Warn("sweep sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				s.log.Debug("expired sessions removed", zap.Int64("count", n))
			}
		}
	}
}
