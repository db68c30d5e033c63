// Package store — хранилище районов, замеров, пользователей, сессий, истории чата и настроек.
// Две реализации: MemoryStore (без БД) и SQLStore (SQLite или PostgreSQL).
package store

import (
	"context"
	"errors"
	"time"

	"traffic-dashboard-backend/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Settings — настройки сервисов маршрутизации и Telegram-бота (одна запись с id = 1)
type Settings struct {
	OSRMBaseURL      string `json:"osrmBaseUrl"`
	TelegramBotToken string `json:"telegramBotToken"`
	TelegramChatID   string `json:"telegramChatId"`
}

type Store interface {
	ListAreas(ctx context.Context) ([]domain.Area, error)
	UpsertArea(ctx context.Context, a domain.Area) error

	// LatestCongestion — самый свежий замер по каждому району, от новых к старым
	LatestCongestion(ctx context.Context) ([]domain.CongestionReading, error)
	AddCongestion(ctx context.Context, r domain.CongestionReading) (domain.CongestionReading, error)

	Analytics(ctx context.Context, corridorID string) ([]domain.AnalyticsPoint, error)

	CreateUser(ctx context.Context, u domain.User) error
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id string) (domain.User, error)

	CreateSession(ctx context.Context, s domain.Session) error
	SessionByToken(ctx context.Context, token string) (domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	AppendChat(ctx context.Context, m domain.ChatMessage) error
	ChatHistory(ctx context.Context, userID string, t domain.ChatType) ([]domain.ChatMessage, error)
	ClearChat(ctx context.Context, userID string, t domain.ChatType) error

	CreateScenario(ctx context.Context, s domain.CostScenario) error
	Scenarios(ctx context.Context, ownerID string) ([]domain.CostScenario, error)
	DeleteScenario(ctx context.Context, id, ownerID string) error

	LoadSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, s Settings) error

	Close() error
}

// prepareReading проставляет ID и время замера, если их не передали
func prepareReading(r domain.CongestionReading, newID func() string) domain.CongestionReading {
	if r.ID == "" {
		r.ID = newID()
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now()
	}
	r.RecordedAt = r.RecordedAt.UTC()
	return r
}

// New открывает хранилище по диалекту из настроек. Для SQL-диалектов
// сразу создаёт схему и засевает демо-данные.
func New(ctx context.Context, dialect, dsn string) (Store, error) {
	if dialect == "memory" {
		return NewMemoryStore(), nil
	}
	s, err := Open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}
