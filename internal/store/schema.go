package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"traffic-dashboard-backend/internal/domain"
)

// schema пишется для PostgreSQL; для SQLite TIMESTAMPTZ заменяется на TIMESTAMP,
// иначе драйвер не отдаёт time.Time при чтении.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
    id                 INTEGER PRIMARY KEY,
    osrm_base_url      TEXT NOT NULL DEFAULT '',
    telegram_bot_token TEXT NOT NULL DEFAULT '',
    telegram_chat_id   TEXT NOT NULL DEFAULT ''
)`,
	// гарантируем, что запись с id = 1 существует
	`INSERT INTO settings (id) VALUES (1) ON CONFLICT (id) DO NOTHING`,

	`CREATE TABLE IF NOT EXISTS areas (
    id        TEXT PRIMARY KEY,
    name      TEXT NOT NULL,
    zone      TEXT NOT NULL DEFAULT '',
    latitude  DOUBLE PRECISION NOT NULL,
    longitude DOUBLE PRECISION NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS congestion_data (
    id               TEXT PRIMARY KEY,
    area_id          TEXT NOT NULL,
    area_name        TEXT NOT NULL,
    congestion_level TEXT NOT NULL,              -- low / medium / high
    prediction_10min TEXT NOT NULL DEFAULT '',
    prediction_30min TEXT NOT NULL DEFAULT '',
    prediction_1hr   TEXT NOT NULL DEFAULT '',
    prediction_2hr   TEXT NOT NULL DEFAULT '',
    prediction_3hr   TEXT NOT NULL DEFAULT '',
    current_speed    DOUBLE PRECISION NOT NULL DEFAULT 0,
    vehicle_density  DOUBLE PRECISION NOT NULL DEFAULT 0,
    reason           TEXT NOT NULL DEFAULT '',
    stability_index  INTEGER NOT NULL DEFAULT 0,
    recorded_at      TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS congestion_data_area_time ON congestion_data (area_id, recorded_at)`,

	`CREATE TABLE IF NOT EXISTS route_analytics (
    route_id             TEXT NOT NULL,
    hour                 INTEGER NOT NULL,
    avg_speed            DOUBLE PRECISION NOT NULL,
    congestion_frequency DOUBLE PRECISION NOT NULL,
    prediction_accuracy  DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (route_id, hour)
)`,

	`CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    full_name     TEXT NOT NULL,
    role          TEXT NOT NULL,              -- citizen / authority
    phone         TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS sessions (
    token      TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS chat_history (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    chat_type  TEXT NOT NULL,                 -- citizen / authority
    role       TEXT NOT NULL,                 -- user / assistant
    content    TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS chat_history_user_type ON chat_history (user_id, chat_type, created_at)`,

	`CREATE TABLE IF NOT EXISTS cost_scenarios (
    id               TEXT PRIMARY KEY,
    owner_id         TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name             TEXT NOT NULL,
    vehicles         INTEGER NOT NULL,
    avg_delay_mins   INTEGER NOT NULL,
    congestion_level TEXT NOT NULL,
    total_cost       DOUBLE PRECISION NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
)`,
}

// ensureSchema создаёт нужные таблицы, если их ещё нет
func (s *SQLStore) ensureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if s.dialect == DialectSQLite {
			stmt = strings.ReplaceAll(stmt, "TIMESTAMPTZ", "TIMESTAMP")
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Migrate — схема плюс демо-данные в пустые таблицы
func (s *SQLStore) Migrate(ctx context.Context) error {
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	return s.seed(ctx, time.Now().UTC())
}

func (s *SQLStore) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// seed заполняет районы, замеры и аналитику, если таблицы пустые
func (s *SQLStore) seed(ctx context.Context, now time.Time) error {
	n, err := s.count(ctx, "areas")
	if err != nil {
		return err
	}
	if n == 0 {
		for _, a := range domain.Areas() {
			if err := s.UpsertArea(ctx, a); err != nil {
				return err
			}
		}
	}

	if n, err = s.count(ctx, "congestion_data"); err != nil {
		return err
	}
	if n == 0 {
		for _, r := range domain.CongestionFixtures(now) {
			// id фикстур ("1".."12") совпадают с id районов — даём замерам свои
			r.ID = ""
			if _, err := s.AddCongestion(ctx, r); err != nil {
				return err
			}
		}
	}

	if n, err = s.count(ctx, "route_analytics"); err != nil {
		return err
	}
	if n == 0 {
		for _, p := range domain.AnalyticsFixtures() {
			if _, err := s.exec(ctx, `
INSERT INTO route_analytics (route_id, hour, avg_speed, congestion_frequency, prediction_accuracy)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (route_id, hour) DO NOTHING`,
				domain.DefaultCorridorID, p.Hour, p.AvgSpeed, p.CongestionFrequency, p.PredictionAccuracy); err != nil {
				return fmt.Errorf("seed analytics: %w", err)
			}
		}
	}
	return nil
}
