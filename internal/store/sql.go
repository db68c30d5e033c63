package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"  // PostgreSQL
	_ "modernc.org/sqlite" // SQLite

	"traffic-dashboard-backend/internal/domain"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

// SQLStore — хранилище поверх database/sql. Запросы пишутся с "?",
// для PostgreSQL плейсхолдеры переписываются в $1, $2, ...
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// Open открывает БД и проверяет соединение. Схему не трогает — для этого Migrate.
func Open(ctx context.Context, dialect, dsn string) (*SQLStore, error) {
	switch dialect {
	case DialectSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// у каждого соединения к :memory: своя база
		if strings.Contains(dsn, ":memory:") {
			db.SetMaxOpenConns(1)
		}
		if _, err := db.ExecContext(ctx, `
			PRAGMA foreign_keys = ON;
			PRAGMA journal_mode = WAL;
			PRAGMA busy_timeout = 5000;
		`); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragmas: %w", err)
		}
		return &SQLStore{db: db, dialect: dialect}, nil
	case DialectPostgres:
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return &SQLStore{db: db, dialect: dialect}, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}

func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// rebind: "?" -> "$n" для PostgreSQL
func (s *SQLStore) rebind(q string) string {
	if s.dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, q string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(q), args...)
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.rebind(q), args...)
}

func (s *SQLStore) queryRow(ctx context.Context, q string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(q), args...)
}

// --- районы ---

func (s *SQLStore) ListAreas(ctx context.Context) ([]domain.Area, error) {
	rows, err := s.query(ctx, `SELECT id, name, zone, latitude, longitude FROM areas ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.Area, 0)
	for rows.Next() {
		var a domain.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.Zone, &a.Latitude, &a.Longitude); err != nil {
			return nil, fmt.Errorf("scan area: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) UpsertArea(ctx context.Context, a domain.Area) error {
	_, err := s.exec(ctx, `
INSERT INTO areas (id, name, zone, latitude, longitude)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE
  SET name      = EXCLUDED.name,
      zone      = EXCLUDED.zone,
      latitude  = EXCLUDED.latitude,
      longitude = EXCLUDED.longitude`,
		a.ID, a.Name, a.Zone, a.Latitude, a.Longitude)
	if err != nil {
		return fmt.Errorf("upsert area %s: %w", a.ID, err)
	}
	return nil
}

// --- замеры ---

const congestionColumns = `id, area_id, area_name, congestion_level,
prediction_10min, prediction_30min, prediction_1hr, prediction_2hr, prediction_3hr,
current_speed, vehicle_density, reason, stability_index, recorded_at`

func (s *SQLStore) LatestCongestion(ctx context.Context) ([]domain.CongestionReading, error) {
	rows, err := s.query(ctx, `
SELECT `+congestionColumns+`
FROM congestion_data c
WHERE c.recorded_at = (SELECT MAX(d.recorded_at) FROM congestion_data d WHERE d.area_id = c.area_id)
ORDER BY c.recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("latest congestion: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.CongestionReading
	for rows.Next() {
		var r domain.CongestionReading
		var lvl, p10, p30, p1h, p2h, p3h string
		if err := rows.Scan(&r.ID, &r.AreaID, &r.AreaName, &lvl,
			&p10, &p30, &p1h, &p2h, &p3h,
			&r.CurrentSpeed, &r.VehicleDensity, &r.Reason, &r.StabilityIndex, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan congestion: %w", err)
		}
		r.Level = domain.Level(lvl)
		r.Prediction10Min = domain.Level(p10)
		r.Prediction30Min = domain.Level(p30)
		r.Prediction1Hr = domain.Level(p1h)
		r.Prediction2Hr = domain.Level(p2h)
		r.Prediction3Hr = domain.Level(p3h)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// два замера с одним временем по району — оставляем один
	return domain.LatestPerArea(out), nil
}

func (s *SQLStore) AddCongestion(ctx context.Context, r domain.CongestionReading) (domain.CongestionReading, error) {
	r = prepareReading(r, uuid.NewString)
	_, err := s.exec(ctx, `
INSERT INTO congestion_data (`+congestionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AreaID, r.AreaName, string(r.Level),
		string(r.Prediction10Min), string(r.Prediction30Min), string(r.Prediction1Hr),
		string(r.Prediction2Hr), string(r.Prediction3Hr),
		r.CurrentSpeed, r.VehicleDensity, r.Reason, r.StabilityIndex, r.RecordedAt)
	if err != nil {
		return r, fmt.Errorf("insert congestion: %w", err)
	}
	return r, nil
}

// --- аналитика ---

func (s *SQLStore) Analytics(ctx context.Context, corridorID string) ([]domain.AnalyticsPoint, error) {
	rows, err := s.query(ctx, `
SELECT hour, avg_speed, congestion_frequency, prediction_accuracy
FROM route_analytics
WHERE route_id = ?
ORDER BY hour`, corridorID)
	if err != nil {
		return nil, fmt.Errorf("analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.AnalyticsPoint, 0)
	for rows.Next() {
		var p domain.AnalyticsPoint
		if err := rows.Scan(&p.Hour, &p.AvgSpeed, &p.CongestionFrequency, &p.PredictionAccuracy); err != nil {
			return nil, fmt.Errorf("scan analytics: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// --- пользователи ---

func (s *SQLStore) CreateUser(ctx context.Context, u domain.User) error {
	res, err := s.exec(ctx, `
INSERT INTO users (id, email, full_name, role, phone, password_hash, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT DO NOTHING`,
		u.ID, strings.ToLower(u.Email), u.FullName, string(u.Role), u.Phone, u.PasswordHash, u.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConflict
	}
	return nil
}

const userColumns = `id, email, full_name, role, phone, password_hash, created_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &role, &u.Phone, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return u, ErrNotFound
		}
		return u, fmt.Errorf("scan user: %w", err)
	}
	u.Role = domain.ParseRole(role)
	return u, nil
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, strings.ToLower(email)))
}

func (s *SQLStore) UserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(s.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// --- сессии ---

func (s *SQLStore) CreateSession(ctx context.Context, sess domain.Session) error {
	_, err := s.exec(ctx, `INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		sess.Token, sess.UserID, sess.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *SQLStore) SessionByToken(ctx context.Context, token string) (domain.Session, error) {
	var sess domain.Session
	err := s.queryRow(ctx, `SELECT token, user_id, expires_at FROM sessions WHERE token = ?`, token).
		Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return sess, ErrNotFound
	}
	if err != nil {
		return sess, fmt.Errorf("session: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.exec(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.exec(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// --- история чата ---

func (s *SQLStore) AppendChat(ctx context.Context, m domain.ChatMessage) error {
	_, err := s.exec(ctx, `
INSERT INTO chat_history (id, user_id, chat_type, role, content, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, string(m.ChatType), m.Role, m.Content, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

func (s *SQLStore) ChatHistory(ctx context.Context, userID string, t domain.ChatType) ([]domain.ChatMessage, error) {
	rows, err := s.query(ctx, `
SELECT id, user_id, chat_type, role, content, created_at
FROM chat_history
WHERE user_id = ? AND chat_type = ?
ORDER BY created_at ASC`, userID, string(t))
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var m domain.ChatMessage
		var ct string
		if err := rows.Scan(&m.ID, &m.UserID, &ct, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		m.ChatType = domain.ParseChatType(ct)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLStore) ClearChat(ctx context.Context, userID string, t domain.ChatType) error {
	if _, err := s.exec(ctx, `DELETE FROM chat_history WHERE user_id = ? AND chat_type = ?`, userID, string(t)); err != nil {
		return fmt.Errorf("clear chat: %w", err)
	}
	return nil
}

// --- сохранённые расчёты ---

func (s *SQLStore) CreateScenario(ctx context.Context, sc domain.CostScenario) error {
	_, err := s.exec(ctx, `
INSERT INTO cost_scenarios (id, owner_id, name, vehicles, avg_delay_mins, congestion_level, total_cost, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.OwnerID, sc.Name, sc.Input.Vehicles, sc.Input.AvgDelayMins, string(sc.Input.Level), sc.TotalCost, sc.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert scenario: %w", err)
	}
	return nil
}

func (s *SQLStore) Scenarios(ctx context.Context, ownerID string) ([]domain.CostScenario, error) {
	rows, err := s.query(ctx, `
SELECT id, owner_id, name, vehicles, avg_delay_mins, congestion_level, total_cost, created_at
FROM cost_scenarios
WHERE owner_id = ?
ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]domain.CostScenario, 0)
	for rows.Next() {
		var sc domain.CostScenario
		var lvl string
		if err := rows.Scan(&sc.ID, &sc.OwnerID, &sc.Name, &sc.Input.Vehicles, &sc.Input.AvgDelayMins,
			&lvl, &sc.TotalCost, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan scenario: %w", err)
		}
		sc.Input.Level = domain.Level(lvl)
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteScenario(ctx context.Context, id, ownerID string) error {
	res, err := s.exec(ctx, `DELETE FROM cost_scenarios WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- настройки ---

// LoadSettings загружает настройки из таблицы settings (id = 1)
func (s *SQLStore) LoadSettings(ctx context.Context) (Settings, error) {
	var st Settings
	err := s.queryRow(ctx, `
SELECT osrm_base_url, telegram_bot_token, telegram_chat_id
FROM settings
WHERE id = 1`).Scan(&st.OSRMBaseURL, &st.TelegramBotToken, &st.TelegramChatID)
	if errors.Is(err, sql.ErrNoRows) {
		// настроек ещё нет — вернём пустую структуру
		return Settings{}, nil
	}
	if err != nil {
		return st, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

// SaveSettings сохраняет настройки (id всегда = 1)
func (s *SQLStore) SaveSettings(ctx context.Context, st Settings) error {
	_, err := s.exec(ctx, `
INSERT INTO settings (id, osrm_base_url, telegram_bot_token, telegram_chat_id)
VALUES (1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE
  SET osrm_base_url      = EXCLUDED.osrm_base_url,
      telegram_bot_token = EXCLUDED.telegram_bot_token,
      telegram_chat_id   = EXCLUDED.telegram_chat_id`,
		st.OSRMBaseURL, st.TelegramBotToken, st.TelegramChatID)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
