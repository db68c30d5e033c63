package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"traffic-dashboard-backend/internal/domain"
)

// MemoryStore — всё в памяти процесса, используется без БД и в тестах
type MemoryStore struct {
	mu sync.RWMutex

	areas     []domain.Area
	readings  []domain.CongestionReading
	analytics map[string][]domain.AnalyticsPoint
	users     map[string]domain.User // по id
	sessions  map[string]domain.Session
	chat      []domain.ChatMessage
	scenarios []domain.CostScenario
	settings  Settings
}

// NewMemoryStore — хранилище с демо-данными
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		areas:     domain.Areas(),
		readings:  domain.CongestionFixtures(time.Now().UTC()),
		analytics: map[string][]domain.AnalyticsPoint{domain.DefaultCorridorID: domain.AnalyticsFixtures()},
		users:     make(map[string]domain.User),
		sessions:  make(map[string]domain.Session),
	}
}

func (m *MemoryStore) ListAreas(_ context.Context) ([]domain.Area, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Area, len(m.areas))
	copy(out, m.areas)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) UpsertArea(_ context.Context, a domain.Area) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.areas {
		if m.areas[i].ID == a.ID {
			m.areas[i] = a
			return nil
		}
	}
	m.areas = append(m.areas, a)
	return nil
}

func (m *MemoryStore) LatestCongestion(_ context.Context) ([]domain.CongestionReading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.LatestPerArea(m.readings), nil
}

func (m *MemoryStore) AddCongestion(_ context.Context, r domain.CongestionReading) (domain.CongestionReading, error) {
	r = prepareReading(r, uuid.NewString)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return r, nil
}

func (m *MemoryStore) Analytics(_ context.Context, corridorID string) ([]domain.AnalyticsPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	points := m.analytics[corridorID]
	out := make([]domain.AnalyticsPoint, len(points))
	copy(out, points)
	return out, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrConflict
		}
	}
	if _, ok := m.users[u.ID]; ok {
		return ErrConflict
	}
	m.users[u.ID] = u
	return nil
}

func (m *MemoryStore) UserByEmail(_ context.Context, email string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, ErrNotFound
}

func (m *MemoryStore) UserByID(_ context.Context, id string) (domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) CreateSession(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s
	return nil
}

func (m *MemoryStore) SessionByToken(_ context.Context, token string) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return domain.Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) AppendChat(_ context.Context, msg domain.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chat = append(m.chat, msg)
	return nil
}

func (m *MemoryStore) ChatHistory(_ context.Context, userID string, t domain.ChatType) ([]domain.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ChatMessage, 0)
	for _, msg := range m.chat {
		if msg.UserID == userID && msg.ChatType == t {
			out = append(out, msg)
		}
	}
	return out, nil
}

func (m *MemoryStore) ClearChat(_ context.Context, userID string, t domain.ChatType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.chat[:0]
	for _, msg := range m.chat {
		if msg.UserID == userID && msg.ChatType == t {
			continue
		}
		kept = append(kept, msg)
	}
	m.chat = kept
	return nil
}

func (m *MemoryStore) CreateScenario(_ context.Context, s domain.CostScenario) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarios = append(m.scenarios, s)
	return nil
}

// Scenarios — сохранённые расчёты владельца, новые сверху
func (m *MemoryStore) Scenarios(_ context.Context, ownerID string) ([]domain.CostScenario, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.CostScenario, 0)
	for _, s := range m.scenarios {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) DeleteScenario(_ context.Context, id, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.scenarios {
		if s.ID == id && s.OwnerID == ownerID {
			m.scenarios = append(m.scenarios[:i], m.scenarios[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) LoadSettings(_ context.Context) (Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *MemoryStore) SaveSettings(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}

func (m *MemoryStore) Close() error { return nil }
