package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

// сколько последних реплик уходит в модель
const maxHistory = 20

// Service хранит историю чата и получает ответы от провайдера.
// provider == nil — отвечаем заготовками (Canned).
type Service struct {
	store    store.Store
	provider Provider
	log      *zap.Logger
	now      func() time.Time
}

func NewService(s store.Store, p Provider, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: s, provider: p, log: log, now: time.Now}
}

// Reply сохраняет сообщение пользователя, получает ответ и сохраняет его.
func (s *Service) Reply(ctx context.Context, u domain.User, t domain.ChatType, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, apperr.InvalidInput("message is required")
	}

	userMsg := domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ChatType:  t,
		Role:      domain.MessageRoleUser,
		Content:   text,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendChat(ctx, userMsg); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save message: %w", err)
	}

	history, err := s.store.ChatHistory(ctx, u.ID, t)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("load history: %w", err)
	}

	reply, err := s.Complete(ctx, t, toMessages(history))
	if err != nil {
		return domain.ChatMessage{}, err
	}

	created := s.now()
	// ответ должен идти строго после вопроса
	if !created.After(userMsg.CreatedAt) {
		created = userMsg.CreatedAt.Add(time.Millisecond)
	}
	answer := domain.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ChatType:  t,
		Role:      domain.MessageRoleAssistant,
		Content:   reply,
		CreatedAt: created,
	}
	if err := s.store.AppendChat(ctx, answer); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("save reply: %w", err)
	}
	return answer, nil
}

// Complete — ответ на переданную историю без сохранения
func (s *Service) Complete(ctx context.Context, t domain.ChatType, history []Message) (string, error) {
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	if s.provider == nil {
		return Canned(t, lastUserText(history)), nil
	}

	start := s.now()
	reply, err := s.provider.Complete(ctx, t, history)
	if err != nil {
		s.log.Warn("assistant provider failed", zap.String("chat_type", string(t)), zap.Error(err))
		return "", err
	}
	s.log.Debug("assistant replied", zap.String("chat_type", string(t)), zap.Duration("took", time.Since(start)))
	return reply, nil
}

func (s *Service) History(ctx context.Context, u domain.User, t domain.ChatType) ([]domain.ChatMessage, error) {
	return s.store.ChatHistory(ctx, u.ID, t)
}

func (s *Service) Clear(ctx context.Context, u domain.User, t domain.ChatType) error {
	return s.store.ClearChat(ctx, u.ID, t)
}

func toMessages(history []domain.ChatMessage) []Message {
	out := make([]Message, 0, len(history))
	for _, m := range history {
		out = append(out, Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func lastUserText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == domain.MessageRoleUser {
			return history[i].Content
		}
	}
	return ""
}
