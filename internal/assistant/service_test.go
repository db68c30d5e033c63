package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

type fakeProvider struct {
	reply   string
	err     error
	gotType domain.ChatType
	got     []Message
}

func (f *fakeProvider) Complete(_ context.Context, t domain.ChatType, history []Message) (string, error) {
	f.gotType = t
	f.got = history
	return f.reply, f.err
}

var citizen = domain.User{ID: "u1", Role: domain.RoleCitizen}

func TestService_ReplyWithCannedFallback(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, nil, nil)
	ctx := context.Background()

	msg, err := svc.Reply(ctx, citizen, domain.ChatCitizen, "  Is it going to rain?  ")
	require.NoError(t, err)
	assert.Equal(t, domain.ChatResponses["weather"], msg.Content)
	assert.Equal(t, domain.MessageRoleAssistant, msg.Role)

	history, err := svc.History(ctx, citizen, domain.ChatCitizen)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Is it going to rain?", history[0].Content)
	assert.True(t, history[1].CreatedAt.After(history[0].CreatedAt))
}

func TestService_ReplySendsHistoryToProvider(t *testing.T) {
	st := store.NewMemoryStore()
	p := &fakeProvider{reply: "Use Inner Ring Road."}
	svc := NewService(st, p, nil)
	ctx := context.Background()

	_, err := svc.Reply(ctx, citizen, domain.ChatAuthority, "first")
	require.NoError(t, err)
	_, err = svc.Reply(ctx, citizen, domain.ChatAuthority, "second")
	require.NoError(t, err)

	assert.Equal(t, domain.ChatAuthority, p.gotType)
	require.Len(t, p.got, 3)
	assert.Equal(t, Message{Role: "user", Content: "first"}, p.got[0])
	assert.Equal(t, Message{Role: "assistant", Content: "Use Inner Ring Road."}, p.got[1])
	assert.Equal(t, Message{Role: "user", Content: "second"}, p.got[2])
}

func TestService_ProviderErrorIsReturned(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, &fakeProvider{err: ErrRateLimited}, nil)

	_, err := svc.Reply(context.Background(), citizen, domain.ChatCitizen, "hi")
	assert.Equal(t, apperr.CodeRateLimited, apperr.CodeOf(err))

	// вопрос сохранён, ответа нет
	history, err := st.ChatHistory(context.Background(), citizen.ID, domain.ChatCitizen)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestService_EmptyMessage(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	_, err := svc.Reply(context.Background(), citizen, domain.ChatCitizen, "   ")
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}

func TestService_Clear(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewService(st, nil, nil)
	ctx := context.Background()

	_, err := svc.Reply(ctx, citizen, domain.ChatCitizen, "traffic")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, citizen, domain.ChatCitizen))

	history, err := svc.History(ctx, citizen, domain.ChatCitizen)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestService_CompleteTrimsHistory(t *testing.T) {
	p := &fakeProvider{reply: "ok"}
	svc := NewService(store.NewMemoryStore(), p, nil)

	history := make([]Message, 30)
	for i := range history {
		history[i] = Message{Role: "user", Content: "q"}
	}
	_, err := svc.Complete(context.Background(), domain.ChatCitizen, history)
	require.NoError(t, err)
	assert.Len(t, p.got, maxHistory)
}

func TestService_CompleteCannedUsesLastUserMessage(t *testing.T) {
	svc := NewService(store.NewMemoryStore(), nil, nil)

	reply, err := svc.Complete(context.Background(), domain.ChatCitizen, []Message{
		{Role: "user", Content: "weather?"},
		{Role: "assistant", Content: "clear"},
		{Role: "user", Content: "peak hours?"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChatResponses["peak"], reply)
}
