// Package assistant — чат-ассистент: внешний LLM (шлюз или Gemini) либо заготовленные ответы.
package assistant

import (
	"context"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

// Message — реплика в формате chat/completions
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider — внешний LLM. history уже содержит последнее сообщение пользователя.
type Provider interface {
	Complete(ctx context.Context, t domain.ChatType, history []Message) (string, error)
}

const DefaultModel = "google/gemini-2.5-flash"

// FallbackReply — когда модель вернула пустой ответ
const FallbackReply = "I apologize, I couldn't generate a response."

var (
	ErrRateLimited     = apperr.New(apperr.CodeRateLimited, "Rate limit exceeded. Please try again later.")
	ErrPaymentRequired = apperr.New(apperr.CodePaymentRequired, "Payment required. Please add credits to your workspace.")
)
