package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

// Gateway — клиент OpenAI-совместимого шлюза (POST {base}/v1/chat/completions)
type Gateway struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	log     *zap.Logger
}

func NewGateway(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

func (g *Gateway) Complete(ctx context.Context, t domain.ChatType, history []Message) (string, error) {
	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, Message{Role: "system", Content: SystemPrompt(t)})
	msgs = append(msgs, history...)

	body, err := json.Marshal(completionRequest{Model: g.model, Messages: msgs})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	g.log.Debug("gateway request", zap.String("chat_type", string(t)), zap.Int("messages", len(history)))

	resp, err := g.http.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeUpstream, "AI gateway unavailable", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeUpstream, "AI gateway unavailable", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", ErrRateLimited
	case resp.StatusCode == http.StatusPaymentRequired:
		return "", ErrPaymentRequired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		g.log.Warn("AI gateway error", zap.Int("status", resp.StatusCode), zap.ByteString("body", data))
		return "", apperr.New(apperr.CodeUpstream, fmt.Sprintf("AI gateway error: %d", resp.StatusCode))
	}

	content := gjson.GetBytes(data, "choices.0.message.content").String()
	if strings.TrimSpace(content) == "" {
		return FallbackReply, nil
	}
	return content, nil
}
