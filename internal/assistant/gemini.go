package assistant

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"traffic-dashboard-backend/internal/apperr"
	"traffic-dashboard-backend/internal/domain"
)

// Gemini — прямой доступ к Gemini API вместо шлюза
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	return newGemini(ctx, apiKey, model, "")
}

// newGemini — baseURL пустой означает адрес Gemini API по умолчанию
func newGemini(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	// у шлюза модели с префиксом провайдера, Gemini API его не понимает
	model = strings.TrimPrefix(model, "google/")
	if model == "" {
		model = strings.TrimPrefix(DefaultModel, "google/")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// toContents переводит историю в формат Gemini: роль assistant -> model
func toContents(history []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		var role genai.Role = genai.RoleUser
		if m.Role == domain.MessageRoleAssistant {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}

func (g *Gemini) Complete(ctx context.Context, t domain.ChatType, history []Message) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(t), genai.RoleUser),
	}
	result, err := g.client.Models.GenerateContent(ctx, g.model, toContents(history), cfg)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeUpstream, "Gemini request failed", err)
	}
	text := strings.TrimSpace(result.Text())
	if text == "" {
		return FallbackReply, nil
	}
	return text, nil
}
