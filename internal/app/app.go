// Package app собирает сервисы и HTTP-маршруты из конфигурации.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/assistant"
	"traffic-dashboard-backend/internal/auth"
	"traffic-dashboard-backend/internal/config"
	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/handlers"
	"traffic-dashboard-backend/internal/live"
	"traffic-dashboard-backend/internal/store"
)

const osrmTimeout = 10 * time.Second

type App struct {
	mux *http.ServeMux
	Env *handlers.Env

	Hub      *live.Hub
	Notifier *live.TelegramNotifier
	Auth     *auth.Service
	log      *zap.Logger
}

func New(ctx context.Context, cfg config.Config, st store.Store, log *zap.Logger, version string) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// 1. Внешний LLM (или заготовленные ответы)
	provider, err := newProvider(ctx, cfg.Assistant, log)
	if err != nil {
		return nil, err
	}

	// 2. Живая лента и оповещения
	hub := live.NewHub(st.LatestCongestion, log.Named("live"))
	notifier := live.NewTelegramNotifier(st, live.TelegramTarget{
		BotToken: cfg.Telegram.BotToken,
		ChatID:   cfg.Telegram.ChatID,
	}, log.Named("telegram"))

	authSvc := auth.NewService(st, cfg.Session.TTL, log.Named("auth"))

	env := &handlers.Env{
		Store:     st,
		Auth:      authSvc,
		Assistant: assistant.NewService(st, provider, log.Named("assistant")),
		Ingestor:  live.NewIngestor(st, hub, notifier, log.Named("ingest")),

		CostFactors: domain.NewDefaultCostFactors(),

		OSRMBaseURL:  cfg.Routing.OSRMBaseURL,
		RouteTimeout: osrmTimeout,

		Version: version,

		Log:   log.Named("http"),
		Pages: handlers.ParsePages(),
	}

	registerRoutes(mux, env, hub)

	return &App{
		mux:      mux,
		Env:      env,
		Hub:      hub,
		Notifier: notifier,
		Auth:     authSvc,
		log:      log,
	}, nil
}

func (a *App) Router() http.Handler {
	return handlers.WithLogging(a.log.Named("http"), a.mux)
}

// newProvider — nil, если ассистент отвечает заготовками
func newProvider(ctx context.Context, cfg config.AssistantConfig, log *zap.Logger) (assistant.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGateway:
		return assistant.NewGateway(cfg.GatewayURL, cfg.APIKey, cfg.Model, cfg.Timeout, log.Named("gateway")), nil
	case config.ProviderGemini:
		g, err := assistant.NewGemini(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("gemini provider: %w", err)
		}
		return g, nil
	default:
		return nil, nil
	}
}
