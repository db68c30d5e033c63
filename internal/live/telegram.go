package live

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/domain"
	"traffic-dashboard-backend/internal/store"
)

const telegramAPI = "https://api.telegram.org"

// TelegramTarget — куда слать: токен бота и чат
type TelegramTarget struct {
	BotToken string
	ChatID   string
}

// TelegramNotifier шлёт оповещения о горячих точках в чат дорожной службы.
// Токен и чат берутся из таблицы settings, пустые значения — из конфига.
type TelegramNotifier struct {
	store    store.Store
	fallback TelegramTarget
	apiBase  string
	http     *http.Client
	log      *zap.Logger
	wg       sync.WaitGroup
}

func NewTelegramNotifier(s store.Store, fallback TelegramTarget, log *zap.Logger) *TelegramNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &TelegramNotifier{
		store:    s,
		fallback: fallback,
		apiBase:  telegramAPI,
		http:     &http.Client{Timeout: 10 * time.Second},
		log:      log,
	}
}

// target читает настройки из БД, при ошибках — из конфига
func (n *TelegramNotifier) target(ctx context.Context) TelegramTarget {
	t := n.fallback
	st, err := n.store.LoadSettings(ctx)
	if err != nil {
		n.log.Warn("telegram: load settings", zap.Error(err))
		return t
	}
	if v := strings.TrimSpace(st.TelegramBotToken); v != "" {
		t.BotToken = v
	}
	if v := strings.TrimSpace(st.TelegramChatID); v != "" {
		t.ChatID = v
	}
	return t
}

// send — низкоуровневый отправитель сообщений
func (n *TelegramNotifier) send(ctx context.Context, text string) error {
	t := n.target(ctx)
	if t.BotToken == "" || t.ChatID == "" {
		n.log.Debug("telegram: skip send, empty bot token or chat id")
		return nil
	}

	form := url.Values{}
	form.Set("chat_id", t.ChatID)
	form.Set("text", text)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		n.apiBase+"/bot"+t.BotToken+"/sendMessage", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.http.Do(req)
	if err != nil {
		// в ошибке url с токеном — не логируем её целиком
		return fmt.Errorf("telegram: send failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("telegram: non-OK status %s", resp.Status)
	}
	return nil
}

// HotspotText — текст оповещения о районе, где ожидается high
func HotspotText(r domain.CongestionReading) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ Congestion hotspot forming: <b>%s</b>\n\n", html.EscapeString(r.AreaName))
	fmt.Fprintf(&b, "Now: %s\n", r.Level.Label())
	fmt.Fprintf(&b, "Expected: %s\n", r.NearTermPrediction().Label())
	fmt.Fprintf(&b, "Speed: %.1f km/h\n", r.CurrentSpeed)
	fmt.Fprintf(&b, "Density: %.0f vehicles/km\n", r.VehicleDensity)
	if r.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", html.EscapeString(r.Reason))
	}
	return b.String()
}

// NotifyHotspot отправляет оповещение в фоне.
// Не используем request-context, а отдельный фоновый контекст.
func (n *TelegramNotifier) NotifyHotspot(r domain.CongestionReading) {
	text := HotspotText(r)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := n.send(ctx, text); err != nil {
			n.log.Warn("hotspot alert not delivered", zap.String("area", r.AreaName), zap.Error(err))
			return
		}
		n.log.Info("hotspot alert sent", zap.String("area", r.AreaName))
	}()
}

// Wait ждёт отправки уже запущенных оповещений
func (n *TelegramNotifier) Wait() {
	n.wg.Wait()
}
