// Package live — рассылка свежих замеров по WebSocket и оповещения о горячих точках.
package live

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"traffic-dashboard-backend/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // клиент шлёт только ping
	sendBuffer     = 256
)

// Event — сообщение клиенту
type Event struct {
	Type string `json:"type"` // snapshot / congestion / pong / error
	Data any    `json:"data,omitempty"`
}

// SnapshotFunc — текущее состояние, уходит клиенту сразу после подключения
type SnapshotFunc func(ctx context.Context) ([]domain.CongestionReading, error)

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// close просит writePump попрощаться с клиентом и закрыть соединение
func (c *client) close() {
	c.once.Do(func() { close(c.done) })
}

// Hub держит подключения /ws/congestion и рассылает им события
type Hub struct {
	upgrader websocket.Upgrader
	snapshot SnapshotFunc
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	wg      sync.WaitGroup
	closed  bool
}

func NewHub(snapshot SnapshotFunc, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// страницы могут отдаваться с другого origin (dev-сервер фронта)
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		snapshot: snapshot,
		log:      log,
		clients:  make(map[*client]struct{}),
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}

	if h.isClosed() {
		h.goingAway(conn)
		return
	}

	// снимок кладём в буфер до регистрации, чтобы Publish не обогнал его
	if h.snapshot != nil {
		readings, err := h.snapshot(r.Context())
		if err != nil {
			h.log.Warn("websocket snapshot failed", zap.Error(err))
		} else {
			h.sendTo(c, Event{Type: "snapshot", Data: readings})
		}
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		h.goingAway(conn)
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(2)
	h.mu.Unlock()

	go h.readPump(c)
	go h.writePump(c)
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

func (h *Hub) goingAway(conn *websocket.Conn) {
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
	_ = conn.Close()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		h.wg.Done()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		var in struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &in); err != nil || in.Type != "ping" {
			h.sendTo(c, Event{Type: "error", Data: "unsupported message"})
			continue
		}
		h.sendTo(c, Event{Type: "pong"})
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
		_ = c.conn.Close()
		h.wg.Done()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// sendTo кладёт сообщение в буфер клиента; медленного клиента отключаем
func (h *Hub) sendTo(c *client, ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("failed to marshal event", zap.Error(err))
		return
	}
	select {
	case c.send <- msg:
	default:
		h.log.Warn("websocket send buffer full, dropping client")
		c.close()
	}
}

// Publish рассылает новый замер всем подключённым клиентам
func (h *Hub) Publish(r domain.CongestionReading) {
	h.broadcast(Event{Type: "congestion", Data: r})
}

func (h *Hub) broadcast(ev Event) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		h.sendTo(c, ev)
	}
}

// Count — число подключённых клиентов
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close отключает всех клиентов и ждёт завершения их горутин
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		c.close()
	}
	h.wg.Wait()
}

// Run живёт до отмены ctx, затем закрывает хаб. Удобно для errgroup.
func (h *Hub) Run(ctx context.Context) error {
	<-ctx.Done()
	h.Close()
	return nil
}
