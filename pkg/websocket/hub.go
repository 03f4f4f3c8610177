// Package websocket pushes JSON frames to browser clients over WebSocket.
package websocket

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Frame is the envelope of every message sent to clients.
type Frame struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Hub accepts WebSocket clients and fans frames out to all of them.
// Clients are receive-only; anything they send is discarded.
type Hub struct {
	upgrader websocket.Upgrader
	config   HubConfig
	logger   *zap.Logger
	mu       sync.RWMutex
	clients  map[string]*client
	closed   atomic.Bool
}

// HubConfig holds hub configuration.
type HubConfig struct {
	PingInterval time.Duration
	PongTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int          // per-client queued frames before dropping
	Welcome      func() Frame // optional, sent to each new client first
	CheckOrigin  func(r *http.Request) bool
	Logger       *zap.Logger
}

type client struct {
	id          string
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	connectedAt time.Time
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// NewHub creates a new hub.
func NewHub(cfg HubConfig) (*Hub, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 30 * time.Second
	}
	if cfg.PongTimeout <= cfg.PingInterval {
		cfg.PongTimeout = cfg.PingInterval * 2
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 64
	}

	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     cfg.CheckOrigin,
		},
		config:  cfg,
		logger:  cfg.Logger,
		clients: make(map[string]*client),
	}, nil
}

// ServeHTTP upgrades the request and serves the client until it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.closed.Load() {
		http.Error(w, "hub closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logger.Warn("websocket-upgrade-failed", zap.Error(err))
		return
	}

	c := &client{
		id:          uuid.New().String(),
		conn:        conn,
		send:        make(chan []byte, h.config.BufferSize),
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}

	if h.config.Welcome != nil {
		if payload, err := encode(h.config.Welcome()); err == nil {
			c.send <- payload
		}
	}

	h.register(c)
	defer h.unregister(c)

	go h.writeLoop(c)
	h.readLoop(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	count := len(h.clients)
	h.mu.Unlock()

	ActiveClients.Set(float64(count))
	h.logger.Info("websocket-client-connected",
		zap.String("client_id", c.id),
		zap.Int("clients", count))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c.id)
	count := len(h.clients)
	h.mu.Unlock()

	c.close()

	ActiveClients.Set(float64(count))
	ConnectionDuration.Observe(time.Since(c.connectedAt).Seconds())
	h.logger.Info("websocket-client-disconnected",
		zap.String("client_id", c.id),
		zap.Int("clients", count))
}

// readLoop drains client messages so control frames are processed.
func (h *Hub) readLoop(c *client) {
	_ = c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.config.PongTimeout))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket-read-error",
					zap.String("client_id", c.id),
					zap.Error(err))
			}
			return
		}
	}
}

// writeLoop is the only writer of c.conn.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case payload := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.logger.Debug("websocket-write-error",
					zap.String("client_id", c.id),
					zap.Error(err))
				c.close()
				return
			}
		case <-ticker.C:
			err := c.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(h.config.WriteTimeout))
			if err != nil {
				h.logger.Debug("websocket-ping-error",
					zap.String("client_id", c.id),
					zap.Error(err))
				c.close()
				return
			}
		}
	}
}

// Broadcast queues a frame to every client. Slow clients whose buffer is
// full miss the frame.
func (h *Hub) Broadcast(frameType string, data any) {
	if h.closed.Load() {
		return
	}

	payload, err := encode(Frame{Type: frameType, Data: data})
	if err != nil {
		h.logger.Error("websocket-frame-encode-failed",
			zap.String("frame_type", frameType),
			zap.Error(err))
		FramesDroppedTotal.WithLabelValues("encode_error").Inc()
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.send <- payload:
			FramesSentTotal.WithLabelValues(frameType).Inc()
		default:
			FramesDroppedTotal.WithLabelValues("buffer_full").Inc()
			h.logger.Warn("websocket-client-buffer-full",
				zap.String("client_id", c.id),
				zap.String("frame_type", frameType))
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients and rejects new ones.
func (h *Hub) Close() error {
	if h.closed.Swap(true) {
		return nil
	}

	h.logger.Info("closing-websocket-hub")

	h.mu.RLock()
	for _, c := range h.clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.close()
	}
	h.mu.RUnlock()

	return nil
}

func encode(frame Frame) ([]byte, error) {
	payload, err := json.Marshal(frame)
	if err != nil {
		return nil, fmt.Errorf("marshal frame: %w", err)
	}
	return payload, nil
}
