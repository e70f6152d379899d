package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/toastd/pkg/render"
	"github.com/vango-dev/toastd/pkg/toast"
	"github.com/vango-dev/toastd/pkg/vdom"
)

// FrameSync is sent once per connection with the full overlay HTML.
const FrameSync = "sync"

// Frame is a server-to-browser message. Type is FrameSync or one of the
// toast.EventType values.
type Frame struct {
	Type     string `json:"type"`
	Handle   string `json:"handle,omitempty"`
	HTML     string `json:"html,omitempty"`
	Overlay  string `json:"overlay,omitempty"`
	Reason   string `json:"reason,omitempty"`
	ActionID string `json:"actionId,omitempty"`
}

// Client operations.
const (
	OpDismiss = "dismiss"
	OpAction  = "action"
)

// ClientMessage is a browser-to-server message.
type ClientMessage struct {
	Op     string `json:"op"`
	Handle string `json:"handle"`
}

// Hub mirrors a Center to connected browsers. It is a toast.Observer;
// OnEvent never blocks: frames are queued per client and clients whose
// queue is full are disconnected.
type Hub struct {
	center   *toast.Center
	config   *Config
	renderer *render.Renderer
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewHub creates a hub for center. Subscribe it to the center to start
// broadcasting.
func NewHub(center *toast.Center, config *Config, logger *slog.Logger) *Hub {
	config = config.withDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		center:   center,
		config:   config,
		renderer: render.NewRenderer(),
		logger:   logger.With("component", "hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// OnEvent implements toast.Observer.
func (h *Hub) OnEvent(e toast.Event) {
	frame, ok := h.eventFrame(e)
	if !ok {
		return
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("frame encode failed", "type", frame.Type, "error", err)
		return
	}
	h.broadcast(data)
}

func (h *Hub) eventFrame(e toast.Event) (Frame, bool) {
	frame := Frame{
		Type:     string(e.Type),
		Handle:   string(e.Notification.Handle),
		Overlay:  e.Overlay.ID,
		Reason:   string(e.Reason),
		ActionID: e.ActionID,
	}
	switch e.Type {
	case toast.EventOverlayCreated:
		frame.HTML = h.html(toast.OverlayView(e.Overlay, nil))
	case toast.EventShown, toast.EventDismissing:
		frame.HTML = h.html(toast.NotificationView(e.Notification))
	case toast.EventRemoved, toast.EventOverlayDestroyed, toast.EventAction:
	default:
		return Frame{}, false
	}
	return frame, true
}

// syncFrame describes the whole overlay from a center snapshot.
func (h *Hub) syncFrame(ov toast.Overlay, ok bool, items []toast.Notification) Frame {
	if !ok {
		return Frame{Type: FrameSync}
	}
	return Frame{
		Type:    FrameSync,
		Overlay: ov.ID,
		HTML:    h.html(toast.OverlayView(ov, items)),
	}
}

func (h *Hub) html(node *vdom.VNode) string {
	s, err := h.renderer.RenderToString(node)
	if err != nil {
		h.logger.Error("render failed", "error", err)
		return ""
	}
	return s
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow client", "remote", c.conn.RemoteAddr().String())
			h.removeLocked(c)
		}
	}
}

// ServeHTTP upgrades the request and serves the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written an HTTP error.
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, h.config.SendBuffer),
		done: make(chan struct{}),
	}
	if !h.join(c) {
		conn.Close()
		return
	}

	go c.writeLoop()
	c.readLoop()
}

// join registers c and queues its sync frame inside one center turn, so
// the sync frame is always first and every later event follows it.
func (h *Hub) join(c *client) bool {
	var added bool
	attach := func(ov toast.Overlay, ok bool, items []toast.Notification) {
		if added = h.add(c); !added {
			return
		}
		data, err := json.Marshal(h.syncFrame(ov, ok, items))
		if err != nil {
			h.logger.Error("frame encode failed", "type", FrameSync, "error", err)
			return
		}
		// The queue is empty here, so this never blocks.
		c.send <- data
	}
	if !h.center.WithSnapshot(attach) {
		// A stopped center emits nothing more; an empty sync is final.
		attach(toast.Overlay{}, false, nil)
	}
	return added
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.close()
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readLoop applies client operations until the connection fails.
func (c *client) readLoop() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()

	cfg := c.hub.config
	c.conn.SetReadLimit(cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.hub.logger.Error("read error", "error", err)
			}
			return
		}

		var m ClientMessage
		if err := json.Unmarshal(msg, &m); err != nil {
			c.hub.logger.Warn("malformed client message", "error", err)
			continue
		}
		c.hub.apply(m)
	}
}

func (h *Hub) apply(m ClientMessage) {
	handle := toast.Handle(m.Handle)
	switch m.Op {
	case OpDismiss:
		h.center.Dismiss(handle)
	case OpAction:
		h.center.Activate(handle)
	default:
		h.logger.Warn("unknown client op", "op", m.Op)
	}
}

// writeLoop drains the send queue and keeps the connection alive.
func (c *client) writeLoop() {
	cfg := c.hub.config
	ticker := time.NewTicker(cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.hub.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
