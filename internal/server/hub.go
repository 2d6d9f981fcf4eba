package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Message types sent to viewers.
const (
	MessageFrame = "frame"
	MessageClick = "click"
)

// Message is the envelope for server to viewer messages.
type Message struct {
	Type string  `json:"type"`
	SVG  string  `json:"svg,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// Pointer message types sent by viewers.
const (
	PointerMove  = "pointermove"
	PointerLeave = "pointerleave"
	PointerClick = "click"
)

// ClientMessage is a pointer event from a viewer, in surface coordinates.
type ClientMessage struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Client is one connected viewer.
type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan Message
	limiter *rate.Limiter
	log     *logrus.Logger
}

// Hub tracks viewers and fans frames out to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	viewers func(n int)
	log     *logrus.Logger
}

// NewHub creates a hub. viewers, when set, observes the client count.
func NewHub(logger *logrus.Logger, viewers func(n int)) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		viewers: viewers,
		log:     logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.observe(n)
	h.log.WithField("viewer", c.id).Debug("Viewer connected")
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.observe(n)
	h.log.WithField("viewer", c.id).Debug("Viewer disconnected")
}

func (h *Hub) observe(n int) {
	if h.viewers != nil {
		h.viewers(n)
	}
}

// Broadcast queues msg for every client. Clients with a full buffer miss it.
func (h *Hub) Broadcast(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.log.WithField("viewer", c.id).Warn("Viewer send buffer full, dropping frame")
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (c *Client) writePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, c.conn, msg)
			cancel()
			if err != nil {
				c.log.WithError(err).Debug("Websocket write failed")
				return
			}
		}
	}
}

// readPump decodes pointer messages until the viewer disconnects. Pointer
// moves beyond the rate limit are dropped.
func (c *Client) readPump(ctx context.Context, handle func(ClientMessage)) {
	for {
		var msg ClientMessage
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			return
		}
		if msg.Type == PointerMove && !c.limiter.Allow() {
			continue
		}
		handle(msg)
	}
}
