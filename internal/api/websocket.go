package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"otlabs.dev/labgate/internal/labctl"
	"otlabs.dev/labgate/internal/logging"
	"otlabs.dev/labgate/internal/metrics"
)

// statusInterval is how often the hub polls the lab controller while any
// client is connected.
const statusInterval = 2 * time.Second

// WSMessage is a topic-based message sent to clients
type WSMessage struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

// wsClient represents a connected client with its topic subscriptions.
// Every client receives "status"; other topics are opt-in via a
// subscribe message.
type wsClient struct {
	conn   *websocket.Conn
	topics map[string]bool
	send   chan []byte
}

// WSHub fans lab status out to connected websocket clients. Delivery is
// best effort: a client that cannot keep up has messages dropped rather
// than stalling the broadcast, and a missed update is superseded by the
// next poll anyway.
type WSHub struct {
	clients    map[*wsClient]bool
	register   chan *wsClient
	unregister chan *wsClient
	mutex      sync.RWMutex

	lab      labctl.Client
	logger   *logging.Logger
	statusCh chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewWSHub creates the hub and starts its broadcast and polling loops.
func NewWSHub(lab labctl.Client, logger *logging.Logger) *WSHub {
	if logger == nil {
		logger = logging.WithComponent("ws")
	}
	h := &WSHub{
		clients:    make(map[*wsClient]bool),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		lab:        lab,
		logger:     logger,
		statusCh:   make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	go h.run()
	go h.statusLoop()
	return h
}

// Stop shuts the hub down and disconnects all clients.
func (h *WSHub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *WSHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			metrics.Get().WSClients.Inc()
		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
				metrics.Get().WSClients.Dec()
			}
			h.mutex.Unlock()
		case <-h.done:
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
				metrics.Get().WSClients.Dec()
			}
			h.mutex.Unlock()
			return
		}
	}
}

// Publish sends a message to all clients subscribed to the given topic.
// The "status" topic is always delivered.
func (h *WSHub) Publish(topic string, data any) {
	msgBytes, err := json.Marshal(WSMessage{Topic: topic, Data: data})
	if err != nil {
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		if topic == "status" || client.topics[topic] {
			select {
			case client.send <- msgBytes:
			default:
				// Client buffer full, skip
			}
		}
	}
}

// TriggerStatusUpdate forces an immediate status broadcast, used after a
// successful protocol switch so clients see the change before the next
// poll tick.
func (h *WSHub) TriggerStatusUpdate() {
	select {
	case h.statusCh <- struct{}{}:
	default:
		// Already triggered
	}
}

// ClientCount returns the number of connected clients.
func (h *WSHub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// statusLoop polls the lab controller and publishes the active protocol.
func (h *WSHub) statusLoop() {
	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	publishStatus := func() {
		if h.lab == nil || h.ClientCount() == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), statusInterval)
		status := h.lab.GetStatus(ctx)
		cancel()
		h.Publish("status", status)
	}

	for {
		select {
		case <-ticker.C:
			publishStatus()
		case <-h.statusCh:
			publishStatus()
		case <-h.done:
			return
		}
	}
}

// readPump handles incoming subscription messages from a client.
func (c *wsClient) readPump(h *WSHub) {
	// run() is gone once the hub stops, so the unregister send must not
	// block past that point.
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg struct {
			Action string   `json:"action"`
			Topics []string `json:"topics"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		switch msg.Action {
		case "subscribe":
			for _, topic := range msg.Topics {
				c.topics[topic] = true
			}
		case "unsubscribe":
			for _, topic := range msg.Topics {
				delete(c.topics, topic)
			}
		}
	}
}

// writePump sends messages to the client.
func (c *wsClient) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}

// newUpgrader builds an upgrader whose origin check mirrors the HTTP
// origin gate: same host, or one of the configured allowed hosts.
func newUpgrader(allowedHosts []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			u, err := url.Parse(origin)
			if err != nil || u.Host == "" {
				return false
			}
			if hostMatches(u, r.Host) {
				return true
			}
			for _, h := range allowedHosts {
				if hostMatches(u, h) {
					return true
				}
			}
			return false
		},
	}
}

// handleStatusWS upgrades the connection and registers the client with
// the hub.
func (s *Server) handleStatusWS(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "Websockets not enabled", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "error", err, "ip", getClientIP(r))
		return
	}

	client := &wsClient{
		conn:   conn,
		topics: map[string]bool{"status": true},
		send:   make(chan []byte, 16),
	}
	select {
	case s.hub.register <- client:
	case <-s.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(s.hub)

	// Push the current status to the new client right away.
	s.hub.TriggerStatusUpdate()
}
