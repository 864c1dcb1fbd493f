package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Topics clients can subscribe to
const (
	TopicRuns = "runs"
	TopicAll  = "*"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	gauge      prometheus.Gauge
	logger     *logrus.Logger
}

type Client struct {
	ID     string
	hub    *WebSocketHub
	conn   *websocket.Conn
	send   chan []byte
	mu     sync.RWMutex
	topics map[string]bool
}

type WebSocketMessage struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type Subscription struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Topics []string `json:"topics"`
}

// NewWebSocketHub creates a hub. gauge tracks connected clients and may be nil.
func NewWebSocketHub(logger *logrus.Logger, gauge prometheus.Gauge) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		gauge:      gauge,
		logger:     logger,
	}
}

// Run handles registration until ctx is cancelled, then closes every client
func (h *WebSocketHub) Run(ctx context.Context) {
	h.logger.Info("Starting WebSocket hub")

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.observe(count)
			h.logger.WithField("client_id", client.ID).Info("Client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.observe(count)
			h.logger.WithField("client_id", client.ID).Info("Client unregistered")

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.observe(0)
			h.logger.Info("WebSocket hub stopped")
			return
		}
	}
}

func (h *WebSocketHub) observe(count int) {
	if h.gauge != nil {
		h.gauge.Set(float64(count))
	}
}

// ClientCount returns the number of registered clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers the connection. Clients start subscribed to
// every topic unless ?topics= lists specific ones.
func (h *WebSocketHub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Error("Failed to upgrade WebSocket connection")
		return
	}

	var topics []string
	for _, v := range c.QueryArray("topics") {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
	}

	client := NewClient(h, conn, topics...)
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

// BroadcastToTopic sends a message to every client subscribed to topic. Clients whose
// buffer is full miss the message.
func (h *WebSocketHub) BroadcastToTopic(topic string, messageType string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	message := WebSocketMessage{
		Type:      messageType,
		Topic:     topic,
		Data:      jsonData,
		Timestamp: time.Now().UTC(),
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.IsSubscribedTo(topic) {
			continue
		}
		select {
		case client.send <- messageBytes:
		default:
			h.logger.WithField("client_id", client.ID).Warn("WebSocket client buffer full, message dropped")
		}
	}

	return nil
}

// NewClient builds a client for conn subscribed to topics, or to everything when none are given
func NewClient(hub *WebSocketHub, conn *websocket.Conn, topics ...string) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topics: make(map[string]bool),
	}
	if len(topics) == 0 {
		topics = []string{TopicAll}
	}
	c.apply(Subscription{Action: "subscribe", Topics: topics})
	return c
}

func (c *Client) apply(sub Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch sub.Action {
	case "subscribe":
		for _, topic := range sub.Topics {
			c.topics[topic] = true
		}
	case "unsubscribe":
		for _, topic := range sub.Topics {
			delete(c.topics, topic)
		}
	}
}

// IsSubscribedTo reports whether the client receives topic
func (c *Client) IsSubscribedTo(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic] || c.topics[TopicAll]
}

func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var sub Subscription
		if err := c.conn.ReadJSON(&sub); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).WithField("client_id", c.ID).Warn("WebSocket read failed")
			}
			return
		}
		c.apply(sub)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
