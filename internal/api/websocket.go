package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	EventID   string      `json:"eventId,omitempty"`
}

// WebSocketConnection represents a single WebSocket connection
type WebSocketConnection struct {
	ID         string
	Conn       *websocket.Conn
	Send       chan WebSocketMessage
	RemoteAddr string

	lastPong atomic.Int64

	mu         sync.RWMutex
	eventTypes map[string]bool // empty means all events
}

func (c *WebSocketConnection) wants(eventType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.eventTypes) == 0 || c.eventTypes[eventType]
}

func (c *WebSocketConnection) subscribe(eventTypes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, et := range eventTypes {
		c.eventTypes[et] = true
	}
}

func (c *WebSocketConnection) unsubscribe(eventTypes []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, et := range eventTypes {
		delete(c.eventTypes, et)
	}
}

// WebSocketManager manages WebSocket connections and message broadcasting
type WebSocketManager struct {
	connections map[string]*WebSocketConnection
	mutex       sync.RWMutex
	upgrader    websocket.Upgrader
	logger      *logrus.Logger
	broadcast   chan WebSocketMessage
	register    chan *WebSocketConnection
	unregister  chan *WebSocketConnection
	done        chan struct{}
	stopOnce    sync.Once

	// Configuration
	pingInterval   time.Duration
	pongTimeout    time.Duration
	writeTimeout   time.Duration
	maxMessageSize int64
	maxConnections int
}

// NewWebSocketManager creates a new WebSocket manager
func NewWebSocketManager(logger *logrus.Logger) *WebSocketManager {
	return &WebSocketManager{
		connections: make(map[string]*WebSocketConnection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Receiver UIs are served from arbitrary local origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:         logger,
		broadcast:      make(chan WebSocketMessage, 64),
		register:       make(chan *WebSocketConnection),
		unregister:     make(chan *WebSocketConnection),
		done:           make(chan struct{}),
		pingInterval:   30 * time.Second,
		pongTimeout:    60 * time.Second,
		writeTimeout:   10 * time.Second,
		maxMessageSize: 512,
		maxConnections: 32,
	}
}

// Start starts the WebSocket manager
func (wsm *WebSocketManager) Start(ctx context.Context) {
	wsm.logger.Info("Starting WebSocket manager")
	go wsm.run(ctx)
}

// Stop stops the WebSocket manager. It is safe to call more than once.
func (wsm *WebSocketManager) Stop() {
	wsm.stopOnce.Do(func() {
		wsm.logger.Info("Stopping WebSocket manager")
		close(wsm.done)
	})
}

// run is the main loop for the WebSocket manager
func (wsm *WebSocketManager) run(ctx context.Context) {
	ticker := time.NewTicker(wsm.pingInterval)
	defer ticker.Stop()
	defer wsm.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case <-wsm.done:
			return
		case conn := <-wsm.register:
			wsm.registerConnection(conn)
		case conn := <-wsm.unregister:
			wsm.unregisterConnection(conn)
		case message := <-wsm.broadcast:
			wsm.broadcastMessage(message)
		case <-ticker.C:
			wsm.pingConnections()
		}
	}
}

// registerConnection registers a new WebSocket connection
func (wsm *WebSocketManager) registerConnection(conn *WebSocketConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if len(wsm.connections) >= wsm.maxConnections {
		wsm.logger.WithField("connectionId", conn.ID).Warn("Maximum WebSocket connections reached")
		close(conn.Send)
		return
	}

	wsm.connections[conn.ID] = conn
	wsm.logger.WithFields(logrus.Fields{
		"connectionId": conn.ID,
		"remoteAddr":   conn.RemoteAddr,
		"totalConns":   len(wsm.connections),
	}).Info("WebSocket connection registered")

	wsm.trySend(conn, WebSocketMessage{
		Type:      "welcome",
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"connectionId": conn.ID,
		},
	})
}

// unregisterConnection unregisters a WebSocket connection
func (wsm *WebSocketManager) unregisterConnection(conn *WebSocketConnection) {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	if _, exists := wsm.connections[conn.ID]; exists {
		delete(wsm.connections, conn.ID)
		close(conn.Send)

		wsm.logger.WithFields(logrus.Fields{
			"connectionId": conn.ID,
			"totalConns":   len(wsm.connections),
		}).Info("WebSocket connection unregistered")
	}
}

func (wsm *WebSocketManager) closeAll() {
	wsm.mutex.Lock()
	defer wsm.mutex.Unlock()

	for id, conn := range wsm.connections {
		delete(wsm.connections, id)
		close(conn.Send)
	}
}

// broadcastMessage sends a message to every subscribed connection
func (wsm *WebSocketManager) broadcastMessage(message WebSocketMessage) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	sentCount := 0
	for _, conn := range wsm.connections {
		if !conn.wants(message.Type) {
			continue
		}
		select {
		case conn.Send <- message:
			sentCount++
		default:
			wsm.logger.WithField("connectionId", conn.ID).Warn("Connection buffer full, closing connection")
			conn.Conn.Close()
		}
	}

	wsm.logger.WithFields(logrus.Fields{
		"messageType": message.Type,
		"sentCount":   sentCount,
	}).Debug("Message broadcasted to WebSocket connections")
}

// pingConnections sends ping frames and drops connections that stopped answering
func (wsm *WebSocketManager) pingConnections() {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	for _, conn := range wsm.connections {
		if time.Since(time.Unix(0, conn.lastPong.Load())) > wsm.pongTimeout {
			wsm.logger.WithField("connectionId", conn.ID).Warn("WebSocket connection timed out")
			conn.Conn.Close()
			continue
		}

		deadline := time.Now().Add(wsm.writeTimeout)
		if err := conn.Conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
			wsm.logger.WithError(err).WithField("connectionId", conn.ID).Warn("Failed to send ping")
			conn.Conn.Close()
		}
	}
}

// BroadcastEvent queues an event for all connected clients
func (wsm *WebSocketManager) BroadcastEvent(eventType string, data interface{}) {
	message := WebSocketMessage{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
		EventID:   uuid.NewString(),
	}

	select {
	case wsm.broadcast <- message:
	default:
		wsm.logger.WithField("eventType", eventType).Warn("Broadcast channel full, dropping message")
	}
}

// GetConnectionCount returns the current number of WebSocket connections
func (wsm *WebSocketManager) GetConnectionCount() int {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()
	return len(wsm.connections)
}

// HandleWebSocketConnection upgrades the request and starts the connection pumps
func (wsm *WebSocketManager) HandleWebSocketConnection(w http.ResponseWriter, r *http.Request) error {
	conn, err := wsm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	wsConn := &WebSocketConnection{
		ID:         uuid.NewString(),
		Conn:       conn,
		Send:       make(chan WebSocketMessage, 16),
		RemoteAddr: r.RemoteAddr,
		eventTypes: make(map[string]bool),
	}
	wsConn.lastPong.Store(time.Now().UnixNano())

	conn.SetReadLimit(wsm.maxMessageSize)
	conn.SetPongHandler(func(string) error {
		wsConn.lastPong.Store(time.Now().UnixNano())
		return nil
	})

	select {
	case wsm.register <- wsConn:
	case <-wsm.done:
		conn.Close()
		return nil
	}

	go wsm.writePump(wsConn)
	go wsm.readPump(wsConn)

	return nil
}

// writePump handles writing messages to the WebSocket connection
func (wsm *WebSocketManager) writePump(conn *WebSocketConnection) {
	defer conn.Conn.Close()

	for message := range conn.Send {
		conn.Conn.SetWriteDeadline(time.Now().Add(wsm.writeTimeout))
		if err := conn.Conn.WriteJSON(message); err != nil {
			wsm.logger.WithError(err).WithField("connectionId", conn.ID).Debug("Failed to write WebSocket message")
			return
		}
	}

	conn.Conn.SetWriteDeadline(time.Now().Add(wsm.writeTimeout))
	conn.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump handles reading messages from the WebSocket connection
func (wsm *WebSocketManager) readPump(conn *WebSocketConnection) {
	defer func() {
		select {
		case wsm.unregister <- conn:
		case <-wsm.done:
		}
		conn.Conn.Close()
	}()

	for {
		messageType, data, err := conn.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsm.logger.WithError(err).WithField("connectionId", conn.ID).Debug("WebSocket connection error")
			}
			return
		}

		if messageType == websocket.TextMessage {
			wsm.handleTextMessage(conn, data)
		}
	}
}

// clientMessage is a control message sent by a websocket client
type clientMessage struct {
	Type       string   `json:"type"`
	EventTypes []string `json:"eventTypes,omitempty"`
}

// handleTextMessage handles text messages from WebSocket clients
func (wsm *WebSocketManager) handleTextMessage(conn *WebSocketConnection, data []byte) {
	var message clientMessage
	if err := json.Unmarshal(data, &message); err != nil {
		wsm.sendError(conn, "Invalid message format")
		return
	}

	switch message.Type {
	case "ping":
		wsm.reply(conn, "pong", map[string]interface{}{"serverTime": time.Now().UTC()})
	case "subscribe":
		conn.subscribe(message.EventTypes)
		wsm.reply(conn, "subscribed", map[string]interface{}{"eventTypes": message.EventTypes})
	case "unsubscribe":
		conn.unsubscribe(message.EventTypes)
		wsm.reply(conn, "unsubscribed", map[string]interface{}{"eventTypes": message.EventTypes})
	default:
		wsm.sendError(conn, "Unknown message type")
	}
}

// reply sends to a connection only while it is registered. Send is closed
// under the same lock.
func (wsm *WebSocketManager) reply(conn *WebSocketConnection, messageType string, data interface{}) {
	wsm.mutex.RLock()
	defer wsm.mutex.RUnlock()

	if _, exists := wsm.connections[conn.ID]; !exists {
		return
	}
	wsm.trySend(conn, WebSocketMessage{
		Type:      messageType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})
}

// sendError sends an error message to a WebSocket connection
func (wsm *WebSocketManager) sendError(conn *WebSocketConnection, errorMsg string) {
	wsm.reply(conn, "error", map[string]interface{}{"error": errorMsg})
}

func (wsm *WebSocketManager) trySend(conn *WebSocketConnection, message WebSocketMessage) {
	select {
	case conn.Send <- message:
	default:
		wsm.logger.WithFields(logrus.Fields{
			"connectionId": conn.ID,
			"messageType":  message.Type,
		}).Warn("Failed to send WebSocket message")
	}
}
