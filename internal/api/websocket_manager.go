package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yumzoom/backend/internal/metrics"
	"github.com/yumzoom/backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsClient struct {
	conn     *websocket.Conn
	send     chan []byte
	userID   uuid.UUID
	sessions map[uuid.UUID]bool
}

// clientCommand is what clients send over the socket: subscribe to or leave
// a collaboration session's live updates.
type clientCommand struct {
	Action    string `json:"action"` // "subscribe" | "unsubscribe"
	SessionID string `json:"session_id"`
}

// WebSocketManager tracks connected clients per user and per watched
// collaboration session, and implements domain.SessionBroadcaster.
type WebSocketManager struct {
	clients        map[*wsClient]bool
	userClients    map[uuid.UUID]map[*wsClient]bool
	sessionClients map[uuid.UUID]map[*wsClient]bool
	register       chan *wsClient
	unregister     chan *wsClient
	mu             sync.RWMutex
	logger         *zap.Logger
}

func NewWebSocketManager(logger *zap.Logger) *WebSocketManager {
	return &WebSocketManager{
		clients:        make(map[*wsClient]bool),
		userClients:    make(map[uuid.UUID]map[*wsClient]bool),
		sessionClients: make(map[uuid.UUID]map[*wsClient]bool),
		register:       make(chan *wsClient),
		unregister:     make(chan *wsClient),
		logger:         logger,
	}
}

func (m *WebSocketManager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			if _, ok := m.userClients[client.userID]; !ok {
				m.userClients[client.userID] = make(map[*wsClient]bool)
			}
			m.userClients[client.userID][client] = true
			m.mu.Unlock()
			metrics.WebSocketConnections.Inc()
			m.logger.Debug("ws client registered", zap.String("user_id", client.userID.String()))

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				if userMap, ok := m.userClients[client.userID]; ok {
					delete(userMap, client)
					if len(userMap) == 0 {
						delete(m.userClients, client.userID)
					}
				}
				for sessionID := range client.sessions {
					m.dropFromSession(sessionID, client)
				}
				close(client.send)
				metrics.WebSocketConnections.Dec()
				m.logger.Debug("ws client unregistered", zap.String("user_id", client.userID.String()))
			}
			m.mu.Unlock()
		}
	}
}

// dropFromSession requires m.mu held.
func (m *WebSocketManager) dropFromSession(sessionID uuid.UUID, client *wsClient) {
	if sessMap, ok := m.sessionClients[sessionID]; ok {
		delete(sessMap, client)
		if len(sessMap) == 0 {
			delete(m.sessionClients, sessionID)
		}
	}
}

func (m *WebSocketManager) subscribe(client *wsClient, sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessionClients[sessionID]; !ok {
		m.sessionClients[sessionID] = make(map[*wsClient]bool)
	}
	m.sessionClients[sessionID][client] = true
	client.sessions[sessionID] = true
}

func (m *WebSocketManager) unsubscribe(client *wsClient, sessionID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropFromSession(sessionID, client)
	delete(client.sessions, sessionID)
}

// BroadcastToSession sends an event to every client watching the session.
func (m *WebSocketManager) BroadcastToSession(sessionID uuid.UUID, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to marshal ws event", zap.Error(err))
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.sessionClients[sessionID] {
		select {
		case client.send <- data:
		default:
			// slow client, drop the event rather than block the hub
		}
	}
}

// SendToUser sends a message to a specific user's connected clients.
func (m *WebSocketManager) SendToUser(userID uuid.UUID, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		m.logger.Error("failed to marshal ws message", zap.Error(err))
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for client := range m.userClients[userID] {
		select {
		case client.send <- data:
		default:
		}
	}
}

// HandleWS handles GET /ws: upgrades the connection for an authenticated
// user and starts the read/write pumps.
func (m *WebSocketManager) HandleWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Error("ws upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{
		conn:     conn,
		send:     make(chan []byte, 32),
		userID:   userID,
		sessions: make(map[uuid.UUID]bool),
	}
	m.register <- client

	go m.writePump(client)
	go m.readPump(client)
}

func (m *WebSocketManager) readPump(client *wsClient) {
	defer func() {
		m.unregister <- client
		client.conn.Close()
	}()

	client.conn.SetReadLimit(1024)
	for {
		_, data, err := client.conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd clientCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			continue
		}
		sessionID, err := uuid.Parse(cmd.SessionID)
		if err != nil {
			continue
		}

		switch cmd.Action {
		case "subscribe":
			m.subscribe(client, sessionID)
		case "unsubscribe":
			m.unsubscribe(client, sessionID)
		}
	}
}

func (m *WebSocketManager) writePump(client *wsClient) {
	ticker := time.NewTicker(45 * time.Second)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
