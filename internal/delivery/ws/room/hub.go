package ws_room

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rawfidkshuvo/king-police-backend/internal/model"
)

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	id       string
	name     string
	roomCode model.RoomCode
}

type Hub struct {
	logger *slog.Logger

	// Roles are secret while a turn is live unless the table opts in
	// to the reveal-everything broadcast.
	revealRoles bool

	clients map[*Client]bool
	rooms   map[model.RoomCode]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan model.Event

	mu sync.RWMutex
}

type HubOption func(*Hub)

func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func WithRevealRoles(reveal bool) HubOption {
	return func(h *Hub) {
		h.revealRoles = reveal
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		logger:      slog.Default(),
		revealRoles: true,
		clients:     make(map[*Client]bool),
		rooms:       make(map[model.RoomCode]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan model.Event, 64),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)

		case client := <-h.unregister:
			h.handleUnregister(client)

		case event := <-h.broadcast:
			h.broadcastToRoom(event)
		}
	}
}

// Broadcast fans out the event sequence a usecase operation emitted.
// Order is preserved per room: the channel serializes them.
func (h *Hub) Broadcast(events []model.Event) {
	for _, event := range events {
		h.broadcast <- event
	}
}

// NewClient wraps an upgraded connection and registers it with the
// room. The caller owns neither the connection nor the client after
// this returns.
func (h *Hub) NewClient(conn *websocket.Conn, roomCode model.RoomCode, name string) *Client {
	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		id:       uuid.New().String(),
		name:     name,
		roomCode: roomCode,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	if _, ok := h.rooms[client.roomCode]; !ok {
		h.rooms[client.roomCode] = make(map[*Client]bool)
	}
	h.rooms[client.roomCode][client] = true

	h.logger.Info("client registered",
		slog.String("client_id", client.id),
		slog.String("room", string(client.roomCode)),
		slog.String("name", client.name),
	)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)

	if roomClients, ok := h.rooms[client.roomCode]; ok {
		delete(roomClients, client)
		if len(roomClients) == 0 {
			delete(h.rooms, client.roomCode)
		}
	}

	h.logger.Info("client unregistered",
		slog.String("client_id", client.id),
		slog.String("room", string(client.roomCode)),
	)
}

func (h *Hub) broadcastToRoom(event model.Event) {
	// Full lock: slow receivers get evicted from the maps below.
	h.mu.Lock()
	defer h.mu.Unlock()

	roomClients, ok := h.rooms[event.Room]
	if !ok {
		return
	}

	shared, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", slog.String("error", err.Error()))
		return
	}

	for client := range roomClients {
		payload := shared
		if !h.revealRoles {
			if scoped, ok := h.scopeForClient(event, client); ok {
				payload = scoped
			}
		}

		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(roomClients, client)
			delete(h.clients, client)
		}
	}
}

// scopeForClient rewrites a NEW_TURN event so the client only learns
// its own role. Everything else passes through unchanged.
func (h *Hub) scopeForClient(event model.Event, client *Client) ([]byte, bool) {
	if event.Type != model.EventNewTurn {
		return nil, false
	}
	turn, ok := event.Payload.(model.NewTurnPayload)
	if !ok {
		return nil, false
	}

	own := make(map[string]model.Role, 1)
	if role, ok := turn.Roles[client.name]; ok {
		own[client.name] = role
	}

	scoped, err := json.Marshal(model.Event{
		Room: event.Room,
		Type: event.Type,
		Payload: model.NewTurnPayload{
			Roles: own,
			Turn:  turn.Turn,
		},
	})
	if err != nil {
		return nil, false
	}
	return scoped, true
}

// The read pump only drains the connection: intents arrive over REST,
// the socket is notify-only.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
}
