package http_room_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http_room "github.com/rawfidkshuvo/king-police-backend/internal/delivery/http/room"
	ws_room "github.com/rawfidkshuvo/king-police-backend/internal/delivery/ws/room"
	infra_memory_room "github.com/rawfidkshuvo/king-police-backend/internal/infra/memory/room"
	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	"github.com/rawfidkshuvo/king-police-backend/internal/service/shuffle"
	usecase_game "github.com/rawfidkshuvo/king-police-backend/internal/usecase/game"
)

func newTestServer(t *testing.T, reveal bool) (*httptest.Server, *usecase_game.Usecase, *ws_room.Hub) {
	gin.SetMode(gin.TestMode)

	registry := infra_memory_room.New()
	uc := usecase_game.New(registry, shuffle.New(1), model.GuessRobberAndThief)

	hub := ws_room.NewHub(ws_room.WithRevealRoles(reveal))
	go hub.Run()

	engine := gin.New()
	http_room.New(uc, hub).RegisterRoutes(engine.Group("/api/v1"))

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, uc, hub
}

func dialRoom(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Registration runs on the hub goroutine; give it a beat before
	// broadcasting.
	time.Sleep(200 * time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) model.Event {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var event model.Event
	require.NoError(t, json.Unmarshal(msg, &event))
	return event
}

// A client dialing with the same spelling it created the room with
// must land in the canonical room and receive its events.
func TestRoomWS_NonCanonicalRoomCode(t *testing.T) {
	srv, uc, hub := newTestServer(t, true)
	ctx := context.Background()

	_, err := uc.CreateRoom(ctx, "ROOM1")
	require.NoError(t, err)

	conn := dialRoom(t, srv, "/api/v1/rooms/ROOM1/ws")

	events, err := uc.Join(ctx, "ROOM1", "alice")
	require.NoError(t, err)
	hub.Broadcast(events)

	event := readEvent(t, conn)
	assert.Equal(t, model.EventPlayerJoined, event.Type)
	assert.Equal(t, model.RoomCode("room1"), event.Room)
}

// Under scoped broadcasts the client name from the query string must
// match the seated (normalized) name, whatever its spelling.
func TestRoomWS_ScopedRolesForNonCanonicalName(t *testing.T) {
	srv, uc, hub := newTestServer(t, false)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := uc.Join(ctx, "room1", name)
		require.NoError(t, err)
	}

	conn := dialRoom(t, srv, "/api/v1/rooms/ROOM1/ws?name=A")

	events, err := uc.Join(ctx, "room1", "d")
	require.NoError(t, err)
	hub.Broadcast(events)

	var turn model.Event
	for {
		event := readEvent(t, conn)
		if event.Type == model.EventNewTurn {
			turn = event
			break
		}
	}

	payload, ok := turn.Payload.(map[string]interface{})
	require.True(t, ok)
	roles, ok := payload["roles"].(map[string]interface{})
	require.True(t, ok)

	// Only the client's own seat leaks through.
	require.Len(t, roles, 1)
	assert.NotEmpty(t, roles["a"])
}
