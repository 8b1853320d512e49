package model

// Event types fanned out to every websocket client of a room.
const (
	EventRoomCreated  = "ROOM_CREATED"
	EventPlayerJoined = "PLAYER_JOINED"
	EventPlayerLeft   = "PLAYER_LEFT"
	EventGameStarting = "GAME_STARTING"
	EventNewTurn      = "NEW_TURN"
	EventUpdateScores = "UPDATE_SCORES"
	EventGameOver     = "GAME_OVER"
	EventError        = "ERROR"
)

// Event is one outbound notification addressed to a room. The usecase
// emits these in transition order; the hub owns delivery.
type Event struct {
	Room    RoomCode    `json:"room"`
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

type PlayerJoinedPayload struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type PlayerLeftPayload struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

type NewTurnPayload struct {
	Roles map[string]Role `json:"roles"`
	Turn  int             `json:"turn"`
}

type UpdateScoresPayload struct {
	Scores map[string]int `json:"scores"`
}

type GameOverPayload struct {
	Winner string         `json:"winner"`
	Scores map[string]int `json:"scores"`
}
