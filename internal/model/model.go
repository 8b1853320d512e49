package model

import "sync"

type RoomCode = string

const EmptyRoomCode RoomCode = ""

// Role is one of the four mutually exclusive per-turn labels.
type Role string

const (
	RoleNone   Role = ""
	RoleKing   Role = "King"
	RolePolice Role = "Police"
	RoleRobber Role = "Robber"
	RoleThief  Role = "Thief"
)

// Roles in assignment order: the shuffled player sequence is zipped
// against this slice positionally.
var Roles = []Role{RoleKing, RolePolice, RoleRobber, RoleThief}

type Phase string

const (
	PhaseLobby         Phase = "lobby"
	PhaseAwaitingGuess Phase = "awaiting_guess"
	PhaseFinished      Phase = "finished"
)

// GuessSchema selects which identities the Police must call out.
type GuessSchema string

const (
	GuessRobberOnly     GuessSchema = "robber"
	GuessRobberAndThief GuessSchema = "robber_thief"
)

const (
	PlayersPerGame = 4
	TurnsPerGame   = 5

	KingReward       = 100
	PoliceReward     = 80
	RobberEvadeScore = 60
	ThiefEvadeScore  = 40
)

// Guess is the Police player's claim about who holds which criminal role.
// Thief is ignored under the GuessRobberOnly schema.
type Guess struct {
	Robber string `json:"robber"`
	Thief  string `json:"thief,omitempty"`
}

// Room is one game session. The registry owns the room for its whole
// lifetime; everyone else takes it per-operation via a fresh lookup and
// must hold Mu while touching its fields.
type Room struct {
	Mu sync.Mutex `json:"-"`

	Code RoomCode `json:"code"`

	// Order is the join order and also seeds shuffling.
	Order  []string        `json:"order"`
	Roles  map[string]Role `json:"roles"`
	Scores map[string]int  `json:"scores"`

	Turn  int   `json:"turn"`
	Phase Phase `json:"phase"`
}

func NewRoom(code RoomCode) *Room {
	return &Room{
		Code:   code,
		Order:  make([]string, 0, PlayersPerGame),
		Roles:  make(map[string]Role),
		Scores: make(map[string]int),
		Phase:  PhaseLobby,
	}
}

// Participants returns the first PlayersPerGame names by join order.
// Later joiners are spectators and never hold a role.
func (r *Room) Participants() []string {
	if len(r.Order) <= PlayersPerGame {
		return r.Order
	}
	return r.Order[:PlayersPerGame]
}

// Snapshot is a copy of the room state safe to hand across the
// usecase boundary after the room lock is released.
type Snapshot struct {
	Code    RoomCode        `json:"code"`
	Players []string        `json:"players"`
	Roles   map[string]Role `json:"roles"`
	Scores  map[string]int  `json:"scores"`
	Turn    int             `json:"turn"`
	Phase   Phase           `json:"phase"`
}

// Snapshot copies the room. Caller must hold Mu.
func (r *Room) Snapshot() Snapshot {
	s := Snapshot{
		Code:    r.Code,
		Players: make([]string, len(r.Order)),
		Roles:   make(map[string]Role, len(r.Roles)),
		Scores:  make(map[string]int, len(r.Scores)),
		Turn:    r.Turn,
		Phase:   r.Phase,
	}
	copy(s.Players, r.Order)
	for name, role := range r.Roles {
		s.Roles[name] = role
	}
	for name, score := range r.Scores {
		s.Scores[name] = score
	}
	return s
}
