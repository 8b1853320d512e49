package usecase_game

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	"github.com/rawfidkshuvo/king-police-backend/internal/service/normalizer"
)

var (
	ErrAlreadyExists    = errors.New("room already exists")
	ErrRoomNotFound     = errors.New("room not found")
	ErrDuplicateName    = errors.New("name already taken")
	ErrUnknownPlayer    = errors.New("no such player")
	ErrNotEnoughPlayers = errors.New("not enough players")
	ErrWrongPhase       = errors.New("not allowed in current phase")
	ErrRoleCorrupt      = errors.New("role assignment corrupt")
	ErrEmptyName        = errors.New("empty name")
	ErrInternal         = errors.New("internal error")
)

// RoomRegistry owns the room set. Structural operations only; room
// content is mutated here under the room's own lock.
type RoomRegistry interface {
	Create(ctx context.Context, code model.RoomCode) (*model.Room, error)
	Get(ctx context.Context, code model.RoomCode) (*model.Room, error)
	GetOrCreate(ctx context.Context, code model.RoomCode) (*model.Room, bool, error)
	Codes(ctx context.Context) ([]model.RoomCode, error)
}

// Shuffler yields a uniformly random permutation of [0, n). Injected
// so turns are reproducible in tests.
type Shuffler interface {
	Perm(n int) []int
}

type Usecase struct {
	registry RoomRegistry
	shuffler Shuffler
	schema   model.GuessSchema

	logger *slog.Logger
}

type UsecaseOption func(*Usecase)

func WithLogger(logger *slog.Logger) UsecaseOption {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func New(registry RoomRegistry, shuffler Shuffler, schema model.GuessSchema, opts ...UsecaseOption) *Usecase {
	u := &Usecase{
		registry: registry,
		shuffler: shuffler,
		schema:   schema,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// CreateRoom is the explicit create path. Join auto-creates as well,
// so this exists for clients that want the AlreadyExists check.
func (u *Usecase) CreateRoom(ctx context.Context, code model.RoomCode) ([]model.Event, error) {
	code = normalizer.Name(code)
	if code == model.EmptyRoomCode {
		return nil, ErrEmptyName
	}

	if _, err := u.registry.Create(ctx, code); err != nil {
		return nil, err
	}

	return []model.Event{{
		Room: code,
		Type: model.EventRoomCreated,
		Payload: map[string]interface{}{
			"room_code": code,
		},
	}}, nil
}

// Join seats a player. The room is auto-created when absent. The join
// that brings the seated count to four starts turn 1 in the same
// critical section, so two racing joins can never both observe three
// players and double-start.
func (u *Usecase) Join(ctx context.Context, code model.RoomCode, name string) ([]model.Event, error) {
	code = normalizer.Name(code)
	name = normalizer.Name(name)
	if code == model.EmptyRoomCode || name == "" {
		return nil, ErrEmptyName
	}

	room, _, err := u.registry.GetOrCreate(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if _, ok := room.Scores[name]; ok {
		return nil, ErrDuplicateName
	}

	room.Order = append(room.Order, name)
	room.Scores[name] = 0

	players := make([]string, len(room.Order))
	copy(players, room.Order)

	events := []model.Event{{
		Room: code,
		Type: model.EventPlayerJoined,
		Payload: model.PlayerJoinedPayload{
			Name:    name,
			Players: players,
		},
	}}

	// Auto-start exactly once: only the join that completes the table
	// sees this count while still in the lobby.
	if room.Phase == model.PhaseLobby && len(room.Order) == model.PlayersPerGame {
		events = append(events, model.Event{
			Room: code,
			Type: model.EventGameStarting,
		})
		events = append(events, u.startTurnLocked(room))
	}

	return events, nil
}

// Leave unseats a player. Only honored in the lobby: once roles are
// dealt the four-role invariant must hold, so mid-game departures are
// a transport concern (the seat stays, the client may reconnect).
func (u *Usecase) Leave(ctx context.Context, code model.RoomCode, name string) ([]model.Event, error) {
	code = normalizer.Name(code)
	name = normalizer.Name(name)

	room, err := u.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != model.PhaseLobby {
		return nil, ErrWrongPhase
	}
	if _, ok := room.Scores[name]; !ok {
		return nil, ErrUnknownPlayer
	}

	delete(room.Scores, name)
	delete(room.Roles, name)
	for i, n := range room.Order {
		if n == name {
			room.Order = append(room.Order[:i], room.Order[i+1:]...)
			break
		}
	}

	players := make([]string, len(room.Order))
	copy(players, room.Order)

	return []model.Event{{
		Room: code,
		Type: model.EventPlayerLeft,
		Payload: model.PlayerLeftPayload{
			Name:    name,
			Players: players,
		},
	}}, nil
}

// Start begins turn 1 on an explicit request, for tables that want to
// play with spectators already present.
func (u *Usecase) Start(ctx context.Context, code model.RoomCode) ([]model.Event, error) {
	code = normalizer.Name(code)

	room, err := u.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != model.PhaseLobby {
		return nil, ErrWrongPhase
	}
	if len(room.Order) < model.PlayersPerGame {
		return nil, ErrNotEnoughPlayers
	}

	return []model.Event{
		{Room: code, Type: model.EventGameStarting},
		u.startTurnLocked(room),
	}, nil
}

// Guess resolves the Police guess for the current turn, scores it and
// either deals the next turn or finishes the game.
func (u *Usecase) Guess(ctx context.Context, code model.RoomCode, guess model.Guess) ([]model.Event, error) {
	code = normalizer.Name(code)

	room, err := u.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != model.PhaseAwaitingGuess {
		return nil, ErrWrongPhase
	}

	police, err := u.holderLocked(room, model.RolePolice)
	if err != nil {
		return nil, err
	}
	robber, err := u.holderLocked(room, model.RoleRobber)
	if err != nil {
		return nil, err
	}
	thief, err := u.holderLocked(room, model.RoleThief)
	if err != nil {
		return nil, err
	}
	king, err := u.holderLocked(room, model.RoleKing)
	if err != nil {
		return nil, err
	}

	// All-or-nothing: either every guessed identity is right and the
	// Police collects, or the criminals evade together.
	correct := normalizer.Name(guess.Robber) == robber
	if u.schema == model.GuessRobberAndThief {
		correct = correct && normalizer.Name(guess.Thief) == thief
	}

	if correct {
		room.Scores[police] += model.PoliceReward
	} else {
		room.Scores[robber] += model.RobberEvadeScore
		room.Scores[thief] += model.ThiefEvadeScore
	}
	room.Scores[king] += model.KingReward

	scores := make(map[string]int, len(room.Scores))
	for n, s := range room.Scores {
		scores[n] = s
	}

	events := []model.Event{{
		Room: code,
		Type: model.EventUpdateScores,
		Payload: model.UpdateScoresPayload{
			Scores: scores,
		},
	}}

	if room.Turn >= model.TurnsPerGame {
		room.Phase = model.PhaseFinished
		events = append(events, model.Event{
			Room: code,
			Type: model.EventGameOver,
			Payload: model.GameOverPayload{
				Winner: winnerLocked(room),
				Scores: scores,
			},
		})
		return events, nil
	}

	events = append(events, u.startTurnLocked(room))
	return events, nil
}

// Restart re-enters the turn cycle on a finished table with scores and
// turn counter zeroed, so the first dealt turn reports as turn 1 again.
func (u *Usecase) Restart(ctx context.Context, code model.RoomCode) ([]model.Event, error) {
	code = normalizer.Name(code)

	room, err := u.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	if room.Phase != model.PhaseFinished {
		return nil, ErrWrongPhase
	}

	for name := range room.Scores {
		room.Scores[name] = 0
	}
	room.Turn = 0

	return []model.Event{
		{Room: code, Type: model.EventGameStarting},
		u.startTurnLocked(room),
	}, nil
}

// Snapshot returns a copy of the room state for the REST read path.
func (u *Usecase) Snapshot(ctx context.Context, code model.RoomCode) (model.Snapshot, error) {
	code = normalizer.Name(code)

	room, err := u.registry.Get(ctx, code)
	if err != nil {
		return model.Snapshot{}, err
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	return room.Snapshot(), nil
}

func (u *Usecase) Rooms(ctx context.Context) ([]model.RoomCode, error) {
	return u.registry.Codes(ctx)
}

// startTurnLocked deals fresh roles to the first four seats by join
// order and advances the turn counter. Caller holds room.Mu.
func (u *Usecase) startTurnLocked(room *model.Room) model.Event {
	participants := room.Participants()
	perm := u.shuffler.Perm(len(participants))

	room.Roles = make(map[string]model.Role, len(participants))
	for i, role := range model.Roles {
		room.Roles[participants[perm[i]]] = role
	}

	room.Turn++
	room.Phase = model.PhaseAwaitingGuess

	roles := make(map[string]model.Role, len(room.Roles))
	for n, r := range room.Roles {
		roles[n] = r
	}

	return model.Event{
		Room: room.Code,
		Type: model.EventNewTurn,
		Payload: model.NewTurnPayload{
			Roles: roles,
			Turn:  room.Turn,
		},
	}
}

// holderLocked resolves the unique player holding a role. A missing or
// duplicated holder means the assignment step is broken: log as a
// defect and refuse the operation.
func (u *Usecase) holderLocked(room *model.Room, role model.Role) (string, error) {
	holder := ""
	for name, r := range room.Roles {
		if r != role {
			continue
		}
		if holder != "" {
			u.logger.Error("duplicate role holder",
				slog.String("room", string(room.Code)),
				slog.String("role", string(role)),
			)
			return "", ErrRoleCorrupt
		}
		holder = name
	}
	if holder == "" {
		u.logger.Error("missing role holder",
			slog.String("room", string(room.Code)),
			slog.String("role", string(role)),
		)
		return "", ErrRoleCorrupt
	}
	return holder, nil
}

// winnerLocked picks the highest cumulative score; ties go to the
// lexicographically smallest name. Caller holds room.Mu.
func winnerLocked(room *model.Room) string {
	names := make([]string, 0, len(room.Scores))
	for name := range room.Scores {
		names = append(names, name)
	}
	sort.Strings(names)

	winner := ""
	best := 0
	for _, name := range names {
		if winner == "" || room.Scores[name] > best {
			winner = name
			best = room.Scores[name]
		}
	}
	return winner
}
