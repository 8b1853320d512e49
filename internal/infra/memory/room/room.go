package infra_memory_room

import (
	"context"
	"sync"

	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	usecase_game "github.com/rawfidkshuvo/king-police-backend/internal/usecase/game"
)

// Registry is the process-lifetime room store. The map lock covers
// structural operations only; room content is guarded by each room's
// own mutex.
type Registry struct {
	mu    sync.RWMutex
	rooms map[model.RoomCode]*model.Room
}

func New() *Registry {
	return &Registry{
		rooms: make(map[model.RoomCode]*model.Room),
	}
}

func (r *Registry) Create(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[code]; ok {
		return nil, usecase_game.ErrAlreadyExists
	}

	room := model.NewRoom(code)
	r.rooms[code] = room
	return room, nil
}

func (r *Registry) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, usecase_game.ErrRoomNotFound
	}
	return room, nil
}

// GetOrCreate backs the lenient join-first path. The bool reports
// whether the room was created by this call.
func (r *Registry) GetOrCreate(ctx context.Context, code model.RoomCode) (*model.Room, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if room, ok := r.rooms[code]; ok {
		return room, false, nil
	}

	room := model.NewRoom(code)
	r.rooms[code] = room
	return room, true, nil
}

func (r *Registry) Codes(ctx context.Context) ([]model.RoomCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make([]model.RoomCode, 0, len(r.rooms))
	for code := range r.rooms {
		codes = append(codes, code)
	}
	return codes, nil
}
