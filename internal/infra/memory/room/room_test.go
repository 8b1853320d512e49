package infra_memory_room_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infra_memory_room "github.com/rawfidkshuvo/king-police-backend/internal/infra/memory/room"
	"github.com/rawfidkshuvo/king-police-backend/internal/model"
	usecase_game "github.com/rawfidkshuvo/king-police-backend/internal/usecase/game"
)

func TestRegistry_Create(t *testing.T) {
	registry := infra_memory_room.New()
	ctx := context.Background()

	room, err := registry.Create(ctx, "room1")
	require.NoError(t, err)
	assert.Equal(t, model.RoomCode("room1"), room.Code)
	assert.Equal(t, model.PhaseLobby, room.Phase)

	_, err = registry.Create(ctx, "room1")
	assert.ErrorIs(t, err, usecase_game.ErrAlreadyExists)
}

func TestRegistry_Get(t *testing.T) {
	registry := infra_memory_room.New()
	ctx := context.Background()

	_, err := registry.Get(ctx, "nope")
	assert.ErrorIs(t, err, usecase_game.ErrRoomNotFound)

	created, err := registry.Create(ctx, "room1")
	require.NoError(t, err)

	got, err := registry.Get(ctx, "room1")
	require.NoError(t, err)
	assert.Same(t, created, got)
}

func TestRegistry_GetOrCreate(t *testing.T) {
	registry := infra_memory_room.New()
	ctx := context.Background()

	room, created, err := registry.GetOrCreate(ctx, "room1")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := registry.GetOrCreate(ctx, "room1")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, room, again)
}

// Concurrent GetOrCreate on one code must converge on a single room
// instance with exactly one creation.
func TestRegistry_GetOrCreateConcurrent(t *testing.T) {
	registry := infra_memory_room.New()
	ctx := context.Background()

	const workers = 64
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		creators int
		rooms    = make(map[*model.Room]bool)
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			room, created, err := registry.GetOrCreate(ctx, "room1")
			assert.NoError(t, err)

			mu.Lock()
			defer mu.Unlock()
			if created {
				creators++
			}
			rooms[room] = true
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, creators)
	assert.Len(t, rooms, 1)
}

func TestRegistry_Codes(t *testing.T) {
	registry := infra_memory_room.New()
	ctx := context.Background()

	codes, err := registry.Codes(ctx)
	require.NoError(t, err)
	assert.Empty(t, codes)

	for _, code := range []model.RoomCode{"x", "y", "z"} {
		_, err := registry.Create(ctx, code)
		require.NoError(t, err)
	}

	codes, err = registry.Codes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.RoomCode{"x", "y", "z"}, codes)
}
