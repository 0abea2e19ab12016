package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"devanshi-server/pkg/game"
)

type memoryEntry struct {
	state   []byte
	updated time.Time
}

// Memory is an in-memory RoomStore. It round-trips rooms through JSON so
// callers get the same snapshot semantics as the postgres store.
type Memory struct {
	mu    sync.Mutex
	rooms map[string]*memoryEntry

	// now is swappable for idle-room tests
	now func() time.Time
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		rooms: make(map[string]*memoryEntry),
		now:   time.Now,
	}
}

// Get returns a snapshot of the room or ErrRoomNotFound
func (m *Memory) Get(ctx context.Context, name string) (*game.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.rooms[name]
	if !ok {
		return nil, ErrRoomNotFound
	}

	var room game.Room
	if err := json.Unmarshal(entry.state, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

// Put writes the room state
func (m *Memory) Put(ctx context.Context, room *game.Room) error {
	state, err := json.Marshal(room)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.rooms[room.Name] = &memoryEntry{
		state:   state,
		updated: m.now(),
	}

	return nil
}

// EnsureExists returns the room, creating an empty one on first reference
func (m *Memory) EnsureExists(ctx context.Context, name string) (*game.Room, error) {
	room, err := m.Get(ctx, name)
	if err == nil {
		return room, nil
	}

	if err != ErrRoomNotFound {
		return nil, err
	}

	room = game.NewRoom(name)
	if err := m.Put(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// Delete removes the room
func (m *Memory) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.rooms, name)
	return nil
}

// IdleRooms returns the names of rooms not written since the cutoff
func (m *Memory) IdleRooms(ctx context.Context, cutoff time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var names []string
	for name, entry := range m.rooms {
		if entry.updated.Before(cutoff) {
			names = append(names, name)
		}
	}

	return names, nil
}
