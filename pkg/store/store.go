package store

import (
	"context"
	"errors"
	"time"

	"devanshi-server/pkg/game"
)

// ErrRoomNotFound is returned when a room name has never been written
var ErrRoomNotFound = errors.New("room not found")

// RoomStore is the persistence boundary for room state. Every mutation runs
// read-before-mutate and write-after-mutate; a Put must be durable before the
// caller treats the corresponding broadcast as complete.
//
// The store hands out snapshots: mutating a returned room has no effect until
// it is written back with Put.
type RoomStore interface {
	// Get returns the room or ErrRoomNotFound
	Get(ctx context.Context, name string) (*game.Room, error)

	// Put writes the room state, creating the row if needed
	Put(ctx context.Context, room *game.Room) error

	// EnsureExists returns the room, creating an empty one on first reference
	EnsureExists(ctx context.Context, name string) (*game.Room, error)

	// Delete removes the room; deleting an absent room is not an error
	Delete(ctx context.Context, name string) error

	// IdleRooms returns the names of rooms not written since the cutoff
	IdleRooms(ctx context.Context, cutoff time.Time) ([]string, error)
}
