package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"devanshi-server/pkg/game"
)

// Postgres stores each room as a JSON document row in the rooms table
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns a postgres-backed RoomStore
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the room or ErrRoomNotFound
func (p *Postgres) Get(ctx context.Context, name string) (*game.Room, error) {
	const query = `SELECT state FROM rooms WHERE name = $1`

	var state []byte
	if err := p.db.QueryRowContext(ctx, query, name).Scan(&state); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}

		return nil, err
	}

	var room game.Room
	if err := json.Unmarshal(state, &room); err != nil {
		return nil, err
	}

	return &room, nil
}

// Put upserts the room state
func (p *Postgres) Put(ctx context.Context, room *game.Room) error {
	state, err := json.Marshal(room)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO rooms (name, state, updated)
VALUES ($1, $2, NOW())
ON CONFLICT (name) DO UPDATE SET state = EXCLUDED.state, updated = NOW()`

	_, err = p.db.ExecContext(ctx, query, room.Name, state)
	return err
}

// EnsureExists returns the room, creating an empty one on first reference
func (p *Postgres) EnsureExists(ctx context.Context, name string) (*game.Room, error) {
	room, err := p.Get(ctx, name)
	if err == nil {
		return room, nil
	}

	if err != ErrRoomNotFound {
		return nil, err
	}

	room = game.NewRoom(name)
	if err := p.Put(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// Delete removes the room
func (p *Postgres) Delete(ctx context.Context, name string) error {
	const query = `DELETE FROM rooms WHERE name = $1`

	_, err := p.db.ExecContext(ctx, query, name)
	return err
}

// IdleRooms returns the names of rooms not written since the cutoff
func (p *Postgres) IdleRooms(ctx context.Context, cutoff time.Time) ([]string, error) {
	const query = `SELECT name FROM rooms WHERE updated < $1`

	rows, err := p.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}

		names = append(names, name)
	}

	return names, rows.Err()
}
