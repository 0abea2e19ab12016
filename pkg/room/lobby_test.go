package room

import (
	"context"
	"testing"
	"time"

	"devanshi-server/pkg/game"
	"devanshi-server/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLobby_JoinRoom(t *testing.T) {
	m := store.NewMemory()
	l := NewLobby(m, Options{})
	l.StartShift()
	t.Cleanup(l.EndShift)

	c := NewClient(nil, l)
	c.ReceivedMessage(&PayloadIn{
		Action:   ActionJoinRoom,
		RoomName: "lounge",
		PlayerID: "player-0",
		Username: "user-0",
	})

	waitForKey(t, c, game.KeyPlayerNumber)
	require.NotNil(t, c.Dealer())

	room, err := m.Get(context.Background(), "lounge")
	require.NoError(t, err)
	assert.Len(t, room.Players, 1)
	assert.Equal(t, "player-0", room.Players[0].PlayerID)
}

func TestLobby_ignoresIncompleteJoin(t *testing.T) {
	m := store.NewMemory()
	l := NewLobby(m, Options{})
	l.StartShift()
	t.Cleanup(l.EndShift)

	c := NewClient(nil, l)
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomName: "", PlayerID: "p", Username: "u"})
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomName: "r", PlayerID: "", Username: "u"})
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomName: "r", PlayerID: "p", Username: ""})

	// actions before a join have no dealer to go to
	c.ReceivedMessage(&PayloadIn{Action: ActionCardPlayed})

	time.Sleep(time.Millisecond * 50)
	assert.Nil(t, c.Dealer())

	_, err := m.Get(context.Background(), "r")
	assert.Equal(t, store.ErrRoomNotFound, err)
}

func TestLobby_switchingRoomsRebindsDealer(t *testing.T) {
	m := store.NewMemory()
	l := NewLobby(m, Options{})
	l.StartShift()
	t.Cleanup(l.EndShift)

	c := NewClient(nil, l)
	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomName: "first", PlayerID: "p", Username: "u"})
	waitForKey(t, c, game.KeyPlayerNumber)
	first := c.Dealer()

	c.ReceivedMessage(&PayloadIn{Action: ActionJoinRoom, RoomName: "second", PlayerID: "p", Username: "u"})
	waitForKey(t, c, game.KeyPlayerNumber)
	second := c.Dealer()

	require.NotNil(t, second)
	assert.NotEqual(t, first, second)

	// the old room marks the seat offline
	require.Eventually(t, func() bool {
		room, err := m.Get(context.Background(), "first")
		require.NoError(t, err)
		return !room.Players[0].IsConnected
	}, time.Second*2, time.Millisecond*5)
}

func TestLobby_sweepIdleRooms(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	l := NewLobby(m, Options{RoomTTL: time.Millisecond * 10})

	require.NoError(t, m.Put(ctx, game.NewRoom("stale")))
	time.Sleep(time.Millisecond * 30)

	// a room with a connected client survives the sweep
	busy := NewDealer("busy", m, time.Second, time.Second)
	busy.AddClient(NewClient(nil, nil))
	l.dealers["busy"] = busy
	require.NoError(t, m.Put(ctx, game.NewRoom("busy")))
	time.Sleep(time.Millisecond * 30)

	require.NoError(t, m.Put(ctx, game.NewRoom("fresh")))

	l.sweepIdleRooms(ctx)

	_, err := m.Get(ctx, "stale")
	assert.Equal(t, store.ErrRoomNotFound, err)

	_, err = m.Get(ctx, "busy")
	assert.NoError(t, err)

	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestLobby_sweepInterval(t *testing.T) {
	l := NewLobby(store.NewMemory(), Options{})
	assert.Equal(t, time.Hour*2, l.sweepInterval())

	l = NewLobby(store.NewMemory(), Options{RoomTTL: time.Minute})
	assert.Equal(t, time.Minute, l.sweepInterval())
}
