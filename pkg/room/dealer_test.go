package room

import (
	"context"
	"fmt"
	"testing"
	"time"

	"devanshi-server/internal/util"
	"devanshi-server/pkg/deck"
	"devanshi-server/pkg/game"
	"devanshi-server/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nextEvent(t *testing.T, c *Client) game.Event {
	t.Helper()

	select {
	case msg := <-c.SendChan():
		return msg.(game.Event)
	case <-time.After(time.Second * 2):
		t.Fatal("timed out waiting for event")
	}

	return game.Event{}
}

// waitForKey drains the client's send channel until the given event arrives
func waitForKey(t *testing.T, c *Client, key string) game.Event {
	t.Helper()

	for {
		event := nextEvent(t, c)
		if event.Key == key {
			return event
		}
	}
}

func joinedDealer(t *testing.T, m *store.Memory, roomName string) (*Dealer, []*Client) {
	t.Helper()

	d := NewDealer(roomName, m, time.Millisecond*10, time.Millisecond*10)
	d.StartShift()
	t.Cleanup(d.EndShift)

	clients := make([]*Client, game.SeatCount)
	for i := range clients {
		clients[i] = NewClient(nil, nil)
		d.AddClient(clients[i])
		d.JoinRoom(clients[i], &PayloadIn{
			RoomName: roomName,
			PlayerID: fmt.Sprintf("player-%d", i),
			Username: fmt.Sprintf("user-%d", i),
		})

		event := waitForKey(t, clients[i], game.KeyPlayerNumber)
		require.NotNil(t, event.Data)
	}

	return d, clients
}

func roomState(t *testing.T, m *store.Memory, name string) *game.Room {
	t.Helper()

	room, err := m.Get(context.Background(), name)
	require.NoError(t, err)
	return room
}

func TestDealer_joinDealsFourthSeat(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	_, clients := joinedDealer(t, m, name)

	require.Eventually(t, func() bool {
		return roomState(t, m, name).GameInProgress
	}, time.Second*2, time.Millisecond*5)

	room := roomState(t, m, name)

	// exactly one seat got the private reveal, the rest got the waiting notice
	for i, c := range clients {
		if i == room.JackChooser {
			waitForKey(t, c, game.KeyDealStarted)
		} else {
			waitForKey(t, c, game.KeyGameReady)
		}
	}
}

func TestDealer_fullTrick(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	d, clients := joinedDealer(t, m, name)

	require.Eventually(t, func() bool {
		return roomState(t, m, name).GameInProgress
	}, time.Second*2, time.Millisecond*5)

	room := roomState(t, m, name)
	chooser := room.JackChooser

	// a non-chooser picking trump is dropped
	d.ReceivedMessage(clients[(chooser+1)%game.SeatCount], &PayloadIn{
		Action:     ActionTrumpChosen,
		ChosenSuit: deck.Spades,
	})

	d.ReceivedMessage(clients[chooser], &PayloadIn{
		Action:     ActionTrumpChosen,
		ChosenSuit: deck.Hearts,
	})

	require.Eventually(t, func() bool {
		return roomState(t, m, name).IsTrumpChosen
	}, time.Second*2, time.Millisecond*5)

	room = roomState(t, m, name)
	assert.Equal(t, deck.Hearts, room.TrumpSuit)
	assert.Equal(t, chooser, room.CurrentLeader)

	for _, c := range clients {
		waitForKey(t, c, game.KeyRestDeal)
		waitForKey(t, c, game.KeyTrumpSuitSet)
	}

	// play the trick in turn order, each seat leading with its first card
	for i := 0; i < game.SeatCount; i++ {
		room = roomState(t, m, name)
		seat := room.NextSeat()

		d.ReceivedMessage(clients[seat], &PayloadIn{
			Action: ActionCardPlayed,
			Card:   room.Hands[seat][0],
		})

		trickLen := i + 1
		require.Eventually(t, func() bool {
			return len(roomState(t, m, name).CurrentTrick)%game.SeatCount == trickLen%game.SeatCount
		}, time.Second*2, time.Millisecond*5)
	}

	// the deferred sweep resolves the trick
	require.Eventually(t, func() bool {
		room := roomState(t, m, name)
		return room.TeamScores[0]+room.TeamScores[1] == 1
	}, time.Second*2, time.Millisecond*5)

	room = roomState(t, m, name)
	assert.Empty(t, room.CurrentTrick)

	wins := 0
	for _, w := range room.RoundWins {
		wins += w
	}
	assert.Equal(t, 1, wins)

	for _, c := range clients {
		waitForKey(t, c, game.KeyRoundEnd)
		waitForKey(t, c, game.KeyNewTrick)
	}
}

func TestDealer_disconnectKeepsSeat(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	d, clients := joinedDealer(t, m, name)

	require.Eventually(t, func() bool {
		return roomState(t, m, name).GameInProgress
	}, time.Second*2, time.Millisecond*5)

	d.ClientDisconnected(clients[2])

	require.Eventually(t, func() bool {
		return !roomState(t, m, name).Players[2].IsConnected
	}, time.Second*2, time.Millisecond*5)

	room := roomState(t, m, name)
	assert.Len(t, room.Players, game.SeatCount)
	assert.Equal(t, "", room.Players[2].ConnectionID)
	assert.Equal(t, game.SeatCount-1, d.ClientCount())

	// the same playerID reclaims the seat on a fresh connection
	again := NewClient(nil, nil)
	d.AddClient(again)
	d.JoinRoom(again, &PayloadIn{
		RoomName: name,
		PlayerID: "player-2",
		Username: "user-2",
	})

	waitForKey(t, again, game.KeyPlayerNumber)
	waitForKey(t, again, game.KeyRoundEnd)

	room = roomState(t, m, name)
	assert.Equal(t, 2, room.PlayerByID("player-2").SeatIndex)
	assert.True(t, room.Players[2].IsConnected)
}

func TestDealer_roomFull(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	d, _ := joinedDealer(t, m, name)

	fifth := NewClient(nil, nil)
	d.AddClient(fifth)
	d.JoinRoom(fifth, &PayloadIn{
		RoomName: name,
		PlayerID: "player-5",
		Username: "user-5",
	})

	event := waitForKey(t, fifth, game.KeyRoomFull)
	assert.NotNil(t, event.Data)
	assert.Len(t, roomState(t, m, name).Players, game.SeatCount)
}

func TestDealer_deferredActionSurvivesRoomDeletion(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	d := NewDealer(name, m, time.Millisecond*50, time.Millisecond*50)
	d.StartShift()
	t.Cleanup(d.EndShift)

	// arm the timer, then delete the room before it fires
	d.schedule(game.ActionResolveTrick)
	require.NoError(t, m.Delete(context.Background(), name))

	time.Sleep(time.Millisecond * 150)

	_, err := m.Get(context.Background(), name)
	assert.Equal(t, store.ErrRoomNotFound, err)
}

func TestDealer_unknownActionIgnored(t *testing.T) {
	m := store.NewMemory()
	name := util.RandomRoomName()
	d, clients := joinedDealer(t, m, name)

	before := roomState(t, m, name)
	d.ReceivedMessage(clients[0], &PayloadIn{Action: "shout"})

	time.Sleep(time.Millisecond * 50)
	after := roomState(t, m, name)
	assert.Equal(t, before.Players, after.Players)
	assert.Equal(t, before.TeamScores, after.TeamScores)
}
