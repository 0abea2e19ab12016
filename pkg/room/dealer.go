package room

import (
	"context"
	"sync"
	"time"

	"devanshi-server/pkg/game"
	"devanshi-server/pkg/store"

	"github.com/sirupsen/logrus"
)

// Dealer owns a single room. Every read-modify-write of the room's state and
// every deferred timer continuation runs on the dealer's run loop, so two
// events against the same room can never interleave.
type Dealer struct {
	roomName string
	store    store.RoomStore

	trickResolveDelay time.Duration
	gameRestartDelay  time.Duration

	lock    sync.RWMutex
	clients map[*Client]bool

	execInRunLoop chan func()
	close         chan bool
}

// NewDealer creates a new dealer for the named room
// This is called from a blocking state, so it needs to return quickly
func NewDealer(roomName string, rs store.RoomStore, trickResolveDelay, gameRestartDelay time.Duration) *Dealer {
	return &Dealer{
		roomName:          roomName,
		store:             rs,
		trickResolveDelay: trickResolveDelay,
		gameRestartDelay:  gameRestartDelay,
		clients:           make(map[*Client]bool),
		execInRunLoop:     make(chan func(), 256),
		close:             make(chan bool),
	}
}

// StartShift starts the run loop
func (d *Dealer) StartShift() {
	go d.runLoop()
}

func (d *Dealer) runLoop() {
	log := logrus.WithField("room", d.roomName)
	log.Debug("creating dealer run loop")

	for {
		select {
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			log.Debug("terminating dealer run loop")
			return
		}
	}
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	close(d.close)
}

// AddClient adds a client
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	d.clients[client] = true
	d.lock.Unlock()
}

// RemoveClient removes a client
func (d *Dealer) RemoveClient(client *Client) {
	d.lock.Lock()
	delete(d.clients, client)
	d.lock.Unlock()
}

// ClientCount returns the number of connected clients
func (d *Dealer) ClientCount() int {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return len(d.clients)
}

// JoinRoom seats or reconnects the client's player in this dealer's room
// This method must return quickly
func (d *Dealer) JoinRoom(client *Client, msg *PayloadIn) {
	d.execInRunLoop <- func() {
		d.handleJoin(client, msg)
	}
}

// ReceivedMessage is called when a client sends a game action to the server
// This method must return quickly
func (d *Dealer) ReceivedMessage(client *Client, msg *PayloadIn) {
	d.execInRunLoop <- func() {
		d.handleMessage(client, msg)
	}
}

// ClientDisconnected is called when the client's transport goes away
// This method must return quickly
func (d *Dealer) ClientDisconnected(client *Client) {
	d.execInRunLoop <- func() {
		d.handleDisconnect(client)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleJoin(client *Client, msg *PayloadIn) {
	room, err := d.store.EnsureExists(context.Background(), d.roomName)
	if err != nil {
		logrus.WithError(err).WithField("room", d.roomName).Error("could not load room")
		return
	}

	outcome := game.JoinOrReconnect(room, msg.PlayerID, client.ConnectionID, msg.Username)
	d.finish(room, outcome)
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleMessage(client *Client, msg *PayloadIn) {
	log := logrus.WithFields(logrus.Fields{
		"room":   d.roomName,
		"client": client.String(),
		"action": msg.Action,
	})

	room, err := d.store.Get(context.Background(), d.roomName)
	if err != nil {
		if err == store.ErrRoomNotFound {
			log.Debug("action for a room that does not exist")
		} else {
			log.WithError(err).Error("could not load room")
		}
		return
	}

	player := room.PlayerByConnection(client.ConnectionID)
	if player == nil {
		log.Debug("connection is not bound to a seat")
		return
	}

	var outcome game.Outcome
	switch msg.Action {
	case ActionTrumpChosen:
		outcome = game.ChooseTrump(room, player.SeatIndex, msg.ChosenSuit)
	case ActionCardPlayed:
		outcome = game.PlayCard(room, player.SeatIndex, msg.Card)
	default:
		log.Warn("unknown action")
		return
	}

	d.finish(room, outcome)
}

// NOTE: must only be called from the run loop
func (d *Dealer) handleDisconnect(client *Client) {
	d.RemoveClient(client)

	room, err := d.store.Get(context.Background(), d.roomName)
	if err != nil {
		if err != store.ErrRoomNotFound {
			logrus.WithError(err).WithField("room", d.roomName).Error("could not load room")
		}
		return
	}

	d.finish(room, game.Disconnect(room, client.ConnectionID))
}

// finish persists the mutated room, emits the outcome's messages, and
// schedules any deferred action. An ignored outcome skips persistence but may
// still carry a unicast (room-full).
// NOTE: must only be called from the run loop
func (d *Dealer) finish(room *game.Room, outcome game.Outcome) {
	if outcome.IsIgnored() {
		logrus.WithFields(logrus.Fields{
			"room":   d.roomName,
			"reason": outcome.Ignored,
		}).Debug("event ignored")

		d.emit(outcome)
		return
	}

	// the write must be durable before any client observes the result
	if err := d.store.Put(context.Background(), room); err != nil {
		logrus.WithError(err).WithField("room", d.roomName).Error("could not persist room")
		return
	}

	d.emit(outcome)

	if outcome.Scheduled != game.ActionNone {
		d.schedule(outcome.Scheduled)
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) emit(outcome game.Outcome) {
	d.lock.RLock()
	defer d.lock.RUnlock()

	for _, event := range outcome.Broadcasts {
		for client := range d.clients {
			if !client.Send(event) {
				logrus.WithField("client", client.String()).Warn("send buffer full, dropping event")
			}
		}
	}

	for _, unicast := range outcome.Unicasts {
		if unicast.ConnectionID == "" {
			// the target seat is offline
			continue
		}

		for client := range d.clients {
			if client.ConnectionID == unicast.ConnectionID {
				if !client.Send(unicast.Event) {
					logrus.WithField("client", client.String()).Warn("send buffer full, dropping event")
				}
				break
			}
		}
	}
}

// schedule arms a fire-once deferred continuation. The continuation carries
// only the room name: it re-reads current state at fire time and no-ops if
// the room has vanished in the interim.
func (d *Dealer) schedule(action game.ActionKind) {
	var delay time.Duration
	var fn func()

	switch action {
	case game.ActionResolveTrick:
		delay = d.trickResolveDelay
		fn = d.resolveTrick
	case game.ActionDealNewGame:
		delay = d.gameRestartDelay
		fn = d.dealNewGame
	default:
		logrus.WithField("action", action).Error("unknown scheduled action")
		return
	}

	time.AfterFunc(delay, func() {
		select {
		case d.execInRunLoop <- fn:
		case <-d.close:
			// the dealer was shut down; nothing left to resolve
		}
	})
}

// NOTE: must only be called from the run loop
func (d *Dealer) resolveTrick() {
	room, err := d.store.Get(context.Background(), d.roomName)
	if err != nil {
		if err == store.ErrRoomNotFound {
			logrus.WithField("room", d.roomName).Debug("room vanished before trick resolution")
		} else {
			logrus.WithError(err).WithField("room", d.roomName).Error("could not load room")
		}
		return
	}

	d.finish(room, game.ResolveTrick(room))
}

// NOTE: must only be called from the run loop
func (d *Dealer) dealNewGame() {
	room, err := d.store.Get(context.Background(), d.roomName)
	if err != nil {
		if err == store.ErrRoomNotFound {
			logrus.WithField("room", d.roomName).Debug("room vanished before restart")
		} else {
			logrus.WithError(err).WithField("room", d.roomName).Error("could not load room")
		}
		return
	}

	d.finish(room, game.DealNewGame(room))
}
