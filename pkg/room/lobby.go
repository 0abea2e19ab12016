package room

import (
	"context"
	"time"

	"devanshi-server/pkg/store"

	"github.com/sirupsen/logrus"
)

const defaultTrickResolveDelay = time.Second * 3
const defaultGameRestartDelay = time.Second * 3
const defaultRoomTTL = time.Hour * 24

// Options tunes the lobby's dealers and the idle-room sweep
type Options struct {
	TrickResolveDelay time.Duration
	GameRestartDelay  time.Duration
	RoomTTL           time.Duration
}

// Lobby is responsible for dispatching clients to dealers, one dealer per
// room, and for evicting rooms nobody has touched within the TTL
type Lobby struct {
	store   store.RoomStore
	opts    Options
	dealers map[string]*Dealer

	execInRunLoop chan func()
	close         chan bool
}

// NewLobby returns a new lobby backed by the given room store
func NewLobby(rs store.RoomStore, opts Options) *Lobby {
	if opts.TrickResolveDelay == 0 {
		opts.TrickResolveDelay = defaultTrickResolveDelay
	}

	if opts.GameRestartDelay == 0 {
		opts.GameRestartDelay = defaultGameRestartDelay
	}

	if opts.RoomTTL == 0 {
		opts.RoomTTL = defaultRoomTTL
	}

	return &Lobby{
		store:         rs,
		opts:          opts,
		dealers:       make(map[string]*Dealer),
		execInRunLoop: make(chan func(), 256),
		close:         make(chan bool),
	}
}

// StartShift starts the lobby run loop
func (l *Lobby) StartShift() {
	go l.runLoop()
}

func (l *Lobby) runLoop() {
	sweep := time.NewTicker(l.sweepInterval())
	defer sweep.Stop()

	for {
		select {
		case fn := <-l.execInRunLoop:
			fn()
		case <-sweep.C:
			l.sweepIdleRooms(context.Background())
		case <-l.close:
			for _, dealer := range l.dealers {
				dealer.EndShift()
			}
			return
		}
	}
}

// EndShift shuts down the lobby and all of its dealers
func (l *Lobby) EndShift() {
	close(l.close)
}

func (l *Lobby) sweepInterval() time.Duration {
	interval := l.opts.RoomTTL / 12
	if interval < time.Minute {
		return time.Minute
	}

	return interval
}

// JoinRoom routes a join to the room's dealer, creating the dealer on first
// reference. Joins with missing fields are dropped without a response.
// This method must return quickly
func (l *Lobby) JoinRoom(client *Client, msg *PayloadIn) {
	if msg.RoomName == "" || msg.PlayerID == "" || msg.Username == "" {
		logrus.WithField("client", client.String()).Debug("ignoring join with missing fields")
		return
	}

	l.execInRunLoop <- func() {
		dealer, found := l.dealers[msg.RoomName]
		if !found {
			dealer = NewDealer(msg.RoomName, l.store, l.opts.TrickResolveDelay, l.opts.GameRestartDelay)
			dealer.StartShift()
			l.dealers[msg.RoomName] = dealer
		}

		if prev := client.swapDealer(dealer); prev != nil && prev != dealer {
			prev.ClientDisconnected(client)
		}

		dealer.AddClient(client)
		dealer.JoinRoom(client, msg)
	}
}

// ClientDisconnected is called when a client's transport closes
// This method must return quickly
func (l *Lobby) ClientDisconnected(client *Client) {
	if dealer := client.Dealer(); dealer != nil {
		dealer.ClientDisconnected(client)
	}
}

// sweepIdleRooms evicts rooms idle past the TTL with nobody connected.
// NOTE: must only be called from the run loop
func (l *Lobby) sweepIdleRooms(ctx context.Context) {
	names, err := l.store.IdleRooms(ctx, time.Now().Add(-l.opts.RoomTTL))
	if err != nil {
		logrus.WithError(err).Error("could not list idle rooms")
		return
	}

	for _, name := range names {
		dealer, found := l.dealers[name]
		if found && dealer.ClientCount() > 0 {
			continue
		}

		if err := l.store.Delete(ctx, name); err != nil {
			logrus.WithError(err).WithField("room", name).Error("could not evict room")
			continue
		}

		if found {
			dealer.EndShift()
			delete(l.dealers, name)
		}

		logrus.WithField("room", name).Info("evicted idle room")
	}
}
