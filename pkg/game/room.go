package game

import (
	"devanshi-server/pkg/deck"
)

// SeatCount is the number of seats in a room
const SeatCount = 4

// TeamCount is the number of teams; seats {0,2} are team 0 and {1,3} are team 1
const TeamCount = 2

// TargetScore is the number of tricks a team must take to win the game
const TargetScore = 7

// Player is a seat in a room. A seat is created once per distinct playerID
// and survives for the lifetime of the room; a disconnect only clears the
// connection binding.
type Player struct {
	PlayerID     string `json:"playerId"`
	ConnectionID string `json:"connectionId"`
	SeatIndex    int    `json:"seatIndex"`
	Username     string `json:"username"`
	IsConnected  bool   `json:"isConnected"`
}

// PlayRecord is a single card played into the current trick
type PlayRecord struct {
	SeatIndex int        `json:"seatIndex"`
	Card      *deck.Card `json:"card"`
	Username  string     `json:"username"`
}

// Room is the unit of game state, keyed by a client-supplied name.
// All fields are serializable so a Room can round-trip through the room store.
type Room struct {
	Name           string               `json:"name"`
	Players        []*Player            `json:"players"`
	Hands          [SeatCount]deck.Hand `json:"hands"`
	TrumpSuit      deck.Suit            `json:"trumpSuit"`
	RoundWins      [SeatCount]int       `json:"roundWins"`
	TeamScores     [TeamCount]int       `json:"teamScores"`
	CurrentTrick   []*PlayRecord        `json:"currentTrick"`
	CurrentLeader  int                  `json:"currentLeader"`
	JackChooser    int                  `json:"jackChooser"`
	Deck           []*deck.Card         `json:"deck"`
	GameInProgress bool                 `json:"gameInProgress"`
	IsTrumpChosen  bool                 `json:"isTrumpChosen"`
}

// NewRoom returns an empty room with the given name
func NewRoom(name string) *Room {
	return &Room{
		Name:    name,
		Players: make([]*Player, 0, SeatCount),
	}
}

// NextSeat returns the seat allowed to play the next card of the active trick
func (r *Room) NextSeat() int {
	return (r.CurrentLeader + len(r.CurrentTrick)) % SeatCount
}

// PlayerByID returns the seated player with the given playerID, or nil
func (r *Room) PlayerByID(playerID string) *Player {
	for _, p := range r.Players {
		if p.PlayerID == playerID {
			return p
		}
	}

	return nil
}

// PlayerByConnection returns the seated player bound to the given connection, or nil
func (r *Room) PlayerByConnection(connectionID string) *Player {
	if connectionID == "" {
		return nil
	}

	for _, p := range r.Players {
		if p.ConnectionID == connectionID {
			return p
		}
	}

	return nil
}

// IsFull returns true once all four seats have been assigned
func (r *Room) IsFull() bool {
	return len(r.Players) == SeatCount
}
