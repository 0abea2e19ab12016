package room

import (
	"devanshi-server/pkg/deck"
)

// client→server actions
const (
	ActionJoinRoom    = "join-room"
	ActionTrumpChosen = "trump-chosen"
	ActionCardPlayed  = "card-played"
)

// PayloadIn is the format we expect from the JS client
type PayloadIn struct {
	Action     string     `json:"action"`
	RoomName   string     `json:"roomName"`
	PlayerID   string     `json:"playerId"`
	Username   string     `json:"username"`
	ChosenSuit deck.Suit  `json:"chosenSuit"`
	Card       *deck.Card `json:"card"`
}
