package game

import (
	"devanshi-server/pkg/deck"

	"github.com/sirupsen/logrus"
)

// DealNewGame starts a fresh deal in a full room: builds and shuffles a deck,
// deals 13 cards to each seat round-robin starting at seat 0, resets all
// round state, and determines the jack chooser.
//
// The jack chooser privately receives their hand (deal-started) and picks the
// trump suit; the other three seats get a game-ready notice with no cards.
func DealNewGame(room *Room) Outcome {
	d := deck.New()
	d.Shuffle()

	return dealFromDeck(room, d)
}

func dealFromDeck(room *Room, d *deck.Deck) Outcome {
	if !room.IsFull() {
		return ignored("room does not have four seats")
	}

	room.Deck = d.Cards
	room.RoundWins = [SeatCount]int{}
	room.TeamScores = [TeamCount]int{}
	room.CurrentTrick = nil
	room.TrumpSuit = ""
	room.IsTrumpChosen = false
	room.GameInProgress = true

	// leader is provisional until trump is chosen
	room.CurrentLeader = 0

	for seat := range room.Hands {
		room.Hands[seat] = make(deck.Hand, 0, deck.Size/SeatCount)
	}

	// seat i receives deck positions i, i+4, i+8, ...
	for pos, card := range d.Cards {
		room.Hands[pos%SeatCount].AddCard(card)
	}

	room.JackChooser = findJackChooser(room.Hands)

	logrus.WithFields(logrus.Fields{
		"room":        room.Name,
		"jackChooser": room.JackChooser,
		"deckHash":    d.HashCode(),
	}).Debug("dealt new game")

	var o Outcome
	for _, p := range room.Players {
		if p.SeatIndex == room.JackChooser {
			o.unicast(p.ConnectionID, KeyDealStarted, dealStartedData{
				SeatIndex: p.SeatIndex,
				Cards:     room.Hands[p.SeatIndex].Clone(),
			})
		} else {
			o.unicast(p.ConnectionID, KeyGameReady, dealData{})
		}
	}

	return o
}

// findJackChooser scans the hands in seat order, each hand in dealt order,
// and returns the first seat holding a jack. A full standard deck always has
// one, but default to seat 0 anyway.
func findJackChooser(hands [SeatCount]deck.Hand) int {
	for seat, hand := range hands {
		for _, card := range hand {
			if card.Rank == deck.Jack {
				return seat
			}
		}
	}

	return 0
}

// ChooseTrump sets the trump suit for the current game. Only the jack chooser
// may choose, and only once per deal; anything else is protocol noise.
func ChooseTrump(room *Room, seat int, suit deck.Suit) Outcome {
	if !room.GameInProgress {
		return ignored("no game in progress")
	}

	if room.IsTrumpChosen {
		return ignored("trump has already been chosen")
	}

	if seat != room.JackChooser {
		return ignored("seat is not the jack chooser")
	}

	if !suit.IsValid() {
		return ignored("unknown suit")
	}

	room.TrumpSuit = suit
	room.IsTrumpChosen = true
	room.CurrentLeader = room.JackChooser

	var o Outcome
	o.broadcast(KeyRestDeal, room.restDealData())
	o.broadcast(KeyTrumpSuitSet, trumpSuitSetData{TrumpSuit: suit})

	return o
}

// PlayCard plays a card from the given seat into the current trick. The play
// is accepted only if trump has been chosen, the seat holds the card, and it
// is the seat's turn. The fourth card schedules the deferred trick sweep.
func PlayCard(room *Room, seat int, card *deck.Card) Outcome {
	if !room.IsTrumpChosen {
		return ignored("trump has not been chosen")
	}

	// a full trick is awaiting the deferred sweep; NextSeat has wrapped back
	// to the leader, so without this guard a fifth card would be accepted
	if len(room.CurrentTrick) >= SeatCount {
		return ignored("trick is awaiting resolution")
	}

	if seat < 0 || seat >= SeatCount {
		return ignored("invalid seat")
	}

	if card == nil || !room.Hands[seat].HasCard(card) {
		return ignored("card is not in the seat's hand")
	}

	if seat != room.NextSeat() {
		return ignored("not the seat's turn")
	}

	room.Hands[seat].Discard(card)

	username := ""
	for _, p := range room.Players {
		if p.SeatIndex == seat {
			username = p.Username
			break
		}
	}

	room.CurrentTrick = append(room.CurrentTrick, &PlayRecord{
		SeatIndex: seat,
		Card:      card,
		Username:  username,
	})

	var o Outcome
	o.broadcast(KeyTrickUpdated, trickUpdatedData{CurrentTrick: room.CurrentTrick})

	if len(room.CurrentTrick) == SeatCount {
		o.Scheduled = ActionResolveTrick
	}

	return o
}

// ResolveTrick sweeps a completed trick: scores the winner, and either ends
// the game (first team to TargetScore) or leads the next trick. Invoked from
// a deferred timer, so it re-validates the trick against current room state.
func ResolveTrick(room *Room) Outcome {
	if len(room.CurrentTrick) != SeatCount {
		return ignored("trick is not complete")
	}

	// the final trick stays on the table during the restart window; a stale
	// continuation must not score it again
	if room.TeamScores[0] >= TargetScore || room.TeamScores[1] >= TargetScore {
		return ignored("game is already over")
	}

	winner := EvaluateTrickWinner(room.CurrentTrick, room.TrumpSuit)
	winningTeam := winner % TeamCount

	room.RoundWins[winner]++
	room.TeamScores[winningTeam]++

	var o Outcome
	o.broadcast(KeyRoundEnd, roundEndData{
		Winner:     &winner,
		TeamScores: room.TeamScores,
	})

	if room.TeamScores[winningTeam] >= TargetScore {
		o.broadcast(KeyGameOver, gameOverData{WinningTeam: winningTeam})
		o.Scheduled = ActionDealNewGame
		return o
	}

	room.CurrentLeader = winner
	room.CurrentTrick = nil
	o.broadcast(KeyNewTrick, newTrickData{CurrentLeader: winner})

	return o
}

// JoinOrReconnect seats a new player or rebinds an existing seat to a fresh
// connection. The fourth seat to join starts the first game. A fifth distinct
// player is turned away with room-full, the only anomaly this protocol
// surfaces to a client.
func JoinOrReconnect(room *Room, playerID, connectionID, username string) Outcome {
	if playerID == "" || username == "" {
		return ignored("missing playerId or username")
	}

	if p := room.PlayerByID(playerID); p != nil {
		p.ConnectionID = connectionID
		p.Username = username
		p.IsConnected = true

		return resync(room, p)
	}

	if room.IsFull() {
		var o Outcome
		o.Ignored = "room is full"
		o.unicast(connectionID, KeyRoomFull, roomFullData{RoomName: room.Name})
		return o
	}

	p := &Player{
		PlayerID:     playerID,
		ConnectionID: connectionID,
		SeatIndex:    len(room.Players),
		Username:     username,
		IsConnected:  true,
	}
	room.Players = append(room.Players, p)

	var o Outcome
	o.unicast(connectionID, KeyPlayerNumber, playerNumberData{PlayerIndex: p.SeatIndex})

	if room.IsFull() && !room.GameInProgress {
		o.merge(DealNewGame(room))
	}

	return o
}

// resync brings a reconnecting client back up to date with the room's phase
func resync(room *Room, p *Player) Outcome {
	var o Outcome
	o.unicast(p.ConnectionID, KeyPlayerNumber, playerNumberData{PlayerIndex: p.SeatIndex})

	if room.GameInProgress {
		if !room.IsTrumpChosen && p.SeatIndex == room.JackChooser {
			o.unicast(p.ConnectionID, KeyDealStarted, dealStartedData{
				SeatIndex: p.SeatIndex,
				Cards:     room.Hands[p.SeatIndex].Clone(),
			})
		} else if room.IsTrumpChosen {
			o.unicast(p.ConnectionID, KeyRestDeal, room.restDealData())
		}

		if len(room.CurrentTrick) > 0 {
			o.unicast(p.ConnectionID, KeyTrickUpdated, trickUpdatedData{CurrentTrick: room.CurrentTrick})
		}
	}

	// winner stays null so the client refreshes the scoreboard without
	// animating a trick result
	o.unicast(p.ConnectionID, KeyRoundEnd, roundEndData{TeamScores: room.TeamScores})

	return o
}

// Disconnect marks the seat bound to the connection as offline. The seat and
// the game survive; the same playerID can reconnect and resume.
func Disconnect(room *Room, connectionID string) Outcome {
	p := room.PlayerByConnection(connectionID)
	if p == nil {
		return ignored("connection is not bound to a seat")
	}

	p.ConnectionID = ""
	p.IsConnected = false

	logrus.WithFields(logrus.Fields{
		"room": room.Name,
		"seat": p.SeatIndex,
	}).Debug("seat went offline")

	return Outcome{}
}
