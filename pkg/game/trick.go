package game

import (
	"devanshi-server/pkg/deck"
)

// EvaluateTrickWinner returns the seat that takes the trick.
// The suit of the first play is the led suit. A trump beats any non-trump,
// a higher trump beats a lower trump, a higher card of the led suit beats a
// lower one, and an off-suit card never wins.
//
// The trick must contain exactly four plays; callers guarantee the length.
func EvaluateTrickWinner(trick []*PlayRecord, trumpSuit deck.Suit) int {
	best := trick[0]
	ledSuit := trick[0].Card.Suit

	for _, play := range trick[1:] {
		if beats(play.Card, best.Card, ledSuit, trumpSuit) {
			best = play
		}
	}

	return best.SeatIndex
}

// beats returns true if card takes precedence over the current best card
func beats(card, best *deck.Card, ledSuit, trumpSuit deck.Suit) bool {
	cardTrump := card.Suit == trumpSuit
	bestTrump := best.Suit == trumpSuit

	switch {
	case cardTrump && !bestTrump:
		return true
	case cardTrump && bestTrump:
		return card.Rank > best.Rank
	case bestTrump:
		return false
	case card.Suit != ledSuit:
		// off-suit never wins
		return false
	case best.Suit != ledSuit:
		return true
	default:
		return card.Rank > best.Rank
	}
}
