package game

import (
	"testing"

	"devanshi-server/pkg/deck"

	"github.com/stretchr/testify/assert"
)

func play(seat int, card string) *PlayRecord {
	return &PlayRecord{
		SeatIndex: seat,
		Card:      deck.CardFromString(card),
	}
}

func TestEvaluateTrickWinner_onlyTrumpWins(t *testing.T) {
	trick := []*PlayRecord{
		play(0, "10c"),
		play(1, "13c"),
		play(2, "2h"),
		play(3, "14c"),
	}

	assert.Equal(t, 2, EvaluateTrickWinner(trick, deck.Hearts))
}

func TestEvaluateTrickWinner_highestLedSuit(t *testing.T) {
	trick := []*PlayRecord{
		play(0, "7d"),
		play(1, "13d"),
		play(2, "3c"),
		play(3, "12d"),
	}

	assert.Equal(t, 1, EvaluateTrickWinner(trick, deck.Spades))
}

func TestEvaluateTrickWinner_higherTrumpWins(t *testing.T) {
	trick := []*PlayRecord{
		play(0, "14d"),
		play(1, "2s"),
		play(2, "13d"),
		play(3, "10s"),
	}

	assert.Equal(t, 3, EvaluateTrickWinner(trick, deck.Spades))
}

func TestEvaluateTrickWinner_offSuitNeverWins(t *testing.T) {
	// seat 3's ace is neither trump nor the led suit
	trick := []*PlayRecord{
		play(0, "2d"),
		play(1, "3c"),
		play(2, "4c"),
		play(3, "14c"),
	}

	assert.Equal(t, 0, EvaluateTrickWinner(trick, deck.Spades))
}

func TestEvaluateTrickWinner_trumpLed(t *testing.T) {
	trick := []*PlayRecord{
		play(0, "9h"),
		play(1, "14h"),
		play(2, "2h"),
		play(3, "14s"),
	}

	assert.Equal(t, 1, EvaluateTrickWinner(trick, deck.Hearts))
}

func TestEvaluateTrickWinner_leaderHolds(t *testing.T) {
	trick := []*PlayRecord{
		play(2, "14s"),
		play(3, "2d"),
		play(0, "3d"),
		play(1, "4d"),
	}

	assert.Equal(t, 2, EvaluateTrickWinner(trick, deck.Clubs))
}
