package game

import (
	"devanshi-server/pkg/deck"
)

// server→client event keys
const (
	KeyPlayerNumber = "player-number"
	KeyRoomFull     = "room-full"
	KeyDealStarted  = "deal-started"
	KeyGameReady    = "game-ready"
	KeyRestDeal     = "rest-deal"
	KeyTrumpSuitSet = "trump-suit-set"
	KeyTrickUpdated = "trick-updated"
	KeyRoundEnd     = "round-end"
	KeyNewTrick     = "new-trick"
	KeyGameOver     = "game-over"
)

type playerNumberData struct {
	PlayerIndex int `json:"playerIndex"`
}

type roomFullData struct {
	RoomName string `json:"roomName"`
}

type dealStartedData struct {
	SeatIndex int       `json:"seatIndex"`
	Cards     deck.Hand `json:"cards"`
}

// dealData is shared by game-ready (all fields null) and rest-deal
type dealData struct {
	AllHands      []deck.Hand `json:"allHands"`
	TrumpSuit     *deck.Suit  `json:"trumpSuit"`
	CurrentLeader *int        `json:"currentLeader"`
}

type trumpSuitSetData struct {
	TrumpSuit deck.Suit `json:"trumpSuit"`
}

type trickUpdatedData struct {
	CurrentTrick []*PlayRecord `json:"currentTrick"`
}

// roundEndData carries a nil Winner when re-sent on reconnect to refresh the
// scoreboard without implying a fresh trick result
type roundEndData struct {
	Winner     *int           `json:"winner"`
	TeamScores [TeamCount]int `json:"teamScores"`
}

type newTrickData struct {
	CurrentLeader int `json:"currentLeader"`
}

type gameOverData struct {
	WinningTeam int `json:"winningTeam"`
}

func (r *Room) restDealData() dealData {
	hands := make([]deck.Hand, SeatCount)
	for i, hand := range r.Hands {
		hands[i] = hand.Clone()
	}

	trump := r.TrumpSuit
	leader := r.CurrentLeader

	return dealData{
		AllHands:      hands,
		TrumpSuit:     &trump,
		CurrentLeader: &leader,
	}
}
