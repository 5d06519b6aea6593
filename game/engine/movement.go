package engine

import (
	"fmt"
	"time"
)

type movePlan struct {
	src, dst *Pile
	run      []Card
}

// planMove resolves a move request without mutating anything. A nil plan
// with a reason means the request itself was malformed; a nil plan with an
// empty reason means the rules reject the placement.
func (gs *GameState) planMove(id CardID, destID PileID) (*movePlan, string) {
	if !id.Valid() {
		return nil, fmt.Sprintf("Unknown card %s.", id)
	}
	dst := gs.Pile(destID)
	if dst == nil {
		return nil, fmt.Sprintf("Unknown pile %s.", destID)
	}
	srcID, ok := gs.Locate(id)
	if !ok {
		return nil, fmt.Sprintf("Card %s is not on the table.", id)
	}
	src := gs.Pile(srcID)
	if src.ID == dst.ID {
		return nil, fmt.Sprintf("Card %s is already on %s.", id, dst.ID)
	}

	run, ok := MovableRun(src, id)
	if !ok {
		return nil, fmt.Sprintf("Card %s cannot be picked up from %s.", id, src.ID)
	}
	if !IsRunValid(run, dst) {
		return nil, ""
	}
	return &movePlan{src: src, dst: dst, run: run}, ""
}

// transfer moves run from the top of src onto dst and flips a newly exposed
// face-down tableau card
func (gs *GameState) transfer(src, dst *Pile, run []Card) (flipped Card, didFlip bool) {
	src.TakeFrom(src.Size() - len(run))
	dst.PushRun(run)
	gs.relocate(run, dst.ID)

	if src.Type == TableauPile {
		return src.FlipTop()
	}
	return Card{}, false
}

// drawOne moves the top stock card to the discard pile face up
func (gs *GameState) drawOne() (Card, bool) {
	card, ok := gs.Stock.RemoveTop()
	if !ok {
		return Card{}, false
	}
	card.FaceDown = false
	gs.Discard.Push(card)
	gs.relocate([]Card{card}, DiscardID)
	return card, true
}

// refillStock turns the discard pile over into the stock, face down, so the
// first card drawn is on top again
func (gs *GameState) refillStock() int {
	cards := gs.Discard.Cards
	gs.Discard.Clear()
	for i := len(cards) - 1; i >= 0; i-- {
		card := cards[i]
		card.FaceDown = true
		gs.Stock.Push(card)
	}
	// relocate may rebuild the whole index, so the piles must be final
	gs.relocate(cards, StockID)
	return len(cards)
}

// AddMoveToHistory appends an entry to both the cumulative and current history
func (gs *GameState) AddMoveToHistory(entry MoveHistoryEntry, success bool) {
	entry.Success = success
	entry.Score = gs.Score
	entry.Timestamp = time.Now().Unix()
	entry.MoveNumber = gs.TotalMoves + 1

	gs.MoveHistory = append(gs.MoveHistory, entry)
	gs.TotalMoves++

	gs.CurrentMoves = append(gs.CurrentMoves, entry)
	gs.CurrentMovesCount++
}
