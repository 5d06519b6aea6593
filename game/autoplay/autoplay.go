// Package autoplay plays solitaire games without a human, for simulations
// and for the analyze command.
package autoplay

import (
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// DefaultMaxSteps bounds a single game when the caller passes 0
const DefaultMaxSteps = 5000

// Result summarizes one automated game
type Result struct {
	Won             bool `json:"won"`
	Stalled         bool `json:"stalled"`
	Steps           int  `json:"steps"`
	Moves           int  `json:"moves"`
	Score           int  `json:"score"`
	Redeals         int  `json:"redeals"`
	FoundationCards int  `json:"foundation_cards"`
	Efficiency      int  `json:"efficiency"`
}

// Strategy picks the next action for a game
type Strategy struct {
	lastProgress int
	seenRedeal   bool
}

// NewStrategy returns a greedy strategy with a fresh stall detector
func NewStrategy() *Strategy {
	return &Strategy{}
}

// progress only grows under the moves the strategy makes: cards reach the
// foundations, tableau cards are revealed or the stock and discard shrink.
func progress(gs *engine.GameState) int {
	return gs.FoundationCards() - gs.FaceDownTableauCards() - gs.Stock.Size() - gs.Discard.Size()
}

// NextMove picks an option from moves. Foundation moves come first, then
// tableau moves that reveal a card, then discard plays, then the stock.
// Moves that could undo earlier work are never chosen.
func (s *Strategy) NextMove(moves []engine.MoveOption) (engine.MoveOption, bool) {
	var reveal, fromDiscard, stock *engine.MoveOption

	for i := range moves {
		m := &moves[i]
		switch {
		case m.Action == engine.ActionDraw || m.Action == engine.ActionRedeal:
			stock = m
		case m.MoveType == engine.MoveTableauToFoundation || m.MoveType == engine.MoveWasteToFoundation:
			return *m, true
		case m.MoveType == engine.MoveTableauToTableau && m.Reveals:
			if reveal == nil {
				reveal = m
			}
		case m.MoveType == engine.MoveWasteToTableau:
			if fromDiscard == nil {
				fromDiscard = m
			}
		}
	}

	for _, m := range []*engine.MoveOption{reveal, fromDiscard, stock} {
		if m != nil {
			return *m, true
		}
	}
	return engine.MoveOption{}, false
}

// Stalled reports whether a full pass through the stock made no progress.
// It is checked before each redeal.
func (s *Strategy) Stalled(gs *engine.GameState) bool {
	p := progress(gs)
	if s.seenRedeal && p == s.lastProgress {
		return true
	}
	s.seenRedeal = true
	s.lastProgress = p
	return false
}

// Play runs the greedy strategy until the game is won, no move is left, the
// stock cycles without progress or maxSteps actions have been taken.
func Play(eng engine.Engine, maxSteps int) Result {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	s := NewStrategy()
	res := Result{}

	for res.Steps < maxSteps && !eng.IsGameWon() {
		m, ok := s.NextMove(eng.GetPossibleMoves())
		if !ok {
			break
		}
		if m.Action == engine.ActionRedeal && s.Stalled(eng.GetState()) {
			res.Stalled = true
			break
		}

		if !apply(eng, m) {
			break
		}
		res.Steps++
	}

	gs := eng.GetState()
	res.Won = eng.IsGameWon()
	res.Moves = gs.Moves
	res.Score = eng.GetScore()
	res.Redeals = gs.Redeals
	res.FoundationCards = gs.FoundationCards()
	res.Efficiency = engine.CalculateScore(gs.Moves)
	return res
}

func apply(eng engine.Engine, m engine.MoveOption) bool {
	if m.Action == engine.ActionDraw || m.Action == engine.ActionRedeal {
		return eng.DrawFromStock()
	}
	id, err := engine.ParseCardID(m.Card)
	if err != nil {
		return false
	}
	return eng.AttemptMove(id, m.To)
}
