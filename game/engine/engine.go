package engine

import (
	"fmt"
	"math/rand/v2"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Restart() *GameState
	IsGameWon() bool
	GetPhase() Phase

	// Score
	GetScore() int
	ScoreText() string
	SetScore(points int)
	AddScore(points int)
	ClearScore()

	// Player actions
	DrawFromStock() bool
	AttemptMove(card CardID, dest PileID) bool
	AutoMove(card CardID) bool

	// Queries
	CanMove(card CardID, dest PileID) bool
	PossibleMove(card CardID) (PileID, bool)
	GetPossibleMoves() []MoveOption
	TopCard(pile PileID) (Card, bool)
	Locate(card CardID) (PileID, bool)

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access per game.
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
	score  *ScoreKeeper
}

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithRand sets the shuffle source
func WithRand(r *rand.Rand) Option {
	return func(e *GameEngine) { e.rng = r }
}

// WithSeed makes every deal of the engine reproducible
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// NewEngine creates a new game engine with the provided configuration and deals the first game
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{config: config}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	e.deal()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultConfig(), opts...)
	if err != nil {
		// DefaultConfig always validates
		panic(err)
	}
	return e
}

// deal replaces the state with a fresh shuffle: dealing, then playing
func (e *GameEngine) deal() {
	e.state = InitGameStateFromConfig(e.config, e.rng)
	e.bindScore()
	e.state.Phase = PhasePlaying
}

func (e *GameEngine) bindScore() {
	e.score = NewScoreKeeper(e.config.Scoring, &e.state.Score)
	e.state.ScoreText = e.score.Display()
}

func (e *GameEngine) messages() GameMessages {
	return withMessageDefaults(e.config.Messages)
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState replaces the game state after checking that it holds a full deck
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Stock == nil || state.Discard == nil ||
		len(state.Foundations) != NumFoundations || len(state.Tableaus) != NumTableaus {
		return fmt.Errorf("state must have a stock, a discard pile, %d foundations and %d tableaus",
			NumFoundations, NumTableaus)
	}

	seen := make(map[CardID]bool, DeckSize)
	for _, p := range state.AllPiles() {
		if p == nil {
			return fmt.Errorf("state has a nil pile")
		}
		for _, c := range p.Cards {
			if !c.Valid() {
				return fmt.Errorf("state has invalid card %s on %s", c.ShortName(), p.ID)
			}
			if seen[c.ID()] {
				return fmt.Errorf("state has duplicate card %s", c.ShortName())
			}
			seen[c.ID()] = true
		}
	}
	if len(seen) != DeckSize {
		return fmt.Errorf("state must hold %d cards, got %d", DeckSize, len(seen))
	}

	state.reindex()
	e.state = state
	e.bindScore()
	return nil
}

// Restart deals a freshly shuffled game and clears the score
func (e *GameEngine) Restart() *GameState {
	// Preserve cumulative history and totals across restarts
	prevHistory := e.state.MoveHistory
	prevTotal := e.state.TotalMoves

	e.deal()

	e.state.MoveHistory = prevHistory
	e.state.TotalMoves = prevTotal
	e.state.CurrentMoves = []MoveHistoryEntry{}
	e.state.CurrentMovesCount = 0

	return e.state
}

// IsGameWon reports whether enough foundations are complete
func (e *GameEngine) IsGameWon() bool {
	need := e.config.WinFoundations
	if need <= 0 {
		need = DefaultWinFoundations
	}
	return e.state.CompletedFoundations() >= need
}

// GetPhase returns the controller phase
func (e *GameEngine) GetPhase() Phase {
	return e.state.Phase
}

// GetScore returns the current score
func (e *GameEngine) GetScore() int {
	return e.score.Current()
}

// ScoreText returns the score line, e.g. "Score: 15"
func (e *GameEngine) ScoreText() string {
	return e.score.Display()
}

func (e *GameEngine) SetScore(points int) {
	e.score.Set(points)
	e.state.ScoreText = e.score.Display()
}

func (e *GameEngine) AddScore(points int) {
	e.score.Add(points)
	e.state.ScoreText = e.score.Display()
}

func (e *GameEngine) ClearScore() {
	e.score.Clear()
	e.state.ScoreText = e.score.Display()
}

// TopCard returns the top card of a pile
func (e *GameEngine) TopCard(pile PileID) (Card, bool) {
	return e.state.Pile(pile).TopCard()
}

// Locate returns the pile currently holding the card
func (e *GameEngine) Locate(card CardID) (PileID, bool) {
	return e.state.Locate(card)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig changes the rules; the new scoring applies from the next move
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}
	e.config = config
	e.state.ConfigName = config.Name
	e.bindScore()
	return nil
}

// GetMoveHistory returns the cumulative move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.state.MoveHistory
}

// GetLastMove returns the most recent history entry
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.state.MoveHistory) == 0 {
		return nil
	}
	return &e.state.MoveHistory[len(e.state.MoveHistory)-1]
}

// DrawFromStock turns the top stock card onto the discard pile. With an
// empty stock it turns the discard pile back over into the stock instead.
// It returns false only when both piles are empty.
func (e *GameEngine) DrawFromStock() bool {
	gs := e.state
	msgs := e.messages()
	entry := MoveHistoryEntry{Action: ActionDraw, From: StockID, To: DiscardID, MoveType: MoveFlip}

	switch {
	case !gs.Stock.IsEmpty():
		card, _ := gs.drawOne()
		entry.Card = card.ShortName()
		entry.Count = 1
		_, entry.ScoreDelta = e.score.Apply(gs.Stock, gs.Discard)
		gs.Message = formatCardMessage(msgs.Drew, card)

	case !gs.Discard.IsEmpty():
		entry.Action = ActionRedeal
		entry.From, entry.To = DiscardID, StockID
		_, entry.ScoreDelta = e.score.Apply(gs.Discard, gs.Stock)
		entry.Count = gs.refillStock()
		gs.Redeals++
		gs.Message = msgs.Redeal

	default:
		gs.Message = msgs.StockEmpty
		entry.MoveType = MoveInvalid
		gs.AddMoveToHistory(entry, false)
		return false
	}

	gs.Moves++
	gs.ScoreText = e.score.Display()
	gs.AddMoveToHistory(entry, true)
	return true
}

// AttemptMove moves the card, together with any cards above it on a
// tableau, onto dest. Illegal requests leave the game untouched and return
// false with the reason in the state message.
func (e *GameEngine) AttemptMove(card CardID, dest PileID) bool {
	return e.execute(ActionMove, card, dest)
}

// CanMove reports whether AttemptMove would succeed
func (e *GameEngine) CanMove(card CardID, dest PileID) bool {
	plan, _ := e.state.planMove(card, dest)
	return plan != nil
}

// PossibleMove finds where a double-click would send the card: the first
// foundation that accepts it, otherwise the first tableau.
func (e *GameEngine) PossibleMove(card CardID) (PileID, bool) {
	srcID, ok := e.state.Locate(card)
	if !ok {
		return "", false
	}
	run, ok := MovableRun(e.state.Pile(srcID), card)
	if !ok {
		return "", false
	}

	for _, p := range e.state.Foundations {
		if p.ID != srcID && IsRunValid(run, p) {
			return p.ID, true
		}
	}
	for _, p := range e.state.Tableaus {
		if p.ID != srcID && IsRunValid(run, p) {
			return p.ID, true
		}
	}
	return "", false
}

// AutoMove sends the top card of a pile to PossibleMove's destination
func (e *GameEngine) AutoMove(card CardID) bool {
	gs := e.state
	srcID, ok := gs.Locate(card)
	if ok {
		if top, hasTop := gs.Pile(srcID).TopCard(); !hasTop || top.ID() != card {
			ok = false
		}
	}
	if !ok {
		gs.Message = fmt.Sprintf("Card %s is not on top of a pile.", card)
		gs.AddMoveToHistory(MoveHistoryEntry{Action: ActionAutoMove, Card: card.String(), From: srcID, MoveType: MoveInvalid}, false)
		return false
	}

	dest, found := e.PossibleMove(card)
	if !found {
		gs.Message = fmt.Sprintf("No move available for %s.", card)
		gs.AddMoveToHistory(MoveHistoryEntry{Action: ActionAutoMove, Card: card.String(), From: srcID, MoveType: MoveInvalid}, false)
		return false
	}
	return e.execute(ActionAutoMove, card, dest)
}

func (e *GameEngine) execute(action string, id CardID, dest PileID) bool {
	gs := e.state
	msgs := e.messages()
	entry := MoveHistoryEntry{Action: action, Card: id.String(), To: dest, MoveType: MoveInvalid}

	plan, reason := gs.planMove(id, dest)
	if plan == nil {
		if reason == "" {
			reason = formatCardMessage(msgs.InvalidMove, Card{Suit: id.Suit, Rank: id.Rank})
		}
		if from, ok := gs.Locate(id); ok {
			entry.From = from
		}
		gs.Message = reason
		gs.AddMoveToHistory(entry, false)
		return false
	}

	entry.From = plan.src.ID
	entry.Count = len(plan.run)

	flipped, didFlip := gs.transfer(plan.src, plan.dst, plan.run)
	if didFlip {
		entry.Flipped = flipped.ShortName()
	}
	entry.MoveType, entry.ScoreDelta = e.score.Apply(plan.src, plan.dst)
	gs.ScoreText = e.score.Display()
	gs.Moves++

	bottom := plan.run[0]
	if plan.dst.Type == FoundationPile {
		gs.Message = formatCardMessage(msgs.PlacedFoundation, bottom)
		e.checkWin()
	} else {
		gs.Message = formatCardMessage(msgs.PlacedTableau, bottom)
	}

	gs.AddMoveToHistory(entry, true)
	return true
}

// checkWin latches the won phase the first time the win condition holds.
// Play is not blocked afterwards.
func (e *GameEngine) checkWin() {
	if e.state.Won || !e.IsGameWon() {
		return
	}
	e.state.Won = true
	e.state.Phase = PhaseWon
	e.state.Message = fmt.Sprintf(e.messages().Victory, e.score.Current())
}

// GetPossibleMoves lists every legal card move that makes progress, plus the
// stock action when one is available
func (e *GameEngine) GetPossibleMoves() []MoveOption {
	gs := e.state
	var moves []MoveOption

	sources := []*Pile{gs.Discard}
	sources = append(sources, gs.Tableaus...)
	sources = append(sources, gs.Foundations...)
	targets := append(append([]*Pile{}, gs.Foundations...), gs.Tableaus...)

	for _, src := range sources {
		for i, c := range src.Cards {
			if c.FaceDown {
				continue
			}
			run, ok := MovableRun(src, c.ID())
			if !ok {
				continue
			}
			reveals := src.Type == TableauPile && i > 0 && src.Cards[i-1].FaceDown
			for _, dst := range targets {
				if dst.ID == src.ID || !IsRunValid(run, dst) || shuffles(src, dst, i) {
					continue
				}
				moves = append(moves, MoveOption{
					Action:   ActionMove,
					Card:     c.ShortName(),
					Count:    len(run),
					From:     src.ID,
					To:       dst.ID,
					MoveType: ClassifyMove(src, dst),
					Reveals:  reveals,
				})
			}
		}
	}

	switch {
	case !gs.Stock.IsEmpty():
		moves = append(moves, MoveOption{Action: ActionDraw, From: StockID, To: DiscardID, MoveType: MoveFlip})
	case !gs.Discard.IsEmpty():
		moves = append(moves, MoveOption{Action: ActionRedeal, From: DiscardID, To: StockID, MoveType: MoveFlip})
	}

	return moves
}

// shuffles reports a legal move that leaves the table the same up to pile
// order: a lone ace between foundations, or a whole face-up tableau onto an
// empty one.
func shuffles(src, dst *Pile, index int) bool {
	switch {
	case src.Type == FoundationPile && dst.Type == FoundationPile:
		return true
	case src.Type == TableauPile && dst.Type == TableauPile:
		return index == 0 && dst.IsEmpty()
	}
	return false
}

func formatCardMessage(format string, card Card) string {
	return fmt.Sprintf(format, card.String())
}
