package engine

import "fmt"

// MoveType classifies a move by its source and destination pile types
type MoveType string

const (
	MoveFlip                MoveType = "flip"
	MoveTableauToFoundation MoveType = "tableau_to_foundation"
	MoveFoundationToTableau MoveType = "foundation_to_tableau"
	MoveTableauToTableau    MoveType = "tableau_to_tableau"
	MoveWasteToFoundation   MoveType = "waste_to_foundation"
	MoveWasteToTableau      MoveType = "waste_to_tableau"
	MoveInvalid             MoveType = "invalid_move"
)

// ScoreTable maps move types to point deltas. Deltas may be negative.
type ScoreTable map[MoveType]int

// DefaultScoreTable returns the standard deltas
func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		MoveTableauToTableau:    5,
		MoveWasteToTableau:      5,
		MoveWasteToFoundation:   10,
		MoveTableauToFoundation: 10,
		MoveFoundationToTableau: 0,
		MoveFlip:                0,
		MoveInvalid:             0,
	}
}

// Delta returns the points for a move type. Types missing from the table
// fall back to the default table; invalid moves are always worth 0.
func (t ScoreTable) Delta(mt MoveType) int {
	if mt == MoveInvalid {
		return 0
	}
	if v, ok := t[mt]; ok {
		return v
	}
	return DefaultScoreTable()[mt]
}

// ClassifyMove returns the move type for a transfer from src to dst.
// A nil pile or an unrecognised pairing is MoveInvalid.
func ClassifyMove(src, dst *Pile) MoveType {
	if src == nil || dst == nil {
		return MoveInvalid
	}

	switch {
	case src.Type == TableauPile && dst.Type == TableauPile:
		return MoveTableauToTableau
	case src.Type == TableauPile && dst.Type == FoundationPile:
		return MoveTableauToFoundation
	case src.Type == DiscardPile && dst.Type == TableauPile:
		return MoveWasteToTableau
	case src.Type == DiscardPile && dst.Type == FoundationPile:
		return MoveWasteToFoundation
	case src.Type == FoundationPile && dst.Type == TableauPile:
		return MoveFoundationToTableau
	case src.Type == StockPile && dst.Type == DiscardPile,
		src.Type == DiscardPile && dst.Type == StockPile:
		return MoveFlip
	default:
		return MoveInvalid
	}
}

// ScoreKeeper tracks the running total for a game
type ScoreKeeper struct {
	table ScoreTable
	total *int
}

// NewScoreKeeper binds a keeper to total. A nil total gets its own counter.
func NewScoreKeeper(table ScoreTable, total *int) *ScoreKeeper {
	if table == nil {
		table = DefaultScoreTable()
	}
	if total == nil {
		total = new(int)
	}
	return &ScoreKeeper{table: table, total: total}
}

// Apply classifies the move, adds its delta and returns both
func (s *ScoreKeeper) Apply(src, dst *Pile) (MoveType, int) {
	mt := ClassifyMove(src, dst)
	delta := s.table.Delta(mt)
	*s.total += delta
	return mt, delta
}

func (s *ScoreKeeper) Add(points int) { *s.total += points }
func (s *ScoreKeeper) Set(points int) { *s.total = points }
func (s *ScoreKeeper) Clear()         { *s.total = 0 }
func (s *ScoreKeeper) Current() int   { return *s.total }

// Display returns the score line shown to the player
func (s *ScoreKeeper) Display() string { return FormatScore(*s.total) }

// FormatScore renders a score as "Score: N"
func FormatScore(score int) string {
	return fmt.Sprintf("Score: %d", score)
}

// CalculateScore rates a finished game by how few moves it took
func CalculateScore(moves int) int {
	if moves < 0 {
		moves = 0
	}
	return 10000 / (moves + 10)
}
