package engine

const (
	NumFoundations = 4
	NumTableaus    = 7
	CardsPerSuit   = 13
	DeckSize       = 52

	// DealtCards is 1+2+...+7, the cards placed on the tableaus by Deal.
	DealtCards = NumTableaus * (NumTableaus + 1) / 2
	StockSize  = DeckSize - DealtCards

	// DefaultWinFoundations is the number of complete foundations that
	// counts as a win when a config does not say otherwise.
	DefaultWinFoundations = 3

	WebSocketBufferSize = 256
)

// Phase is the controller state of a game
type Phase string

const (
	PhaseDealing Phase = "dealing"
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
)

// Action names recorded in the move history
const (
	ActionMove     = "move"
	ActionAutoMove = "auto_move"
	ActionDraw     = "draw"
	ActionRedeal   = "redeal"
)

// GameMessages holds the player-facing text for each controller action.
// Entries containing %s receive the card name, %d the score.
type GameMessages struct {
	Welcome          string `json:"welcome"`
	PlacedFoundation string `json:"placed_foundation"`
	PlacedTableau    string `json:"placed_tableau"`
	Drew             string `json:"drew"`
	Redeal           string `json:"redeal"`
	StockEmpty       string `json:"stock_empty"`
	InvalidMove      string `json:"invalid_move"`
	Victory          string `json:"victory"`
}

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	WinFoundations int          `json:"win_foundations"`
	Scoring        ScoreTable   `json:"scoring,omitempty"`
	Messages       GameMessages `json:"messages"`
}

// GameState represents the complete game state
type GameState struct {
	Stock       *Pile   `json:"stock"`
	Discard     *Pile   `json:"discard"`
	Foundations []*Pile `json:"foundations"`
	Tableaus    []*Pile `json:"tableaus"`

	Score     int    `json:"score"`
	ScoreText string `json:"score_text"`
	// Moves counts successful card moves and stock actions since the last deal.
	Moves   int    `json:"moves"`
	Redeals int    `json:"redeals"`
	Phase   Phase  `json:"phase"`
	Won     bool   `json:"won"`
	Message string `json:"message"`

	ConfigName  string             `json:"config_name"`
	MoveHistory []MoveHistoryEntry `json:"move_history"`
	TotalMoves  int                `json:"total_moves"`

	// CurrentMoves tracks only the moves since the last restart. It mirrors MoveHistory entries
	// but gets cleared on restart while MoveHistory remains cumulative.
	CurrentMoves      []MoveHistoryEntry `json:"current_moves"`
	CurrentMovesCount int                `json:"current_moves_count"`

	// card -> pile lookup, rebuilt from the piles when nil
	locations map[CardID]PileID
}

// MoveHistoryEntry represents a single action in the game history
type MoveHistoryEntry struct {
	Action     string   `json:"action"`
	Card       string   `json:"card,omitempty"`
	Count      int      `json:"count,omitempty"`
	From       PileID   `json:"from,omitempty"`
	To         PileID   `json:"to,omitempty"`
	MoveType   MoveType `json:"move_type"`
	ScoreDelta int      `json:"score_delta"`
	Score      int      `json:"score"`
	Flipped    string   `json:"flipped,omitempty"` // card revealed by auto-flip
	Timestamp  int64    `json:"timestamp"`
	Success    bool     `json:"success"`
	MoveNumber int      `json:"move_number"`
}

// MoveOption is a legal action available in the current state
type MoveOption struct {
	Action   string   `json:"action"`
	Card     string   `json:"card,omitempty"`
	Count    int      `json:"count,omitempty"`
	From     PileID   `json:"from"`
	To       PileID   `json:"to"`
	MoveType MoveType `json:"move_type"`
	// Reveals is set when the move would expose a face-down tableau card.
	Reveals bool `json:"reveals,omitempty"`
}
