package service

import (
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// Event types carried in MoveResult.Events
const (
	EventMove       = "move"
	EventFlip       = "flip"
	EventDraw       = "draw"
	EventRedeal     = "redeal"
	EventFoundation = "foundation"
	EventVictory    = "victory"
	EventRestart    = "restart"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Token          string             `json:"token,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move, auto-move or draw
type MoveResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	MoveType   engine.MoveType   `json:"move_type,omitempty"`
	ScoreDelta int               `json:"score_delta"`
	Flipped    string            `json:"flipped,omitempty"`
	Events     []GameEvent       `json:"events,omitempty"`
	GameState  *engine.GameState `json:"game_state"`
}

// GameEvent represents something that happened during an action
type GameEvent struct {
	Type      string        `json:"type"` // "move", "flip", "draw", "redeal", "foundation", "victory", "restart"
	Message   string        `json:"message"`
	Card      string        `json:"card,omitempty"`
	Pile      engine.PileID `json:"pile,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// HintsResponse lists the legal actions for a session
type HintsResponse struct {
	Moves     []engine.MoveOption `json:"moves"`
	Count     int                 `json:"count"`
	Suggested *engine.MoveOption  `json:"suggested,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	WinFoundations int    `json:"win_foundations"`
}
