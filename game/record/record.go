// Package record stores summaries of finished solitaire games.
//
// A record is written when a game is won, when a played game is restarted,
// and when a session holding moves is deleted or expires. Three stores are
// provided: MemoryStore for tests and ephemeral servers, FileStore with one
// JSON file per record, and SQLiteStore backed by go-sqlite3.
package record

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

var ErrRecordNotFound = errors.New("record not found")

// DefaultLimit applies when List or Leaderboard get a limit below 1
const DefaultLimit = 20

// Reason explains why a game was archived
type Reason string

const (
	ReasonWon     Reason = "won"
	ReasonRestart Reason = "restart"
	ReasonDeleted Reason = "deleted"
	ReasonExpired Reason = "expired"
)

// Record summarizes one finished game
type Record struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id"`
	ConfigName      string    `json:"config_name"`
	Reason          Reason    `json:"reason"`
	Won             bool      `json:"won"`
	Score           int       `json:"score"`
	Moves           int       `json:"moves"`
	Redeals         int       `json:"redeals"`
	FoundationCards int       `json:"foundation_cards"`
	Efficiency      int       `json:"efficiency"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}

// Store persists finished game records
type Store interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	// List returns the most recent records first
	List(ctx context.Context, limit int) ([]*Record, error)
	// Leaderboard returns wins first, then by score and fewest moves
	Leaderboard(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}

// NewID returns a sortable record id
func NewID() string {
	return ulid.Make().String()
}

// FromState builds a record for the game a session is leaving behind
func FromState(sessionID string, state *engine.GameState, reason Reason, startedAt time.Time) *Record {
	return &Record{
		ID:              NewID(),
		SessionID:       sessionID,
		ConfigName:      state.ConfigName,
		Reason:          reason,
		Won:             state.Won,
		Score:           state.Score,
		Moves:           state.Moves,
		Redeals:         state.Redeals,
		FoundationCards: state.FoundationCards(),
		Efficiency:      engine.CalculateScore(state.Moves),
		StartedAt:       startedAt.UTC(),
		FinishedAt:      time.Now().UTC(),
	}
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return DefaultLimit
	}
	return limit
}

// ranksAbove orders records for the leaderboard
func ranksAbove(a, b *Record) bool {
	if a.Won != b.Won {
		return a.Won
	}
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Moves != b.Moves {
		return a.Moves < b.Moves
	}
	return a.FinishedAt.Before(b.FinishedAt)
}

func sortRecent(records []*Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].FinishedAt.Equal(records[j].FinishedAt) {
			return records[i].FinishedAt.After(records[j].FinishedAt)
		}
		return records[i].ID > records[j].ID
	})
}

func sortLeaderboard(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool { return ranksAbove(records[i], records[j]) })
}

func truncate(records []*Record, limit int) []*Record {
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
