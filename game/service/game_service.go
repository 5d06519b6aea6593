package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
)

var (
	// ErrInvalidInput marks requests that name an unknown card or pile
	ErrInvalidInput = errors.New("invalid input")
	// ErrConfigNotFound is returned by ConfigManager implementations
	ErrConfigNotFound = errors.New("configuration not found")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, card, to string) (*MoveResult, error)
	AutoMove(ctx context.Context, sessionID, card string) (*MoveResult, error)
	Draw(ctx context.Context, sessionID string) (*MoveResult, error)
	Restart(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHints(ctx context.Context, sessionID string) (*HintsResponse, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Records
	ListRecords(ctx context.Context, limit int) ([]*record.Record, error)
	Leaderboard(ctx context.Context, limit int) ([]*record.Record, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// TokenIssuer signs access tokens bound to a session
type TokenIssuer interface {
	Issue(sessionID string) (string, error)
}

// Session represents an active game session. Its engine is not safe for
// concurrent use; hold the session lock while touching it.
type Session struct {
	ID             string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
	// GameStartedAt is reset on every restart
	GameStartedAt time.Time
	// Archived is set once the current game has been written to the record store
	Archived bool

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }
