package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/solitaire/game/autoplay"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	records  record.Store
	tokens   TokenIssuer
}

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithRecordStore archives finished games into store
func WithRecordStore(store record.Store) Option {
	return func(s *gameServiceImpl) { s.records = store }
}

// WithTokenIssuer makes CreateSession return a signed session token
func WithTokenIssuer(issuer TokenIssuer) Option {
	return func(s *gameServiceImpl) { s.tokens = issuer }
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.records == nil {
		s.records = record.NewMemoryStore()
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// session looks a session up and marks it as accessed
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	// The session can be deleted between the two calls
	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	return sess, nil
}

// sessionInfo must be called with the session locked
func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(sess.Config.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.GetState().Clone(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found, use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	info := s.sessionInfo(sess)
	sess.Unlock()
	if configName != "" {
		info.ConfigName = configName
	}

	if s.tokens != nil {
		token, err := s.tokens.Issue(sess.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to issue session token: %w", err)
		}
		info.Token = token
	}

	log.Info().Str("session", sess.ID).Str("config", info.ConfigName).Msg("session created")
	return info, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.sessionInfo(sess))
		sess.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session, archiving its game if one was played
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return fmt.Errorf("session not found: %w", err)
	}
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}

	sess.Lock()
	s.archive(ctx, sess, record.ReasonDeleted)
	sess.Unlock()

	log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Move moves a card, with any cards stacked on it, onto the named pile
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, card, to string) (*MoveResult, error) {
	id, err := engine.ParseCardID(card)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	dest, err := engine.ParsePileID(to)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	wasWon := sess.Engine.GetState().Won
	success := sess.Engine.AttemptMove(id, dest)
	return s.moveResult(ctx, sess, success, wasWon), nil
}

// AutoMove sends a top card to the first pile that accepts it
func (s *gameServiceImpl) AutoMove(ctx context.Context, sessionID, card string) (*MoveResult, error) {
	id, err := engine.ParseCardID(card)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	wasWon := sess.Engine.GetState().Won
	success := sess.Engine.AutoMove(id)
	return s.moveResult(ctx, sess, success, wasWon), nil
}

// Draw turns a stock card over, or redeals the discard pile when the stock is empty
func (s *gameServiceImpl) Draw(ctx context.Context, sessionID string) (*MoveResult, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	success := sess.Engine.DrawFromStock()
	state := sess.Engine.GetState()
	result := &MoveResult{
		Success:   success,
		Message:   state.Message,
		GameState: state.Clone(),
	}
	if !success {
		result.MoveType = engine.MoveInvalid
		return result, nil
	}

	last := sess.Engine.GetLastMove()
	result.MoveType = last.MoveType
	result.ScoreDelta = last.ScoreDelta

	event := GameEvent{Type: EventDraw, Message: state.Message, Card: last.Card, Pile: engine.DiscardID, Timestamp: time.Now()}
	if last.Action == engine.ActionRedeal {
		event = GameEvent{Type: EventRedeal, Message: state.Message, Pile: engine.StockID, Timestamp: time.Now()}
	}
	result.Events = []GameEvent{event}

	log.Debug().Str("session", sessionID).Str("action", last.Action).Str("card", last.Card).Msg(state.Message)
	return result, nil
}

// moveResult must be called with the session locked, right after a move
func (s *gameServiceImpl) moveResult(ctx context.Context, sess *Session, success, wasWon bool) *MoveResult {
	state := sess.Engine.GetState()
	last := sess.Engine.GetLastMove()

	result := &MoveResult{
		Success:  success,
		Message:  state.Message,
		MoveType: engine.MoveInvalid,
	}
	if last != nil {
		result.MoveType = last.MoveType
		result.ScoreDelta = last.ScoreDelta
		result.Flipped = last.Flipped
	}

	logEvent := log.Debug().Bool("success", success)
	if last != nil {
		logEvent = logEvent.Str("card", last.Card).Str("from", string(last.From)).Str("to", string(last.To))
	}
	logEvent.Str("session", sess.ID).Msg(state.Message)

	if success && last != nil {
		now := time.Now()
		result.Events = append(result.Events, GameEvent{
			Type: EventMove, Message: state.Message, Card: last.Card, Pile: last.To, Timestamp: now,
		})
		if last.To.IsFoundation() {
			result.Events = append(result.Events, GameEvent{
				Type: EventFoundation, Message: fmt.Sprintf("%d cards on the foundations", state.FoundationCards()),
				Card: last.Card, Pile: last.To, Timestamp: now,
			})
		}
		if last.Flipped != "" {
			result.Events = append(result.Events, GameEvent{
				Type: EventFlip, Message: "Revealed a card", Card: last.Flipped, Pile: last.From, Timestamp: now,
			})
		}
		if state.Won && !wasWon {
			result.Events = append(result.Events, GameEvent{
				Type: EventVictory, Message: state.Message, Timestamp: now,
			})
			s.archive(ctx, sess, record.ReasonWon)
			log.Info().Str("session", sess.ID).Int("score", state.Score).Int("moves", state.Moves).Msg("game won")
		}
	}

	result.GameState = state.Clone()
	return result
}

// Restart deals a new game in the session, archiving the previous one
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()

	s.archive(ctx, sess, record.ReasonRestart)
	state := sess.Engine.Restart()
	sess.GameStartedAt = time.Now()
	sess.Archived = false

	log.Info().Str("session", sessionID).Msg("game restarted")
	return state.Clone(), nil
}

// archive saves a record of the session's current game once. Games without
// any move are skipped. Must be called with the session locked.
func (s *gameServiceImpl) archive(ctx context.Context, sess *Session, reason record.Reason) {
	if err := Archive(ctx, s.records, sess, reason); err != nil {
		log.Warn().Err(err).Str("session", sess.ID).Msg("failed to archive game")
	}
}

// Archive writes a record for the session's game unless it was already
// archived or has no moves. Callers hold the session lock.
func Archive(ctx context.Context, store record.Store, sess *Session, reason record.Reason) error {
	state := sess.Engine.GetState()
	if store == nil || sess.Archived || state.Moves == 0 {
		return nil
	}
	started := sess.GameStartedAt
	if started.IsZero() {
		started = sess.CreatedAt
	}
	if err := store.Save(ctx, record.FromState(sess.ID, state, reason, started)); err != nil {
		return err
	}
	sess.Archived = true
	return nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.GetState().Clone(), nil
}

// GetHints lists every legal action and the one the autoplayer would take
func (s *gameServiceImpl) GetHints(ctx context.Context, sessionID string) (*HintsResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	moves := sess.Engine.GetPossibleMoves()
	sess.Unlock()

	if moves == nil {
		moves = []engine.MoveOption{}
	}
	resp := &HintsResponse{Moves: moves, Count: len(moves)}
	if next, ok := autoplay.NewStrategy().NextMove(moves); ok {
		resp.Suggested = &next
	}
	return resp, nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := append([]engine.MoveHistoryEntry(nil), sess.Engine.GetMoveHistory()...)
	sess.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ListRecords returns the most recently finished games
func (s *gameServiceImpl) ListRecords(ctx context.Context, limit int) ([]*record.Record, error) {
	return s.records.List(ctx, limit)
}

// Leaderboard returns the best finished games
func (s *gameServiceImpl) Leaderboard(ctx context.Context, limit int) ([]*record.Record, error) {
	return s.records.Leaderboard(ctx, limit)
}
