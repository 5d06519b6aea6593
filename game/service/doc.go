// Package service provides the business logic layer for the solitaire server.
//
// The service package implements:
//   - Multi-session game management
//   - Card moves, auto-moves and stock draws with event reporting
//   - Hints and paginated move history
//   - Archiving of finished games into a record store
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads rule sets. TokenIssuer signs per-session access tokens.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Every call locks the session it touches, so requests for
// one game are serialized while different games run in parallel. Game states
// handed back to callers are copies.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithRecordStore(store))
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		return err
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "S1R1", "foundation-0")
//
// Records:
//
// A game is archived once, when it is won, restarted, deleted or expires,
// provided at least one move was made.
package service
