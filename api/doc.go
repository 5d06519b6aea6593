// Package api provides HTTP REST API handlers for the solitaire server.
//
// The api package implements:
//   - Session management endpoints
//   - Card moves, auto-moves, draws and restarts
//   - Hints and paginated move history
//   - Configuration listing and upload
//   - Finished game records and the leaderboard
//   - WebSocket upgrade handling
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/move - Move a card ({"card": "S1R1", "to": "foundation-0"})
//   - POST /api/sessions/{id}/auto-move - Move a card to its best destination ({"card": "S2R5"})
//   - POST /api/sessions/{id}/draw - Turn the top stock card, or redeal the discard pile
//   - POST /api/sessions/{id}/restart - Deal a fresh game in the same session
//   - GET /api/sessions/{id}/hints - Legal moves and a suggestion
//   - GET /api/sessions/{id}/history - Move history (?page=1&limit=20&order=desc)
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - GET /api/configs/{name} - Get one configuration
//   - POST /api/configs - Save a configuration (X-Admin-Key when enabled)
//
// Records:
//   - GET /api/records - Most recent finished games
//   - GET /api/records/leaderboard - Best finished games
//
// Cards are named "S<suit>R<rank>" with suits Hearts=1, Diamonds=2, Clubs=3,
// Spades=4 and ranks Ace=1 through King=13. Piles are "stock", "discard",
// "foundation-0".."foundation-3" and "tableau-0".."tableau-6".
//
// A rejected move is not an HTTP error: the response is 200 with
// "success": false and the game message explaining why.
//
// Authentication:
//
// When the server has a token verifier, routes that change a game require the
// token returned by POST /api/sessions, either as "Authorization: Bearer <token>"
// or as a "token" query parameter. Reads stay open.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//	server := api.NewServer(gameService, hub, api.WithTokenVerifier(issuer))
//	http.ListenAndServe(":8080", server)
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "session not found"
//	}
package api
