// Package mcp provides a Model Context Protocol server for playing solitaire.
//
// The server is a thin client of the REST API: every tool call becomes an
// HTTP request, so agents and browsers see the same sessions and websocket
// updates.
//
// MCP Tools:
//   - create_session: Create a session, optionally with a config_id
//   - list_sessions, get_session: Inspect sessions
//   - game_state: Render the table as text
//   - move_card: Move a card (with the cards on top of it) to a pile
//   - auto_move: Move a card to its best destination
//   - draw_card: Draw from the stock or redeal the discard pile
//   - restart_game: Deal a new game in the same session
//   - hints: Legal moves and a suggestion
//   - move_history: Paginated move history
//   - list_configs: Available rule sets
//   - leaderboard: Best finished games
//   - game_instructions: Rules and strategy
//
// Session tokens returned by create_session are remembered per session and
// sent as bearer tokens on later calls.
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: POST JSON-RPC messages to /mcp on the game server
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal().Err(err).Msg("mcp server stopped")
//	}
package mcp
