package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
	"github.com/wricardo/mcp-training/solitaire/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer

	// session tokens returned by create_session, by lower-cased session id
	tokens map[string]string
	mu     sync.RWMutex
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		tokens: make(map[string]string),
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Klondike Solitaire",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Klondike Solitaire - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Build the foundations up by suit from Ace to King. A game is won when the
configured number of foundations are complete.

CARD AND PILE NAMES:
Cards are S<suit>R<rank>: suits 1=Hearts 2=Diamonds 3=Clubs 4=Spades,
ranks 1=Ace .. 11=Jack 12=Queen 13=King. Example: S4R12 is the Queen of Spades.
Piles are stock, discard, foundation-0..3 and tableau-0..6.

AVAILABLE TOOLS:
- create_session: Start a new game (remembers the session token)
- game_state: Show the table
- move_card: Move a card (and any cards on top of it) to a pile - requires intent explanation
- auto_move: Move a card to its best destination
- draw_card: Turn the top stock card, or redeal the discard pile
- hints: List legal moves
- restart_game: Deal a new game in the same session
- move_history: View past moves
- list_sessions / get_session: Inspect sessions
- list_configs: List rule sets
- leaderboard: Best finished games
- game_instructions: Rules and strategy

NOTE: The 'intent' parameter on move_card serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func cardProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"pattern":     "^[Ss][1-4][Rr]([1-9]|1[0-3])$",
		"description": description,
	}
}

func sessionOnly() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"session_id": sessionProperty(),
		},
		Required: []string{"session_id"},
	}
}

func noArguments() mcp.ToolInputSchema {
	return mcp.ToolInputSchema{
		Type:       "object",
		Properties: map[string]interface{}{},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Config to use, see list_configs (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: noArguments(),
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: sessionOnly(),
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current table: stock, discard, foundations and tableaus",
		InputSchema: sessionOnly(),
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_card",
		Description: "Move a face-up card to another pile. Moving a tableau card also moves every card on top of it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"card":       cardProperty("Card to move, e.g. S1R1"),
				"to": map[string]interface{}{
					"type":        "string",
					"description": "Destination pile: foundation-0..3 or tableau-0..6",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "card", "to"},
		},
	}, c.handleMoveCard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "auto_move",
		Description: "Move a card to the best legal destination, preferring foundations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"card":       cardProperty("Card to move, e.g. S2R5"),
			},
			Required: []string{"session_id", "card"},
		},
	}, c.handleAutoMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "draw_card",
		Description: "Turn the top stock card onto the discard pile, or redeal the discard pile when the stock is empty",
		InputSchema: sessionOnly(),
	}, c.handleDraw)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "restart_game",
		Description: "Deal a new game in the same session",
		InputSchema: sessionOnly(),
	}, c.handleRestart)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "hints",
		Description: "List every legal move and a suggested one",
		InputSchema: sessionOnly(),
	}, c.handleHints)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get move history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest or newest first",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: noArguments(),
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the best finished games",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of records",
				},
			},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: noArguments(),
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) rememberToken(sessionID, token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens[strings.ToLower(sessionID)] = token
}

func (c *Client) tokenFor(sessionID string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens[strings.ToLower(sessionID)]
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path, token string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// sessionCall calls a per-session route with the remembered token
func (c *Client) sessionCall(ctx context.Context, method, sessionID, suffix string, body, result interface{}) error {
	path := "/api/sessions/" + url.PathEscape(sessionID) + suffix
	return c.apiCall(ctx, method, path, c.tokenFor(sessionID), body, result)
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", "", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c.rememberToken(session.ID, session.Token)

	log.Debug().Str("session", session.ID).Msg("mcp session created")

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n\n%s", session.ID, session.ConfigName, formatGameState(session.GameState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", "", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score := 0
		if s.GameState != nil {
			score = s.GameState.Score
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.sessionCall(ctx, "GET", sessionID, "", nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.sessionCall(ctx, "GET", sessionID, "/state", nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMoveCard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := request.RequireString("card")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := request.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if intent := request.GetString("intent", ""); intent != "" {
		log.Debug().Str("session", sessionID).Str("card", card).Str("to", to).Str("intent", intent).Msg("mcp move")
	}

	var result service.MoveResult
	body := map[string]string{"card": card, "to": to}
	if err := c.sessionCall(ctx, "POST", sessionID, "/move", body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleAutoMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	card, err := request.RequireString("card")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.sessionCall(ctx, "POST", sessionID, "/auto-move", map[string]string{"card": card}, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleDraw(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.MoveResult
	if err := c.sessionCall(ctx, "POST", sessionID, "/draw", nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleRestart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.sessionCall(ctx, "POST", sessionID, "/restart", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response.Message + "\n\n" + formatGameState(response.State)), nil
}

func (c *Client) handleHints(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var hints service.HintsResponse
	if err := c.sessionCall(ctx, "GET", sessionID, "/hints", nil, &hints); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHints(&hints)), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	if order := request.GetString("order", ""); order != "" {
		query.Set("order", order)
	}
	suffix := "/history"
	if len(query) > 0 {
		suffix += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.sessionCall(ctx, "GET", sessionID, suffix, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", "", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "- %s: %s (win with %d foundations)\n  %s\n",
			cfg.ConfigID, cfg.Name, cfg.WinFoundations, cfg.Description)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := "/api/records/leaderboard"
	if limit := request.GetInt("limit", 0); limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var records []record.Record
	if err := c.apiCall(ctx, "GET", path, "", nil, &records); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(records)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameInstructions), nil
}

const gameInstructions = `Klondike Solitaire - Complete Instructions

GAME OBJECTIVE:
Move cards onto the four foundations, one suit per foundation, from Ace up to
King. The game is won when the number of complete foundations required by the
session's config is reached (3 for classic, 4 for strict). You may keep
playing after a win.

THE TABLE:
- stock: face-down cards not yet dealt (24 at the start)
- discard: cards turned from the stock; only the top one is playable
- foundation-0..3: built up by suit, Ace first
- tableau-0..6: tableau-N starts with N+1 cards, only the top one face up

CARD NAMES:
S<suit>R<rank>. Suits: 1 Hearts, 2 Diamonds (red), 3 Clubs, 4 Spades (black).
Ranks: 1 Ace, 2-10, 11 Jack, 12 Queen, 13 King.

RULES:
- Foundation: an Ace goes on an empty foundation; otherwise the card must be
  the same suit and one rank higher than the foundation's top card. Only a
  single top card can go to a foundation.
- Tableau: a King goes on an empty tableau; otherwise the card must be the
  opposite color and one rank lower than the tableau's top card.
- Moving a face-up tableau card moves every card stacked on top of it.
- Face-down cards cannot be moved. When a tableau's top card is moved away,
  the newly exposed card turns face up automatically.
- Foundation cards may be moved back onto a tableau.
- draw_card turns the top stock card onto the discard pile. When the stock is
  empty, draw_card turns the discard pile back over to form a new stock.

SCORING (classic):
- Tableau or discard to foundation: +10
- Tableau to tableau, discard to tableau: +5
- Foundation back to tableau, revealing a card: 0
Configs may change these values, including negative ones.

MOVEMENT COMMANDS:
- move_card: {"session_id": "ab12", "card": "S1R1", "to": "foundation-0"}
- auto_move: {"session_id": "ab12", "card": "S1R1"}
- draw_card: {"session_id": "ab12"}

STRATEGY:
1. Play Aces and Twos to the foundations as soon as they appear.
2. Prefer moves that reveal face-down tableau cards.
3. Empty a tableau only when a King is ready to fill it.
4. Use hints when stuck; it lists every legal move.

Good luck!`

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

// formatPile renders face-down cards as "##" and face-up cards by id
func formatPile(p *engine.Pile) string {
	if p.IsEmpty() {
		return "(empty)"
	}
	parts := make([]string, len(p.Cards))
	for i, card := range p.Cards {
		if card.FaceDown {
			parts[i] = "##"
		} else {
			parts[i] = card.ShortName()
		}
	}
	return strings.Join(parts, " ")
}

func formatTop(p *engine.Pile) string {
	top, ok := p.TopCard()
	if !ok {
		return "(empty)"
	}
	return fmt.Sprintf("%s %s", top.ShortName(), top.String())
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	fmt.Fprintf(&result, "Score: %d | Moves: %d | Redeals: %d | Foundations complete: %d\n\n",
		state.Score, state.Moves, state.Redeals, state.CompletedFoundations())

	fmt.Fprintf(&result, "Stock: %d cards\n", state.Stock.Size())
	fmt.Fprintf(&result, "Discard: %s (%d cards)\n\n", formatTop(state.Discard), state.Discard.Size())

	result.WriteString("Foundations:\n")
	for _, f := range state.Foundations {
		fmt.Fprintf(&result, "  %s: %s (%d)\n", f.ID, formatTop(f), f.Size())
	}

	result.WriteString("\nTableaus (bottom to top, ## = face down):\n")
	for _, t := range state.Tableaus {
		fmt.Fprintf(&result, "  %s: %s\n", t.ID, formatPile(t))
	}

	if state.Won {
		result.WriteString("\n🎉 VICTORY!")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder

	if result.Success {
		b.WriteString("✓ ")
	} else {
		b.WriteString("✗ Move failed: ")
	}
	b.WriteString(result.Message)
	b.WriteString("\n")

	if result.ScoreDelta != 0 {
		fmt.Fprintf(&b, "Score change: %+d\n", result.ScoreDelta)
	}
	if result.Flipped != "" {
		fmt.Fprintf(&b, "Revealed: %s\n", result.Flipped)
	}
	for _, ev := range result.Events {
		if ev.Type == service.EventVictory {
			b.WriteString("🎉 VICTORY!\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHints(hints *service.HintsResponse) string {
	if hints.Count == 0 {
		return "No legal moves. The game is stuck; restart_game deals a new one."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Legal moves (%d):\n", hints.Count)
	for _, m := range hints.Moves {
		b.WriteString("- " + formatOption(m) + "\n")
	}
	if hints.Suggested != nil {
		fmt.Fprintf(&b, "\nSuggested: %s\n", formatOption(*hints.Suggested))
	}
	return b.String()
}

func formatOption(m engine.MoveOption) string {
	if m.Card == "" {
		return fmt.Sprintf("%s %s -> %s", m.Action, m.From, m.To)
	}
	line := fmt.Sprintf("%s %s: %s -> %s", m.Action, m.Card, m.From, m.To)
	if m.Count > 1 {
		line += fmt.Sprintf(" (%d cards)", m.Count)
	}
	if m.Reveals {
		line += " [reveals a card]"
	}
	return line
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalMoves)

	for _, entry := range history.Moves {
		status := "✓"
		if !entry.Success {
			status = "✗"
		}
		fmt.Fprintf(&b, "%d. %s %s", entry.MoveNumber, status, entry.Action)
		if entry.Card != "" {
			fmt.Fprintf(&b, " %s", entry.Card)
		}
		if entry.From != "" || entry.To != "" {
			fmt.Fprintf(&b, " %s -> %s", entry.From, entry.To)
		}
		fmt.Fprintf(&b, " (score %d)\n", entry.Score)
	}

	if history.HasNext {
		b.WriteString("\nMore moves on the next page.")
	}
	return b.String()
}

func formatLeaderboard(records []record.Record) string {
	if len(records) == 0 {
		return "No finished games yet."
	}

	var b strings.Builder
	b.WriteString("Leaderboard:\n\n")
	for i, r := range records {
		result := "lost"
		if r.Won {
			result = "won"
		}
		fmt.Fprintf(&b, "%d. %s score %d in %d moves (%s, %s, %s)\n",
			i+1, r.SessionID, r.Score, r.Moves, result, r.ConfigName, r.FinishedAt.Format("2006-01-02"))
	}
	return b.String()
}
