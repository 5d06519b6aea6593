package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/mcp-training/solitaire/api"
	"github.com/wricardo/mcp-training/solitaire/auth"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
	"github.com/wricardo/mcp-training/solitaire/game/service"
	"github.com/wricardo/mcp-training/solitaire/game/session"
	"github.com/wricardo/mcp-training/solitaire/transport/websocket"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.mcpServer == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api", "tok", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("Expected id ab12, got %v", response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall(context.Background(), "GET", "/api", "", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"plain body", "Internal Server Error", "API error: 500"},
		{"json error", `{"error":"session not found"}`, "session not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api", "", nil, nil)
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("Expected %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_createSessionRemembersToken(t *testing.T) {
	var drawAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == "POST" && r.URL.Path == "/api/sessions":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(service.SessionInfo{
				ID:         "AB12",
				ConfigName: body["config_id"],
				Token:      "secret-token",
				GameState:  engine.NewEngineWithDefaults(engine.WithSeed(1)).GetState(),
			})
		case r.Method == "POST" && r.URL.Path == "/api/sessions/ab12/draw":
			drawAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode(service.MoveResult{Success: true, Message: "Drew 5 of Clubs."})
		default:
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, err := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{"config_id": "strict"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
	text := resultText(t, result)
	if !strings.Contains(text, "AB12") || !strings.Contains(text, "Config: strict") {
		t.Errorf("Unexpected create output: %s", text)
	}
	if !strings.Contains(text, "Stock: 24 cards") {
		t.Errorf("Expected the dealt table in output, got: %s", text)
	}

	result, _ = client.handleDraw(ctx, callRequest("draw_card", map[string]interface{}{"session_id": "ab12"}))
	if result.IsError {
		t.Fatalf("draw failed: %s", resultText(t, result))
	}
	if drawAuth != "Bearer secret-token" {
		t.Errorf("Expected remembered token on draw, got %q", drawAuth)
	}
}

func TestClient_requiredArguments(t *testing.T) {
	client := NewClient("http://localhost:1")
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
	}{
		{"move without card", client.handleMoveCard, map[string]interface{}{"session_id": "ab12", "to": "tableau-0"}},
		{"move without destination", client.handleMoveCard, map[string]interface{}{"session_id": "ab12", "card": "S1R1"}},
		{"auto-move without card", client.handleAutoMove, map[string]interface{}{"session_id": "ab12"}},
		{"state without session", client.handleGameState, map[string]interface{}{}},
		{"hints without session", client.handleHints, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := tt.handler(ctx, callRequest("x", tt.args))
			if err != nil {
				t.Fatalf("Handler returned error: %v", err)
			}
			if !result.IsError {
				t.Errorf("Expected an error result, got %s", resultText(t, result))
			}
		})
	}
}

func TestClient_moveHistoryQuery(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Moves: []engine.MoveHistoryEntry{
				{Action: "move", Card: "S1R1", From: "tableau-0", To: "foundation-0", Score: 10, Success: true, MoveNumber: 1},
				{Action: "draw", From: "stock", To: "discard", Score: 10, Success: false, MoveNumber: 2},
			},
			TotalMoves: 2,
			Page:       2,
			TotalPages: 3,
			HasNext:    true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, _ := client.handleMoveHistory(context.Background(), callRequest("move_history", map[string]interface{}{
		"session_id": "ab12",
		"page":       2,
		"limit":      5,
		"order":      "asc",
	}))

	if query != "limit=5&order=asc&page=2" {
		t.Errorf("Unexpected query %q", query)
	}
	text := resultText(t, result)
	for _, want := range []string{"Page 2/3", "1. ✓ move S1R1 tableau-0 -> foundation-0", "2. ✗ draw", "next page"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in history, got: %s", want, text)
		}
	}
}

func TestFormatGameState(t *testing.T) {
	state := engine.NewEngineWithDefaults(engine.WithSeed(9)).GetState()
	result := formatGameState(state)

	for _, want := range []string{"Score: 0", "Stock: 24 cards", "Discard: (empty)", "foundation-3: (empty)", "tableau-6: ## ## ## ## ## ##"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in result, got: %s", want, result)
		}
	}

	top, _ := state.Tableaus[0].TopCard()
	if !strings.Contains(result, "tableau-0: "+top.ShortName()) {
		t.Errorf("Expected face-up top card of tableau-0, got: %s", result)
	}
	if strings.Contains(result, "VICTORY") {
		t.Error("Fresh deal should not show victory")
	}
}

func TestFormatGameState_Victory(t *testing.T) {
	state := engine.NewEngineWithDefaults(engine.WithSeed(9)).GetState()
	state.Won = true
	state.Message = "You won! Final score: 420"

	result := formatGameState(state)
	if !strings.Contains(result, "VICTORY") || !strings.Contains(result, "Final score: 420") {
		t.Errorf("Expected victory output, got: %s", result)
	}
	if formatGameState(nil) != "No game state available" {
		t.Error("Expected placeholder for nil state")
	}
}

func TestFormatMoveResult(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success:    true,
		Message:    "Placed Ace of Hearts to the foundation.",
		ScoreDelta: 10,
		Flipped:    "S3R7",
		Events:     []service.GameEvent{{Type: service.EventMove}, {Type: service.EventVictory}},
	})

	for _, want := range []string{"✓ Placed Ace of Hearts", "Score change: +10", "Revealed: S3R7", "VICTORY"} {
		if !strings.Contains(result, want) {
			t.Errorf("Expected %q in result, got: %s", want, result)
		}
	}
}

func TestFormatMoveResult_Failed(t *testing.T) {
	result := formatMoveResult(&service.MoveResult{
		Success: false,
		Message: "Cannot place King of Spades there.",
	})

	if !strings.Contains(result, "✗ Move failed: Cannot place King of Spades there.") {
		t.Errorf("Expected failure line, got: %s", result)
	}
	if strings.Contains(result, "Score change") {
		t.Errorf("Failed move should not report a score change: %s", result)
	}
}

func TestFormatHints(t *testing.T) {
	if !strings.Contains(formatHints(&service.HintsResponse{}), "No legal moves") {
		t.Error("Expected stuck message")
	}

	move := engine.MoveOption{Action: "move", Card: "S2R9", Count: 3, From: "tableau-4", To: "tableau-1", Reveals: true}
	text := formatHints(&service.HintsResponse{
		Moves:     []engine.MoveOption{move, {Action: "draw", From: "stock", To: "discard"}},
		Count:     2,
		Suggested: &move,
	})
	for _, want := range []string{"Legal moves (2)", "move S2R9: tableau-4 -> tableau-1 (3 cards) [reveals a card]", "draw stock -> discard", "Suggested: move S2R9"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in hints, got: %s", want, text)
		}
	}
}

func TestFormatLeaderboard(t *testing.T) {
	if formatLeaderboard(nil) != "No finished games yet." {
		t.Error("Expected empty leaderboard message")
	}

	text := formatLeaderboard([]record.Record{
		{SessionID: "ab12", Score: 520, Moves: 120, Won: true, ConfigName: "classic", FinishedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{SessionID: "cd34", Score: 80, Moves: 40, ConfigName: "strict", FinishedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	})
	if !strings.Contains(text, "1. ab12 score 520 in 120 moves (won, classic, 2025-03-01)") ||
		!strings.Contains(text, "2. cd34 score 80 in 40 moves (lost, strict, 2025-03-02)") {
		t.Errorf("Unexpected leaderboard: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{
		"Klondike Solitaire - Complete Instructions",
		"GAME OBJECTIVE:",
		"CARD NAMES:",
		"RULES:",
		"SCORING (classic):",
		"MOVEMENT COMMANDS:",
		"STRATEGY:",
	} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

// newStack serves the real REST API with session tokens enabled
func newStack(t *testing.T) *httptest.Server {
	t.Helper()
	configs, err := config.NewManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	issuer, err := auth.NewIssuer("mcp-test", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	svc := service.NewGameService(
		session.NewManager(session.WithEngineOptions(engine.WithSeed(11))),
		configs,
		service.WithRecordStore(record.NewMemoryStore()),
		service.WithTokenIssuer(issuer),
	)

	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(api.NewServer(svc, hub, api.WithTokenVerifier(issuer)))
	t.Cleanup(server.Close)
	return server
}

func TestClient_Integration(t *testing.T) {
	server := newStack(t)
	ctx := context.Background()

	client := NewClient(server.URL)
	created, _ := client.handleCreateSession(ctx, callRequest("create_session", map[string]interface{}{}))
	if created.IsError {
		t.Fatalf("create_session failed: %s", resultText(t, created))
	}

	var sessionID string
	client.mu.RLock()
	for id := range client.tokens {
		sessionID = id
	}
	client.mu.RUnlock()
	if sessionID == "" {
		t.Fatal("Expected a remembered session token")
	}

	args := map[string]interface{}{"session_id": sessionID}

	drawn, _ := client.handleDraw(ctx, callRequest("draw_card", args))
	if drawn.IsError || !strings.Contains(resultText(t, drawn), "✓ Drew") {
		t.Errorf("Expected a successful draw, got: %s", resultText(t, drawn))
	}

	hints, _ := client.handleHints(ctx, callRequest("hints", args))
	if hints.IsError || !strings.Contains(resultText(t, hints), "Legal moves") {
		t.Errorf("Expected hints, got: %s", resultText(t, hints))
	}

	state, _ := client.handleGameState(ctx, callRequest("game_state", args))
	if !strings.Contains(resultText(t, state), "Stock: 23 cards") {
		t.Errorf("Expected one card drawn, got: %s", resultText(t, state))
	}

	// a client without the token can read but not play
	stranger := NewClient(server.URL)
	denied, _ := stranger.handleDraw(ctx, callRequest("draw_card", args))
	if !denied.IsError {
		t.Error("Expected draw without token to fail")
	}
	if read, _ := stranger.handleGameState(ctx, callRequest("game_state", args)); read.IsError {
		t.Errorf("Expected reads to stay open, got: %s", resultText(t, read))
	}
}
