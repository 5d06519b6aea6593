package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/solitaire/auth"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
	"github.com/wricardo/mcp-training/solitaire/game/service"
	"github.com/wricardo/mcp-training/solitaire/game/session"
	"github.com/wricardo/mcp-training/solitaire/transport/websocket"
)

// MockGameService implements service.GameService for testing
type MockGameService struct {
	// Session Management
	CreateSessionFunc func(ctx context.Context, configName string) (*service.SessionInfo, error)
	GetSessionFunc    func(ctx context.Context, sessionID string) (*service.SessionInfo, error)
	ListSessionsFunc  func(ctx context.Context) ([]*service.SessionInfo, error)
	DeleteSessionFunc func(ctx context.Context, sessionID string) error

	// Game Operations
	MoveFunc     func(ctx context.Context, sessionID, card, to string) (*service.MoveResult, error)
	AutoMoveFunc func(ctx context.Context, sessionID, card string) (*service.MoveResult, error)
	DrawFunc     func(ctx context.Context, sessionID string) (*service.MoveResult, error)
	RestartFunc  func(ctx context.Context, sessionID string) (*engine.GameState, error)

	// Game State
	GetGameStateFunc   func(ctx context.Context, sessionID string) (*engine.GameState, error)
	GetHintsFunc       func(ctx context.Context, sessionID string) (*service.HintsResponse, error)
	GetMoveHistoryFunc func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error)

	// Configuration
	ListConfigsFunc func(ctx context.Context) ([]*service.ConfigInfo, error)
	LoadConfigFunc  func(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfigFunc  func(ctx context.Context, configName string, config *engine.GameConfig) error

	// Records
	ListRecordsFunc func(ctx context.Context, limit int) ([]*record.Record, error)
	LeaderboardFunc func(ctx context.Context, limit int) ([]*record.Record, error)
}

func testState() *engine.GameState {
	return engine.NewEngineWithDefaults(engine.WithSeed(1)).GetState()
}

// Session Management
func (m *MockGameService) CreateSession(ctx context.Context, configName string) (*service.SessionInfo, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, configName)
	}
	return &service.SessionInfo{
		ID:         "test-session",
		ConfigName: configName,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) GetSession(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, sessionID)
	}
	return &service.SessionInfo{
		ID:         sessionID,
		ConfigName: "classic",
		CreatedAt:  time.Now(),
	}, nil
}

func (m *MockGameService) ListSessions(ctx context.Context) ([]*service.SessionInfo, error) {
	if m.ListSessionsFunc != nil {
		return m.ListSessionsFunc(ctx)
	}
	return []*service.SessionInfo{}, nil
}

func (m *MockGameService) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

// Game Operations
func (m *MockGameService) Move(ctx context.Context, sessionID, card, to string) (*service.MoveResult, error) {
	if m.MoveFunc != nil {
		return m.MoveFunc(ctx, sessionID, card, to)
	}
	return &service.MoveResult{Success: true, GameState: testState()}, nil
}

func (m *MockGameService) AutoMove(ctx context.Context, sessionID, card string) (*service.MoveResult, error) {
	if m.AutoMoveFunc != nil {
		return m.AutoMoveFunc(ctx, sessionID, card)
	}
	return &service.MoveResult{Success: true, GameState: testState()}, nil
}

func (m *MockGameService) Draw(ctx context.Context, sessionID string) (*service.MoveResult, error) {
	if m.DrawFunc != nil {
		return m.DrawFunc(ctx, sessionID)
	}
	return &service.MoveResult{Success: true, GameState: testState()}, nil
}

func (m *MockGameService) Restart(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.RestartFunc != nil {
		return m.RestartFunc(ctx, sessionID)
	}
	return testState(), nil
}

// Game State
func (m *MockGameService) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	if m.GetGameStateFunc != nil {
		return m.GetGameStateFunc(ctx, sessionID)
	}
	return testState(), nil
}

func (m *MockGameService) GetHints(ctx context.Context, sessionID string) (*service.HintsResponse, error) {
	if m.GetHintsFunc != nil {
		return m.GetHintsFunc(ctx, sessionID)
	}
	return &service.HintsResponse{}, nil
}

func (m *MockGameService) GetMoveHistory(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
	if m.GetMoveHistoryFunc != nil {
		return m.GetMoveHistoryFunc(ctx, sessionID, opts)
	}
	return &service.HistoryResponse{Page: opts.Page, PageSize: opts.Limit}, nil
}

// Configuration
func (m *MockGameService) ListConfigs(ctx context.Context) ([]*service.ConfigInfo, error) {
	if m.ListConfigsFunc != nil {
		return m.ListConfigsFunc(ctx)
	}
	return nil, nil
}

func (m *MockGameService) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	if m.LoadConfigFunc != nil {
		return m.LoadConfigFunc(ctx, configName)
	}
	return engine.DefaultConfig(), nil
}

func (m *MockGameService) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	if m.SaveConfigFunc != nil {
		return m.SaveConfigFunc(ctx, configName, config)
	}
	return nil
}

// Records
func (m *MockGameService) ListRecords(ctx context.Context, limit int) ([]*record.Record, error) {
	if m.ListRecordsFunc != nil {
		return m.ListRecordsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockGameService) Leaderboard(ctx context.Context, limit int) ([]*record.Record, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx, limit)
	}
	return nil, nil
}

// Test helpers

func setupTestServer(t *testing.T, mockService *MockGameService, opts ...Option) (*Server, *websocket.Hub) {
	t.Helper()
	hub := websocket.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return NewServer(mockService, hub, opts...), hub
}

func makeRequest(t *testing.T, server *Server, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	return rr
}

func parseResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse response: %v\nBody: %s", err, rr.Body.String())
	}
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	parseResponse(t, rr, &body)
	return body["error"]
}

// Session Handler Tests

func TestHandleCreateSession(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
		expectedConfig string
	}{
		{"default config", nil, nil, http.StatusCreated, ""},
		{"config_id", map[string]string{"config_id": "strict"}, nil, http.StatusCreated, "strict"},
		{"deprecated config_name", map[string]string{"config_name": "vegas"}, nil, http.StatusCreated, "vegas"},
		{"config_id wins over config_name", map[string]string{"config_id": "strict", "config_name": "vegas"}, nil, http.StatusCreated, "strict"},
		{"unknown config", map[string]string{"config_id": "nope"}, fmt.Errorf("config 'nope' not found: %w", service.ErrConfigNotFound), http.StatusNotFound, "nope"},
		{"service failure", nil, errors.New("disk on fire"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotConfig string
			mock := &MockGameService{
				CreateSessionFunc: func(ctx context.Context, configName string) (*service.SessionInfo, error) {
					gotConfig = configName
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.SessionInfo{ID: "ab12", ConfigName: configName, Token: "tok"}, nil
				},
			}
			server, _ := setupTestServer(t, mock)

			rr := makeRequest(t, server, "POST", "/api/sessions", tt.body)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
			if gotConfig != tt.expectedConfig {
				t.Errorf("Expected config %q, got %q", tt.expectedConfig, gotConfig)
			}
			if tt.serviceErr == nil {
				var info service.SessionInfo
				parseResponse(t, rr, &info)
				if info.ID != "ab12" || info.Token != "tok" {
					t.Errorf("Unexpected session info: %+v", info)
				}
			}
		})
	}
}

func TestHandleListSessions(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	sessions := func() []*service.SessionInfo {
		return []*service.SessionInfo{
			{ID: "a", CreatedAt: base, LastAccessedAt: base.Add(3 * time.Hour)},
			{ID: "b", CreatedAt: base.Add(time.Hour), LastAccessedAt: base.Add(time.Hour)},
			{ID: "c", CreatedAt: base.Add(2 * time.Hour), LastAccessedAt: base.Add(2 * time.Hour)},
		}
	}
	mock := &MockGameService{
		ListSessionsFunc: func(ctx context.Context) ([]*service.SessionInfo, error) { return sessions(), nil },
	}
	server, _ := setupTestServer(t, mock)

	tests := []struct {
		query string
		want  []string
		total int
	}{
		{"", []string{"a", "c", "b"}, 3},
		{"?sort=created", []string{"c", "b", "a"}, 3},
		{"?sort=created&order=asc", []string{"a", "b", "c"}, 3},
		{"?order=asc&limit=2", []string{"b", "c"}, 3},
		{"?sort=bogus&order=bogus&limit=-1", []string{"a", "c", "b"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := makeRequest(t, server, "GET", "/api/sessions"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rr.Code)
			}

			var resp struct {
				Count    int                    `json:"count"`
				Total    int                    `json:"total"`
				Sessions []*service.SessionInfo `json:"sessions"`
			}
			parseResponse(t, rr, &resp)

			if resp.Total != tt.total || resp.Count != len(tt.want) {
				t.Errorf("Expected count %d total %d, got %d/%d", len(tt.want), tt.total, resp.Count, resp.Total)
			}
			for i, id := range tt.want {
				if resp.Sessions[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s", i, id, resp.Sessions[i].ID)
				}
			}
		})
	}
}

func TestHandleGetSession(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID != "ab12" {
				return nil, fmt.Errorf("session not found: %w", session.ErrSessionNotFound)
			}
			return &service.SessionInfo{ID: sessionID, GameState: testState()}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "GET", "/api/sessions/ab12", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	rr = makeRequest(t, server, "GET", "/api/sessions/zzzz", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
	if !strings.Contains(errorOf(t, rr), "session not found") {
		t.Errorf("Unexpected error body: %s", rr.Body.String())
	}
}

func TestHandleDeleteSession(t *testing.T) {
	deleted := ""
	mock := &MockGameService{
		DeleteSessionFunc: func(ctx context.Context, sessionID string) error {
			if sessionID == "gone" {
				return session.ErrSessionNotFound
			}
			deleted = sessionID
			return nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "DELETE", "/api/sessions/ab12", nil)
	if rr.Code != http.StatusOK || deleted != "ab12" {
		t.Errorf("Expected delete of ab12, got status %d deleted %q", rr.Code, deleted)
	}

	rr = makeRequest(t, server, "DELETE", "/api/sessions/gone", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

// Game Operation Handler Tests

func TestHandleMove(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
	}{
		{"valid move", map[string]string{"card": "S1R1", "to": "foundation-0"}, nil, http.StatusOK},
		{"missing destination", map[string]string{"card": "S1R1"}, nil, http.StatusBadRequest},
		{"missing card", map[string]string{"to": "tableau-1"}, nil, http.StatusBadRequest},
		{"invalid body", "not json", nil, http.StatusBadRequest},
		{"bad card id", map[string]string{"card": "XX", "to": "tableau-1"}, fmt.Errorf("%w: bad card", service.ErrInvalidInput), http.StatusBadRequest},
		{"unknown session", map[string]string{"card": "S1R1", "to": "tableau-1"}, session.ErrSessionNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotCard, gotTo string
			mock := &MockGameService{
				MoveFunc: func(ctx context.Context, sessionID, card, to string) (*service.MoveResult, error) {
					gotCard, gotTo = card, to
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.MoveResult{
						Success:    true,
						MoveType:   engine.MoveTableauToFoundation,
						ScoreDelta: 10,
						GameState:  testState(),
					}, nil
				},
			}
			server, _ := setupTestServer(t, mock)

			rr := makeRequest(t, server, "POST", "/api/sessions/ab12/move", tt.body)
			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}

			if tt.expectedStatus == http.StatusOK {
				if gotCard != "S1R1" || gotTo != "foundation-0" {
					t.Errorf("Service got card %q to %q", gotCard, gotTo)
				}
				var result service.MoveResult
				parseResponse(t, rr, &result)
				if !result.Success || result.ScoreDelta != 10 || result.MoveType != engine.MoveTableauToFoundation {
					t.Errorf("Unexpected result: %+v", result)
				}
			}
		})
	}
}

func TestHandleMoveFailureIsNotAnHTTPError(t *testing.T) {
	mock := &MockGameService{
		MoveFunc: func(ctx context.Context, sessionID, card, to string) (*service.MoveResult, error) {
			return &service.MoveResult{Success: false, Message: "Cannot place King of Spades there.", GameState: testState()}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "POST", "/api/sessions/ab12/move", map[string]string{"card": "S4R13", "to": "tableau-0"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var result service.MoveResult
	parseResponse(t, rr, &result)
	if result.Success || result.Message == "" {
		t.Errorf("Expected a failed move with a message, got %+v", result)
	}
}

func TestHandleAutoMove(t *testing.T) {
	var got string
	mock := &MockGameService{
		AutoMoveFunc: func(ctx context.Context, sessionID, card string) (*service.MoveResult, error) {
			got = card
			return &service.MoveResult{Success: true, GameState: testState()}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "POST", "/api/sessions/ab12/auto-move", map[string]string{"card": "S2R5"})
	if rr.Code != http.StatusOK || got != "S2R5" {
		t.Errorf("Expected auto-move of S2R5, got status %d card %q", rr.Code, got)
	}

	rr = makeRequest(t, server, "POST", "/api/sessions/ab12/auto-move", map[string]string{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a card, got %d", rr.Code)
	}
}

func TestHandleDraw(t *testing.T) {
	mock := &MockGameService{
		DrawFunc: func(ctx context.Context, sessionID string) (*service.MoveResult, error) {
			return &service.MoveResult{
				Success: true,
				Message: "Drew Ace of Hearts.",
				Events:  []service.GameEvent{{Type: service.EventDraw, Card: "S1R1"}},
				GameState: testState(),
			}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "POST", "/api/sessions/ab12/draw", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var result service.MoveResult
	parseResponse(t, rr, &result)
	if len(result.Events) != 1 || result.Events[0].Type != service.EventDraw {
		t.Errorf("Expected draw event, got %+v", result.Events)
	}
}

func TestHandleRestart(t *testing.T) {
	mock := &MockGameService{}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "POST", "/api/sessions/ab12/restart", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	parseResponse(t, rr, &resp)
	if resp.Message != "Game restarted" || resp.State == nil || resp.State.Stock.Size() != engine.StockSize {
		t.Errorf("Unexpected restart response: %s", rr.Body.String())
	}
}

func TestHandleGetGameState(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	rr := makeRequest(t, server, "GET", "/api/sessions/ab12/state", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var state engine.GameState
	parseResponse(t, rr, &state)
	if len(state.Tableaus) != engine.NumTableaus || len(state.Foundations) != engine.NumFoundations {
		t.Errorf("Unexpected layout: %d tableaus, %d foundations", len(state.Tableaus), len(state.Foundations))
	}
	if state.CountCards() != engine.DeckSize {
		t.Errorf("Expected %d cards, got %d", engine.DeckSize, state.CountCards())
	}
}

func TestHandleGetHints(t *testing.T) {
	moves := []engine.MoveOption{
		{Action: "move", Card: "S1R1", From: engine.TableauID(0), To: engine.FoundationID(0), MoveType: engine.MoveTableauToFoundation},
		{Action: "draw", From: engine.StockID, To: engine.DiscardID},
	}
	mock := &MockGameService{
		GetHintsFunc: func(ctx context.Context, sessionID string) (*service.HintsResponse, error) {
			return &service.HintsResponse{Moves: moves, Count: len(moves), Suggested: &moves[0]}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "GET", "/api/sessions/ab12/hints", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	var hints service.HintsResponse
	parseResponse(t, rr, &hints)
	if hints.Count != 2 || hints.Suggested == nil || hints.Suggested.Card != "S1R1" {
		t.Errorf("Unexpected hints: %+v", hints)
	}
}

func TestHandleGetHistory(t *testing.T) {
	tests := []struct {
		query string
		want  service.HistoryOptions
	}{
		{"", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
		{"?page=3&limit=5&order=asc", service.HistoryOptions{Page: 3, Limit: 5, Order: "asc"}},
		{"?page=-2&limit=abc&order=sideways", service.HistoryOptions{Page: 1, Limit: 20, Order: "desc"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var got service.HistoryOptions
			mock := &MockGameService{
				GetMoveHistoryFunc: func(ctx context.Context, sessionID string, opts service.HistoryOptions) (*service.HistoryResponse, error) {
					got = opts
					return &service.HistoryResponse{}, nil
				},
			}
			server, _ := setupTestServer(t, mock)

			rr := makeRequest(t, server, "GET", "/api/sessions/ab12/history"+tt.query, nil)
			if rr.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rr.Code)
			}
			if got != tt.want {
				t.Errorf("Expected options %+v, got %+v", tt.want, got)
			}
		})
	}
}

// Configuration Handler Tests

func TestHandleListConfigs(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	rr := makeRequest(t, server, "GET", "/api/configs", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Expected an empty JSON array, got %s", rr.Body.String())
	}
}

func TestHandleGetConfig(t *testing.T) {
	var got string
	mock := &MockGameService{
		LoadConfigFunc: func(ctx context.Context, configName string) (*engine.GameConfig, error) {
			got = configName
			if configName == "missing" {
				return nil, service.ErrConfigNotFound
			}
			return engine.DefaultConfig(), nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "GET", "/api/configs/classic.json", nil)
	if rr.Code != http.StatusOK || got != "classic" {
		t.Errorf("Expected classic to load, got status %d name %q", rr.Code, got)
	}

	rr = makeRequest(t, server, "GET", "/api/configs/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rr.Code)
	}
}

func TestHandleCreateConfig(t *testing.T) {
	valid := engine.DefaultConfig()
	valid.Name = "My Rules"

	tests := []struct {
		name           string
		body           interface{}
		serviceErr     error
		expectedStatus int
		expectedID     string
	}{
		{"explicit id", map[string]interface{}{"config_id": "mine", "name": valid.Name, "description": valid.Description}, nil, http.StatusCreated, "mine"},
		{"id from name", map[string]interface{}{"name": "My Rules!", "description": "d"}, nil, http.StatusCreated, "my-rules"},
		{"missing name", map[string]interface{}{"description": "d"}, nil, http.StatusBadRequest, ""},
		{"invalid body", "{", nil, http.StatusBadRequest, ""},
		{"rejected by validation", map[string]interface{}{"name": "x"}, fmt.Errorf("%w: victory message", config.ErrInvalidConfig), http.StatusBadRequest, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			var gotConfig *engine.GameConfig
			mock := &MockGameService{
				SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
					gotID, gotConfig = configName, cfg
					return tt.serviceErr
				},
			}
			server, _ := setupTestServer(t, mock)

			rr := makeRequest(t, server, "POST", "/api/configs", tt.body)
			if rr.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
			if gotID != tt.expectedID {
				t.Errorf("Expected id %q, got %q", tt.expectedID, gotID)
			}
			if gotConfig != nil && gotConfig.WinFoundations != engine.DefaultWinFoundations {
				t.Errorf("Expected default win foundations, got %d", gotConfig.WinFoundations)
			}
		})
	}
}

func TestCreateConfigRequiresAdminKey(t *testing.T) {
	hash, err := auth.HashAdminKey("letmein")
	if err != nil {
		t.Fatal(err)
	}
	saved := 0
	mock := &MockGameService{
		SaveConfigFunc: func(ctx context.Context, configName string, cfg *engine.GameConfig) error {
			saved++
			return nil
		},
	}
	server, _ := setupTestServer(t, mock, WithAdminKeyHash(hash))
	body := map[string]string{"name": "Locked", "description": "d"}

	if rr := makeRequest(t, server, "POST", "/api/configs", body); rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", rr.Code)
	}
	if rr := makeRequest(t, server, "POST", "/api/configs", body, "X-Admin-Key", "wrong"); rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", rr.Code)
	}
	if rr := makeRequest(t, server, "POST", "/api/configs", body, "X-Admin-Key", "letmein"); rr.Code != http.StatusCreated {
		t.Errorf("Expected 201 with key, got %d", rr.Code)
	}
	if saved != 1 {
		t.Errorf("Expected one save, got %d", saved)
	}
}

// Record Handler Tests

func TestHandleRecords(t *testing.T) {
	var listLimit, boardLimit int
	mock := &MockGameService{
		ListRecordsFunc: func(ctx context.Context, limit int) ([]*record.Record, error) {
			listLimit = limit
			return []*record.Record{{ID: "r1", Won: true, Score: 520}}, nil
		},
		LeaderboardFunc: func(ctx context.Context, limit int) ([]*record.Record, error) {
			boardLimit = limit
			return nil, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	rr := makeRequest(t, server, "GET", "/api/records?limit=5", nil)
	if rr.Code != http.StatusOK || listLimit != 5 {
		t.Errorf("Expected limit 5, got status %d limit %d", rr.Code, listLimit)
	}
	var records []*record.Record
	parseResponse(t, rr, &records)
	if len(records) != 1 || records[0].Score != 520 {
		t.Errorf("Unexpected records: %s", rr.Body.String())
	}

	rr = makeRequest(t, server, "GET", "/api/records/leaderboard", nil)
	if rr.Code != http.StatusOK || boardLimit != record.DefaultLimit {
		t.Errorf("Expected default limit, got status %d limit %d", rr.Code, boardLimit)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Expected empty array, got %s", rr.Body.String())
	}
}

// Auth Tests

func TestSessionTokenRequired(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	token, _ := issuer.Issue("ab12")
	other, _ := issuer.Issue("cd34")

	server, _ := setupTestServer(t, &MockGameService{}, WithTokenVerifier(issuer))
	move := map[string]string{"card": "S1R1", "to": "foundation-0"}

	tests := []struct {
		name           string
		method, path   string
		body           interface{}
		headers        []string
		expectedStatus int
	}{
		{"move without token", "POST", "/api/sessions/ab12/move", move, nil, http.StatusUnauthorized},
		{"move with token", "POST", "/api/sessions/ab12/move", move, []string{"Authorization", "Bearer " + token}, http.StatusOK},
		{"token for another session", "POST", "/api/sessions/ab12/move", move, []string{"Authorization", "Bearer " + other}, http.StatusUnauthorized},
		{"session id is case-insensitive", "POST", "/api/sessions/AB12/draw", nil, []string{"Authorization", "Bearer " + token}, http.StatusOK},
		{"token in query", "POST", "/api/sessions/ab12/draw?token=" + token, nil, nil, http.StatusOK},
		{"delete without token", "DELETE", "/api/sessions/ab12", nil, nil, http.StatusUnauthorized},
		{"reads stay open", "GET", "/api/sessions/ab12/state", nil, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := makeRequest(t, server, tt.method, tt.path, tt.body, tt.headers...)
			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected %d, got %d: %s", tt.expectedStatus, rr.Code, rr.Body.String())
			}
		})
	}
}

// Misc

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", session.ErrSessionNotFound), http.StatusNotFound},
		{service.ErrConfigNotFound, http.StatusNotFound},
		{record.ErrRecordNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: x", service.ErrInvalidInput), http.StatusBadRequest},
		{config.ErrInvalidConfig, http.StatusBadRequest},
		{session.ErrInvalidSessionID, http.StatusBadRequest},
		{auth.ErrWrongSession, http.StatusUnauthorized},
		{session.ErrSessionAlreadyExists, http.StatusConflict},
		{fmt.Errorf("failed to create session: %w", session.ErrSessionLimit), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestConfigSlug(t *testing.T) {
	tests := map[string]string{
		"Classic Klondike": "classic-klondike",
		"  Vegas!! ":       "vegas",
		"my_rules-2":       "my_rules-2",
		"../etc":           "etc",
	}
	for in, want := range tests {
		if got := configSlug(in); got != want {
			t.Errorf("configSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	rr := makeRequest(t, server, "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rr.Code)
	}
	var body map[string]string
	parseResponse(t, rr, &body)
	if body["status"] != "healthy" {
		t.Errorf("Unexpected health body: %v", body)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected CORS header")
	}
}

func TestCORSPreflight(t *testing.T) {
	server, _ := setupTestServer(t, &MockGameService{})

	rr := makeRequest(t, server, "OPTIONS", "/api/sessions/ab12/move", nil)
	if rr.Code != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Access-Control-Allow-Methods"), "DELETE") {
		t.Errorf("Unexpected allowed methods: %q", rr.Header().Get("Access-Control-Allow-Methods"))
	}
}

func TestWebSocket(t *testing.T) {
	mock := &MockGameService{
		GetSessionFunc: func(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
			if sessionID == "missing" {
				return nil, session.ErrSessionNotFound
			}
			return &service.SessionInfo{ID: sessionID}, nil
		},
	}
	server, _ := setupTestServer(t, mock)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{"no session", "", http.StatusBadRequest},
		{"unknown session", "?session=missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := makeRequest(t, server, "GET", "/ws"+tt.query, nil)
			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}

	t.Run("known session without upgrade headers", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ws?session=ab12", nil)
		rr := httptest.NewRecorder()
		server.handleWebSocket(rr, req)
		// the upgrader rejects a plain request
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 from the upgrader, got %d", rr.Code)
		}
	})
}

func TestMoveBroadcastsToWebSocketClients(t *testing.T) {
	state := testState()
	mock := &MockGameService{
		MoveFunc: func(ctx context.Context, sessionID, card, to string) (*service.MoveResult, error) {
			return &service.MoveResult{
				Success:   true,
				Events:    []service.GameEvent{{Type: service.EventMove}, {Type: service.EventFoundation}},
				GameState: state,
			}, nil
		},
	}
	server, hub := setupTestServer(t, mock)
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	wsURL := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/ws?session=AB12"
	conn, _, err := gws.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount("ab12") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := makeRequest(t, server, "POST", "/api/sessions/ab12/move", map[string]string{"card": "S1R1", "to": "foundation-0"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var events []string
	for len(events) < 3 {
		var msg websocket.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Failed to read message %d: %v", len(events), err)
		}
		events = append(events, msg.Event)
	}

	want := []string{websocket.EventStateUpdate, service.EventMove, service.EventFoundation}
	if strings.Join(events, ",") != strings.Join(want, ",") {
		t.Errorf("Expected events %v, got %v", want, events)
	}
}
