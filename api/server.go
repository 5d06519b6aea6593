package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/mcp-training/solitaire/auth"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
	"github.com/wricardo/mcp-training/solitaire/game/record"
	"github.com/wricardo/mcp-training/solitaire/game/service"
	"github.com/wricardo/mcp-training/solitaire/game/session"
	"github.com/wricardo/mcp-training/solitaire/transport/websocket"
)

// TokenVerifier checks that a bearer token unlocks a session
type TokenVerifier interface {
	Authorize(token, sessionID string) error
}

// Server represents the REST API server
type Server struct {
	service      service.GameService
	hub          *websocket.Hub
	router       *mux.Router
	handler      http.Handler
	tokens       TokenVerifier
	adminKeyHash string
}

// Option customizes a Server
type Option func(*Server)

// WithTokenVerifier requires a session token on routes that change a game
func WithTokenVerifier(v TokenVerifier) Option {
	return func(s *Server) { s.tokens = v }
}

// WithAdminKeyHash requires the X-Admin-Key header, checked against a bcrypt
// hash, to save configurations
func WithAdminKeyHash(hash string) Option {
	return func(s *Server) { s.adminKeyHash = hash }
}

// NewServer creates a new API server
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()

	// outside the router so preflight requests to unmatched methods still get CORS headers
	s.handler = chi.Chain(chimw.RequestID, chimw.RealIP, chimw.Recoverer, requestLogger, corsFromEnv).Handler(s.router)
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(chimw.Timeout(10 * time.Second))

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.requireToken(s.handleDeleteSession)).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.requireToken(s.handleMove)).Methods("POST")
	api.HandleFunc("/sessions/{id}/auto-move", s.requireToken(s.handleAutoMove)).Methods("POST")
	api.HandleFunc("/sessions/{id}/draw", s.requireToken(s.handleDraw)).Methods("POST")
	api.HandleFunc("/sessions/{id}/restart", s.requireToken(s.handleRestart)).Methods("POST")
	api.HandleFunc("/sessions/{id}/hints", s.handleGetHints).Methods("GET")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Configuration
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.requireAdmin(s.handleCreateConfig)).Methods("POST")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	// Finished games
	api.HandleFunc("/records", s.handleListRecords).Methods("GET")
	api.HandleFunc("/records/leaderboard", s.handleLeaderboard).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/", s.handleIndex).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router exposes the router so other handlers (MCP) can be mounted on it
func (s *Server) Router() *mux.Router { return s.router }

// Middleware

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Debug().
			Str("request_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

// corsFromEnv allows the origin in CLIENT_ORIGIN, or any origin when unset
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "*"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Key")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken rejects requests without a token for the {id} session.
// It is a no-op when the server has no verifier.
func (s *Server) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.tokens != nil {
			if err := s.tokens.Authorize(auth.BearerToken(r), mux.Vars(r)["id"]); err != nil {
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminKeyHash != "" {
			if err := auth.CheckAdminKey(s.adminKeyHash, r.Header.Get("X-Admin-Key")); err != nil {
				respondError(w, http.StatusUnauthorized, err.Error())
				return
			}
		}
		next(w, r)
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, service.ErrConfigNotFound),
		errors.Is(err, record.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, session.ErrInvalidSessionID):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongSession):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, session.ErrSessionLimit):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

// publish pushes the new state, then each event, to websocket clients
func (s *Server) publish(sessionID string, state *engine.GameState, events []service.GameEvent) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToSession(sessionID, state)
	for _, ev := range events {
		s.hub.BroadcastEvent(sessionID, ev.Type, ev)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"` // Deprecated, use config_id
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" && req.ConfigName != "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default: "desc")

	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if limit := queryInt(r, "limit", total); limit < total {
		sessions = sessions[:limit]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(sessionID, websocket.EventSessionGone, nil)
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Card string `json:"card"`
		To   string `json:"to"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Card == "" || req.To == "" {
		respondError(w, http.StatusBadRequest, "card and to are required")
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Card, req.To)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(sessionID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleAutoMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Card string `json:"card"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Card == "" {
		respondError(w, http.StatusBadRequest, "card is required")
		return
	}

	result, err := s.service.AutoMove(r.Context(), sessionID, req.Card)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(sessionID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleDraw(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.Draw(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(sessionID, result.GameState, result.Events)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Restart(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publish(sessionID, state, []service.GameEvent{{
		Type:      service.EventRestart,
		Message:   state.Message,
		Timestamp: time.Now(),
	}})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game restarted",
		"state":   state,
	})
}

func (s *Server) handleGetHints(w http.ResponseWriter, r *http.Request) {
	hints, err := s.service.GetHints(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, hints)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 20),
		Order: "desc",
	}
	if order := r.URL.Query().Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if configs == nil {
		configs = []*service.ConfigInfo{}
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	configName := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.LoadConfig(r.Context(), configName)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// configSlug turns a display name into a file-safe config id
func configSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}

func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID string `json:"config_id"`
		engine.GameConfig
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}
	if req.WinFoundations == 0 {
		req.WinFoundations = engine.DefaultWinFoundations
	}

	id := req.ConfigID
	if id == "" {
		id = configSlug(req.Name)
	}
	if id == "" {
		respondError(w, http.StatusBadRequest, "config_id is required")
		return
	}

	gameConfig := req.GameConfig
	if err := s.service.SaveConfig(r.Context(), id, &gameConfig); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": id,
	})
}

// Record Handlers

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.ListRecords(r.Context(), queryInt(r, "limit", record.DefaultLimit))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if records == nil {
		records = []*record.Record{}
	}

	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	records, err := s.service.Leaderboard(r.Context(), queryInt(r, "limit", record.DefaultLimit))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if records == nil {
		records = []*record.Record{}
	}

	respondJSON(w, http.StatusOK, records)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}
	if s.tokens != nil {
		if err := s.tokens.Authorize(auth.BearerToken(r), sessionID); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "solitaire",
		"endpoints": []string{
			"POST /api/sessions",
			"GET /api/sessions/{id}/state",
			"POST /api/sessions/{id}/move",
			"POST /api/sessions/{id}/auto-move",
			"POST /api/sessions/{id}/draw",
			"POST /api/sessions/{id}/restart",
			"GET /api/sessions/{id}/hints",
			"GET /api/records/leaderboard",
			"GET /ws?session={id}",
		},
	})
}
