// Command solitaire starts the Klondike solitaire server.
//
// It supports three commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "hash-admin-key" prints the bcrypt hash to use as ADMIN_KEY_HASH
//
// Flags control host/port, config directory, record storage, session tokens,
// logging, and optional ngrok tunneling for easy external access during development.
// Every flag can also be set from the environment or a .env file.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mcp-training/solitaire/api"
	"github.com/wricardo/mcp-training/solitaire/auth"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/record"
	"github.com/wricardo/mcp-training/solitaire/game/service"
	"github.com/wricardo/mcp-training/solitaire/game/session"
	"github.com/wricardo/mcp-training/solitaire/transport/mcp"
	"github.com/wricardo/mcp-training/solitaire/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Solitaire Server"
)

// settings is the resolved process configuration
type settings struct {
	host         string
	port         int
	configDir    string
	dbPath       string
	recordsDir   string
	jwtSecret    string
	adminKeyHash string
	sessionTTL   time.Duration
	logLevel     string
	debug        bool
	ngrokEnabled bool
	ngrokAuth    string
	ngrokDomain  string
}

func (s settings) addr() string { return fmt.Sprintf("%s:%d", s.host, s.port) }

// main loads .env, then runs the selected command.
func main() {
	// Load .env file if it exists (ignore error if not found)
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(envErr).Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("solitaire exited")
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host", Sources: cli.EnvVars("HOST")},
		&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
		&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory containing game configurations", Sources: cli.EnvVars("CONFIG_DIR")},
		&cli.StringFlag{Name: "db-path", Usage: "SQLite file for finished game records", Sources: cli.EnvVars("DB_PATH")},
		&cli.StringFlag{Name: "records-dir", Usage: "Directory for finished game records as JSON files", Sources: cli.EnvVars("RECORDS_DIR")},
		&cli.StringFlag{Name: "jwt-secret", Usage: "Secret for session tokens; empty disables token checks", Sources: cli.EnvVars("JWT_SECRET")},
		&cli.StringFlag{Name: "admin-key-hash", Usage: "bcrypt hash required in X-Admin-Key to save configs", Sources: cli.EnvVars("ADMIN_KEY_HASH")},
		&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "Idle time before a session expires", Sources: cli.EnvVars("SESSION_TTL")},
		&cli.StringFlag{Name: "log-level", Value: "info", Usage: "trace, debug, info, warn or error", Sources: cli.EnvVars("LOG_LEVEL")},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Sources: cli.EnvVars("DEBUG")},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
	}
}

func newApp(envErr error) *cli.Command {
	before := func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		if err := setupLogging(cmd.String("log-level"), cmd.Bool("debug")); err != nil {
			return ctx, err
		}
		if envErr == nil {
			log.Debug().Msg("loaded environment variables from .env file")
		} else if !os.IsNotExist(envErr) {
			log.Warn().Err(envErr).Msg("error loading .env file")
		}
		return ctx, nil
	}

	return &cli.Command{
		Name:    "solitaire",
		Usage:   "Klondike solitaire over REST, WebSocket and MCP",
		Version: Version,
		Flags:   globalFlags(),
		Before:  before,
		Action:  runServe,
		Commands: []*cli.Command{
			{
				Name:    "serve",
				Aliases: []string{"server", "http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action:  runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action:  runMCP,
			},
			{
				Name:      "hash-admin-key",
				Usage:     "Print the bcrypt hash of an admin key",
				ArgsUsage: "<key>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					key := cmd.Args().First()
					if key == "" {
						return errors.New("admin key argument required")
					}
					hash, err := auth.HashAdminKey(key)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.Root().Writer, hash)
					return nil
				},
			},
		},
	}
}

func settingsFrom(cmd *cli.Command) settings {
	return settings{
		host:         cmd.String("host"),
		port:         int(cmd.Int("port")),
		configDir:    cmd.String("config-dir"),
		dbPath:       cmd.String("db-path"),
		recordsDir:   cmd.String("records-dir"),
		jwtSecret:    cmd.String("jwt-secret"),
		adminKeyHash: cmd.String("admin-key-hash"),
		sessionTTL:   cmd.Duration("session-ttl"),
		logLevel:     cmd.String("log-level"),
		debug:        cmd.Bool("debug"),
		ngrokEnabled: cmd.Bool("ngrok"),
		ngrokAuth:    cmd.String("ngrok-auth"),
		ngrokDomain:  cmd.String("ngrok-domain"),
	}
}

// setupLogging writes to stderr so stdout stays free for the MCP stdio transport
func setupLogging(level string, debug bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// services is everything the transports need
type services struct {
	game     service.GameService
	sessions *session.Manager
	records  record.Store
	issuer   *auth.Issuer
}

func (s *services) Close() error {
	return s.records.Close()
}

// openRecordStore prefers SQLite, then a JSON directory, then memory
func openRecordStore(s settings) (record.Store, error) {
	switch {
	case s.dbPath != "":
		log.Info().Str("path", s.dbPath).Msg("records: sqlite")
		return record.OpenSQLite(s.dbPath)
	case s.recordsDir != "":
		log.Info().Str("dir", s.recordsDir).Msg("records: json files")
		return record.NewFileStore(s.recordsDir)
	default:
		log.Info().Msg("records: memory")
		return record.NewMemoryStore(), nil
	}
}

// initializeServices wires session/config managers, the record store and the game service.
func initializeServices(s settings) (*services, error) {
	configManager, err := config.NewManager(s.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	store, err := openRecordStore(s)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}

	sessionManager := session.NewManager(session.WithEvictHook(func(sess *service.Session) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := service.Archive(ctx, store, sess, record.ReasonExpired); err != nil {
			log.Warn().Err(err).Str("session", sess.ID).Msg("failed to archive expired game")
		}
	}))

	opts := []service.Option{service.WithRecordStore(store)}

	var issuer *auth.Issuer
	if s.jwtSecret != "" {
		issuer, err = auth.NewIssuer(s.jwtSecret, auth.DefaultTTL)
		if err != nil {
			store.Close()
			return nil, err
		}
		opts = append(opts, service.WithTokenIssuer(issuer))
	} else {
		log.Warn().Msg("JWT_SECRET not set, session routes are open")
	}

	return &services{
		game:     service.NewGameService(sessionManager, configManager, opts...),
		sessions: sessionManager,
		records:  store,
		issuer:   issuer,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within ttl, until ctx is done.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, ttl time.Duration) {
	interval := ttl / 24
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				log.Info().Int("removed", removed).Msg("cleaned up expired sessions")
			}
		}
	}
}

// newAPIServer applies the token and admin key options that are configured
func newAPIServer(s settings, svcs *services, hub *websocket.Hub) *api.Server {
	var opts []api.Option
	if svcs.issuer != nil {
		opts = append(opts, api.WithTokenVerifier(svcs.issuer))
	}
	if s.adminKeyHash != "" {
		opts = append(opts, api.WithAdminKeyHash(s.adminKeyHash))
	}
	return api.NewServer(svcs.game, hub, opts...)
}

// mcpHandler serves single JSON-RPC messages against the MCP server
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newHTTPHandler combines the API server and the /mcp endpoint
func newHTTPHandler(s settings, svcs *services, hub *websocket.Hub) http.Handler {
	apiServer := newAPIServer(s, svcs, hub)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", s.addr()))
	apiServer.Router().HandleFunc("/mcp", mcpHandler(mcpClient)).Methods("POST")
	return apiServer
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	s := settingsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "serve").Msgf("starting %s", AppName)

	svcs, err := initializeServices(s)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.Close()

	return runHTTPServer(ctx, s, svcs)
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled, it also provisions a public tunnel. It returns when ctx is cancelled.
func runHTTPServer(ctx context.Context, s settings, svcs *services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	go sessionCleanupRoutine(ctx, svcs.sessions, s.sessionTTL)

	handler := newHTTPHandler(s, svcs, hub)
	addr := s.addr()

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Info().Str("addr", addr).Msg("HTTP server listening")
		log.Info().Msgf("REST API: http://%s/api", addr)
		log.Info().Msgf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Info().Msgf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			cancel()
		}
	}()

	if s.ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, s, handler)
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	wg.Wait()
	log.Info().Msg("server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, s settings, handler http.Handler) {
	if s.ngrokAuth == "" {
		log.Warn().Msg("ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Info().Msg("starting ngrok tunnel")

	var tunnel ngrokConfig.Tunnel
	if s.ngrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(s.ngrokDomain))
		log.Info().Str("domain", s.ngrokDomain).Msg("using custom ngrok domain")
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(s.ngrokAuth))
	if err != nil {
		log.Error().Err(err).Msg("failed to start ngrok tunnel")
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close ngrok tunnel")
		}
	}()

	ngrokURL := tun.URL()
	log.Info().Str("url", ngrokURL).Msg("ngrok tunnel established")
	log.Info().Msgf("  REST API (ngrok): %s/api", ngrokURL)
	log.Info().Msgf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Info().Msgf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && err != http.ErrServerClosed && ctx.Err() == nil {
		log.Error().Err(err).Msg("ngrok server error")
	}
	log.Info().Msg("ngrok tunnel closed")
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	s := settingsFrom(cmd)
	log.Info().Str("version", Version).Str("mode", "mcp").Msgf("starting %s", AppName)

	svcs, err := initializeServices(s)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcs.Close()

	return runStdioMCPWithInternalServer(ctx, s, svcs)
}

// externalAPIAvailable reports whether a server already answers at baseURL
func externalAPIAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured address; if there is none,
// it starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, s settings, svcs *services) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	baseURL := fmt.Sprintf("http://%s", s.addr())
	log.Info().Str("url", baseURL).Msg("checking for external API server")

	if externalAPIAvailable(baseURL) {
		log.Info().Str("url", baseURL).Msg("external API server found, using it for MCP")
	} else {
		log.Info().Msg("no external API server found, starting internal HTTP server")

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}
		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())

		hub := websocket.NewHub()
		go hub.Run(ctx)
		go sessionCleanupRoutine(ctx, svcs.sessions, s.sessionTTL)

		httpServer := &http.Server{Handler: newAPIServer(s, svcs, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("internal HTTP server error")
			}
		}()
		defer httpServer.Close()

		log.Info().Str("url", baseURL).Msg("internal HTTP server started for MCP stdio")
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Info().Msg("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
