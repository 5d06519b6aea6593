// Command bruteforcer plays solitaire against a running game server through
// the REST API. It follows the server's hints with the autoplay strategy and
// restarts the deal until it wins or runs out of attempts.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/solitaire/game/autoplay"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

const sessionFile = ".session"

// Options bound a brute force run
type Options struct {
	MaxMoves    int
	MaxAttempts int
	Delay       time.Duration
	Verbose     bool
}

// Outcome reports how a run ended
type Outcome struct {
	Won      bool
	Attempts int
	Moves    int
	Score    int
}

// attempt plays the current deal until it is won, stuck or out of moves
func attempt(ctx context.Context, client *Client, state *engine.GameState, opts Options) (*engine.GameState, int, error) {
	strategy := autoplay.NewStrategy()
	moves := 0

	// Rejected hints count against the limit too
	for steps := 0; !state.Won && steps < opts.MaxMoves; steps++ {
		if err := ctx.Err(); err != nil {
			return state, moves, err
		}

		hints, err := client.Hints(ctx)
		if err != nil {
			return state, moves, err
		}
		m, ok := strategy.NextMove(hints.Moves)
		if !ok {
			log.Debug().Int("moves", moves).Msg("no useful moves left")
			break
		}
		if m.Action == engine.ActionRedeal && strategy.Stalled(state) {
			log.Debug().Int("moves", moves).Msg("stock cycled without progress")
			break
		}

		result, err := client.Apply(ctx, m)
		if err != nil {
			return state, moves, err
		}
		if result.GameState != nil {
			state = result.GameState
		}
		if !result.Success {
			// The hint went stale; the next round of hints reflects the table
			log.Debug().Str("card", m.Card).Str("to", string(m.To)).Msg(result.Message)
			continue
		}
		moves++

		if opts.Verbose && moves%50 == 0 {
			log.Info().Int("moves", moves).Int("foundation", state.FoundationCards()).
				Int("face_down", state.FaceDownTableauCards()).Int("score", state.Score).Msg("progress")
		}
		if opts.Delay > 0 {
			time.Sleep(opts.Delay)
		}
	}
	return state, moves, nil
}

// bruteForce restarts the session's deal until a game is won
func bruteForce(ctx context.Context, client *Client, opts Options) (Outcome, error) {
	var out Outcome
	for out.Attempts < opts.MaxAttempts {
		out.Attempts++

		state, err := client.Restart(ctx)
		if err != nil {
			return out, fmt.Errorf("restart: %w", err)
		}

		log.Info().Msgf("=== 🎮 Attempt %d/%d ===", out.Attempts, opts.MaxAttempts)
		state, moves, err := attempt(ctx, client, state, opts)
		if err != nil {
			return out, err
		}

		out.Moves = moves
		out.Score = state.Score
		log.Info().
			Int("attempt", out.Attempts).
			Int("moves", moves).
			Int("foundation_cards", state.FoundationCards()).
			Int("score", state.Score).
			Msg("attempt finished")

		if state.Won {
			out.Won = true
			return out, nil
		}
	}
	return out, nil
}

// loadSession reads the id and token saved by a previous run
func loadSession(path string) (id, token string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", ""
	}
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	id = strings.TrimSpace(lines[0])
	if len(lines) > 1 {
		token = strings.TrimSpace(lines[1])
	}
	return id, token
}

func saveSession(path, id, token string) error {
	return os.WriteFile(path, []byte(id+"\n"+token+"\n"), 0600)
}

// connect resumes the saved or requested session, or creates a new one
func connect(ctx context.Context, client *Client, configID, resumeID, token, path string) error {
	if resumeID == "" {
		resumeID, token = loadSession(path)
	}

	if resumeID != "" {
		log.Info().Str("session", resumeID).Msg("🔄 Resuming session")
		_, err := client.Resume(ctx, resumeID, token)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Msg("Failed to resume session (may be expired), creating a new one")
		client.token = ""
	}

	if _, err := client.CreateSession(ctx, configID); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	log.Info().Str("session", client.sessionID).Msg("✨ Session created")

	if err := saveSession(path, client.sessionID, client.token); err != nil {
		log.Warn().Err(err).Msg("Failed to save session ID")
	}
	return nil
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "bruteforcer",
		Usage: "Play solitaire through the REST API until a deal is won",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL", Sources: cli.EnvVars("GAME_SERVER_URL")},
			&cli.StringFlag{Name: "config", Usage: "Rule set id (classic, strict, vegas)"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.StringFlag{Name: "token", Usage: "Session token for --continue"},
			&cli.StringFlag{Name: "session-file", Value: sessionFile, Usage: "Where the session id and token are remembered"},
			&cli.IntFlag{Name: "max-moves", Value: 3000, Usage: "Maximum moves per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "Maximum attempts before giving up"},
			&cli.DurationFlag{Name: "delay", Usage: "Delay between moves"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log.Info().Str("url", cmd.String("url")).Msg("Connecting to game server")
			client := NewClient(cmd.String("url"))

			if err := connect(ctx, client, cmd.String("config"), cmd.String("continue"), cmd.String("token"), cmd.String("session-file")); err != nil {
				return err
			}

			out, err := bruteForce(ctx, client, Options{
				MaxMoves:    int(cmd.Int("max-moves")),
				MaxAttempts: int(cmd.Int("max-attempts")),
				Delay:       cmd.Duration("delay"),
				Verbose:     cmd.Bool("v"),
			})
			if err != nil {
				return err
			}

			if !out.Won {
				return fmt.Errorf("❌ failed to win after %d attempts (session %s)", out.Attempts, client.sessionID)
			}
			log.Info().Str("session", client.sessionID).
				Msgf("🎉 VICTORY! Game won in attempt %d with %d moves, score %d", out.Attempts, out.Moves, out.Score)
			return nil
		},
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("bruteforcer stopped")
		}
		os.Exit(1)
	}
}
