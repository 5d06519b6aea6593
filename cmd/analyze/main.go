// Command analyze plays seeded games under every rule set in the configs
// directory with the greedy autoplayer and prints a comparison table: win
// rate, average score, average moves and how often the stock cycled without
// progress.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/solitaire/game/autoplay"
	"github.com/wricardo/mcp-training/solitaire/game/config"
	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// Summary aggregates the autoplay results of one rule set
type Summary struct {
	ConfigID        string
	Name            string
	Games           int
	Wins            int
	Stalled         int
	TotalScore      int
	TotalMoves      int
	FoundationCards int
}

// WinRate is the share of games won, in percent
func (s Summary) WinRate() float64 {
	if s.Games == 0 {
		return 0
	}
	return 100 * float64(s.Wins) / float64(s.Games)
}

func (s Summary) avg(total int) float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(total) / float64(s.Games)
}

// AvgScore is the mean final score
func (s Summary) AvgScore() float64 { return s.avg(s.TotalScore) }

// AvgMoves is the mean number of moves per game
func (s Summary) AvgMoves() float64 { return s.avg(s.TotalMoves) }

// AvgFoundationCards is the mean number of cards played to the foundations
func (s Summary) AvgFoundationCards() float64 { return s.avg(s.FoundationCards) }

// analyzeConfig plays games seeded seed, seed+1, ... under cfg
func analyzeConfig(id string, cfg *engine.GameConfig, games int, seed uint64, maxSteps int) (Summary, error) {
	sum := Summary{ConfigID: id, Name: cfg.Name}
	for i := 0; i < games; i++ {
		eng, err := engine.NewEngine(cfg, engine.WithSeed(seed+uint64(i)))
		if err != nil {
			return sum, fmt.Errorf("config %s: %w", id, err)
		}

		res := autoplay.Play(eng, maxSteps)
		sum.Games++
		if res.Won {
			sum.Wins++
		}
		if res.Stalled {
			sum.Stalled++
		}
		sum.TotalScore += res.Score
		sum.TotalMoves += res.Moves
		sum.FoundationCards += res.FoundationCards
	}
	return sum, nil
}

// analyzeDir runs analyzeConfig for every rule set the manager can load
func analyzeDir(dir string, games int, seed uint64, maxSteps int) ([]Summary, error) {
	mgr, err := config.NewManager(dir)
	if err != nil {
		return nil, err
	}
	infos, err := mgr.ListConfigs()
	if err != nil {
		return nil, err
	}

	var summaries []Summary
	if len(infos) == 0 {
		s, err := analyzeConfig("default", mgr.GetDefault(), games, seed, maxSteps)
		if err != nil {
			return nil, err
		}
		return append(summaries, s), nil
	}

	for _, info := range infos {
		cfg, err := mgr.LoadConfig(info.ConfigID)
		if err != nil {
			return nil, err
		}
		s, err := analyzeConfig(info.ConfigID, cfg, games, seed, maxSteps)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// tableData lays the summaries out as pterm rows with a header
func tableData(summaries []Summary) pterm.TableData {
	data := pterm.TableData{
		{"Config", "Name", "Games", "Wins", "Win %", "Avg Score", "Avg Moves", "Avg Foundation", "Stalled"},
	}
	for _, s := range summaries {
		data = append(data, []string{
			s.ConfigID,
			s.Name,
			fmt.Sprintf("%d", s.Games),
			fmt.Sprintf("%d", s.Wins),
			fmt.Sprintf("%.1f", s.WinRate()),
			fmt.Sprintf("%.1f", s.AvgScore()),
			fmt.Sprintf("%.1f", s.AvgMoves()),
			fmt.Sprintf("%.1f", s.AvgFoundationCards()),
			fmt.Sprintf("%d", s.Stalled),
		})
	}
	return data
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "analyze",
		Usage: "Compare solitaire rule sets by autoplaying seeded games",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config-dir", Value: "configs", Usage: "Directory of rule set JSON files", Sources: cli.EnvVars("CONFIG_DIR")},
			&cli.IntFlag{Name: "games", Aliases: []string{"n"}, Value: 100, Usage: "Games per rule set"},
			&cli.IntFlag{Name: "seed", Value: 1, Usage: "Seed of the first game"},
			&cli.IntFlag{Name: "max-steps", Value: autoplay.DefaultMaxSteps, Usage: "Action limit per game"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			games := int(cmd.Int("games"))
			if games <= 0 {
				return fmt.Errorf("games must be positive, got %d", games)
			}

			summaries, err := analyzeDir(cmd.String("config-dir"), games, uint64(cmd.Int("seed")), int(cmd.Int("max-steps")))
			if err != nil {
				return err
			}

			out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData(summaries)).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.Root().Writer, out)
			return nil
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
