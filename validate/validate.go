// Command validate provides a small CLI that validates solitaire rule set
// JSON files in the ../configs directory. It checks:
//   - JSON structure, unknown keys and required fields
//   - win_foundations is within 1..4
//   - Scoring keys are known move types and invalid moves score 0
//   - Message templates carry their placeholders
//   - Playability: a seeded deal accounts for all 52 cards
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/mcp-training/solitaire/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...interface{}) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

// validateConfig loads and validates a single configuration JSON file
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	var config engine.GameConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&config); err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}

	if config.Name == "" {
		result.fail("name is required")
	}
	if config.Description == "" {
		result.fail("description is required")
	}

	// 0 means the engine default
	winFoundations := config.WinFoundations
	if winFoundations == 0 {
		winFoundations = engine.DefaultWinFoundations
	}
	if winFoundations < 1 || winFoundations > engine.NumFoundations {
		result.fail("win_foundations must be between 1 and %d, got %d", engine.NumFoundations, config.WinFoundations)
	}

	known := engine.DefaultScoreTable()
	for mt, points := range config.Scoring {
		if _, ok := known[mt]; !ok {
			result.fail("Unknown scoring key: %s", mt)
			continue
		}
		if mt == engine.MoveInvalid && points != 0 {
			result.fail("Scoring for %s must be 0, got %d", mt, points)
		}
	}

	if config.Messages.Welcome == "" {
		result.fail("Missing required message: welcome")
	}
	if config.Messages.Victory == "" {
		result.fail("Missing required message: victory")
	} else if !strings.Contains(config.Messages.Victory, "%d") {
		result.fail("Message victory must contain %%d for the score")
	}
	for key, msg := range map[string]string{
		"placed_foundation": config.Messages.PlacedFoundation,
		"placed_tableau":    config.Messages.PlacedTableau,
		"drew":              config.Messages.Drew,
		"invalid_move":      config.Messages.InvalidMove,
	} {
		if msg != "" && !strings.Contains(msg, "%s") {
			result.fail("Message %s must contain %%s for the card name", key)
		}
	}

	if !result.Valid {
		return result
	}

	config.WinFoundations = winFoundations
	checkDeal(&config, &result)
	if !result.Valid {
		return result
	}

	result.info("Name: %s", config.Name)
	result.info("Win: %d of %d foundations", winFoundations, engine.NumFoundations)
	result.info("Scoring: %s", describeScoring(config.Scoring))
	return result
}

// checkDeal deals a seeded game under config and checks the table is whole
func checkDeal(config *engine.GameConfig, result *ValidationResult) {
	eng, err := engine.NewEngine(config, engine.WithSeed(1))
	if err != nil {
		result.fail("Engine rejected config: %v", err)
		return
	}

	gs := eng.GetState()
	if n := gs.CountCards(); n != engine.DeckSize {
		result.fail("Deal accounts for %d cards, expected %d", n, engine.DeckSize)
		return
	}
	if gs.Stock.Size() != engine.StockSize {
		result.fail("Deal left %d cards in the stock, expected %d", gs.Stock.Size(), engine.StockSize)
		return
	}
	result.info("Deal: %d cards, %d in stock, %d legal opening moves", engine.DeckSize, engine.StockSize, len(eng.GetPossibleMoves()))
}

// describeScoring lists overrides against the classic table
func describeScoring(scoring engine.ScoreTable) string {
	if len(scoring) == 0 {
		return "classic"
	}
	keys := make([]string, 0, len(scoring))
	for mt := range scoring {
		keys = append(keys, string(mt))
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, scoring[engine.MoveType(k)]))
	}
	return strings.Join(parts, ", ")
}

// main scans ../configs (or the directory given as the first argument) for
// *.json files and validates each one, printing a concise report and exiting
// with non-zero status if any are invalid.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}
	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All configurations are valid!")
	} else {
		fmt.Println("❌ Some configurations have errors")
		os.Exit(1)
	}
}
