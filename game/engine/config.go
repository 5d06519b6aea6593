package engine

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.WinFoundations < 1 || config.WinFoundations > NumFoundations {
		return fmt.Errorf("config validation: win_foundations must be between 1 and %d, got %d",
			NumFoundations, config.WinFoundations)
	}

	// Validate scoring keys
	for mt := range config.Scoring {
		if _, ok := DefaultScoreTable()[mt]; !ok {
			return fmt.Errorf("config validation: unknown scoring key '%s'", mt)
		}
		if mt == MoveInvalid && config.Scoring[mt] != 0 {
			return fmt.Errorf("config validation: scoring for '%s' must be 0", MoveInvalid)
		}
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Victory == "" {
		return fmt.Errorf("config validation: messages.victory is required")
	}

	// Validate format strings
	for key, msg := range map[string]string{
		"placed_foundation": config.Messages.PlacedFoundation,
		"placed_tableau":    config.Messages.PlacedTableau,
		"drew":              config.Messages.Drew,
		"invalid_move":      config.Messages.InvalidMove,
	} {
		if msg != "" && !strings.Contains(msg, "%s") {
			return fmt.Errorf("config validation: messages.%s must contain %%s for the card name", key)
		}
	}
	if !strings.Contains(config.Messages.Victory, "%d") {
		return fmt.Errorf("config validation: messages.victory must contain %%d for the score")
	}

	return nil
}

// DefaultConfig returns the built-in classic rules
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:           "Classic Klondike",
		Description:    "Draw one, unlimited redeals, standard scoring",
		WinFoundations: DefaultWinFoundations,
		Scoring:        DefaultScoreTable(),
		Messages:       defaultMessages(),
	}
}

func defaultMessages() GameMessages {
	return GameMessages{
		Welcome:          "New game dealt. Good luck!",
		PlacedFoundation: "Placed %s to the foundation.",
		PlacedTableau:    "Placed %s to a new pile.",
		Drew:             "Drew %s.",
		Redeal:           "Stock refilled from discard pile.",
		StockEmpty:       "Stock and discard are both empty.",
		InvalidMove:      "Cannot place %s there.",
		Victory:          "You won! Final score: %d",
	}
}

// withMessageDefaults fills optional messages a config left blank
func withMessageDefaults(m GameMessages) GameMessages {
	d := defaultMessages()
	if m.Welcome == "" {
		m.Welcome = d.Welcome
	}
	if m.PlacedFoundation == "" {
		m.PlacedFoundation = d.PlacedFoundation
	}
	if m.PlacedTableau == "" {
		m.PlacedTableau = d.PlacedTableau
	}
	if m.Drew == "" {
		m.Drew = d.Drew
	}
	if m.Redeal == "" {
		m.Redeal = d.Redeal
	}
	if m.StockEmpty == "" {
		m.StockEmpty = d.StockEmpty
	}
	if m.InvalidMove == "" {
		m.InvalidMove = d.InvalidMove
	}
	if m.Victory == "" {
		m.Victory = d.Victory
	}
	return m
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return ParseGameConfig(data)
}

// ParseGameConfig decodes and validates a JSON configuration
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if config.WinFoundations == 0 {
		config.WinFoundations = DefaultWinFoundations
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadConfigByName loads a game configuration by name from the configs directory
func LoadConfigByName(configName string) (*GameConfig, error) {
	if !strings.HasSuffix(configName, ".json") {
		configName = configName + ".json"
	}

	configPath := filepath.Join("configs", configName)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file '%s' not found", configName)
	}

	config, err := LoadGameConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config '%s': %w", configName, err)
	}
	return config, nil
}

// NewTable returns the thirteen empty piles of a game
func NewTable() (stock, discard *Pile, foundations, tableaus []*Pile) {
	stock = NewPile(StockID, StockPile, "Stock")
	discard = NewPile(DiscardID, DiscardPile, "Discard")
	foundations = make([]*Pile, NumFoundations)
	for i := range foundations {
		foundations[i] = NewPile(FoundationID(i), FoundationPile, fmt.Sprintf("Foundation %d", i+1))
	}
	tableaus = make([]*Pile, NumTableaus)
	for i := range tableaus {
		tableaus[i] = NewPile(TableauID(i), TableauPile, fmt.Sprintf("Tableau %d", i+1))
	}
	return stock, discard, foundations, tableaus
}

// InitGameStateFromConfig shuffles a fresh deck with r and deals it.
// The returned state is in PhaseDealing; the engine moves it to playing.
func InitGameStateFromConfig(config *GameConfig, r *rand.Rand) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	stock, discard, foundations, tableaus := NewTable()
	dealt, stockCards, err := Deal(CreateShuffledDeck(r))
	if err != nil {
		// CreateShuffledDeck always yields a full unique deck
		panic(err)
	}
	for i, cards := range dealt {
		tableaus[i].PushRun(cards)
	}
	stock.PushRun(stockCards)

	state := &GameState{
		Stock:             stock,
		Discard:           discard,
		Foundations:       foundations,
		Tableaus:          tableaus,
		Score:             0,
		ScoreText:         FormatScore(0),
		Phase:             PhaseDealing,
		Message:           withMessageDefaults(config.Messages).Welcome,
		ConfigName:        config.Name,
		MoveHistory:       []MoveHistoryEntry{},
		TotalMoves:        0,
		CurrentMoves:      []MoveHistoryEntry{},
		CurrentMovesCount: 0,
	}
	state.reindex()
	return state
}
