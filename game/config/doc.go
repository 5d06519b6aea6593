// Package config loads Klondike rule sets from a directory of JSON files.
//
// A config file names the rule set, says how many complete foundations win
// the game, and may override the score table and player messages:
//
//	{
//	  "name": "Strict Klondike",
//	  "description": "All four foundations must be completed",
//	  "win_foundations": 4,
//	  "scoring": {"waste_to_foundation": 10},
//	  "messages": {"welcome": "Deal!", "victory": "Solved! Final score: %d"}
//	}
//
// Files are addressed by their base name ("strict" or "strict.json") and
// cached after the first successful load. The default config is
// classic.json when present, otherwise the first valid file, otherwise the
// engine's built-in rules.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal().Err(err).Msg("configs")
//	}
//
//	strict, err := manager.LoadConfig("strict")
//	infos, err := manager.ListConfigs()
package config
