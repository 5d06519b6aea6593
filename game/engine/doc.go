// Package engine provides the core rules of Klondike Solitaire.
//
// The engine package implements the game mechanics including:
//   - Cards, piles and the triangular Klondike deal
//   - Move validation for single cards and tableau runs
//   - Scoring by move classification
//   - Stock draws, redeals, auto-flip and win detection
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the thirteen piles, score and
// history of one game, while GameConfig carries the rule variations (win
// threshold, score deltas, messages) loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.DrawFromStock()
//	top, _ := gameEngine.TopCard(engine.DiscardID)
//	if dest, ok := gameEngine.PossibleMove(top.ID()); ok {
//		gameEngine.AttemptMove(top.ID(), dest)
//	}
//	fmt.Println(gameEngine.ScoreText())
//
// Game Rules:
//
// Tableaus build down in alternating colours and only accept a king when
// empty. Foundations build up by suit from the ace. A face-up run on a
// tableau moves as a unit when its bottom card fits the destination. Illegal
// moves are rejected without touching the state; they are reported as a
// false result, never as an error.
package engine
