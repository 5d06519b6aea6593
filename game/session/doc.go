// Package session keeps the live Klondike games in memory.
//
// Each session owns its own engine and is identified by a short,
// case-insensitive ID. When no ID is supplied the manager draws a random
// 4-character hex ID that is not already in use, and returns ErrSessionLimit
// once all 65536 are taken.
//
// Concurrency:
//
// The manager guards its map with a RWMutex. Game state belongs to the
// session and is protected by the session's own lock, so moves in
// different sessions never contend. The manager may take a session lock
// while holding its own; callers must not do the reverse.
//
// Expiry:
//
// CleanupExpiredSessions drops sessions idle for longer than the given
// duration. A hook registered with WithEvictHook sees each one first,
// which is how unfinished games end up in the record store.
//
// Usage:
//
//	manager := session.NewManager(session.WithEvictHook(archive))
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal().Err(err).Msg("create session")
//	}
//
//	sess, err = manager.Get(sess.ID)
package session
