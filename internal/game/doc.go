// Package game implements the core session logic for a prompt/response
// party card game.
//
// The main type is Session, which owns the round lifecycle for a single
// game: players submit response cards against a prompt card, one rotating
// judge picks a winner each round, and scores accumulate.
//
// # Basic Usage
//
// Create a session and drive it with client actions:
//
//	s, _ := game.NewSession("game-1", prompts, responses, rng, notifier, logger)
//	s.Join("p1", "Alice")
//	s.Join("p2", "Bob")
//	s.Join("p3", "Carol")
//	s.Start()
//	// Players submit, the judge resolves...
//	s.Submit("p2", card)
//
// The session never touches the network: everything it wants to tell
// clients goes through the injected Notifier, so the state machine is
// fully testable with a recording double.
//
// # Deterministic Testing
//
// Card draws use an injected *rand.Rand; seed it with randutil.New for
// reproducible rounds.
package game
