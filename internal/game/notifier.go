package game

import (
	"github.com/adam0314/cards-against-humanity/internal/deck"
)

// Broadcast is the notification target addressing every player in the
// session rather than a single player.
const Broadcast = "*"

// Notifier is the one-way port the session uses to describe state changes
// to the transport layer. Calls are fire-and-forget: implementations must
// not block and must not call back into the session.
//
// Methods taking a target accept either a player id or Broadcast.
type Notifier interface {
	// NewPlayer announces a seated player: their name, whether they are
	// judging, and their score
	NewPlayer(target string, name string, judge bool, score int)

	// WaitForGameStart tells a player the game has not started yet
	WaitForGameStart(playerID string)

	// CanStart tells the prospective judge there are enough players to
	// start the game
	CanStart(playerID string)

	// GameStart delivers the current prompt card as the round's context
	GameStart(target string, prompt deck.Card)

	// NewCards delivers a player's full current hand
	NewCards(playerID string, hand []deck.Card)

	// CardChosen confirms to a player which card they submitted
	CardChosen(playerID string, cardID int)

	// WaitingOn delivers a human-readable status of who has yet to act
	WaitingOn(playerID string, message string)

	// TimeToJudge tells the judge every eligible player has submitted
	TimeToJudge(judgeID string, submissions []Submission)

	// Judgify tells a player they are judging this round
	Judgify(judgeID string)

	// PlayerLeave announces a departed player by name
	PlayerLeave(name string)
}

// NopNotifier discards every notification. Useful for tests that only
// care about state.
type NopNotifier struct{}

var _ Notifier = NopNotifier{}

func (NopNotifier) NewPlayer(string, string, bool, int) {}
func (NopNotifier) WaitForGameStart(string)             {}
func (NopNotifier) CanStart(string)                     {}
func (NopNotifier) GameStart(string, deck.Card)         {}
func (NopNotifier) NewCards(string, []deck.Card)        {}
func (NopNotifier) CardChosen(string, int)              {}
func (NopNotifier) WaitingOn(string, string)            {}
func (NopNotifier) TimeToJudge(string, []Submission)    {}
func (NopNotifier) Judgify(string)                      {}
func (NopNotifier) PlayerLeave(string)                  {}
