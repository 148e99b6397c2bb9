package server

import (
	"github.com/charmbracelet/log"

	"github.com/adam0314/cards-against-humanity/internal/deck"
	"github.com/adam0314/cards-against-humanity/internal/game"
)

// WSNotifier adapts the session's notification port onto the WebSocket
// server for one session. Deliveries are fire-and-forget: send failures
// are logged, never propagated back into the game core.
type WSNotifier struct {
	sessionID string
	server    *Server
	logger    *log.Logger
}

var _ game.Notifier = (*WSNotifier)(nil)

// NewWSNotifier creates a notifier delivering to the given session's
// connections
func NewWSNotifier(sessionID string, server *Server, logger *log.Logger) *WSNotifier {
	return &WSNotifier{
		sessionID: sessionID,
		server:    server,
		logger:    logger.WithPrefix("notifier").With("session", sessionID),
	}
}

func (n *WSNotifier) send(target string, mt MessageType, data interface{}) {
	msg, err := NewMessage(mt, data)
	if err != nil {
		n.logger.Error("failed to build message", "type", mt, "error", err)
		return
	}

	if target == game.Broadcast {
		n.server.BroadcastToSession(n.sessionID, msg)
		return
	}
	if err := n.server.SendToPlayer(n.sessionID, target, msg); err != nil {
		n.logger.Debug("dropped notification", "type", mt, "player", target, "error", err)
	}
}

func (n *WSNotifier) NewPlayer(target, name string, judge bool, score int) {
	n.send(target, MessageTypeNewPlayer, NewPlayerData{Name: name, Judge: judge, Score: score})
}

func (n *WSNotifier) WaitForGameStart(playerID string) {
	n.send(playerID, MessageTypeWaitForGameStart, nil)
}

func (n *WSNotifier) CanStart(playerID string) {
	n.send(playerID, MessageTypeCanStart, nil)
}

func (n *WSNotifier) GameStart(target string, prompt deck.Card) {
	n.send(target, MessageTypeGameStart, GameStartData{Prompt: prompt})
}

func (n *WSNotifier) NewCards(playerID string, hand []deck.Card) {
	n.send(playerID, MessageTypeNewCards, NewCardsData{Cards: hand})
}

func (n *WSNotifier) CardChosen(playerID string, cardID int) {
	n.send(playerID, MessageTypeCardChosen, CardChosenData{CardID: cardID})
}

func (n *WSNotifier) WaitingOn(playerID, message string) {
	n.send(playerID, MessageTypeWaitingOn, WaitingOnData{Message: message})
}

func (n *WSNotifier) TimeToJudge(judgeID string, subs []game.Submission) {
	n.send(judgeID, MessageTypeTimeToJudge, TimeToJudgeData{Submissions: SubmissionsFromGame(subs)})
}

func (n *WSNotifier) Judgify(judgeID string) {
	n.send(judgeID, MessageTypeJudgify, nil)
}

func (n *WSNotifier) PlayerLeave(name string) {
	n.send(game.Broadcast, MessageTypePlayerLeave, PlayerLeaveData{Name: name})
}
