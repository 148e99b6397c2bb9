package game

import (
	"github.com/charmbracelet/log"
)

// Scoreboard awards round wins. Scores live on the Player records owned
// by the registry; the scoreboard only ever increments them, so a score
// is monotonically non-decreasing within a session.
type Scoreboard struct {
	players *Registry
	logger  *log.Logger
}

// NewScoreboard creates a scoreboard over the given roster
func NewScoreboard(players *Registry, logger *log.Logger) *Scoreboard {
	return &Scoreboard{players: players, logger: logger.WithPrefix("scoreboard")}
}

// AwardPoint scans the submissions for the entry whose card matches
// cardID and gives that player one point. If no submission matches, or
// the submitting player has since left, nothing is mutated and ok is
// false. A no-match winner is not an error: the round still advances.
func (sb *Scoreboard) AwardPoint(cardID int, submissions []Submission) (winnerID string, ok bool) {
	for _, sub := range submissions {
		if sub.Card.ID != cardID {
			continue
		}
		p, found := sb.players.Get(sub.PlayerID)
		if !found {
			sb.logger.Warn("winning card belongs to a departed player", "card", cardID, "player", sub.PlayerID)
			return "", false
		}
		p.Score++
		return p.ID, true
	}

	sb.logger.Warn("gave nobody a point", "card", cardID)
	return "", false
}
