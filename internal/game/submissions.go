package game

import (
	"errors"

	"github.com/adam0314/cards-against-humanity/internal/deck"
)

var (
	// ErrAlreadySubmitted is returned when a player tries to submit a
	// second card in the same round
	ErrAlreadySubmitted = errors.New("player already submitted a card this round")

	// ErrJudgeCannotSubmit is returned when the current judge tries to
	// submit a response card
	ErrJudgeCannotSubmit = errors.New("the judge cannot submit a card")

	// ErrCardNotHeld is returned when a player submits a card that is not
	// in their hand
	ErrCardNotHeld = errors.New("card is not in the player's hand")
)

// Submission is one (player, card) entry for the current round
type Submission struct {
	PlayerID string
	Card     deck.Card
}

// Submissions is the per-round bookkeeping of which non-judge player has
// submitted which card. Entries keep submission order.
type Submissions struct {
	entries  []Submission
	byPlayer map[string]bool
}

// NewSubmissions creates an empty tracker
func NewSubmissions() *Submissions {
	return &Submissions{byPlayer: make(map[string]bool)}
}

// Add records a submission and marks the player's chosen card. Rejected
// without mutation if the player already submitted this round, is the
// current judge, or does not hold the card. The card is matched by id
// against the player's hand, and the hand's instance is what gets
// recorded, so a bare id from the wire suffices.
func (s *Submissions) Add(p *Player, card deck.Card, judgeID string) error {
	if s.byPlayer[p.ID] {
		return ErrAlreadySubmitted
	}
	if p.ID == judgeID {
		return ErrJudgeCannotSubmit
	}
	held, ok := p.Card(card.ID)
	if !ok {
		return ErrCardNotHeld
	}

	s.entries = append(s.entries, Submission{PlayerID: p.ID, Card: held})
	s.byPlayer[p.ID] = true
	chosen := held
	p.ChosenCard = &chosen
	return nil
}

// Remove drops the submission recorded for the given player, if any.
// Used when a player leaves mid-round.
func (s *Submissions) Remove(playerID string) {
	if !s.byPlayer[playerID] {
		return
	}
	delete(s.byPlayer, playerID)
	for i, e := range s.entries {
		if e.PlayerID == playerID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Clear erases all recorded submissions. Each submitted card is spent:
// it is removed from the owning player's hand and the player's chosen
// card is unset. Players who left since submitting are skipped.
func (s *Submissions) Clear(players *Registry) {
	for _, e := range s.entries {
		p, ok := players.Get(e.PlayerID)
		if !ok {
			continue
		}
		p.RemoveCard(e.Card.ID)
		p.ChosenCard = nil
	}
	s.entries = nil
	s.byPlayer = make(map[string]bool)
}

// Count returns the number of recorded submissions
func (s *Submissions) Count() int {
	return len(s.entries)
}

// Has returns true if the given player has a recorded submission
func (s *Submissions) Has(playerID string) bool {
	return s.byPlayer[playerID]
}

// Entries returns a copy of the recorded submissions in submission order
func (s *Submissions) Entries() []Submission {
	out := make([]Submission, len(s.entries))
	copy(out, s.entries)
	return out
}

// JudgeReady reports whether every eligible player has submitted: the
// submission count equals the active player count minus the judge. Never
// true with one or zero active players.
func (s *Submissions) JudgeReady(activePlayerCount int) bool {
	return activePlayerCount > 1 && len(s.entries) == activePlayerCount-1
}
