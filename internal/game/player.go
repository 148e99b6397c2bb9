package game

import (
	"github.com/adam0314/cards-against-humanity/internal/deck"
)

// HandSize is the number of response cards a non-judge player holds at
// the start of a round.
const HandSize = 6

// Player represents a player in a session. Players are owned exclusively
// by the Registry; other components refer to them by ID.
type Player struct {
	ID         string
	Name       string
	Hand       []deck.Card
	ChosenCard *deck.Card
	Score      int
}

// NewPlayer creates a new player with an empty hand and zero score
func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// Holds returns true if the player's hand contains the card with the
// given id
func (p *Player) Holds(cardID int) bool {
	_, ok := p.Card(cardID)
	return ok
}

// Card returns the held card with the given id
func (p *Player) Card(cardID int) (deck.Card, bool) {
	for _, c := range p.Hand {
		if c.ID == cardID {
			return c, true
		}
	}
	return deck.Card{}, false
}

// RemoveCard removes the card with the given id from the player's hand.
// Returns false if the card is not held.
func (p *Player) RemoveCard(cardID int) bool {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}
