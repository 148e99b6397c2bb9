package deck

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
)

// ErrDeckExhausted is returned when a draw asks for more cards than the
// pool has left. Pools are strictly consumable: drawn cards never return
// for the lifetime of a session.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck holds the two finite card pools for one session and supports
// exclusive, no-replacement draws from them.
type Deck struct {
	prompts   []Card
	responses []Card
	rng       *rand.Rand
}

// New creates a deck from the given card pools. The slices are copied so
// callers keep no aliased handle into the live pools.
func New(prompts, responses []Card, rng *rand.Rand) *Deck {
	d := &Deck{
		prompts:   make([]Card, len(prompts)),
		responses: make([]Card, len(responses)),
		rng:       rng,
	}
	copy(d.prompts, prompts)
	copy(d.responses, responses)
	return d
}

// Draw removes and returns n uniformly chosen cards of the requested kind.
// It fails with ErrDeckExhausted if the pool cannot satisfy the draw; on
// failure the pool is left untouched.
func (d *Deck) Draw(n int, kind Kind) ([]Card, error) {
	pool := d.pool(kind)
	if n > len(*pool) {
		return nil, fmt.Errorf("drawing %d %s cards with %d remaining: %w", n, kind, len(*pool), ErrDeckExhausted)
	}

	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		j := d.rng.IntN(len(*pool))
		cards = append(cards, (*pool)[j])

		// swap-remove so the card cannot be drawn again
		last := len(*pool) - 1
		(*pool)[j] = (*pool)[last]
		*pool = (*pool)[:last]
	}

	return cards, nil
}

// Remaining returns the number of cards left in the pool of the given kind
func (d *Deck) Remaining(kind Kind) int {
	return len(*d.pool(kind))
}

func (d *Deck) pool(kind Kind) *[]Card {
	if kind == Prompt {
		return &d.prompts
	}
	return &d.responses
}
