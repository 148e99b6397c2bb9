package deck

import "fmt"

// Kind distinguishes the two card pools in play. Prompt cards are the
// round's context, held only by the judge; Response cards are what the
// other players submit.
type Kind int

const (
	Prompt Kind = iota
	Response
)

// String returns the string representation of a kind
func (k Kind) String() string {
	switch k {
	case Prompt:
		return "prompt"
	case Response:
		return "response"
	default:
		return "unknown"
	}
}

// Card represents a single card. Cards have value identity by ID: a card
// lives in exactly one of a deck, a player's hand, or the current
// submission set at any time, never duplicated.
type Card struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Kind Kind   `json:"kind"`
}

// String returns a short representation of a card (e.g. "response#42")
func (c Card) String() string {
	return fmt.Sprintf("%s#%d", c.Kind, c.ID)
}
