package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

type catalogEntry struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// LoadFile reads a card catalog from a JSON file and returns the cards
// tagged with the given kind. Catalogs are flat arrays of {id, text}
// objects. Duplicate ids are rejected since card identity is by id.
func LoadFile(path string, kind Kind) ([]Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading card catalog: %w", err)
	}
	return parseCatalog(data, kind)
}

func parseCatalog(data []byte, kind Kind) ([]Card, error) {
	var entries []catalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing card catalog: %w", err)
	}

	seen := make(map[int]bool, len(entries))
	cards := make([]Card, 0, len(entries))
	for _, e := range entries {
		if e.Text == "" {
			return nil, fmt.Errorf("card %d has no text", e.ID)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate card id %d in catalog", e.ID)
		}
		seen[e.ID] = true
		cards = append(cards, Card{ID: e.ID, Text: e.Text, Kind: kind})
	}

	return cards, nil
}
