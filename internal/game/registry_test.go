package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rosterIDs(players []*Player) []string {
	ids := make([]string, len(players))
	for i, p := range players {
		ids[i] = p.ID
	}
	return ids
}

func TestRegistryJoinOrder(t *testing.T) {
	r := NewRegistry()
	r.AddActive("a", "Alice")
	r.AddActive("b", "Bob")
	r.AddActive("c", "Carol")

	assert.Equal(t, []string{"a", "b", "c"}, rosterIDs(r.Active()))
	assert.Equal(t, 3, r.Count())
}

func TestRegistryAddActiveIdempotent(t *testing.T) {
	r := NewRegistry()
	p1 := r.AddActive("a", "Alice")
	p1.Score = 3

	p2 := r.AddActive("a", "Alice again")
	assert.Same(t, p1, p2, "re-join must not replace the player record")
	assert.Equal(t, 3, p2.Score)
	assert.Equal(t, 1, r.Count())
}

func TestRegistryAddWaiting(t *testing.T) {
	r := NewRegistry()
	r.AddActive("a", "Alice")

	r.AddWaiting("a", "Alice")
	assert.False(t, r.IsWaiting("a"), "active player must not also be queued")

	r.AddWaiting("b", "Bob")
	r.AddWaiting("b", "Bob")
	assert.True(t, r.IsWaiting("b"))
	assert.False(t, r.IsActive("b"))
	assert.Equal(t, 1, r.Count(), "waiting players are not active")
}

func TestRegistryPromoteWaiting(t *testing.T) {
	r := NewRegistry()
	r.AddActive("a", "Alice")
	r.AddWaiting("b", "Bob")
	r.AddWaiting("c", "Carol")

	r.PromoteWaiting()

	assert.Equal(t, []string{"a", "b", "c"}, rosterIDs(r.Active()),
		"waiting order appended after active order")
	assert.False(t, r.IsWaiting("b"))
	assert.True(t, r.IsActive("c"))

	// promote again is a no-op
	r.PromoteWaiting()
	assert.Equal(t, 3, r.Count())
}

func TestRegistryLeave(t *testing.T) {
	r := NewRegistry()
	r.AddActive("a", "Alice")
	r.AddActive("b", "Bob")
	r.AddWaiting("c", "Carol")

	p := r.Leave("a")
	require.NotNil(t, p)
	assert.Equal(t, "Alice", p.Name)
	assert.Equal(t, []string{"b"}, rosterIDs(r.Active()))

	p = r.Leave("c")
	require.NotNil(t, p)
	assert.False(t, r.IsWaiting("c"))

	assert.Nil(t, r.Leave("nope"), "leaving an unknown id is not an error")
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	r.AddActive("a", "Alice")

	p, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Alice", p.Name)

	_, ok = r.Get("b")
	assert.False(t, ok)
}
