package game

// Registry tracks the active roster and the waiting roster for a session.
// Both rosters preserve insertion order; judge rotation and hand top-up
// iterate in join order, so this ordering is load-bearing.
//
// A player id appears in at most one roster at a time.
type Registry struct {
	active      []*Player
	waiting     []*Player
	activeByID  map[string]*Player
	waitingByID map[string]*Player
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		activeByID:  make(map[string]*Player),
		waitingByID: make(map[string]*Player),
	}
}

// AddActive creates a player and appends them to the active roster.
// Idempotent: if the id is already active the existing player is returned
// unchanged.
func (r *Registry) AddActive(id, name string) *Player {
	if p, ok := r.activeByID[id]; ok {
		return p
	}
	p := NewPlayer(id, name)
	r.active = append(r.active, p)
	r.activeByID[id] = p
	return p
}

// AddWaiting queues a player for the next round boundary. No-op if the id
// is already active or already waiting.
func (r *Registry) AddWaiting(id, name string) *Player {
	if p, ok := r.activeByID[id]; ok {
		return p
	}
	if p, ok := r.waitingByID[id]; ok {
		return p
	}
	p := NewPlayer(id, name)
	r.waiting = append(r.waiting, p)
	r.waitingByID[id] = p
	return p
}

// Leave removes the id from whichever roster holds it and returns the
// removed player, or nil if the id is unknown.
func (r *Registry) Leave(id string) *Player {
	if p, ok := r.activeByID[id]; ok {
		delete(r.activeByID, id)
		r.active = removePlayer(r.active, id)
		return p
	}
	if p, ok := r.waitingByID[id]; ok {
		delete(r.waitingByID, id)
		r.waiting = removePlayer(r.waiting, id)
		return p
	}
	return nil
}

// PromoteWaiting moves every waiting player onto the end of the active
// roster, preserving waiting order, and clears the waiting roster.
func (r *Registry) PromoteWaiting() {
	for _, p := range r.waiting {
		r.active = append(r.active, p)
		r.activeByID[p.ID] = p
	}
	r.waiting = nil
	r.waitingByID = make(map[string]*Player)
}

// IsActive returns true if the id is on the active roster
func (r *Registry) IsActive(id string) bool {
	_, ok := r.activeByID[id]
	return ok
}

// IsWaiting returns true if the id is on the waiting roster
func (r *Registry) IsWaiting(id string) bool {
	_, ok := r.waitingByID[id]
	return ok
}

// Get returns the active player with the given id
func (r *Registry) Get(id string) (*Player, bool) {
	p, ok := r.activeByID[id]
	return p, ok
}

// GetWaiting returns the waiting player with the given id
func (r *Registry) GetWaiting(id string) (*Player, bool) {
	p, ok := r.waitingByID[id]
	return p, ok
}

// Count returns the number of active players
func (r *Registry) Count() int {
	return len(r.active)
}

// Active returns the active roster in join order. Callers must not
// modify the returned slice.
func (r *Registry) Active() []*Player {
	return r.active
}

func removePlayer(players []*Player, id string) []*Player {
	for i, p := range players {
		if p.ID == id {
			return append(players[:i], players[i+1:]...)
		}
	}
	return players
}
