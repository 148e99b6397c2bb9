package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/adam0314/cards-against-humanity/internal/deck"
)

// Phase is the session's lifecycle phase. Judging is not a stored phase:
// it is the RoundInProgress sub-state surfaced by JudgeReady.
type Phase int

const (
	// Lobby is the pre-start phase: players gather, no judge exists
	Lobby Phase = iota
	// RoundInProgress covers every round: the judge holds a prompt card
	// and the other players may submit
	RoundInProgress
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case Lobby:
		return "lobby"
	case RoundInProgress:
		return "round_in_progress"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyStarted is returned when Start is called twice
	ErrAlreadyStarted = errors.New("game already started")

	// ErrNotStarted is returned for round actions while still in the lobby
	ErrNotStarted = errors.New("game has not started")

	// ErrUnknownPlayer is returned for actions from an id not on the
	// active roster
	ErrUnknownPlayer = errors.New("unknown player")
)

// Session is the state machine for one isolated game: it owns the round
// lifecycle, judge rotation, deck consumption and submission bookkeeping,
// and describes every state change through the injected Notifier.
//
// A session is a single-writer resource: a mutex serializes every public
// operation, so each client action is processed to completion before the
// next is accepted.
type Session struct {
	mu sync.Mutex

	id          string
	phase       Phase
	players     *Registry
	decks       *deck.Deck
	submissions *Submissions
	scores      *Scoreboard
	judgeID     string
	promptCard  *deck.Card

	notifier Notifier
	logger   *log.Logger
}

// NewSession creates a session with its two card pools. Both pools must
// be non-empty.
func NewSession(id string, prompts, responses []deck.Card, rng *rand.Rand, notifier Notifier, logger *log.Logger) (*Session, error) {
	if len(prompts) == 0 {
		return nil, errors.New("session needs a non-empty prompt card pool")
	}
	if len(responses) == 0 {
		return nil, errors.New("session needs a non-empty response card pool")
	}

	players := NewRegistry()
	return &Session{
		id:          id,
		phase:       Lobby,
		players:     players,
		decks:       deck.New(prompts, responses, rng),
		submissions: NewSubmissions(),
		scores:      NewScoreboard(players, logger),
		notifier:    notifier,
		logger:      logger.WithPrefix("session").With("session", id),
	}, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Phase returns the current lifecycle phase
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Judge returns the current judge's player id, or "" if no judge is set
func (s *Session) Judge() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.judgeID
}

// JudgeReady reports whether every eligible player has submitted and the
// judge may pick a winner
func (s *Session) JudgeReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submissions.JudgeReady(s.players.Count())
}

// IsActive returns true if the id is on the active roster
func (s *Session) IsActive(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.IsActive(playerID)
}

// IsWaiting returns true if the id is queued for the next round
func (s *Session) IsWaiting(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.IsWaiting(playerID)
}

// Score returns a player's cumulative score
func (s *Session) Score(playerID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players.Get(playerID); ok {
		return p.Score, true
	}
	return 0, false
}

// Join adds a player to the session. In the lobby the player is seated
// immediately; mid-game they are queued on the waiting roster until the
// next round boundary. Idempotent for ids already seated or queued.
func (s *Session) Join(playerID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Debug("join", "player", playerID, "name", name)

	if s.phase != Lobby {
		if !s.players.IsActive(playerID) && !s.players.IsWaiting(playerID) {
			s.players.AddWaiting(playerID, name)
			s.notifier.WaitForGameStart(playerID)
		}
		return
	}

	p := s.players.AddActive(playerID, name)

	// replay the current roster to the joiner, then announce the join
	for _, other := range s.players.Active() {
		s.notifier.NewPlayer(playerID, other.Name, s.isJudge(other.ID), other.Score)
	}
	s.notifier.NewPlayer(Broadcast, p.Name, s.isJudge(playerID), p.Score)
	s.notifier.WaitForGameStart(playerID)

	// once a second player is seated the prospective judge may start
	if s.players.Count() > 1 {
		s.notifier.CanStart(s.prospectiveJudge())
	}
}

// Leave removes a player from whichever roster holds them. Their
// submission entry, if any, is dropped, and judge readiness is
// recomputed against the reduced roster. No error if the id is unknown.
func (s *Session) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.players.Leave(playerID)
	if p == nil {
		return
	}

	s.logger.Debug("leave", "player", playerID, "name", p.Name)
	s.notifier.PlayerLeave(p.Name)
	s.submissions.Remove(playerID)

	if s.phase == RoundInProgress {
		s.broadcastWaitingOn()
		s.notifyJudgeReady()
	}
}

// Start moves the session out of the lobby and sets up the first round.
// Valid only once; whether the caller is entitled to start the game is
// the transport layer's concern.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != Lobby {
		return ErrAlreadyStarted
	}

	s.logger.Info("game started", "players", s.players.Count())
	s.phase = RoundInProgress
	return s.setupRound()
}

// Submit records a response card submission for a player. Double
// submissions, submissions by the judge, and cards the player does not
// hold are rejected without mutation.
func (s *Session) Submit(playerID string, card deck.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != RoundInProgress {
		return ErrNotStarted
	}
	p, ok := s.players.Get(playerID)
	if !ok {
		return ErrUnknownPlayer
	}

	if err := s.submissions.Add(p, card, s.judgeID); err != nil {
		s.logger.Warn("rejected card submission", "player", playerID, "card", card.ID, "reason", err)
		return err
	}

	s.logger.Debug("card submitted", "player", playerID, "card", card.ID)
	s.notifier.CardChosen(playerID, card.ID)
	s.broadcastWaitingOn()
	s.notifyJudgeReady()
	return nil
}

// PickWinner resolves the round: the player whose submission matches the
// card gets a point, and the next round is set up. A pick from a player
// other than the current judge is logged as suspicious but still
// resolves the round, matching the permissive upstream behavior. A card
// matching no submission awards nothing; the round advances regardless.
//
// A deck.ErrDeckExhausted from the next round's setup is surfaced to the
// caller; the recovery policy (end the session, usually) is theirs.
func (s *Session) PickWinner(judgeID string, card deck.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != RoundInProgress {
		return ErrNotStarted
	}

	if judgeID != s.judgeID {
		s.logger.Warn("pick winner from non-judge player", "player", judgeID, "judge", s.judgeID)
	}

	if winnerID, ok := s.scores.AwardPoint(card.ID, s.submissions.Entries()); ok {
		s.logger.Info("round won", "winner", winnerID, "card", card.ID)
	}

	return s.setupRound()
}

// RefreshClient replays the session's current state to one player, for
// reconnects and page refreshes.
func (s *Session) RefreshClient(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players.IsWaiting(playerID) {
		s.notifier.WaitForGameStart(playerID)
		return
	}
	p, ok := s.players.Get(playerID)
	if !ok {
		return
	}

	for _, other := range s.players.Active() {
		s.notifier.NewPlayer(playerID, other.Name, s.isJudge(other.ID), other.Score)
	}

	if s.phase != RoundInProgress {
		s.notifier.WaitForGameStart(playerID)
		if s.players.Count() > 1 && s.prospectiveJudge() == playerID {
			s.notifier.CanStart(playerID)
		}
		return
	}

	s.notifier.WaitingOn(playerID, s.waitingOnMessage())
	if s.promptCard != nil {
		s.notifier.GameStart(playerID, *s.promptCard)
	}
	if s.isJudge(playerID) {
		s.notifier.Judgify(playerID)
	} else {
		s.notifier.NewCards(playerID, slices.Clone(p.Hand))
	}
	if p.ChosenCard != nil {
		s.notifier.CardChosen(playerID, p.ChosenCard.ID)
	}
	s.notifyJudgeReady()
}

// setupRound drives the round boundary: spend the previous round's
// submissions, seat waiting players, rotate the judge, deal, and
// describe the new round to everyone.
func (s *Session) setupRound() error {
	s.submissions.Clear(s.players)
	s.players.PromoteWaiting()
	s.rotateJudge()

	if s.judgeID == "" {
		// nobody left to play; the next join starts from a clean slate
		s.promptCard = nil
		return nil
	}

	prompt, err := s.decks.Draw(1, deck.Prompt)
	if err != nil {
		return fmt.Errorf("dealing prompt card: %w", err)
	}
	s.promptCard = &prompt[0]

	for _, p := range s.players.Active() {
		if p.ID == s.judgeID {
			continue
		}
		missing := HandSize - len(p.Hand)
		if missing <= 0 {
			continue
		}
		drawn, err := s.decks.Draw(missing, deck.Response)
		if err != nil {
			return fmt.Errorf("topping up hand for %s: %w", p.Name, err)
		}
		p.Hand = append(p.Hand, drawn...)
	}

	s.logger.Info("new round", "judge", s.judgeID, "prompt", s.promptCard.ID,
		"players", s.players.Count())

	for _, p := range s.players.Active() {
		for _, other := range s.players.Active() {
			s.notifier.NewPlayer(p.ID, other.Name, s.isJudge(other.ID), other.Score)
		}
		if s.isJudge(p.ID) {
			s.notifier.Judgify(p.ID)
		} else {
			s.notifier.NewCards(p.ID, slices.Clone(p.Hand))
		}
		s.notifier.GameStart(p.ID, *s.promptCard)
	}

	return nil
}

// rotateJudge advances judge duty in join order. The first round's judge
// is the first player to have joined; afterwards duty passes to the
// active player following the current judge, wrapping to the front when
// the judge was last in order or has left.
func (s *Session) rotateJudge() {
	active := s.players.Active()
	if len(active) == 0 {
		s.judgeID = ""
		return
	}
	if s.judgeID == "" || len(active) == 1 {
		// no judge yet, or a degenerate one-player round: the sole
		// player judges themselves
		s.judgeID = active[0].ID
		return
	}

	for i, p := range active {
		if p.ID == s.judgeID {
			s.judgeID = active[(i+1)%len(active)].ID
			return
		}
	}

	// previous judge left; wrap to the front
	s.judgeID = active[0].ID
}

func (s *Session) isJudge(playerID string) bool {
	return s.judgeID != "" && playerID == s.judgeID
}

// prospectiveJudge is who CanStart goes to in the lobby: the player who
// will judge the first round.
func (s *Session) prospectiveJudge() string {
	if s.judgeID != "" {
		return s.judgeID
	}
	if active := s.players.Active(); len(active) > 0 {
		return active[0].ID
	}
	return ""
}

// waitingOnMessage renders who has yet to act this round
func (s *Session) waitingOnMessage() string {
	var names []string
	for _, p := range s.players.Active() {
		if !s.isJudge(p.ID) && !s.submissions.Has(p.ID) {
			names = append(names, p.Name)
		}
	}
	if len(names) > 0 {
		return "Waiting for: " + strings.Join(names, ", ")
	}

	judgeName := "the judge"
	if judge, ok := s.players.Get(s.judgeID); ok {
		judgeName = judge.Name
	}
	return "Waiting for: " + judgeName + " to choose the winner."
}

func (s *Session) broadcastWaitingOn() {
	msg := s.waitingOnMessage()
	for _, p := range s.players.Active() {
		s.notifier.WaitingOn(p.ID, msg)
	}
}

// notifyJudgeReady tells the judge to pick a winner once every eligible
// player has submitted
func (s *Session) notifyJudgeReady() {
	if s.judgeID == "" {
		return
	}
	if s.submissions.JudgeReady(s.players.Count()) {
		s.notifier.TimeToJudge(s.judgeID, s.submissions.Entries())
	}
}
