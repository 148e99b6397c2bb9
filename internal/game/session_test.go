package game

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adam0314/cards-against-humanity/internal/deck"
	"github.com/adam0314/cards-against-humanity/internal/randutil"
)

// recordingNotifier captures every notification so tests can assert on
// the fan-out without a transport.
type recordingNotifier struct {
	newPlayers  []newPlayerCall
	waitFor     []string
	canStart    []string
	prompts     map[string][]int // gameStart prompt ids per target
	hands       map[string][]deck.Card
	chosen      map[string][]int
	waitingOn   map[string][]string
	timeToJudge []timeToJudgeCall
	judgify     []string
	leaves      []string
}

type newPlayerCall struct {
	target string
	name   string
	judge  bool
	score  int
}

type timeToJudgeCall struct {
	judgeID string
	subs    []Submission
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		prompts:   make(map[string][]int),
		hands:     make(map[string][]deck.Card),
		chosen:    make(map[string][]int),
		waitingOn: make(map[string][]string),
	}
}

func (r *recordingNotifier) NewPlayer(target, name string, judge bool, score int) {
	r.newPlayers = append(r.newPlayers, newPlayerCall{target, name, judge, score})
}
func (r *recordingNotifier) WaitForGameStart(playerID string) {
	r.waitFor = append(r.waitFor, playerID)
}
func (r *recordingNotifier) CanStart(playerID string) {
	r.canStart = append(r.canStart, playerID)
}
func (r *recordingNotifier) GameStart(target string, prompt deck.Card) {
	r.prompts[target] = append(r.prompts[target], prompt.ID)
}
func (r *recordingNotifier) NewCards(playerID string, hand []deck.Card) {
	r.hands[playerID] = hand
}
func (r *recordingNotifier) CardChosen(playerID string, cardID int) {
	r.chosen[playerID] = append(r.chosen[playerID], cardID)
}
func (r *recordingNotifier) WaitingOn(playerID, message string) {
	r.waitingOn[playerID] = append(r.waitingOn[playerID], message)
}
func (r *recordingNotifier) TimeToJudge(judgeID string, subs []Submission) {
	r.timeToJudge = append(r.timeToJudge, timeToJudgeCall{judgeID, subs})
}
func (r *recordingNotifier) Judgify(judgeID string) {
	r.judgify = append(r.judgify, judgeID)
}
func (r *recordingNotifier) PlayerLeave(name string) {
	r.leaves = append(r.leaves, name)
}

func promptPool(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = deck.Card{ID: 1000 + i, Text: fmt.Sprintf("prompt %d", i), Kind: deck.Prompt}
	}
	return cards
}

func responsePool(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = deck.Card{ID: i + 1, Text: fmt.Sprintf("response %d", i), Kind: deck.Response}
	}
	return cards
}

func newTestSession(t *testing.T, nPrompts, nResponses int) (*Session, *recordingNotifier) {
	t.Helper()
	rec := newRecordingNotifier()
	s, err := NewSession("test", promptPool(nPrompts), responsePool(nResponses),
		randutil.New(42), rec, log.New(io.Discard))
	require.NoError(t, err)
	return s, rec
}

// startThree seats a, b, c and starts the game. Judge is a.
func startThree(t *testing.T) (*Session, *recordingNotifier) {
	t.Helper()
	s, rec := newTestSession(t, 20, 200)
	s.Join("a", "Alice")
	s.Join("b", "Bob")
	s.Join("c", "Carol")
	require.NoError(t, s.Start())
	return s, rec
}

func TestNewSessionRequiresCardPools(t *testing.T) {
	logger := log.New(io.Discard)
	_, err := NewSession("x", nil, responsePool(5), randutil.New(1), NopNotifier{}, logger)
	assert.Error(t, err)
	_, err = NewSession("x", promptPool(5), nil, randutil.New(1), NopNotifier{}, logger)
	assert.Error(t, err)
}

func TestFirstJoinerBecomesFirstJudge(t *testing.T) {
	s, _ := startThree(t)
	assert.Equal(t, "a", s.Judge())
	assert.Equal(t, RoundInProgress, s.Phase())
}

func TestStartDealsHands(t *testing.T) {
	s, rec := startThree(t)

	assert.Len(t, rec.hands["b"], HandSize)
	assert.Len(t, rec.hands["c"], HandSize)
	assert.NotContains(t, rec.hands, "a", "judge is not dealt response cards")

	assert.Equal(t, []string{"a"}, rec.judgify)

	// everyone receives the round's prompt card
	for _, id := range []string{"a", "b", "c"} {
		require.Len(t, rec.prompts[id], 1, "player %s prompt", id)
	}
	assert.Equal(t, rec.prompts["a"], rec.prompts["b"])
	assert.Equal(t, rec.prompts["a"], rec.prompts["c"])
	assert.Equal(t, "a", s.Judge())
}

func TestStartOnlyOnce(t *testing.T) {
	s, _ := startThree(t)
	assert.ErrorIs(t, s.Start(), ErrAlreadyStarted)
}

func TestLobbyJoinNotifications(t *testing.T) {
	s, rec := newTestSession(t, 5, 50)

	s.Join("a", "Alice")
	assert.Empty(t, rec.canStart, "one player is not enough to start")
	assert.Contains(t, rec.waitFor, "a")

	s.Join("b", "Bob")
	assert.Equal(t, []string{"a"}, rec.canStart, "first joiner is told they can start")

	// the second joiner had the roster replayed to them
	var replayed []string
	for _, c := range rec.newPlayers {
		if c.target == "b" {
			replayed = append(replayed, c.name)
		}
	}
	assert.Equal(t, []string{"Alice", "Bob"}, replayed)
	assert.Equal(t, Lobby, s.Phase())
}

func TestDoubleSubmitKeepsFirstCard(t *testing.T) {
	s, rec := startThree(t)

	x, y := rec.hands["b"][0], rec.hands["b"][1]
	require.NoError(t, s.Submit("b", x))

	err := s.Submit("b", y)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.Equal(t, []int{x.ID}, rec.chosen["b"], "first submission stands")
}

func TestJudgeSubmitRejected(t *testing.T) {
	s, rec := startThree(t)

	err := s.Submit("a", rec.hands["b"][0])
	assert.ErrorIs(t, err, ErrJudgeCannotSubmit)

	assert.False(t, s.JudgeReady())
	assert.Empty(t, rec.chosen["a"])
}

func TestSubmitBeforeStart(t *testing.T) {
	s, _ := newTestSession(t, 5, 50)
	s.Join("a", "Alice")
	err := s.Submit("a", deck.Card{ID: 1, Kind: deck.Response})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestJudgeReadyNotifiesJudgeOnce(t *testing.T) {
	s, rec := startThree(t)

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	assert.False(t, s.JudgeReady())
	assert.Empty(t, rec.timeToJudge)

	require.NoError(t, s.Submit("c", rec.hands["c"][0]))
	assert.True(t, s.JudgeReady())

	require.Len(t, rec.timeToJudge, 1)
	call := rec.timeToJudge[0]
	assert.Equal(t, "a", call.judgeID)
	assert.Len(t, call.subs, 2)
}

func TestWaitingOnMessages(t *testing.T) {
	s, rec := startThree(t)

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	last := rec.waitingOn["a"][len(rec.waitingOn["a"])-1]
	assert.Equal(t, "Waiting for: Carol", last)

	require.NoError(t, s.Submit("c", rec.hands["c"][0]))
	last = rec.waitingOn["a"][len(rec.waitingOn["a"])-1]
	assert.Equal(t, "Waiting for: Alice to choose the winner.", last)
}

func TestPickWinnerAwardsPointAndRotatesJudge(t *testing.T) {
	s, rec := startThree(t)
	firstPrompt := rec.prompts["a"][0]

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	winning := rec.hands["c"][0]
	require.NoError(t, s.Submit("c", winning))

	require.NoError(t, s.PickWinner("a", winning))

	score, ok := s.Score("c")
	require.True(t, ok)
	assert.Equal(t, 1, score)
	for _, id := range []string{"a", "b"} {
		score, _ := s.Score(id)
		assert.Zero(t, score)
	}

	assert.Equal(t, "b", s.Judge(), "judge duty rotates in join order")

	// the previous prompt card was discarded, not returned to the pool
	secondPrompt := rec.prompts["a"][1]
	assert.NotEqual(t, firstPrompt, secondPrompt)
}

func TestJudgeRotationFullCycle(t *testing.T) {
	s, rec := startThree(t)

	want := []string{"a", "b", "c", "a", "b"}
	for i, judge := range want {
		assert.Equal(t, judge, s.Judge(), "round %d", i+1)
		for _, id := range []string{"a", "b", "c"} {
			if id == judge {
				continue
			}
			require.NoError(t, s.Submit(id, rec.hands[id][0]))
		}
		require.NoError(t, s.PickWinner(judge, deck.Card{ID: -1}))
	}
}

func TestNoMatchWinnerStillAdvancesRound(t *testing.T) {
	s, rec := startThree(t)

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	require.NoError(t, s.Submit("c", rec.hands["c"][0]))

	require.NoError(t, s.PickWinner("a", deck.Card{ID: 9999}))

	for _, id := range []string{"a", "b", "c"} {
		score, _ := s.Score(id)
		assert.Zero(t, score, "no-match pick must not change scores")
	}
	assert.Equal(t, "b", s.Judge(), "round advances regardless")
}

func TestNonJudgePickStillResolvesRound(t *testing.T) {
	s, rec := startThree(t)

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	winning := rec.hands["c"][0]
	require.NoError(t, s.Submit("c", winning))

	// permissive upstream behavior: logged, but the round resolves
	require.NoError(t, s.PickWinner("b", winning))

	score, _ := s.Score("c")
	assert.Equal(t, 1, score)
	assert.Equal(t, "b", s.Judge())
}

func TestMidRoundJoinWaitsForRoundBoundary(t *testing.T) {
	s, rec := startThree(t)

	s.Join("d", "Dave")
	assert.True(t, s.IsWaiting("d"))
	assert.False(t, s.IsActive("d"))
	assert.NotContains(t, rec.hands, "d", "no cards before the round boundary")

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	require.NoError(t, s.Submit("c", rec.hands["c"][0]))
	require.NoError(t, s.PickWinner("a", deck.Card{ID: -1}))

	assert.True(t, s.IsActive("d"))
	assert.Len(t, rec.hands["d"], HandSize, "freshly dealt hand after setup")
}

func TestLeaveMidRoundUpdatesJudgeReady(t *testing.T) {
	s, rec := newTestSession(t, 20, 200)
	for _, p := range []struct{ id, name string }{
		{"a", "Alice"}, {"b", "Bob"}, {"c", "Carol"}, {"d", "Dave"},
	} {
		s.Join(p.id, p.name)
	}
	require.NoError(t, s.Start())

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	require.NoError(t, s.Submit("c", rec.hands["c"][0]))
	assert.False(t, s.JudgeReady(), "still waiting on d")

	s.Leave("d")

	assert.True(t, s.JudgeReady(), "reduced roster makes the round ready")
	require.NotEmpty(t, rec.timeToJudge)
	assert.Len(t, rec.timeToJudge[0].subs, 2)
	assert.Equal(t, []string{"Dave"}, rec.leaves)
}

func TestLeaveDropsSubmission(t *testing.T) {
	s, rec := startThree(t)

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	s.Leave("b")

	assert.False(t, s.JudgeReady(), "departed submission no longer counts toward 2-player round")

	require.NoError(t, s.Submit("c", rec.hands["c"][0]))
	assert.True(t, s.JudgeReady())
	require.NotEmpty(t, rec.timeToJudge)
	assert.Len(t, rec.timeToJudge[len(rec.timeToJudge)-1].subs, 1)
}

func TestSingleRemainingPlayerJudgesThemselves(t *testing.T) {
	s, rec := startThree(t)

	s.Leave("b")
	s.Leave("c")
	require.NoError(t, s.PickWinner("a", deck.Card{ID: -1}))

	// degenerate but preserved: the sole player becomes their own judge
	assert.Equal(t, "a", s.Judge())
	assert.Equal(t, []string{"Bob", "Carol"}, rec.leaves)
}

func TestAllPlayersGoneUnsetsJudge(t *testing.T) {
	s, _ := startThree(t)

	s.Leave("a")
	s.Leave("b")
	s.Leave("c")
	require.NoError(t, s.PickWinner("a", deck.Card{ID: -1}))

	assert.Equal(t, "", s.Judge())
}

func TestResponseExhaustionFailsSetup(t *testing.T) {
	// 11 response cards: the first non-judge player tops up to 6, the
	// second cannot. Setup must fail loudly, not deal a short hand.
	s, _ := newTestSession(t, 5, 11)
	s.Join("a", "Alice")
	s.Join("b", "Bob")
	s.Join("c", "Carol")

	err := s.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrDeckExhausted))
}

func TestPromptExhaustionFailsNextRound(t *testing.T) {
	s, rec := newTestSession(t, 1, 200)
	s.Join("a", "Alice")
	s.Join("b", "Bob")
	s.Join("c", "Carol")
	require.NoError(t, s.Start())

	require.NoError(t, s.Submit("b", rec.hands["b"][0]))
	require.NoError(t, s.Submit("c", rec.hands["c"][0]))

	err := s.PickWinner("a", deck.Card{ID: -1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, deck.ErrDeckExhausted))
}

func TestCardPartitionAcrossRounds(t *testing.T) {
	s, rec := startThree(t)

	spent := make(map[int]bool)
	for round := 0; round < 5; round++ {
		judge := s.Judge()

		// hands of distinct players never share a card
		seen := make(map[int]string)
		for id, hand := range rec.hands {
			if id == judge {
				continue
			}
			for _, c := range hand {
				if owner, dup := seen[c.ID]; dup {
					t.Fatalf("card %d held by both %s and %s", c.ID, owner, id)
				}
				seen[c.ID] = id
				assert.False(t, spent[c.ID], "spent card %d reappeared in a hand", c.ID)
			}
		}

		for _, id := range []string{"a", "b", "c"} {
			if id == judge {
				continue
			}
			card := rec.hands[id][0]
			require.NoError(t, s.Submit(id, card))
			spent[card.ID] = true
		}
		require.NoError(t, s.PickWinner(judge, deck.Card{ID: -1}))
	}
}

func TestRefreshClientMidRound(t *testing.T) {
	s, rec := startThree(t)
	require.NoError(t, s.Submit("b", rec.hands["b"][0]))

	before := len(rec.prompts["b"])
	s.RefreshClient("b")

	assert.Len(t, rec.prompts["b"], before+1, "prompt card replayed")
	assert.Len(t, rec.hands["b"], HandSize)
	assert.Equal(t, rec.chosen["b"][0], rec.chosen["b"][len(rec.chosen["b"])-1],
		"chosen card replayed")

	// refreshing the judge replays the judging notice, not a hand
	judgifyBefore := len(rec.judgify)
	s.RefreshClient("a")
	assert.Len(t, rec.judgify, judgifyBefore+1)
}

func TestRefreshClientInLobby(t *testing.T) {
	s, rec := newTestSession(t, 5, 50)
	s.Join("a", "Alice")
	s.Join("b", "Bob")

	canStartBefore := len(rec.canStart)
	s.RefreshClient("a")
	assert.Len(t, rec.canStart, canStartBefore+1, "prospective judge reminded they can start")

	waitBefore := len(rec.waitFor)
	s.RefreshClient("b")
	assert.Len(t, rec.waitFor, waitBefore+1)
}

func TestScoreAccumulatesAcrossRounds(t *testing.T) {
	s, rec := startThree(t)

	for round := 0; round < 3; round++ {
		judge := s.Judge()
		var winning deck.Card
		for _, id := range []string{"a", "b", "c"} {
			if id == judge {
				continue
			}
			card := rec.hands[id][0]
			require.NoError(t, s.Submit(id, card))
			if id == "c" {
				winning = card
			}
		}
		if judge == "c" {
			// c is judging: nobody scores this round
			winning = deck.Card{ID: -1}
		}
		require.NoError(t, s.PickWinner(judge, winning))
	}

	score, _ := s.Score("c")
	assert.Equal(t, 2, score, "c wins every round they are not judging")
}
