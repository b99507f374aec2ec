package lanenet

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records processed games and serves a canned league.
type fakeEngine struct {
	mu          sync.Mutex
	submissions []league.GameSubmission
	league      *domain.League
	err         error
}

func (f *fakeEngine) ProcessLeagueGame(_ context.Context, sub league.GameSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	return f.err
}

func (f *fakeEngine) GetLeague(_ context.Context, leagueID uuid.UUID) (*domain.League, error) {
	if f.league == nil || f.league.ID != leagueID {
		return nil, domain.ErrLeagueNotFound
	}
	return f.league, nil
}

func (f *fakeEngine) submitted() []league.GameSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]league.GameSubmission(nil), f.submissions...)
}

func testLeague(t *testing.T) *domain.League {
	t.Helper()
	lg := &domain.League{
		ID:   uuid.New(),
		Name: "Tuesday Night Classic",
	}
	err := lg.SetRules(&domain.LeagueRules{
		Handicap: domain.HandicapRules{Type: domain.HandicapPercentageBased, HighValue: 220, Percentage: 0.8},
		PreBowl:  domain.PreBowlRules{Enabled: true},
		Points:   domain.PointRules{Type: domain.PointsWinLossTie, WinPoints: 2, TiePoints: 1},
	})
	require.NoError(t, err)
	return lg
}

func newTestStack(t *testing.T) (*Registry, *Synchronizer, *fakeEngine, *capturePublisher) {
	t.Helper()
	pub := &capturePublisher{}
	registry := NewRegistry(30*time.Second, pub)
	engine := &fakeEngine{league: testLeague(t)}
	syncer := NewSynchronizer(registry, engine, pub)
	return registry, syncer, engine, pub
}

func registeredConn(t *testing.T, r *Registry, laneID int) *LaneConn {
	t.Helper()
	c := newTestConn(t)
	r.Accept(c)
	_, err := r.Register(c, laneID)
	require.NoError(t, err)
	return c
}

func TestSynchronizer_StartQuickGame(t *testing.T) {
	registry, syncer, _, pub := newTestStack(t)
	c := registeredConn(t, registry, 3)

	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Alice", "Bob"}, TotalGames: 2})

	gs := syncer.Game(3)
	require.NotNil(t, gs)
	assert.Equal(t, domain.GameTypeQuick, gs.Type)
	assert.Equal(t, 2, gs.TotalGames)
	require.Len(t, gs.Bowlers, 2)

	// Fresh game: every ball slot is the not-thrown sentinel.
	for _, b := range gs.Bowlers {
		for f := 0; f < domain.FramesPerGame; f++ {
			for ball := 0; ball < domain.BallsPerFrame; ball++ {
				assert.Equal(t, domain.BallNotThrown, b.Frames[f][ball])
			}
		}
	}

	active := gs.ActiveBowler()
	require.NotNil(t, active)
	assert.Equal(t, "Alice", active.Name)
	assert.Equal(t, domain.LaneStatusQuickGame, c.Status())
	assert.Equal(t, 1, pub.count("game_started"))
}

func TestSynchronizer_StartLeagueGame(t *testing.T) {
	registry, syncer, engine, _ := newTestStack(t)
	c := registeredConn(t, registry, 4)

	syncer.StartLeagueGame(c, &LeagueGameUpdatePayload{
		Bowlers:    []string{"Carol"},
		TeamName:   "Pin Pals",
		LeagueID:   engine.league.ID.String(),
		TotalGames: 3,
	})

	gs := syncer.Game(4)
	require.NotNil(t, gs)
	assert.Equal(t, domain.GameTypeLeague, gs.Type)
	require.NotNil(t, gs.LeagueID)
	assert.Equal(t, engine.league.ID, *gs.LeagueID)
	assert.Equal(t, "Pin Pals", gs.TeamName)
	assert.Equal(t, domain.LaneStatusLeagueGame, c.Status())
}

func TestSynchronizer_StartLeagueGameBadLeagueID(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 4)

	syncer.StartLeagueGame(c, &LeagueGameUpdatePayload{
		Bowlers:  []string{"Carol"},
		TeamName: "Pin Pals",
		LeagueID: "not-a-uuid",
	})

	assert.Nil(t, syncer.Game(4))
}

func TestSynchronizer_HandleBallThrown(t *testing.T) {
	registry, syncer, _, pub := newTestStack(t)
	c := registeredConn(t, registry, 5)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Dan"}})

	syncer.HandleBallThrown(c, &BallThrownPayload{
		BowlerName: "Dan",
		Frame:      1,
		Ball:       1,
		Pins:       10,
		IsStrike:   true,
	})

	gs := syncer.Game(5)
	require.NotNil(t, gs)
	assert.Equal(t, 10, gs.Bowlers[0].Frames[0][0])
	assert.Equal(t, 1, pub.count("ball_thrown"))
}

func TestSynchronizer_HandleFrameComplete(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 5)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Dan"}})

	syncer.HandleFrameComplete(c, &FrameCompletePayload{
		BowlerName:   "Dan",
		Frame:        1,
		FrameTotal:   9,
		RunningTotal: 9,
	})

	gs := syncer.Game(5)
	assert.Equal(t, 9, gs.Bowlers[0].FrameTotals[0])
	assert.Equal(t, 9, gs.Bowlers[0].RunningTotals[0])
	assert.Equal(t, 9, gs.Bowlers[0].Score)
}

func TestSynchronizer_QuickGameCompleteClearsState(t *testing.T) {
	registry, syncer, engine, pub := newTestStack(t)
	c := registeredConn(t, registry, 6)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Eve"}})

	syncer.HandleGameComplete(c, &GameCompletePayload{
		GameType: string(domain.GameTypeQuick),
		Scores:   []ScorePayload{{BowlerName: "Eve", Scratch: 144}},
	})

	assert.Nil(t, syncer.Game(6))
	assert.Equal(t, domain.LaneStatusReady, c.Status())
	assert.Empty(t, engine.submitted(), "quick games never reach the league engine")
	assert.Equal(t, 1, pub.count("game_completed"))
}

func TestSynchronizer_LeagueGameCompleteReachesEngine(t *testing.T) {
	registry, syncer, engine, _ := newTestStack(t)
	c := registeredConn(t, registry, 7)
	syncer.StartLeagueGame(c, &LeagueGameUpdatePayload{
		Bowlers:  []string{"Frank", "Grace"},
		TeamName: "Split Happens",
		LeagueID: engine.league.ID.String(),
	})

	absentID := uuid.New()

	// Wire fields omitted: league identity falls back to cached state.
	// Unparseable absent ids are dropped, valid ones pass through.
	syncer.HandleGameComplete(c, &GameCompletePayload{
		GameType: string(domain.GameTypeLeague),
		Scores: []ScorePayload{
			{BowlerName: "Frank", Scratch: 180, Strikes: 4, BallsThrown: 18},
			{BowlerName: "Grace", Scratch: 202, Strikes: 6, BallsThrown: 17},
		},
		AbsentBowlerIDs: []string{absentID.String(), "not-a-uuid"},
	})

	subs := engine.submitted()
	require.Len(t, subs, 1)
	assert.Equal(t, engine.league.ID, subs[0].LeagueID)
	assert.Equal(t, "Split Happens", subs[0].TeamName)
	assert.Equal(t, 7, subs[0].LaneID)
	require.Len(t, subs[0].Scores, 2)
	assert.Equal(t, 180, subs[0].Scores[0].Scratch)
	assert.Equal(t, []uuid.UUID{absentID}, subs[0].AbsentBowlerIDs)

	assert.Nil(t, syncer.Game(7))
	assert.Equal(t, domain.LaneStatusReady, c.Status())
}

func TestSynchronizer_LeagueGameCompleteMissingIdentityDropped(t *testing.T) {
	registry, syncer, engine, _ := newTestStack(t)
	c := registeredConn(t, registry, 7)

	// No cached game and no wire identity: nothing to attribute.
	syncer.HandleGameComplete(c, &GameCompletePayload{
		GameType: string(domain.GameTypeLeague),
		Scores:   []ScorePayload{{BowlerName: "Frank", Scratch: 180}},
	})

	assert.Empty(t, engine.submitted())
	assert.Equal(t, domain.LaneStatusReady, c.Status())
}

func TestSynchronizer_HoldToggleOptimisticThenAckReconciles(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 8)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Hank"}})

	require.NoError(t, syncer.HoldToggle(8, true))
	assert.True(t, syncer.Game(8).Held, "optimistic apply")
	assert.Equal(t, domain.LaneStatusHeld, c.Status())

	// Lane acks with the opposite state; the ack wins.
	syncer.HandleHoldAck(c, &HoldAckPayload{Held: false})
	assert.False(t, syncer.Game(8).Held)
	assert.Equal(t, domain.LaneStatusQuickGame, c.Status())
}

func TestSynchronizer_HoldToggleUnregisteredLane(t *testing.T) {
	_, syncer, _, _ := newTestStack(t)
	assert.ErrorIs(t, syncer.HoldToggle(99, true), domain.ErrLaneNotRegistered)
}

func TestSynchronizer_UpdateBallRange(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	registeredConn(t, registry, 9)

	assert.Error(t, syncer.UpdateBall(9, "Ida", 0, 1, 5))
	assert.Error(t, syncer.UpdateBall(9, "Ida", 11, 1, 5))
	assert.Error(t, syncer.UpdateBall(9, "Ida", 1, 4, 5))
}

func TestSynchronizer_BallUpdateAckNotApplied(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 10)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Joe"}})
	syncer.HandleBallThrown(c, &BallThrownPayload{BowlerName: "Joe", Frame: 1, Ball: 1, Pins: 7})

	syncer.HandleBallUpdateAck(c, &BallUpdateAckPayload{
		BowlerName: "Joe",
		Frame:      1,
		Ball:       1,
		NewValue:   9,
		Applied:    false,
	})

	assert.Equal(t, 7, syncer.Game(10).Bowlers[0].Frames[0][0], "rejected edits leave the cache alone")
}

func TestSynchronizer_ShutdownAckForcesReset(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 11)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Kim"}})

	syncer.HandleShutdownAck(c)

	assert.Nil(t, syncer.Game(11))
	assert.Equal(t, domain.LaneStatusIdle, c.Status())
}

func TestSynchronizer_RevertLastBall(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 12)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Lou"}})
	syncer.HandleBallThrown(c, &BallThrownPayload{BowlerName: "Lou", Frame: 1, Ball: 1, Pins: 8})
	syncer.HandleBallThrown(c, &BallThrownPayload{BowlerName: "Lou", Frame: 1, Ball: 2, Pins: 1})

	require.NoError(t, syncer.RevertLastBall(12))

	gs := syncer.Game(12)
	assert.Equal(t, 8, gs.Bowlers[0].Frames[0][0])
	assert.Equal(t, domain.BallNotThrown, gs.Bowlers[0].Frames[0][1])
}

func TestSynchronizer_GameIsSafeUnderConcurrentWriters(t *testing.T) {
	registry, syncer, _, _ := newTestStack(t)
	c := registeredConn(t, registry, 13)
	syncer.StartQuickGame(c, &QuickGameUpdatePayload{Bowlers: []string{"Mia"}})

	// Inbound frames arrive on the lane's reader goroutine while
	// operator edits and reads come in over HTTP.
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			syncer.HandleBallThrown(c, &BallThrownPayload{BowlerName: "Mia", Frame: 1, Ball: 1, Pins: i % 10})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = syncer.UpdateBall(13, "Mia", 1, 1, i%10)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if gs := syncer.Game(13); gs != nil {
				_ = gs.Bowlers[0].Frames[0][0]
			}
		}
	}()
	wg.Wait()

	gs := syncer.Game(13)
	require.NotNil(t, gs)
	v := gs.Bowlers[0].Frames[0][0]
	assert.GreaterOrEqual(t, v, 0)
	assert.LessOrEqual(t, v, 9)
}
