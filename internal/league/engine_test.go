package league_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/kyle/bowling-center-server/internal/repository"
	"github.com/kyle/bowling-center-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeague_Validation(t *testing.T) {
	// Validation fires before any repository call.
	engine := league.NewEngine(&repository.Repositories{}, nil)
	ctx := context.Background()

	valid := league.CreateLeagueInput{
		Name:          "Monday Mixers",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 3, 0),
		NumberOfWeeks: 12,
		LaneIDs:       []int{1, 2},
	}

	tests := []struct {
		name   string
		mutate func(*league.CreateLeagueInput)
	}{
		{"empty name", func(in *league.CreateLeagueInput) { in.Name = "" }},
		{"zero weeks", func(in *league.CreateLeagueInput) { in.NumberOfWeeks = 0 }},
		{"too many weeks", func(in *league.CreateLeagueInput) { in.NumberOfWeeks = 53 }},
		{"no lanes", func(in *league.CreateLeagueInput) { in.LaneIDs = nil }},
		{"end before start", func(in *league.CreateLeagueInput) { in.EndDate = in.StartDate.AddDate(0, 0, -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid
			tt.mutate(&input)
			_, err := engine.CreateLeague(ctx, input)
			assert.ErrorIs(t, err, domain.ErrInvalidLeagueConfig)
		})
	}
}

func TestEngine_FullLeagueFlow(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	b1 := testutil.NewBowlerBuilder().WithName("Ann").Create(t, testDB.DB)
	b2 := testutil.NewBowlerBuilder().WithName("Ben").Create(t, testDB.DB)
	b3 := testutil.NewBowlerBuilder().WithName("Cat").Create(t, testDB.DB)
	b4 := testutil.NewBowlerBuilder().WithName("Dov").Create(t, testDB.DB)

	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Thursday Night Open",
		StartDate:     time.Date(2026, 9, 3, 19, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 3, 22, 0, 0, 0, time.UTC),
		NumberOfWeeks: 8,
		LaneIDs:       []int{11},
		Rules:         testutil.DefaultRules(),
	})
	require.NoError(t, err)

	team1, err := engine.AddTeam(ctx, lg.ID, "Pin Pals", []uuid.UUID{b1.ID, b2.ID})
	require.NoError(t, err)
	team2, err := engine.AddTeam(ctx, lg.ID, "Split Happens", []uuid.UUID{b3.ID, b4.ID})
	require.NoError(t, err)

	result, err := engine.GenerateSchedule(ctx, lg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ScheduledMatches)
	require.Len(t, result.EventIDs, 1)
	assert.Empty(t, result.Skipped)
	assert.Zero(t, result.UnscheduledPairs)

	// The league slot reserves its lane.
	available, err := repos.Booking.IsLaneAvailable(ctx,
		11, lg.StartDate, lg.StartDate.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.False(t, available)

	// First team in: matchup stays open, no standings movement yet.
	err = engine.ProcessLeagueGame(ctx, league.GameSubmission{
		LeagueID: lg.ID,
		LaneID:   11,
		TeamName: "Pin Pals",
		Scores: []domain.GameScore{
			{BowlerName: "Ann", Scratch: 185, Strikes: 5, BallsThrown: 18},
			{BowlerName: "Ben", Scratch: 201, Strikes: 6, BallsThrown: 17},
		},
	})
	require.NoError(t, err)

	standings, err := engine.GetStandings(ctx, lg.ID, 0)
	require.NoError(t, err)
	for _, row := range standings {
		assert.Zero(t, row.Wins+row.Losses+row.Ties, "open matchups must not count")
	}

	// Second team closes the matchup.
	err = engine.ProcessLeagueGame(ctx, league.GameSubmission{
		LeagueID: lg.ID,
		LaneID:   11,
		TeamName: "Split Happens",
		Scores: []domain.GameScore{
			{BowlerName: "Cat", Scratch: 150, Strikes: 2, BallsThrown: 20},
			{BowlerName: "Dov", Scratch: 162, Strikes: 3, BallsThrown: 19},
		},
	})
	require.NoError(t, err)

	standings, err = engine.GetStandings(ctx, lg.ID, 0)
	require.NoError(t, err)
	require.Len(t, standings, 2)
	assert.Equal(t, team1.ID, standings[0].TeamID)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 2.0, standings[0].Points)
	assert.Equal(t, team2.ID, standings[1].TeamID)
	assert.Equal(t, 1, standings[1].Losses)
	assert.Equal(t, 0.0, standings[1].Points)

	// Season statistics updated per bowler.
	season, err := repos.Season.Get(ctx, b1.ID, lg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, season.GamesPlayed)
	assert.Equal(t, 185, season.TotalPins)
	assert.InDelta(t, 185.0, season.CurrentAverage, 0.001)
	// 80 percent of the gap to the 220 base.
	assert.InDelta(t, 28.0, season.CurrentHandicap, 0.001)
	assert.Equal(t, 185, season.HighGame)
	assert.Equal(t, 185, season.HighSeries)
}

func TestGenerateSchedule_NotEnoughTeams(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Lonely League",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
	})
	require.NoError(t, err)

	_, err = engine.AddTeam(ctx, lg.ID, "Only Team", nil)
	require.NoError(t, err)

	_, err = engine.GenerateSchedule(ctx, lg.ID)
	assert.ErrorIs(t, err, domain.ErrNotEnoughTeams)
	assert.ErrorIs(t, err, domain.ErrInvalidLeagueConfig, "team count is a config precondition")
}

func TestGenerateSchedule_SkipsBookedSlots(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	start := time.Date(2026, 10, 7, 18, 0, 0, 0, time.UTC)
	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Wednesday Works",
		StartDate:     start,
		EndDate:       start.AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{2},
	})
	require.NoError(t, err)

	_, err = engine.AddTeam(ctx, lg.ID, "Alpha", nil)
	require.NoError(t, err)
	_, err = engine.AddTeam(ctx, lg.ID, "Beta", nil)
	require.NoError(t, err)

	// Week 1 on lane 2 is already taken by a private event.
	require.NoError(t, repos.Booking.Create(ctx, &domain.Booking{
		LaneID:   2,
		Kind:     domain.BookingKindPrivate,
		StartsAt: start.Add(-time.Hour),
		EndsAt:   start.Add(3 * time.Hour),
		Label:    "corporate night",
	}))

	result, err := engine.GenerateSchedule(ctx, lg.ID)
	require.NoError(t, err)

	assert.Zero(t, result.ScheduledMatches)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, result.Skipped[0].WeekNumber)
	assert.Equal(t, 2, result.Skipped[0].LaneID)
	require.NotEmpty(t, result.Skipped[0].Conflicts)
	assert.Equal(t, "corporate night", result.Skipped[0].Conflicts[0].Label)
}

func TestProcessLeagueGame_UnknownTeam(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Friday Frames",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
	})
	require.NoError(t, err)

	err = engine.ProcessLeagueGame(ctx, league.GameSubmission{
		LeagueID: lg.ID,
		LaneID:   1,
		TeamName: "Nobody",
		Scores:   []domain.GameScore{{BowlerName: "X", Scratch: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrTeamNotFound)
}

func TestRecordPreBowl(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	bowler := testutil.NewBowlerBuilder().WithName("Eli").Create(t, testDB.DB)

	disabledRules := testutil.DefaultRules()
	disabledRules.PreBowl.Enabled = false
	disabled, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "No Banking",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
		Rules:         disabledRules,
	})
	require.NoError(t, err)

	_, err = engine.RecordPreBowl(ctx, disabled.ID, bowler.ID, domain.GameScore{Scratch: 200}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLeagueConfig)

	cappedRules := testutil.DefaultRules()
	cappedRules.PreBowl.MaxUsesPerGame = 2
	capped, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Banking Allowed",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
		Rules:         cappedRules,
	})
	require.NoError(t, err)

	// Explicit cap wins, then the league cap, then one use.
	banked, err := engine.RecordPreBowl(ctx, capped.ID, bowler.ID, domain.GameScore{Scratch: 200}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, banked.MaxUses)

	banked, err = engine.RecordPreBowl(ctx, capped.ID, bowler.ID, domain.GameScore{Scratch: 195}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, banked.MaxUses)

	usable, err := repos.PreBowl.GetUsable(ctx, bowler.ID, capped.ID)
	require.NoError(t, err)
	assert.Len(t, usable, 2)
}

func TestAbsentScoreFor_PreviewDoesNotConsume(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	bowler := testutil.NewBowlerBuilder().WithName("Fay").Create(t, testDB.DB)

	rules := testutil.DefaultRules()
	rules.PreBowl.RandomUseWhenAbsent = true
	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Banked Mondays",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
		Rules:         rules,
	})
	require.NoError(t, err)

	_, err = engine.RecordPreBowl(ctx, lg.ID, bowler.ID, domain.GameScore{Scratch: 188, Strikes: 4, BallsThrown: 18}, 1)
	require.NoError(t, err)

	// Preview twice: the banked game is reported but never spent.
	for i := 0; i < 2; i++ {
		score, preBowlUsed, err := engine.AbsentScoreFor(ctx, lg.ID, bowler.ID)
		require.NoError(t, err)
		assert.True(t, preBowlUsed)
		assert.Equal(t, 188, score.Scratch)
		assert.Equal(t, "Fay", score.BowlerName)
	}

	usable, err := repos.PreBowl.GetUsable(ctx, bowler.ID, lg.ID)
	require.NoError(t, err)
	require.Len(t, usable, 1)
	assert.Zero(t, usable[0].TimesUsed)
}

func TestAbsentScoreFor_FormulaFallback(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	bowler := testutil.NewBowlerBuilder().WithName("Gil").Create(t, testDB.DB)

	rules := testutil.DefaultRules()
	rules.PreBowl.RandomUseWhenAbsent = true
	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Formula Fridays",
		StartDate:     time.Now(),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 6,
		LaneIDs:       []int{1},
		Rules:         rules,
	})
	require.NoError(t, err)

	require.NoError(t, repos.Season.Upsert(ctx, &domain.BowlerSeasonData{
		ID:             uuid.New(),
		BowlerID:       bowler.ID,
		LeagueID:       lg.ID,
		CurrentAverage: 180,
		GamesPlayed:    9,
		LastUpdated:    time.Now(),
	}))

	// No banked game: 90 percent of the 180 average, floored.
	score, preBowlUsed, err := engine.AbsentScoreFor(ctx, lg.ID, bowler.ID)
	require.NoError(t, err)
	assert.False(t, preBowlUsed)
	assert.Equal(t, 162, score.Scratch)

	_, _, err = engine.AbsentScoreFor(ctx, lg.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrBowlerNotFound)
}

func TestProcessLeagueGame_AbsentBowlers(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	b1 := testutil.NewBowlerBuilder().WithName("Ann").Create(t, testDB.DB)
	b2 := testutil.NewBowlerBuilder().WithName("Ben").Create(t, testDB.DB)
	b3 := testutil.NewBowlerBuilder().WithName("Cat").Create(t, testDB.DB)
	b4 := testutil.NewBowlerBuilder().WithName("Dov").Create(t, testDB.DB)

	rules := testutil.DefaultRules()
	rules.PreBowl.RandomUseWhenAbsent = true
	lg, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Substitution Night",
		StartDate:     time.Date(2026, 9, 3, 19, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 12, 3, 22, 0, 0, 0, time.UTC),
		NumberOfWeeks: 8,
		LaneIDs:       []int{14},
		Rules:         rules,
	})
	require.NoError(t, err)

	_, err = engine.AddTeam(ctx, lg.ID, "Pin Pals", []uuid.UUID{b1.ID, b2.ID})
	require.NoError(t, err)
	_, err = engine.AddTeam(ctx, lg.ID, "Split Happens", []uuid.UUID{b3.ID, b4.ID})
	require.NoError(t, err)

	_, err = engine.GenerateSchedule(ctx, lg.ID)
	require.NoError(t, err)

	// Ben banked a game before going out of town.
	_, err = engine.RecordPreBowl(ctx, lg.ID, b2.ID, domain.GameScore{Scratch: 190, Strikes: 5, BallsThrown: 18}, 1)
	require.NoError(t, err)

	err = engine.ProcessLeagueGame(ctx, league.GameSubmission{
		LeagueID:        lg.ID,
		LaneID:          14,
		TeamName:        "Pin Pals",
		Scores:          []domain.GameScore{{BowlerName: "Ann", Scratch: 185, Strikes: 5, BallsThrown: 18}},
		AbsentBowlerIDs: []uuid.UUID{b2.ID},
	})
	require.NoError(t, err)

	// The banked game is spent by processing.
	usable, err := repos.PreBowl.GetUsable(ctx, b2.ID, lg.ID)
	require.NoError(t, err)
	assert.Empty(t, usable)

	// A pre-bowl substitute was actually bowled, so it feeds the season.
	benSeason, err := repos.Season.Get(ctx, b2.ID, lg.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, benSeason.GamesPlayed)
	assert.Equal(t, 190, benSeason.TotalPins)

	// Dov has neither a banked game nor an average: formula placeholder.
	err = engine.ProcessLeagueGame(ctx, league.GameSubmission{
		LeagueID:        lg.ID,
		LaneID:          14,
		TeamName:        "Split Happens",
		Scores:          []domain.GameScore{{BowlerName: "Cat", Scratch: 150, Strikes: 2, BallsThrown: 20}},
		AbsentBowlerIDs: []uuid.UUID{b4.ID},
	})
	require.NoError(t, err)

	// Placeholders never feed the average.
	dovSeason, err := repos.Season.Get(ctx, b4.ID, lg.ID)
	require.NoError(t, err)
	assert.Zero(t, dovSeason.GamesPlayed)
	assert.Zero(t, dovSeason.TotalPins)

	records, err := repos.Game.GetByLeagueID(ctx, lg.ID)
	require.NoError(t, err)
	byName := make(map[string]*domain.GameRecord, len(records))
	for _, r := range records {
		byName[r.BowlerName] = r
	}
	require.Contains(t, byName, "Ben")
	assert.True(t, byName["Ben"].Absent)
	assert.True(t, byName["Ben"].PreBowl)
	assert.Equal(t, 190, byName["Ben"].Scratch)
	require.Contains(t, byName, "Dov")
	assert.True(t, byName["Dov"].Absent)
	assert.False(t, byName["Dov"].PreBowl)
	assert.Zero(t, byName["Dov"].Scratch)
	require.Contains(t, byName, "Ann")
	assert.False(t, byName["Ann"].Absent)
	assert.False(t, byName["Ann"].PreBowl)
}

func TestMaintenance_LifecycleAndPreBowlCleanup(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	engine := league.NewEngine(repos, nil)
	ctx := context.Background()

	bowler := testutil.NewBowlerBuilder().WithName("Hal").Create(t, testDB.DB)

	upcoming, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Starts Yesterday",
		StartDate:     time.Now().AddDate(0, 0, -1),
		EndDate:       time.Now().AddDate(0, 2, 0),
		NumberOfWeeks: 8,
		LaneIDs:       []int{1},
		Rules:         testutil.DefaultRules(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.LeagueStatusScheduled, upcoming.Status)

	finished, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Already Over",
		StartDate:     time.Now().AddDate(0, -3, 0),
		EndDate:       time.Now().AddDate(0, 0, -1),
		NumberOfWeeks: 8,
		LaneIDs:       []int{2},
		Rules:         testutil.DefaultRules(),
	})
	require.NoError(t, err)

	carryRules := testutil.DefaultRules()
	carryRules.PreBowl.CarryToNextSeason = true
	carried, err := engine.CreateLeague(ctx, league.CreateLeagueInput{
		Name:          "Carries Over",
		StartDate:     time.Now().AddDate(0, -3, 0),
		EndDate:       time.Now().AddDate(0, 0, -1),
		NumberOfWeeks: 8,
		LaneIDs:       []int{3},
		Rules:         carryRules,
	})
	require.NoError(t, err)

	_, err = engine.RecordPreBowl(ctx, finished.ID, bowler.ID, domain.GameScore{Scratch: 170}, 1)
	require.NoError(t, err)
	_, err = engine.RecordPreBowl(ctx, carried.ID, bowler.ID, domain.GameScore{Scratch: 175}, 1)
	require.NoError(t, err)

	// First pass activates by start date, second completes by end date.
	engine.Maintenance(ctx)
	engine.Maintenance(ctx)

	got, err := engine.GetLeague(ctx, upcoming.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeagueStatusActive, got.Status)

	got, err = engine.GetLeague(ctx, finished.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LeagueStatusCompleted, got.Status)

	// Season-end cleanup honors the carry-over rule.
	usable, err := repos.PreBowl.GetUsable(ctx, bowler.ID, finished.ID)
	require.NoError(t, err)
	assert.Empty(t, usable, "unused pre-bowls are cleared when carry-over is off")

	usable, err = repos.PreBowl.GetUsable(ctx, bowler.ID, carried.ID)
	require.NoError(t, err)
	assert.Len(t, usable, 1)
}
