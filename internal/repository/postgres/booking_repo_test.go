package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_Availability(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	booked := &domain.Booking{
		LaneID:   3,
		Kind:     domain.BookingKindOpenPlay,
		StartsAt: base,
		EndsAt:   base.Add(2 * time.Hour),
		Label:    "birthday party",
	}
	require.NoError(t, repos.Booking.Create(ctx, booked))

	tests := []struct {
		name     string
		laneID   int
		startsAt time.Time
		endsAt   time.Time
		want     bool
	}{
		{
			name:     "full overlap",
			laneID:   3,
			startsAt: base,
			endsAt:   base.Add(2 * time.Hour),
			want:     false,
		},
		{
			name:     "partial overlap at the front",
			laneID:   3,
			startsAt: base.Add(-time.Hour),
			endsAt:   base.Add(30 * time.Minute),
			want:     false,
		},
		{
			name:     "window inside the booking",
			laneID:   3,
			startsAt: base.Add(30 * time.Minute),
			endsAt:   base.Add(time.Hour),
			want:     false,
		},
		{
			name:     "back to back is fine",
			laneID:   3,
			startsAt: base.Add(2 * time.Hour),
			endsAt:   base.Add(4 * time.Hour),
			want:     true,
		},
		{
			name:     "different lane same window",
			laneID:   4,
			startsAt: base,
			endsAt:   base.Add(2 * time.Hour),
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			available, err := repos.Booking.IsLaneAvailable(ctx, tt.laneID, tt.startsAt, tt.endsAt, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, available)
		})
	}
}

func TestBookingRepository_GetConflictingEvents(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	ctx := context.Background()

	base := time.Date(2026, 3, 11, 19, 0, 0, 0, time.UTC)
	eventID := uuid.New()
	require.NoError(t, repos.Booking.Create(ctx, &domain.Booking{
		LaneID:   5,
		Kind:     domain.BookingKindLeague,
		StartsAt: base,
		EndsAt:   base.Add(2 * time.Hour),
		EventID:  &eventID,
	}))

	conflicts, err := repos.Booking.GetConflictingEvents(ctx, 5, base.Add(time.Hour), base.Add(3*time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 5, conflicts[0].LaneID)

	// A slot from the same schedule generation run is not its own conflict.
	conflicts, err = repos.Booking.GetConflictingEvents(ctx, 5, base.Add(time.Hour), base.Add(3*time.Hour), &eventID)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	clear, err := repos.Booking.GetConflictingEvents(ctx, 5, base.Add(3*time.Hour), base.Add(4*time.Hour), nil)
	require.NoError(t, err)
	assert.Empty(t, clear)
}

func TestSeasonRepository_UpsertIsIdempotentPerBowlerLeague(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := testDB.NewRepositories()
	ctx := context.Background()

	bowler := testutil.NewBowlerBuilder().WithName("Norm").Create(t, testDB.DB)
	lg := testutil.NewLeagueBuilder().Create(t, testDB.DB)

	first := &domain.BowlerSeasonData{
		BowlerID:    bowler.ID,
		LeagueID:    lg.ID,
		GamesPlayed: 1,
		TotalPins:   180,
		LastUpdated: time.Now(),
	}
	require.NoError(t, repos.Season.Upsert(ctx, first))

	second := &domain.BowlerSeasonData{
		BowlerID:       bowler.ID,
		LeagueID:       lg.ID,
		GamesPlayed:    2,
		TotalPins:      365,
		CurrentAverage: 182.5,
		LastUpdated:    time.Now(),
	}
	require.NoError(t, repos.Season.Upsert(ctx, second))

	stored, err := repos.Season.Get(ctx, bowler.ID, lg.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.GamesPlayed)
	assert.Equal(t, 365, stored.TotalPins)
	assert.InDelta(t, 182.5, stored.CurrentAverage, 0.001)

	rows, err := repos.Season.GetByLeague(ctx, lg.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "upsert must not create a second row")
}
