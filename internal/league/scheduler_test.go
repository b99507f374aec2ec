package league_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundRobinPairs(t *testing.T) {
	teams := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}

	pairs := league.RoundRobinPairs(teams)

	// C(4,2) pairings, each unordered pair exactly once.
	require.Len(t, pairs, 6)
	seen := make(map[[2]uuid.UUID]bool)
	for _, p := range pairs {
		assert.NotEqual(t, p.Team1, p.Team2)
		key := [2]uuid.UUID{p.Team1, p.Team2}
		assert.False(t, seen[key], "duplicate pair")
		reversed := [2]uuid.UUID{p.Team2, p.Team1}
		assert.False(t, seen[reversed], "reversed duplicate pair")
		seen[key] = true
	}
}

func TestRoundRobinPairs_TooFewTeams(t *testing.T) {
	assert.Empty(t, league.RoundRobinPairs([]uuid.UUID{uuid.New()}))
	assert.Empty(t, league.RoundRobinPairs(nil))
}

func TestWeeksNeeded(t *testing.T) {
	tests := []struct {
		name      string
		pairCount int
		laneCount int
		want      int
	}{
		{"exact fit", 6, 2, 3},
		{"rounds up", 7, 2, 4},
		{"single lane", 6, 1, 6},
		{"no lanes", 6, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, league.WeeksNeeded(tt.pairCount, tt.laneCount))
		})
	}
}

func TestPartitionWeeks(t *testing.T) {
	teams := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	pairs := league.RoundRobinPairs(teams) // 6 pairs

	weeks, unscheduled := league.PartitionWeeks(pairs, 2, 10)

	require.Len(t, weeks, 3)
	assert.Empty(t, unscheduled)
	for _, week := range weeks {
		assert.LessOrEqual(t, len(week), 2)
	}
}

func TestPartitionWeeks_TruncatesAtMaxWeeks(t *testing.T) {
	teams := []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
	pairs := league.RoundRobinPairs(teams) // 6 pairs, needs 3 weeks on 2 lanes

	weeks, unscheduled := league.PartitionWeeks(pairs, 2, 2)

	require.Len(t, weeks, 2)
	assert.Len(t, unscheduled, 2)
}
