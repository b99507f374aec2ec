package league_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/stretchr/testify/assert"
)

func TestWinLossTiePoints(t *testing.T) {
	rules := domain.PointRules{WinPoints: 2, LossPoints: 0, TiePoints: 1}

	tests := []struct {
		name       string
		team1Score float64
		team2Score float64
		want1      float64
		want2      float64
	}{
		{"team1 wins", 210, 195, 2, 0},
		{"team2 wins", 180, 205, 0, 2},
		{"tie on equal scores", 200, 200, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2 := league.WinLossTiePoints(rules, tt.team1Score, tt.team2Score)
			assert.Equal(t, tt.want1, p1)
			assert.Equal(t, tt.want2, p2)
		})
	}
}

func TestTeamVsTeamPoints_Linear(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	scores := []league.TeamScore{
		{TeamID: a, Score: 650},
		{TeamID: b, Score: 720},
		{TeamID: c, Score: 590},
		{TeamID: d, Score: 700},
	}

	points := league.TeamVsTeamPoints(domain.PointRules{}, scores)

	assert.Equal(t, 4.0, points[b])
	assert.Equal(t, 3.0, points[d])
	assert.Equal(t, 2.0, points[a])
	assert.Equal(t, 1.0, points[c])
}

func TestTeamVsTeamPoints_LinearTiesKeepStableOrder(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	scores := []league.TeamScore{
		{TeamID: a, Score: 700},
		{TeamID: b, Score: 700},
		{TeamID: c, Score: 600},
	}

	points := league.TeamVsTeamPoints(domain.PointRules{}, scores)

	// Earlier input position wins the tie when points are not stacked.
	assert.Equal(t, 3.0, points[a])
	assert.Equal(t, 2.0, points[b])
	assert.Equal(t, 1.0, points[c])
}

func TestTeamVsTeamPoints_StackedTies(t *testing.T) {
	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	scores := []league.TeamScore{
		{TeamID: a, Score: 700},
		{TeamID: b, Score: 700},
		{TeamID: c, Score: 650},
		{TeamID: d, Score: 650},
	}

	points := league.TeamVsTeamPoints(domain.PointRules{StackedTiePoints: true}, scores)

	// Both leaders share rank-1 points; the next block shares rank 3.
	assert.Equal(t, 4.0, points[a])
	assert.Equal(t, 4.0, points[b])
	assert.Equal(t, 2.0, points[c])
	assert.Equal(t, 2.0, points[d])
}

func TestTeamVsTeamPoints_Empty(t *testing.T) {
	points := league.TeamVsTeamPoints(domain.PointRules{}, nil)
	assert.Empty(t, points)
}
