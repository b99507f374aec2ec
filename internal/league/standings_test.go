package league_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventCompleted(t *testing.T) {
	event := &domain.LeagueEvent{
		Matchups: []*domain.Matchup{
			{Completed: true},
			{Completed: false},
		},
	}
	assert.False(t, league.EventCompleted(event))

	event.Matchups[1].Completed = true
	assert.True(t, league.EventCompleted(event))
}

func TestEventCompleted_NoMatchups(t *testing.T) {
	assert.False(t, league.EventCompleted(&domain.LeagueEvent{}))
}

func TestComputeStandings(t *testing.T) {
	teamA := &domain.Team{ID: uuid.New(), Name: "Pin Pals"}
	teamB := &domain.Team{ID: uuid.New(), Name: "Split Happens"}
	teamC := &domain.Team{ID: uuid.New(), Name: "Gutter Gang"}
	teams := []*domain.Team{teamA, teamB, teamC}

	events := []*domain.LeagueEvent{
		{
			Matchups: []*domain.Matchup{
				{
					Team1ID: teamA.ID, Team2ID: teamB.ID,
					Team1Score: 720, Team2Score: 680,
					Team1Points: 2, Team2Points: 0,
					Completed: true,
				},
			},
		},
		{
			Matchups: []*domain.Matchup{
				{
					Team1ID: teamB.ID, Team2ID: teamC.ID,
					Team1Score: 700, Team2Score: 700,
					Team1Points: 1, Team2Points: 1,
					Completed: true,
				},
				// Incomplete matchups contribute nothing.
				{
					Team1ID: teamA.ID, Team2ID: teamC.ID,
					Team1Score: 650,
					Completed:  false,
				},
			},
		},
	}

	standings := league.ComputeStandings(teams, events)
	require.Len(t, standings, 3)

	assert.Equal(t, teamA.ID, standings[0].TeamID)
	assert.Equal(t, 1, standings[0].Wins)
	assert.Equal(t, 2.0, standings[0].Points)
	assert.Equal(t, 720.0, standings[0].TotalScore)

	assert.Equal(t, teamB.ID, standings[1].TeamID)
	assert.Equal(t, 1, standings[1].Losses)
	assert.Equal(t, 1, standings[1].Ties)
	assert.Equal(t, 1.0, standings[1].Points)

	assert.Equal(t, teamC.ID, standings[2].TeamID)
	assert.Equal(t, 1, standings[2].Ties)
}

func TestComputeStandings_Idempotent(t *testing.T) {
	teamA := &domain.Team{ID: uuid.New(), Name: "A"}
	teamB := &domain.Team{ID: uuid.New(), Name: "B"}
	teams := []*domain.Team{teamA, teamB}

	events := []*domain.LeagueEvent{
		{
			Matchups: []*domain.Matchup{
				{
					Team1ID: teamA.ID, Team2ID: teamB.ID,
					Team1Score: 600, Team2Score: 590,
					Team1Points: 2, Completed: true,
				},
			},
		},
	}

	first := league.ComputeStandings(teams, events)
	second := league.ComputeStandings(teams, events)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, first[0].Wins)
}

func TestFilterDivision(t *testing.T) {
	standings := []league.TeamStanding{
		{TeamName: "A", DivisionID: 1},
		{TeamName: "B", DivisionID: 2},
		{TeamName: "C", DivisionID: 1},
	}

	div1 := league.FilterDivision(standings, 1)
	require.Len(t, div1, 2)
	assert.Equal(t, "A", div1[0].TeamName)
	assert.Equal(t, "C", div1[1].TeamName)

	all := league.FilterDivision(standings, 0)
	assert.Len(t, all, 3)
}
