package league_test

import (
	"testing"

	"github.com/kyle/bowling-center-server/internal/domain"
	"github.com/kyle/bowling-center-server/internal/league"
	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	tests := []struct {
		name   string
		rules  domain.AverageRules
		season domain.BowlerSeasonData
		want   float64
	}{
		{
			name:   "per game",
			rules:  domain.AverageRules{Type: domain.AverageTotalPinsPerGame},
			season: domain.BowlerSeasonData{GamesPlayed: 4, TotalPins: 722},
			want:   180.5,
		},
		{
			name:   "per ball",
			rules:  domain.AverageRules{Type: domain.AverageTotalPinsPerBall},
			season: domain.BowlerSeasonData{GamesPlayed: 2, TotalPins: 300, BallsThrown: 36},
			want:   8.33,
		},
		{
			name:   "zero before delay games",
			rules:  domain.AverageRules{Type: domain.AverageTotalPinsPerGame, DelayGames: 3},
			season: domain.BowlerSeasonData{GamesPlayed: 2, TotalPins: 400},
			want:   0.0,
		},
		{
			name:   "recomputed at delay threshold",
			rules:  domain.AverageRules{Type: domain.AverageTotalPinsPerGame, DelayGames: 3},
			season: domain.BowlerSeasonData{GamesPlayed: 3, TotalPins: 540},
			want:   180.0,
		},
		{
			name:   "periodic stays sticky between update points",
			rules:  domain.AverageRules{Type: domain.AveragePeriodicUpdate, UpdateInterval: 3},
			season: domain.BowlerSeasonData{GamesPlayed: 4, TotalPins: 800, CurrentAverage: 180.0},
			want:   180.0,
		},
		{
			name:   "periodic recomputes on the interval",
			rules:  domain.AverageRules{Type: domain.AveragePeriodicUpdate, UpdateInterval: 3},
			season: domain.BowlerSeasonData{GamesPlayed: 6, TotalPins: 1200, CurrentAverage: 180.0},
			want:   200.0,
		},
		{
			name:   "no games yet",
			rules:  domain.AverageRules{Type: domain.AverageTotalPinsPerGame},
			season: domain.BowlerSeasonData{},
			want:   0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := league.Average(tt.rules, &tt.season)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestHandicap(t *testing.T) {
	tests := []struct {
		name        string
		rules       domain.HandicapRules
		average     float64
		gamesPlayed int
		want        float64
	}{
		{
			name:        "percentage based",
			rules:       domain.HandicapRules{Type: domain.HandicapPercentageBased, HighValue: 225, Percentage: 0.8},
			average:     150,
			gamesPlayed: 5,
			want:        60.0,
		},
		{
			name:        "straight difference",
			rules:       domain.HandicapRules{Type: domain.HandicapStraightDifference, HighValue: 220},
			average:     185,
			gamesPlayed: 5,
			want:        35.0,
		},
		{
			name:        "with deduction",
			rules:       domain.HandicapRules{Type: domain.HandicapWithDeduction, HighValue: 220, Deduction: 10},
			average:     180,
			gamesPlayed: 5,
			want:        30.0,
		},
		{
			name:        "clamped at zero above high value",
			rules:       domain.HandicapRules{Type: domain.HandicapStraightDifference, HighValue: 200},
			average:     220,
			gamesPlayed: 5,
			want:        0.0,
		},
		{
			name:        "zero before delay games",
			rules:       domain.HandicapRules{Type: domain.HandicapPercentageBased, HighValue: 225, Percentage: 0.8, DelayGames: 3},
			average:     150,
			gamesPlayed: 2,
			want:        0.0,
		},
		{
			name:        "zero without an established average",
			rules:       domain.HandicapRules{Type: domain.HandicapPercentageBased, HighValue: 225, Percentage: 0.8},
			average:     0,
			gamesPlayed: 5,
			want:        0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := league.Handicap(tt.rules, tt.average, tt.gamesPlayed)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestAbsentScore(t *testing.T) {
	tests := []struct {
		name    string
		rules   domain.AbsentRules
		average float64
		want    int
	}{
		{
			name:    "percentage of average",
			rules:   domain.AbsentRules{Type: domain.AbsentPercentageOfAverage, Percentage: 0.9},
			average: 180,
			want:    162,
		},
		{
			name:    "fixed value",
			rules:   domain.AbsentRules{Type: domain.AbsentFixedValue, FixedValue: 140},
			average: 200,
			want:    140,
		},
		{
			name:    "use average truncates",
			rules:   domain.AbsentRules{Type: domain.AbsentUseAverage},
			average: 187.6,
			want:    187,
		},
		{
			name:    "never negative",
			rules:   domain.AbsentRules{Type: domain.AbsentFixedValue, FixedValue: -10},
			average: 0,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, league.AbsentScore(tt.rules, tt.average))
		})
	}
}
