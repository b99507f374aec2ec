package league

import (
	"math"

	"github.com/kyle/bowling-center-server/internal/domain"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Average computes a bowler's rolling average under the league's average
// rules. It returns 0.0 while the bowler has fewer than DelayGames games.
// With PeriodicUpdate the stored average stays sticky between update
// points: it is only recomputed when gamesPlayed is a multiple of
// UpdateInterval.
func Average(rules domain.AverageRules, season *domain.BowlerSeasonData) float64 {
	if season.GamesPlayed < rules.DelayGames {
		return 0.0
	}

	switch rules.Type {
	case domain.AverageTotalPinsPerBall:
		if season.BallsThrown == 0 {
			return 0.0
		}
		return round2(float64(season.TotalPins) / float64(season.BallsThrown))

	case domain.AveragePeriodicUpdate:
		if rules.UpdateInterval > 0 && season.GamesPlayed%rules.UpdateInterval != 0 {
			return season.CurrentAverage
		}
		fallthrough

	default: // domain.AverageTotalPinsPerGame
		if season.GamesPlayed == 0 {
			return 0.0
		}
		return round2(float64(season.TotalPins) / float64(season.GamesPlayed))
	}
}

// Handicap computes a bowler's handicap from their current average.
// The result is clamped to zero: a bowler above the high value gets no
// handicap, never a negative one.
func Handicap(rules domain.HandicapRules, average float64, gamesPlayed int) float64 {
	if gamesPlayed < rules.DelayGames || average <= 0 {
		return 0.0
	}

	var hdcp float64
	switch rules.Type {
	case domain.HandicapPercentageBased:
		hdcp = (rules.HighValue - average) * rules.Percentage
	case domain.HandicapStraightDifference:
		hdcp = rules.HighValue - average
	case domain.HandicapWithDeduction:
		hdcp = rules.HighValue - average - rules.Deduction
	}

	if hdcp < 0 {
		hdcp = 0
	}
	return round2(hdcp)
}

// AbsentScore computes the placeholder score for an absent bowler when
// no pre-bowl game is substituted. The result is floored at zero and
// fed through the normal game-processing path as if bowled.
func AbsentScore(rules domain.AbsentRules, average float64) int {
	var score int
	switch rules.Type {
	case domain.AbsentFixedValue:
		score = rules.FixedValue
	case domain.AbsentUseAverage:
		score = int(average)
	default: // domain.AbsentPercentageOfAverage
		score = int(average * rules.Percentage)
	}

	if score < 0 {
		score = 0
	}
	return score
}
