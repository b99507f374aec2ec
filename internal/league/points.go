package league

import (
	"sort"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
)

// WinLossTiePoints compares two matchup scores head to head. Ties are
// possible only on literal score equality.
func WinLossTiePoints(rules domain.PointRules, team1Score, team2Score float64) (float64, float64) {
	switch {
	case team1Score > team2Score:
		return rules.WinPoints, rules.LossPoints
	case team2Score > team1Score:
		return rules.LossPoints, rules.WinPoints
	default:
		return rules.TiePoints, rules.TiePoints
	}
}

// TeamScore is one team's total for a league event.
type TeamScore struct {
	TeamID uuid.UUID
	Score  float64
}

// TeamVsTeamPoints ranks every team's event score descending and awards
// points by rank: the highest scorer gets len(scores) points, the lowest
// gets 1. With StackedTiePoints, teams with equal scores share the
// points of the best rank in their tie block and the following ranks
// are skipped (competition ranking). Without it, tied teams keep their
// stable sort order and receive distinct linear points.
func TeamVsTeamPoints(rules domain.PointRules, scores []TeamScore) map[uuid.UUID]float64 {
	ranked := make([]TeamScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	total := len(ranked)
	points := make(map[uuid.UUID]float64, total)

	for i := 0; i < len(ranked); {
		if !rules.StackedTiePoints {
			points[ranked[i].TeamID] = float64(total - i)
			i++
			continue
		}

		// Stacked: find the tie block and award everyone the best rank's points.
		j := i
		for j < len(ranked) && ranked[j].Score == ranked[i].Score {
			j++
		}
		for k := i; k < j; k++ {
			points[ranked[k].TeamID] = float64(total - i)
		}
		i = j
	}

	return points
}

// CustomPointFunc lets a deployment wire its own point formula for the
// custom point system. The default awards zero per tracked category.
type CustomPointFunc func(rules domain.PointRules, scores []TeamScore) map[uuid.UUID]float64

func defaultCustomPoints(_ domain.PointRules, scores []TeamScore) map[uuid.UUID]float64 {
	points := make(map[uuid.UUID]float64, len(scores))
	for _, s := range scores {
		points[s.TeamID] = 0
	}
	return points
}
