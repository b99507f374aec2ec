package league

import (
	"sort"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
)

// TeamStanding is one row of a standings table.
type TeamStanding struct {
	TeamID     uuid.UUID `json:"teamId"`
	TeamName   string    `json:"teamName"`
	DivisionID int       `json:"divisionId"`
	Wins       int       `json:"wins"`
	Losses     int       `json:"losses"`
	Ties       int       `json:"ties"`
	Points     float64   `json:"points"`
	TotalScore float64   `json:"totalScore"`
}

// EventCompleted derives completion from current matchup state. The
// stored flag is never trusted; re-evaluation is deterministic.
func EventCompleted(event *domain.LeagueEvent) bool {
	if len(event.Matchups) == 0 {
		return false
	}
	for _, m := range event.Matchups {
		if !m.Completed {
			return false
		}
	}
	return true
}

// ComputeStandings aggregates team records solely from completed
// matchups. Running it twice over the same matchup set yields identical
// results, so there is no double counting.
func ComputeStandings(teams []*domain.Team, events []*domain.LeagueEvent) []TeamStanding {
	rows := make(map[uuid.UUID]*TeamStanding, len(teams))
	order := make([]uuid.UUID, 0, len(teams))
	for _, t := range teams {
		rows[t.ID] = &TeamStanding{
			TeamID:     t.ID,
			TeamName:   t.Name,
			DivisionID: t.DivisionID,
		}
		order = append(order, t.ID)
	}

	for _, event := range events {
		for _, m := range event.Matchups {
			if !m.Completed {
				continue
			}
			t1, ok1 := rows[m.Team1ID]
			t2, ok2 := rows[m.Team2ID]
			if !ok1 || !ok2 {
				continue
			}

			t1.Points += m.Team1Points
			t2.Points += m.Team2Points
			t1.TotalScore += m.Team1Score
			t2.TotalScore += m.Team2Score

			switch {
			case m.Team1Score > m.Team2Score:
				t1.Wins++
				t2.Losses++
			case m.Team2Score > m.Team1Score:
				t2.Wins++
				t1.Losses++
			default:
				t1.Ties++
				t2.Ties++
			}
		}
	}

	standings := make([]TeamStanding, 0, len(order))
	for _, id := range order {
		standings = append(standings, *rows[id])
	}
	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Points != standings[j].Points {
			return standings[i].Points > standings[j].Points
		}
		return standings[i].TotalScore > standings[j].TotalScore
	})
	return standings
}

// FilterDivision keeps only the rows for one division. A divisionID of
// zero means the whole league.
func FilterDivision(standings []TeamStanding, divisionID int) []TeamStanding {
	if divisionID == 0 {
		return standings
	}
	var filtered []TeamStanding
	for _, s := range standings {
		if s.DivisionID == divisionID {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
