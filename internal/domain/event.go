package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LeagueEvent is one league week: a set of matchups bowled at the same
// scheduled time. Completed is derived from the matchups and never
// trusted on its own; see league.Standings recomputation.
type LeagueEvent struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID      uuid.UUID      `json:"leagueId" gorm:"type:uuid;not null;index"`
	WeekNumber    int            `json:"weekNumber" gorm:"not null"`
	ScheduledTime time.Time      `json:"scheduledTime" gorm:"not null"`
	LaneIDs       datatypes.JSON `json:"laneIds" gorm:"type:jsonb;default:'[]'"`
	Completed     bool           `json:"completed" gorm:"not null;default:false"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`

	Matchups []*Matchup `json:"matchups,omitempty" gorm:"foreignKey:EventID"`
}

type Matchup struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	EventID     uuid.UUID      `json:"eventId" gorm:"type:uuid;not null;index"`
	Team1ID     uuid.UUID      `json:"team1Id" gorm:"type:uuid;not null"`
	Team2ID     uuid.UUID      `json:"team2Id" gorm:"type:uuid;not null"`
	LaneID      int            `json:"laneId" gorm:"not null"`
	Completed   bool           `json:"completed" gorm:"not null;default:false"`
	Team1Done   bool           `json:"team1Done" gorm:"not null;default:false"`
	Team2Done   bool           `json:"team2Done" gorm:"not null;default:false"`
	Team1Score  float64        `json:"team1Score"`
	Team2Score  float64        `json:"team2Score"`
	Team1Points float64        `json:"team1Points"`
	Team2Points float64        `json:"team2Points"`
	GameIDs     datatypes.JSON `json:"gameIds" gorm:"type:jsonb;default:'[]'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (m *Matchup) Games() ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if len(m.GameIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(m.GameIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (m *Matchup) AppendGame(id uuid.UUID) error {
	ids, err := m.Games()
	if err != nil {
		return err
	}
	ids = append(ids, id)
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	m.GameIDs = datatypes.JSON(data)
	return nil
}

// InvolvesTeam reports whether the matchup includes the given team.
func (m *Matchup) InvolvesTeam(teamID uuid.UUID) bool {
	return m.Team1ID == teamID || m.Team2ID == teamID
}
