package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Team struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LeagueID    uuid.UUID      `json:"leagueId" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"not null"`
	DivisionID  int            `json:"divisionId" gorm:"default:0"`
	Wins        int            `json:"wins"`
	Losses      int            `json:"losses"`
	Ties        int            `json:"ties"`
	TotalPoints float64        `json:"totalPoints"`
	TeamAverage float64        `json:"teamAverage"`
	HeadToHead  datatypes.JSON `json:"headToHead" gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	League  *League   `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
	Bowlers []*Bowler `json:"bowlers,omitempty" gorm:"many2many:team_bowlers"`
}

// HeadToHeadCounts decodes the per-opponent win counters.
// Keys are opposing team ids.
func (t *Team) HeadToHeadCounts() (map[string]int, error) {
	counts := make(map[string]int)
	if len(t.HeadToHead) == 0 {
		return counts, nil
	}
	if err := json.Unmarshal(t.HeadToHead, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (t *Team) SetHeadToHeadCounts(counts map[string]int) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	t.HeadToHead = datatypes.JSON(data)
	return nil
}
