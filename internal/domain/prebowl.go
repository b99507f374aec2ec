package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PreBowlGame is a banked game bowled in advance of its scheduled week.
// It is consumable: each substitution for an absent bowler increments
// TimesUsed, and the record is only eligible while TimesUsed < MaxUses.
type PreBowlGame struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BowlerID  uuid.UUID      `json:"bowlerId" gorm:"type:uuid;not null;index"`
	LeagueID  uuid.UUID      `json:"leagueId" gorm:"type:uuid;not null;index"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	TimesUsed int            `json:"timesUsed"`
	MaxUses   int            `json:"maxUses" gorm:"not null;default:1"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (p *PreBowlGame) Usable() bool {
	return p.TimesUsed < p.MaxUses
}
