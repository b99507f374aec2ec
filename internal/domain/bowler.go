package domain

import (
	"time"

	"github.com/google/uuid"
)

type Bowler struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null;index"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BowlerSeasonData tracks one bowler's running statistics within one league.
// It is recomputed after every processed game.
type BowlerSeasonData struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	BowlerID        uuid.UUID `json:"bowlerId" gorm:"type:uuid;not null;uniqueIndex:idx_bowler_league"`
	LeagueID        uuid.UUID `json:"leagueId" gorm:"type:uuid;not null;uniqueIndex:idx_bowler_league"`
	CurrentAverage  float64   `json:"currentAverage"`
	CurrentHandicap float64   `json:"currentHandicap"`
	GamesPlayed     int       `json:"gamesPlayed"`
	TotalPins       int       `json:"totalPins"`
	BallsThrown     int       `json:"ballsThrown"`
	Strikes         int       `json:"strikes"`
	Spares          int       `json:"spares"`
	HighGame        int       `json:"highGame"`
	HighSeries      int       `json:"highSeries"`
	LastUpdated     time.Time `json:"lastUpdated"`

	Bowler *Bowler `json:"bowler,omitempty" gorm:"foreignKey:BowlerID"`
}
