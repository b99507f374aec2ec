package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingKind string

const (
	BookingKindOpenPlay BookingKind = "open_play"
	BookingKindLeague   BookingKind = "league"
	BookingKindPrivate  BookingKind = "private"
)

// Booking reserves one lane for one time window. League schedule
// generation creates a booking per matchup slot; the calendar UI
// creates the rest.
type Booking struct {
	ID        uuid.UUID   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LaneID    int         `json:"laneId" gorm:"not null;index"`
	Kind      BookingKind `json:"kind" gorm:"not null;default:'open_play'"`
	StartsAt  time.Time   `json:"startsAt" gorm:"not null;index"`
	EndsAt    time.Time   `json:"endsAt" gorm:"not null"`
	EventID   *uuid.UUID  `json:"eventId" gorm:"type:uuid"`
	Label     string      `json:"label"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Overlaps reports whether two half-open time windows intersect.
func (b *Booking) Overlaps(startsAt, endsAt time.Time) bool {
	return b.StartsAt.Before(endsAt) && b.EndsAt.After(startsAt)
}
