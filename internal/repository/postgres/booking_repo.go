package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *bookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepository) IsLaneAvailable(ctx context.Context, laneID int, startsAt, endsAt time.Time, excludeEventID *uuid.UUID) (bool, error) {
	var count int64
	query := r.overlapQuery(ctx, laneID, startsAt, endsAt, excludeEventID)
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *bookingRepository) GetConflictingEvents(ctx context.Context, laneID int, startsAt, endsAt time.Time, excludeEventID *uuid.UUID) ([]*domain.Booking, error) {
	var conflicts []*domain.Booking
	query := r.overlapQuery(ctx, laneID, startsAt, endsAt, excludeEventID)
	if err := query.Order("starts_at ASC").Find(&conflicts).Error; err != nil {
		return nil, err
	}
	return conflicts, nil
}

// overlapQuery matches half-open windows: [startsAt, endsAt) intersects
// [booking.starts_at, booking.ends_at).
func (r *bookingRepository) overlapQuery(ctx context.Context, laneID int, startsAt, endsAt time.Time, excludeEventID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("lane_id = ? AND starts_at < ? AND ends_at > ?", laneID, endsAt, startsAt)
	if excludeEventID != nil {
		query = query.Where("event_id IS NULL OR event_id <> ?", *excludeEventID)
	}
	return query
}

func (r *bookingRepository) GetByLane(ctx context.Context, laneID int, from, to time.Time) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := r.db.WithContext(ctx).
		Where("lane_id = ? AND starts_at >= ? AND starts_at < ?", laneID, from, to).
		Order("starts_at ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Booking{}, "id = ?", id).Error
}
