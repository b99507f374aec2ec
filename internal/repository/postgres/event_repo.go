package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *eventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) CreateSchedule(ctx context.Context, events []*domain.LeagueEvent, bookings []*domain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, event := range events {
			if err := tx.Create(event).Error; err != nil {
				return err
			}
		}
		for _, booking := range bookings {
			if err := tx.Create(booking).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.LeagueEvent, error) {
	var event domain.LeagueEvent
	err := r.db.WithContext(ctx).
		Preload("Matchups").
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) GetByLeagueID(ctx context.Context, leagueID uuid.UUID) ([]*domain.LeagueEvent, error) {
	var events []*domain.LeagueEvent
	err := r.db.WithContext(ctx).
		Preload("Matchups").
		Where("league_id = ?", leagueID).
		Order("week_number ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, event *domain.LeagueEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) GetMatchup(ctx context.Context, id uuid.UUID) (*domain.Matchup, error) {
	var matchup domain.Matchup
	err := r.db.WithContext(ctx).First(&matchup, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &matchup, nil
}

func (r *eventRepository) UpdateMatchup(ctx context.Context, matchup *domain.Matchup) error {
	return r.db.WithContext(ctx).Save(matchup).Error
}

func (r *eventRepository) FindOpenMatchup(ctx context.Context, leagueID uuid.UUID, laneID int) (*domain.Matchup, error) {
	var matchup domain.Matchup
	err := r.db.WithContext(ctx).
		Joins("JOIN league_events ON league_events.id = matchups.event_id").
		Where("league_events.league_id = ? AND matchups.lane_id = ? AND matchups.completed = false", leagueID, laneID).
		Order("league_events.week_number ASC").
		First(&matchup).Error
	if err != nil {
		return nil, err
	}
	return &matchup, nil
}
