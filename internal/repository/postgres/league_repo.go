package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type leagueRepository struct {
	db *gorm.DB
}

func NewLeagueRepository(db *gorm.DB) *leagueRepository {
	return &leagueRepository{db: db}
}

func (r *leagueRepository) Create(ctx context.Context, league *domain.League) error {
	return r.db.WithContext(ctx).Create(league).Error
}

func (r *leagueRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.League, error) {
	var league domain.League
	err := r.db.WithContext(ctx).First(&league, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &league, nil
}

func (r *leagueRepository) List(ctx context.Context, limit, offset int) ([]*domain.League, error) {
	var leagues []*domain.League
	err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&leagues).Error
	if err != nil {
		return nil, err
	}
	return leagues, nil
}

func (r *leagueRepository) GetByStatus(ctx context.Context, status domain.LeagueStatus) ([]*domain.League, error) {
	var leagues []*domain.League
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Find(&leagues).Error
	if err != nil {
		return nil, err
	}
	return leagues, nil
}

func (r *leagueRepository) Update(ctx context.Context, league *domain.League) error {
	return r.db.WithContext(ctx).Save(league).Error
}
