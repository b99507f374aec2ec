package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type gameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *gameRepository {
	return &gameRepository{db: db}
}

func (r *gameRepository) Create(ctx context.Context, record *domain.GameRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gameRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.GameRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var records []*domain.GameRecord
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *gameRepository) GetByLeagueID(ctx context.Context, leagueID uuid.UUID) ([]*domain.GameRecord, error) {
	var records []*domain.GameRecord
	err := r.db.WithContext(ctx).
		Where("league_id = ?", leagueID).
		Order("played_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
