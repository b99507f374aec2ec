package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type preBowlRepository struct {
	db *gorm.DB
}

func NewPreBowlRepository(db *gorm.DB) *preBowlRepository {
	return &preBowlRepository{db: db}
}

func (r *preBowlRepository) Create(ctx context.Context, game *domain.PreBowlGame) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *preBowlRepository) GetUsable(ctx context.Context, bowlerID, leagueID uuid.UUID) ([]*domain.PreBowlGame, error) {
	var games []*domain.PreBowlGame
	err := r.db.WithContext(ctx).
		Where("bowler_id = ? AND league_id = ? AND times_used < max_uses", bowlerID, leagueID).
		Order("created_at ASC").
		Find(&games).Error
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (r *preBowlRepository) Update(ctx context.Context, game *domain.PreBowlGame) error {
	return r.db.WithContext(ctx).Save(game).Error
}

func (r *preBowlRepository) DeleteUnused(ctx context.Context, leagueID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("league_id = ? AND times_used = 0", leagueID).
		Delete(&domain.PreBowlGame{}).Error
}
