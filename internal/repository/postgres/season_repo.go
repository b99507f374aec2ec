package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seasonRepository struct {
	db *gorm.DB
}

func NewSeasonRepository(db *gorm.DB) *seasonRepository {
	return &seasonRepository{db: db}
}

func (r *seasonRepository) Get(ctx context.Context, bowlerID, leagueID uuid.UUID) (*domain.BowlerSeasonData, error) {
	var data domain.BowlerSeasonData
	err := r.db.WithContext(ctx).
		First(&data, "bowler_id = ? AND league_id = ?", bowlerID, leagueID).Error
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *seasonRepository) GetByLeague(ctx context.Context, leagueID uuid.UUID) ([]*domain.BowlerSeasonData, error) {
	var data []*domain.BowlerSeasonData
	err := r.db.WithContext(ctx).
		Preload("Bowler").
		Where("league_id = ?", leagueID).
		Order("current_average DESC").
		Find(&data).Error
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *seasonRepository) Upsert(ctx context.Context, data *domain.BowlerSeasonData) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "bowler_id"}, {Name: "league_id"}},
			UpdateAll: true,
		}).
		Create(data).Error
}
