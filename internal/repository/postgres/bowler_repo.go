package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type bowlerRepository struct {
	db *gorm.DB
}

func NewBowlerRepository(db *gorm.DB) *bowlerRepository {
	return &bowlerRepository{db: db}
}

func (r *bowlerRepository) Create(ctx context.Context, bowler *domain.Bowler) error {
	return r.db.WithContext(ctx).Create(bowler).Error
}

func (r *bowlerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bowler, error) {
	var bowler domain.Bowler
	err := r.db.WithContext(ctx).First(&bowler, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bowler, nil
}

func (r *bowlerRepository) GetByName(ctx context.Context, name string) (*domain.Bowler, error) {
	var bowler domain.Bowler
	err := r.db.WithContext(ctx).First(&bowler, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &bowler, nil
}

func (r *bowlerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Bowler, error) {
	var bowlers []*domain.Bowler
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&bowlers).Error
	if err != nil {
		return nil, err
	}
	return bowlers, nil
}

func (r *bowlerRepository) Update(ctx context.Context, bowler *domain.Bowler) error {
	return r.db.WithContext(ctx).Save(bowler).Error
}

func (r *bowlerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Bowler{}, "id = ?", id).Error
}
