package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/kyle/bowling-center-server/internal/domain"
	"gorm.io/gorm"
)

type operatorRepository struct {
	db *gorm.DB
}

func NewOperatorRepository(db *gorm.DB) *operatorRepository {
	return &operatorRepository{db: db}
}

func (r *operatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

func (r *operatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Operator, error) {
	var operator domain.Operator
	err := r.db.WithContext(ctx).First(&operator, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepository) GetByDisplayName(ctx context.Context, displayName string) (*domain.Operator, error) {
	var operator domain.Operator
	err := r.db.WithContext(ctx).First(&operator, "display_name = ?", displayName).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}
