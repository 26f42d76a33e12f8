package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRechargeRepository implements billing.RechargeRepository using GORM
type GormRechargeRepository struct {
	db *gorm.DB
}

// NewGormRechargeRepository creates a new GormRechargeRepository
func NewGormRechargeRepository(db *gorm.DB) *GormRechargeRepository {
	return &GormRechargeRepository{db: db}
}

// FindByID finds a prepaid recharge by ID
func (r *GormRechargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PrepaidRecharge, error) {
	var recharge billing.PrepaidRecharge
	if err := r.db.WithContext(ctx).First(&recharge, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &recharge, nil
}

// Save creates or updates a prepaid recharge
func (r *GormRechargeRepository) Save(ctx context.Context, recharge *billing.PrepaidRecharge) error {
	return r.db.WithContext(ctx).Save(recharge).Error
}
