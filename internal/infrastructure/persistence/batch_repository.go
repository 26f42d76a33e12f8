package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchRepository implements billing.BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Batch, error) {
	var batch billing.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindAll finds batches matching the filter
func (r *GormBatchRepository) FindAll(ctx context.Context, filter billing.BatchFilter) ([]billing.Batch, error) {
	var batches []billing.Batch
	query := r.db.WithContext(ctx)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}
	if err := query.Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// CreateWithItems inserts the batch and attaches its items in one transaction
func (r *GormBatchRepository) CreateWithItems(ctx context.Context, batch *billing.Batch, billIDs, rechargeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(batch).Error; err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		return attachItems(tx, batch.ID, billIDs, rechargeIDs)
	})
}

// AttachItems adds items to an existing batch, skipping items that already
// belong to one, so retried calls cannot double-attach.
func (r *GormBatchRepository) AttachItems(ctx context.Context, batchID uuid.UUID, billIDs, rechargeIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return attachItems(tx, batchID, billIDs, rechargeIDs)
	})
}

func attachItems(tx *gorm.DB, batchID uuid.UUID, billIDs, rechargeIDs []uuid.UUID) error {
	now := time.Now()
	if len(billIDs) > 0 {
		if err := tx.Model(&billing.Bill{}).
			Where("id IN ? AND batch_id IS NULL AND status = ?", billIDs, billing.BillStatusApproved).
			Updates(map[string]any{
				"batch_id":   batchID,
				"status":     billing.BillStatusBatch,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to attach bills: %w", err)
		}
	}
	if len(rechargeIDs) > 0 {
		if err := tx.Model(&billing.PrepaidRecharge{}).
			Where("id IN ? AND batch_id IS NULL", rechargeIDs).
			Updates(map[string]any{
				"batch_id":   batchID,
				"updated_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to attach recharges: %w", err)
		}
	}
	return nil
}
