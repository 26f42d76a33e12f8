package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
	"gorm.io/gorm"
)

// GormApprovalLogRepository implements billing.ApprovalLogRepository using GORM.
// The table is append-only; rows are inserted by CommitApproval's transaction
// and never updated or deleted.
type GormApprovalLogRepository struct {
	db *gorm.DB
}

// NewGormApprovalLogRepository creates a new GormApprovalLogRepository
func NewGormApprovalLogRepository(db *gorm.DB) *GormApprovalLogRepository {
	return &GormApprovalLogRepository{db: db}
}

// Trail loads all of a bill's approval entries and assembles the audit view
func (r *GormApprovalLogRepository) Trail(ctx context.Context, billID uuid.UUID) (*billing.ApprovalTrail, error) {
	var logs []billing.ApprovedLog
	if err := r.db.WithContext(ctx).
		Where("bill_id = ?", billID).
		Order("approved_at ASC, created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return billing.BuildApprovalTrail(logs), nil
}
