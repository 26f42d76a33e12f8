package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBillRepository implements billing.BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindByID loads a bill together with its four charge records
func (r *GormBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	var bill billing.Bill
	if err := r.db.WithContext(ctx).
		Preload("Core").
		Preload("Regulatory").
		Preload("Adherence").
		Preload("Additional").
		First(&bill, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// FindAll finds bills matching the filter
func (r *GormBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	var bills []billing.Bill
	query := r.applyFilter(r.db.WithContext(ctx), filter)

	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize)
		if filter.Page > 0 {
			query = query.Offset((filter.Page - 1) * filter.PageSize)
		}
	}

	if err := query.Order("due_date ASC, bill_number ASC").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// Count counts bills matching the filter
func (r *GormBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.Bill{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBillRepository) applyFilter(query *gorm.DB, filter billing.BillFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.ConsumerNumber != nil {
		query = query.Where("consumer_number = ?", *filter.ConsumerNumber)
	}
	if filter.BatchID != nil {
		query = query.Where("batch_id = ?", *filter.BatchID)
	}
	if filter.FromBillDate != nil {
		query = query.Where("bill_date >= ?", *filter.FromBillDate)
	}
	if filter.ToBillDate != nil {
		query = query.Where("bill_date <= ?", *filter.ToBillDate)
	}
	return query
}

// Save creates or updates a bill
func (r *GormBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	return r.db.WithContext(ctx).Save(bill).Error
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	result := r.db.WithContext(ctx).
		Model(bill).
		Where("id = ? AND version = ?", bill.ID, bill.Version-1).
		Select("status", "approved_amount", "batch_id", "is_valid", "version", "updated_at").
		Updates(map[string]any{
			"status":          bill.Status,
			"approved_amount": bill.ApprovedAmount,
			"batch_id":        bill.BatchID,
			"is_valid":        bill.IsValid,
			"version":         bill.Version,
			"updated_at":      bill.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CommitApproval persists an approval in one transaction: the edited charge
// records, the bill's transition under a version check, and the appended
// audit entry. Any failure rolls the whole decision back.
func (r *GormBillRepository) CommitApproval(ctx context.Context, bill *billing.Bill, changed []billing.ChargeRecord, logEntry *billing.ApprovedLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, record := range changed {
			if err := tx.Save(record).Error; err != nil {
				return fmt.Errorf("failed to save %s: %w", record.TableName(), err)
			}
		}

		result := tx.Model(bill).
			Where("id = ? AND version = ?", bill.ID, bill.Version-1).
			Updates(map[string]any{
				"status":          bill.Status,
				"approved_amount": bill.ApprovedAmount,
				"is_valid":        bill.IsValid,
				"version":         bill.Version,
				"updated_at":      bill.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Create(logEntry).Error; err != nil {
			return fmt.Errorf("failed to append approval log: %w", err)
		}
		return nil
	})
}
