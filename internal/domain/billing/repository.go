package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BillFilter narrows bill queries
type BillFilter struct {
	Status         *BillStatus
	ConsumerNumber *string
	BatchID        *uuid.UUID
	FromBillDate   *time.Time
	ToBillDate     *time.Time
	Page           int
	PageSize       int
}

// BatchFilter narrows batch queries
type BatchFilter struct {
	Status   *BatchStatus
	Page     int
	PageSize int
}

// BillRepository persists bills together with their charge sub-records.
// FindByID loads the four charge records alongside the bill.
type BillRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	FindAll(ctx context.Context, filter BillFilter) ([]Bill, error)
	Count(ctx context.Context, filter BillFilter) (int64, error)
	Save(ctx context.Context, bill *Bill) error
	// SaveWithLock saves the bill under an optimistic version check so
	// concurrent operators cannot silently overwrite each other.
	SaveWithLock(ctx context.Context, bill *Bill) error
	// CommitApproval persists an approval transition atomically: the changed
	// charge records, the bill's new status and approved amount, and the
	// appended audit log entry all commit in one transaction or not at all.
	CommitApproval(ctx context.Context, bill *Bill, changed []ChargeRecord, logEntry *ApprovedLog) error
}

// ApprovalLogRepository reads the append-only store of approval decisions.
// Writes happen inside BillRepository.CommitApproval so the log entry shares
// the approval's transaction.
type ApprovalLogRepository interface {
	Trail(ctx context.Context, billID uuid.UUID) (*ApprovalTrail, error)
}

// BatchRepository persists batches and attaches items to them
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindAll(ctx context.Context, filter BatchFilter) ([]Batch, error)
	// CreateWithItems persists a new batch and attaches the given bills and
	// recharges in the same transaction.
	CreateWithItems(ctx context.Context, batch *Batch, billIDs, rechargeIDs []uuid.UUID) error
	// AttachItems adds items to an existing batch. The update skips items
	// already belonging to a batch, so a retried chunk cannot double-attach.
	AttachItems(ctx context.Context, batchID uuid.UUID, billIDs, rechargeIDs []uuid.UUID) error
}

// RechargeRepository persists prepaid recharges
type RechargeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PrepaidRecharge, error)
	Save(ctx context.Context, recharge *PrepaidRecharge) error
}
