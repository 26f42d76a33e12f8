package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// BillApprovedEvent is raised when a bill's charges are reconciled and approved
type BillApprovedEvent struct {
	shared.BaseDomainEvent
	BillID         uuid.UUID       `json:"bill_id"`
	BillNumber     string          `json:"bill_number"`
	ApprovedBy     string          `json:"approved_by"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	ApprovedAt     time.Time       `json:"approved_at"`
}

// EventType returns the event type name
func (e *BillApprovedEvent) EventType() string {
	return "BillApproved"
}

// NewBillApprovedEvent creates a new BillApprovedEvent
func NewBillApprovedEvent(b *Bill, approvedBy string, amount decimal.Decimal, at time.Time) *BillApprovedEvent {
	return &BillApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillApproved", "Bill", b.ID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		ApprovedBy:      approvedBy,
		ApprovedAmount:  amount,
		ApprovedAt:      at,
	}
}

// BillRejectedEvent is raised when a bill is rejected
type BillRejectedEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BillNumber string    `json:"bill_number"`
	RejectedAt time.Time `json:"rejected_at"`
}

// EventType returns the event type name
func (e *BillRejectedEvent) EventType() string {
	return "BillRejected"
}

// NewBillRejectedEvent creates a new BillRejectedEvent
func NewBillRejectedEvent(b *Bill, at time.Time) *BillRejectedEvent {
	return &BillRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillRejected", "Bill", b.ID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		RejectedAt:      at,
	}
}

// BillUnapprovedEvent is raised when an approval is withdrawn
type BillUnapprovedEvent struct {
	shared.BaseDomainEvent
	BillID       uuid.UUID `json:"bill_id"`
	BillNumber   string    `json:"bill_number"`
	UnapprovedAt time.Time `json:"unapproved_at"`
}

// EventType returns the event type name
func (e *BillUnapprovedEvent) EventType() string {
	return "BillUnapproved"
}

// NewBillUnapprovedEvent creates a new BillUnapprovedEvent
func NewBillUnapprovedEvent(b *Bill, at time.Time) *BillUnapprovedEvent {
	return &BillUnapprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillUnapproved", "Bill", b.ID),
		BillID:          b.ID,
		BillNumber:      b.BillNumber,
		UnapprovedAt:    at,
	}
}

// BillAttachedToBatchEvent is raised when a bill joins a payment batch
type BillAttachedToBatchEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BatchID    uuid.UUID `json:"batch_id"`
	AttachedAt time.Time `json:"attached_at"`
}

// EventType returns the event type name
func (e *BillAttachedToBatchEvent) EventType() string {
	return "BillAttachedToBatch"
}

// NewBillAttachedToBatchEvent creates a new BillAttachedToBatchEvent
func NewBillAttachedToBatchEvent(b *Bill, batchID uuid.UUID, at time.Time) *BillAttachedToBatchEvent {
	return &BillAttachedToBatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillAttachedToBatch", "Bill", b.ID),
		BillID:          b.ID,
		BatchID:         batchID,
		AttachedAt:      at,
	}
}

// BillDetachedFromBatchEvent is raised when a bill leaves a payment batch
type BillDetachedFromBatchEvent struct {
	shared.BaseDomainEvent
	BillID     uuid.UUID `json:"bill_id"`
	BatchID    uuid.UUID `json:"batch_id"`
	DetachedAt time.Time `json:"detached_at"`
}

// EventType returns the event type name
func (e *BillDetachedFromBatchEvent) EventType() string {
	return "BillDetachedFromBatch"
}

// NewBillDetachedFromBatchEvent creates a new BillDetachedFromBatchEvent
func NewBillDetachedFromBatchEvent(b *Bill, batchID uuid.UUID, at time.Time) *BillDetachedFromBatchEvent {
	return &BillDetachedFromBatchEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BillDetachedFromBatch", "Bill", b.ID),
		BillID:          b.ID,
		BatchID:         batchID,
		DetachedAt:      at,
	}
}
