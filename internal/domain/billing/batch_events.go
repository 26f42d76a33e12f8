package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/shared"
)

// BatchCreatedEvent is raised when a new payment batch is assembled
type BatchCreatedEvent struct {
	shared.BaseDomainEvent
	BatchID    uuid.UUID `json:"batch_id"`
	BatchName  string    `json:"batch_name"`
	ValidateAt time.Time `json:"validate_at"`
}

// EventType returns the event type name
func (e *BatchCreatedEvent) EventType() string {
	return "BatchCreated"
}

// NewBatchCreatedEvent creates a new BatchCreatedEvent
func NewBatchCreatedEvent(b *Batch) *BatchCreatedEvent {
	return &BatchCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BatchCreated", "Batch", b.ID),
		BatchID:         b.ID,
		BatchName:       b.BatchName,
		ValidateAt:      b.ValidateAt,
	}
}

// BatchItemsAttachedEvent is raised when cart items are attached to a batch
type BatchItemsAttachedEvent struct {
	shared.BaseDomainEvent
	BatchID     uuid.UUID   `json:"batch_id"`
	BillIDs     []uuid.UUID `json:"bill_ids"`
	RechargeIDs []uuid.UUID `json:"recharge_ids"`
}

// EventType returns the event type name
func (e *BatchItemsAttachedEvent) EventType() string {
	return "BatchItemsAttached"
}

// NewBatchItemsAttachedEvent creates a new BatchItemsAttachedEvent
func NewBatchItemsAttachedEvent(batchID uuid.UUID, billIDs, rechargeIDs []uuid.UUID) *BatchItemsAttachedEvent {
	return &BatchItemsAttachedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("BatchItemsAttached", "Batch", batchID),
		BatchID:         batchID,
		BillIDs:         billIDs,
		RechargeIDs:     rechargeIDs,
	}
}
