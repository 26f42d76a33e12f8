package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// BillStatus represents the approval lifecycle state of a bill
type BillStatus string

const (
	BillStatusNew      BillStatus = "new"      // Ingested, awaiting reconciliation
	BillStatusApproved BillStatus = "approved" // Reconciled, approved amount recorded
	BillStatusRejected BillStatus = "rejected" // Terminal for this engine
	BillStatusBatch    BillStatus = "batch"    // Grouped into a payment batch
	BillStatusPayment  BillStatus = "payment"  // Handed to the payment system
	BillStatusPaid     BillStatus = "paid"     // Terminal
)

// IsValid checks if the status is a valid BillStatus
func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusNew, BillStatusApproved, BillStatusRejected,
		BillStatusBatch, BillStatusPayment, BillStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of BillStatus
func (s BillStatus) String() string {
	return string(s)
}

// IsTerminal returns true when no further transition is permitted in this
// engine. The downstream payment system owns payment and paid.
func (s BillStatus) IsTerminal() bool {
	return s == BillStatusRejected || s == BillStatusPayment || s == BillStatusPaid
}

// CanApprove returns true when Approve may run. An already approved bill may
// be re-approved so that corrected charges produce a fresh audit entry.
func (s BillStatus) CanApprove() bool {
	return s == BillStatusNew || s == BillStatusApproved
}

// Bill represents one billing-cycle invoice for a connection.
// It is the aggregate root of the reconciliation and approval engine; the
// four charge sub-records are created alongside it and mutated only through
// an approval.
type Bill struct {
	shared.BaseAggregateRoot
	BillNumber         string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"bill_number"`
	ConsumerNumber     string           `gorm:"type:varchar(50);not null;index" json:"consumer_number"`
	BillDate           time.Time        `gorm:"not null" json:"bill_date"`
	DueDate            time.Time        `gorm:"not null;index" json:"due_date"`
	DiscountDate       *time.Time       `json:"discount_date,omitempty"`
	BillAmount         decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"bill_amount"`
	ApprovedAmount     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"approved_amount,omitempty"`
	Status             BillStatus       `gorm:"type:varchar(20);not null;default:'new';index" json:"bill_status"`
	BatchID            *uuid.UUID       `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	DueDateRebate      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"due_date_rebate"`
	DiscountDateRebate decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"discount_date_rebate"`
	PenaltyAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"penalty_amount"`
	IsValid            bool             `gorm:"not null;default:false" json:"is_valid"`

	Core       *CoreCharges       `gorm:"foreignKey:BillID;references:ID" json:"core_charges,omitempty"`
	Regulatory *RegulatoryCharges `gorm:"foreignKey:BillID;references:ID" json:"regulatory_charges,omitempty"`
	Adherence  *AdherenceCharges  `gorm:"foreignKey:BillID;references:ID" json:"adherence_charges,omitempty"`
	Additional *AdditionalCharges `gorm:"foreignKey:BillID;references:ID" json:"additional_charges,omitempty"`
}

// TableName returns the table name for GORM
func (Bill) TableName() string {
	return "bills"
}

// NewBill creates a new bill in status new together with its four zeroed
// charge sub-records.
func NewBill(billNumber, consumerNumber string, billDate, dueDate time.Time, billAmount decimal.Decimal) (*Bill, error) {
	if billNumber == "" {
		return nil, shared.NewDomainError("INVALID_BILL_NUMBER", "Bill number cannot be empty")
	}
	if consumerNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONSUMER_NUMBER", "Consumer number cannot be empty")
	}
	if billDate.IsZero() || dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_BILL_DATES", "Bill date and due date are required")
	}
	if dueDate.Before(billDate) {
		return nil, shared.NewDomainError("INVALID_BILL_DATES", "Due date cannot precede bill date")
	}
	if billAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Bill amount cannot be negative")
	}

	b := &Bill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BillNumber:        billNumber,
		ConsumerNumber:    consumerNumber,
		BillDate:          billDate,
		DueDate:           dueDate,
		BillAmount:        billAmount,
		Status:            BillStatusNew,
	}
	now := time.Now()
	b.Core = &CoreCharges{ID: uuid.New(), BillID: b.ID, CreatedAt: now, UpdatedAt: now}
	b.Regulatory = &RegulatoryCharges{ID: uuid.New(), BillID: b.ID, CreatedAt: now, UpdatedAt: now}
	b.Adherence = &AdherenceCharges{ID: uuid.New(), BillID: b.ID, CreatedAt: now, UpdatedAt: now}
	b.Additional = &AdditionalCharges{ID: uuid.New(), BillID: b.ID, CreatedAt: now, UpdatedAt: now}

	return b, nil
}

// Approve records the reconciled amount and moves the bill to approved.
// Both first approvals and re-approvals of an already approved bill are
// permitted; validation of the amount against the aggregated charges is the
// caller's responsibility (see ValidateDeclaredAmount) and runs before any
// state change.
func (b *Bill) Approve(approvedBy string, total decimal.Decimal, now time.Time) error {
	if !b.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve bill in %s status", b.Status))
	}
	if approvedBy == "" {
		return shared.NewDomainError("MISSING_OPERATOR", "Approving operator identity is required")
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("NON_POSITIVE_TOTAL", "Approved total must be positive")
	}

	amount := total.Round(2)
	b.ApprovedAmount = &amount
	b.Status = BillStatusApproved
	b.IsValid = true
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillApprovedEvent(b, approvedBy, amount, now))
	return nil
}

// Reject marks the bill rejected and clears any approved amount.
// Rejected is terminal for this engine.
func (b *Bill) Reject(now time.Time) error {
	if b.Status != BillStatusNew {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reject bill in %s status", b.Status))
	}
	b.Status = BillStatusRejected
	b.ApprovedAmount = nil
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillRejectedEvent(b, now))
	return nil
}

// Unapprove returns an approved bill to new and clears the approved amount.
func (b *Bill) Unapprove(now time.Time) error {
	if b.Status != BillStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot unapprove bill in %s status", b.Status))
	}
	b.Status = BillStatusNew
	b.ApprovedAmount = nil
	b.IsValid = false
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillUnapprovedEvent(b, now))
	return nil
}

// AttachToBatch moves an approved bill into a batch. Called when the batch
// assembler commits; an approved bill sitting in a cart keeps its status
// until then.
func (b *Bill) AttachToBatch(batchID uuid.UUID, now time.Time) error {
	if b.Status != BillStatusApproved {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot batch bill in %s status", b.Status))
	}
	if batchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if b.BatchID != nil {
		return shared.NewDomainError("ALREADY_BATCHED", "Bill already belongs to a batch")
	}
	b.Status = BillStatusBatch
	b.BatchID = &batchID
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillAttachedToBatchEvent(b, batchID, now))
	return nil
}

// DetachFromBatch removes the bill from its batch and returns it to approved.
func (b *Bill) DetachFromBatch(now time.Time) error {
	if b.Status != BillStatusBatch {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot remove bill in %s status from a batch", b.Status))
	}
	batchID := uuid.Nil
	if b.BatchID != nil {
		batchID = *b.BatchID
	}
	b.Status = BillStatusApproved
	b.BatchID = nil
	b.UpdatedAt = now
	b.IncrementVersion()

	b.AddDomainEvent(NewBillDetachedFromBatchEvent(b, batchID, now))
	return nil
}

// EffectiveCharges returns the charge records to aggregate for an approval:
// the provided edits where present, the persisted records otherwise.
func (b *Bill) EffectiveCharges(edits ChargeEdits) (*CoreCharges, *RegulatoryCharges, *AdherenceCharges, *AdditionalCharges) {
	core, regulatory, adherence, additional := b.Core, b.Regulatory, b.Adherence, b.Additional
	if edits.Core != nil {
		core = edits.Core
	}
	if edits.Regulatory != nil {
		regulatory = edits.Regulatory
	}
	if edits.Adherence != nil {
		adherence = edits.Adherence
	}
	if edits.Additional != nil {
		additional = edits.Additional
	}
	return core, regulatory, adherence, additional
}

// ChargeEdits carries operator-edited charge categories for an approval.
// Nil categories mean "unchanged, use the persisted record".
type ChargeEdits struct {
	Core       *CoreCharges       `json:"core_charges,omitempty"`
	Regulatory *RegulatoryCharges `json:"regulatory_charges,omitempty"`
	Adherence  *AdherenceCharges  `json:"adherence_charges,omitempty"`
	Additional *AdditionalCharges `json:"additional_charges,omitempty"`
}
