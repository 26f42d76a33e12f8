package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// BatchStatus represents the payment state of a batch
type BatchStatus string

const (
	BatchStatusUnpaid     BatchStatus = "unpaid"     // Open; items may still be attached
	BatchStatusProcessing BatchStatus = "processing" // Handed to the payment system
	BatchStatusPaid       BatchStatus = "paid"       // Settled
)

// IsValid checks if the status is a valid BatchStatus
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusUnpaid, BatchStatusProcessing, BatchStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// Batch is a named group of approved bills and prepaid recharges intended to
// be paid together by a validity date. Items live in their own tables and
// reference the batch by id.
type Batch struct {
	shared.BaseAggregateRoot
	BatchName  string      `gorm:"type:varchar(100)" json:"batch_name"`
	Status     BatchStatus `gorm:"type:varchar(20);not null;default:'unpaid';index" json:"batch_status"`
	ValidateAt time.Time   `gorm:"not null" json:"validate_at"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatch creates an open batch with the given validity date
func NewBatch(name string, validateAt time.Time) (*Batch, error) {
	if validateAt.IsZero() {
		return nil, shared.NewDomainError("INVALID_VALIDATE_AT", "Batch validity date is required")
	}
	b := &Batch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchName:         name,
		Status:            BatchStatusUnpaid,
		ValidateAt:        validateAt,
	}
	b.AddDomainEvent(NewBatchCreatedEvent(b))
	return b, nil
}

// CanAttachItems reports whether new items may join the batch. Only unpaid
// batches accept items; processing and paid belong to the payment system.
func (b *Batch) CanAttachItems() bool {
	return b.Status == BatchStatusUnpaid
}

// CartItemKind distinguishes the two payable item types a cart may hold
type CartItemKind string

const (
	CartItemBill     CartItemKind = "bill"
	CartItemRecharge CartItemKind = "recharge"
)

// CartItem is one payable entry in an operator's cart: an approved bill or a
// prepaid recharge. PayBy is the bill's due date or the recharge date and
// drives the batch validity computation.
type CartItem struct {
	Kind   CartItemKind    `json:"kind"`
	ItemID uuid.UUID       `json:"item_id"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	PayBy  time.Time       `json:"pay_by"`
}

// Cart is the session-scoped collection of items an operator is assembling
// into a batch. It exists only until the batch commit succeeds.
type Cart struct {
	Items []CartItem `json:"items"`
}

// Add appends an item, rejecting duplicates by id
func (c *Cart) Add(item CartItem) error {
	for _, existing := range c.Items {
		if existing.ItemID == item.ItemID {
			return shared.NewDomainError("ALREADY_IN_CART", "Item is already in the cart")
		}
	}
	c.Items = append(c.Items, item)
	return nil
}

// Remove deletes the item with the given id; it is a no-op when absent
func (c *Cart) Remove(itemID uuid.UUID) {
	for i, existing := range c.Items {
		if existing.ItemID == itemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// IsEmpty reports whether the cart holds no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums the payable amounts of all items. Displayed, never persisted.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Amount)
	}
	return total.Round(2)
}

// Partition splits the cart into bill ids and recharge ids, which live in
// different tables.
func (c *Cart) Partition() (billIDs, rechargeIDs []uuid.UUID) {
	billIDs = make([]uuid.UUID, 0, len(c.Items))
	rechargeIDs = make([]uuid.UUID, 0)
	for _, item := range c.Items {
		switch item.Kind {
		case CartItemRecharge:
			rechargeIDs = append(rechargeIDs, item.ItemID)
		default:
			billIDs = append(billIDs, item.ItemID)
		}
	}
	return billIDs, rechargeIDs
}

// ComputeValidateAt derives a batch's validity date from its items: the
// earliest pay-by date, pulled forward to today when any item is already
// overdue. Dates are compared at day granularity.
func ComputeValidateAt(items []CartItem, today time.Time) (time.Time, error) {
	if len(items) == 0 {
		return time.Time{}, shared.NewDomainError("EMPTY_CART", "Cannot derive a validity date from an empty cart")
	}

	minDate := dateOnly(items[0].PayBy)
	for _, item := range items[1:] {
		if d := dateOnly(item.PayBy); d.Before(minDate) {
			minDate = d
		}
	}

	day := dateOnly(today)
	if minDate.Before(day) {
		return day, nil
	}
	return minDate, nil
}
