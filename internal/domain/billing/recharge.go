package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// PrepaidRecharge is a prepaid top-up for a connection. Recharges skip the
// reconciliation pipeline entirely; they only participate in batching.
type PrepaidRecharge struct {
	shared.BaseEntity
	ConsumerNumber string          `gorm:"type:varchar(50);not null;index" json:"consumer_number"`
	RechargeAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"recharge_amount"`
	RechargeDate   time.Time       `gorm:"not null" json:"recharge_date"`
	BatchID        *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id,omitempty"`
}

// TableName returns the table name for GORM
func (PrepaidRecharge) TableName() string {
	return "prepaid_recharges"
}

// NewPrepaidRecharge creates a prepaid recharge record
func NewPrepaidRecharge(consumerNumber string, amount decimal.Decimal, rechargeDate time.Time) (*PrepaidRecharge, error) {
	if consumerNumber == "" {
		return nil, shared.NewDomainError("INVALID_CONSUMER_NUMBER", "Consumer number cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Recharge amount must be positive")
	}
	if rechargeDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_RECHARGE_DATE", "Recharge date is required")
	}
	return &PrepaidRecharge{
		BaseEntity:     shared.NewBaseEntity(),
		ConsumerNumber: consumerNumber,
		RechargeAmount: amount,
		RechargeDate:   rechargeDate,
	}, nil
}
