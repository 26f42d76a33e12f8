package billing

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/shared"
)

// ChargeUpdate records which fields of one charge category were changed by
// an approval. Data holds the edited values keyed by column name; only
// non-bookkeeping fields appear.
type ChargeUpdate struct {
	Table    string                     `json:"table"`
	RecordID uuid.UUID                  `json:"id"`
	Data     map[string]decimal.Decimal `json:"data"`
}

// ApprovedLog is one immutable approval decision for a bill. Rows are only
// ever appended; the newest row is the bill's current approval and the older
// rows are its history.
type ApprovedLog struct {
	ID             uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	BillID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"bill_id"`
	ApprovedBy     string         `gorm:"type:varchar(200);not null" json:"approved_by"`
	ApprovedAt     time.Time      `gorm:"not null;index" json:"approved_at"`
	ApprovedAmount string         `gorm:"type:varchar(40);not null" json:"approved_amount"`
	Updates        []ChargeUpdate `gorm:"serializer:json;type:jsonb" json:"updates"`
	CreatedAt      time.Time      `json:"created_at"`
}

// TableName returns the table name for GORM
func (ApprovedLog) TableName() string {
	return "approval_logs"
}

// NewApprovedLog creates an approval log entry. The amount is stored as a
// fixed two-decimal string so the recorded figure never drifts.
func NewApprovedLog(billID uuid.UUID, approvedBy string, amount decimal.Decimal, updates []ChargeUpdate, now time.Time) (*ApprovedLog, error) {
	if billID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BILL", "Bill ID cannot be empty")
	}
	if approvedBy == "" {
		return nil, shared.NewDomainError("MISSING_OPERATOR", "Approving operator identity is required")
	}
	if updates == nil {
		updates = make([]ChargeUpdate, 0)
	}
	return &ApprovedLog{
		ID:             uuid.New(),
		BillID:         billID,
		ApprovedBy:     approvedBy,
		ApprovedAt:     now,
		ApprovedAmount: amount.StringFixed(2),
		Updates:        updates,
	}, nil
}

// Amount parses the string-encoded approved amount back into a decimal
func (l *ApprovedLog) Amount() (decimal.Decimal, error) {
	return decimal.NewFromString(l.ApprovedAmount)
}

// ApprovalTrail is the audit view of a bill's approvals: the most recent
// decision plus every earlier one, oldest first.
type ApprovalTrail struct {
	Current *ApprovedLog  `json:"current"`
	History []ApprovedLog `json:"history"`
}

// BuildApprovalTrail assembles a trail from a bill's log rows, in any order.
// The newest row becomes current; the rest form the history oldest-first.
// An empty slice yields an empty trail.
func BuildApprovalTrail(logs []ApprovedLog) *ApprovalTrail {
	trail := &ApprovalTrail{History: make([]ApprovedLog, 0)}
	if len(logs) == 0 {
		return trail
	}

	sorted := make([]ApprovedLog, len(logs))
	copy(sorted, logs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ApprovedAt.Equal(sorted[j].ApprovedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return sorted[i].ApprovedAt.Before(sorted[j].ApprovedAt)
	})

	trail.History = sorted[:len(sorted)-1]
	trail.Current = &sorted[len(sorted)-1]
	return trail
}
