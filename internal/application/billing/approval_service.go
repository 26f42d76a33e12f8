package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
)

// Operator identifies the human running an approval. The identity comes from
// the authenticated request and is recorded verbatim in the audit log.
type Operator struct {
	ID    uuid.UUID
	Email string
}

// ApprovalService runs the reconciliation and approval workflow for bills
type ApprovalService struct {
	billRepo billing.BillRepository
	logRepo  billing.ApprovalLogRepository
	clock    Clock
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(billRepo billing.BillRepository, logRepo billing.ApprovalLogRepository, clock Clock) *ApprovalService {
	return &ApprovalService{
		billRepo: billRepo,
		logRepo:  logRepo,
		clock:    clock,
	}
}

// ApproveRequest carries an approval command: which bill, which operator,
// and the operator's charge edits (nil categories are left as persisted).
type ApproveRequest struct {
	BillID   uuid.UUID
	Operator Operator
	Edits    billing.ChargeEdits
}

// ApproveResult is the outcome of a successful approval
type ApproveResult struct {
	Bill           *billing.Bill          `json:"bill"`
	ApprovedAmount decimal.Decimal        `json:"approved_amount"`
	Updates        []billing.ChargeUpdate `json:"updates"`
	Log            *billing.ApprovedLog   `json:"log"`
}

// Approve reconciles a bill's charges against its declared amount and, when
// they agree within tolerance, records the approval. Edited charge records,
// the bill transition and the audit entry commit in a single transaction.
// Re-approving an already approved bill is permitted and appends a fresh
// audit entry; approving twice with identical edits is therefore idempotent
// in effect on the bill while still leaving a complete trail.
func (s *ApprovalService) Approve(ctx context.Context, req ApproveRequest) (*ApproveResult, error) {
	if req.Operator.Email == "" {
		return nil, shared.NewDomainError("MISSING_OPERATOR", "Approving operator identity is required")
	}

	bill, err := s.billRepo.FindByID(ctx, req.BillID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	// Reconcile against the charges as the operator sees them, before any
	// edit is grafted onto the bill: a tolerance failure leaves the loaded
	// bill untouched.
	core, regulatory, adherence, additional := bill.EffectiveCharges(req.Edits)
	total := billing.AggregateTotal(core, regulatory, adherence, additional)

	if err := billing.ValidateDeclaredAmount(bill.BillAmount, total); err != nil {
		return nil, err
	}

	changed, updates := s.applyEdits(bill, req.Edits)

	now := s.clock.Now()
	if err := bill.Approve(req.Operator.Email, total, now); err != nil {
		return nil, err
	}

	logEntry, err := billing.NewApprovedLog(bill.ID, req.Operator.Email, total.Round(2), updates, now)
	if err != nil {
		return nil, err
	}

	if err := s.billRepo.CommitApproval(ctx, bill, changed, logEntry); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	return &ApproveResult{
		Bill:           bill,
		ApprovedAmount: total.Round(2),
		Updates:        updates,
		Log:            logEntry,
	}, nil
}

// applyEdits grafts the operator's edited categories onto the bill, keeping
// record identities intact, and returns the records that actually changed
// together with their field-level diffs for the audit log.
func (s *ApprovalService) applyEdits(bill *billing.Bill, edits billing.ChargeEdits) ([]billing.ChargeRecord, []billing.ChargeUpdate) {
	changed := make([]billing.ChargeRecord, 0, 4)
	updates := make([]billing.ChargeUpdate, 0, 4)

	record := func(r billing.ChargeRecord, data map[string]decimal.Decimal) {
		if len(data) == 0 {
			return
		}
		changed = append(changed, r)
		updates = append(updates, billing.ChargeUpdate{
			Table:    r.TableName(),
			RecordID: r.RecordID(),
			Data:     data,
		})
	}

	if edits.Core != nil && bill.Core != nil {
		diff := edits.Core.Diff(bill.Core)
		edits.Core.ID, edits.Core.BillID, edits.Core.CreatedAt = bill.Core.ID, bill.ID, bill.Core.CreatedAt
		bill.Core = edits.Core
		record(bill.Core, diff)
	}
	if edits.Regulatory != nil && bill.Regulatory != nil {
		diff := edits.Regulatory.Diff(bill.Regulatory)
		edits.Regulatory.ID, edits.Regulatory.BillID, edits.Regulatory.CreatedAt = bill.Regulatory.ID, bill.ID, bill.Regulatory.CreatedAt
		bill.Regulatory = edits.Regulatory
		record(bill.Regulatory, diff)
	}
	if edits.Adherence != nil && bill.Adherence != nil {
		diff := edits.Adherence.Diff(bill.Adherence)
		edits.Adherence.ID, edits.Adherence.BillID, edits.Adherence.CreatedAt = bill.Adherence.ID, bill.ID, bill.Adherence.CreatedAt
		bill.Adherence = edits.Adherence
		record(bill.Adherence, diff)
	}
	if edits.Additional != nil && bill.Additional != nil {
		diff := edits.Additional.Diff(bill.Additional)
		edits.Additional.ID, edits.Additional.BillID, edits.Additional.CreatedAt = bill.Additional.ID, bill.ID, bill.Additional.CreatedAt
		bill.Additional = edits.Additional
		record(bill.Additional, diff)
	}

	return changed, updates
}

// Reject marks a bill rejected. Only bills still in new may be rejected.
func (s *ApprovalService) Reject(ctx context.Context, billID uuid.UUID) (*billing.Bill, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if err := bill.Reject(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, nil
}

// Unapprove reopens an approved bill for correction. The audit log keeps the
// superseded approvals.
func (s *ApprovalService) Unapprove(ctx context.Context, billID uuid.UUID) (*billing.Bill, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if err := bill.Unapprove(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, nil
}

// Trail returns the bill's approval audit view: the current decision plus
// the full superseded history.
func (s *ApprovalService) Trail(ctx context.Context, billID uuid.UUID) (*billing.ApprovalTrail, error) {
	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	return s.logRepo.Trail(ctx, billID)
}
