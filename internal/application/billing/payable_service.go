package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/billing"
)

// PayableService answers "what does this consumer owe if they pay today"
type PayableService struct {
	billRepo billing.BillRepository
	clock    Clock
}

// NewPayableService creates a new PayableService
func NewPayableService(billRepo billing.BillRepository, clock Clock) *PayableService {
	return &PayableService{billRepo: billRepo, clock: clock}
}

// PayableView is the collection-desk view of one bill: the resolved
// payable-today amount, the modifiers that shaped it, and an estimated
// late-payment surcharge for overdue bills. Display only.
type PayableView struct {
	BillID         uuid.UUID            `json:"bill_id"`
	BillNumber     string               `json:"bill_number"`
	DeclaredAmount decimal.Decimal      `json:"bill_amount"`
	Payable        billing.PayableToday `json:"payable_today"`
	LPSCEstimate   decimal.Decimal      `json:"lpsc_estimate"`
}

// PayableToday resolves the payable amount for a bill as of the service clock
func (s *PayableService) PayableToday(ctx context.Context, billID uuid.UUID) (*PayableView, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}

	today := s.clock.Now()
	return &PayableView{
		BillID:         bill.ID,
		BillNumber:     bill.BillNumber,
		DeclaredAmount: bill.BillAmount,
		Payable:        billing.ResolvePayableToday(bill, today),
		LPSCEstimate:   billing.EstimateLPSC(bill, bill.Adherence),
	}, nil
}

// ListBills returns a filtered, paginated page of bills with the total count
func (s *PayableService) ListBills(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, int64, error) {
	bills, err := s.billRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	total, err := s.billRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}
	return bills, total, nil
}

// GetBill loads one bill with its charge records
func (s *PayableService) GetBill(ctx context.Context, billID uuid.UUID) (*billing.Bill, error) {
	return s.billRepo.FindByID(ctx, billID)
}
