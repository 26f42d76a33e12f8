package billing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ModifierKind identifies a temporal adjustment applied to a bill amount
type ModifierKind string

const (
	ModifierDiscountRebate ModifierKind = "discount_date_rebate"
	ModifierDueRebate      ModifierKind = "due_date_rebate"
	ModifierLatePenalty    ModifierKind = "late_penalty"
)

// AppliedModifier records one adjustment in a payable-today resolution.
// Amount is signed: negative for rebates, positive for penalties.
type AppliedModifier struct {
	Kind   ModifierKind    `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// PayableToday is the amount a consumer owes if they pay on the given day.
// It is computed for display and collection only and is independent of the
// approval total.
type PayableToday struct {
	Amount      decimal.Decimal   `json:"amount"`
	Modifiers   []AppliedModifier `json:"modifiers"`
	Clamped     bool              `json:"clamped"`
	DateAnomaly bool              `json:"date_anomaly"`
}

// ResolvePayableToday applies at most one rebate and, independently, the
// late-payment penalty to the declared bill amount. Dates are compared at
// day granularity. Rules:
//   - discount-date rebate applies while today <= discount_date and takes
//     priority over the due-date rebate;
//   - due-date rebate applies while today <= due_date;
//   - penalty applies once today > due_date.
//
// A rebate and the penalty are mutually exclusive by construction unless the
// bill carries a discount date after its due date; that combination is a data
// anomaly and is flagged, not resolved. A result that would go negative is
// clamped to zero and flagged.
func ResolvePayableToday(b *Bill, today time.Time) PayableToday {
	result := PayableToday{
		Amount:    b.BillAmount,
		Modifiers: make([]AppliedModifier, 0, 2),
	}

	day := dateOnly(today)
	due := dateOnly(b.DueDate)

	if b.DiscountDate != nil && dateOnly(*b.DiscountDate).After(due) {
		result.DateAnomaly = true
	}

	switch {
	case b.DiscountDate != nil && !day.After(dateOnly(*b.DiscountDate)) && b.DiscountDateRebate.IsPositive():
		result.Amount = result.Amount.Sub(b.DiscountDateRebate)
		result.Modifiers = append(result.Modifiers, AppliedModifier{
			Kind:   ModifierDiscountRebate,
			Amount: b.DiscountDateRebate.Neg(),
		})
	case !day.After(due) && b.DueDateRebate.IsPositive():
		result.Amount = result.Amount.Sub(b.DueDateRebate)
		result.Modifiers = append(result.Modifiers, AppliedModifier{
			Kind:   ModifierDueRebate,
			Amount: b.DueDateRebate.Neg(),
		})
	}

	if day.After(due) && b.PenaltyAmount.IsPositive() {
		result.Amount = result.Amount.Add(b.PenaltyAmount)
		result.Modifiers = append(result.Modifiers, AppliedModifier{
			Kind:   ModifierLatePenalty,
			Amount: b.PenaltyAmount,
		})
	}

	if result.Amount.IsNegative() {
		result.Amount = decimal.Zero
		result.Clamped = true
	}
	result.Amount = result.Amount.Round(2)

	return result
}

// lpscEstimateRate is the fallback rate used when a bill carries no explicit
// late-payment surcharge. Display-only; never feeds AggregateTotal.
var lpscEstimateRate = decimal.NewFromFloat(0.015)

// EstimateLPSC returns the late-payment surcharge to show for a bill: the
// recorded adherence value when present, otherwise 1.5% of the declared
// amount.
func EstimateLPSC(b *Bill, adherence *AdherenceCharges) decimal.Decimal {
	if adherence != nil && adherence.LPSC.IsPositive() {
		return adherence.LPSC.Round(2)
	}
	return b.BillAmount.Mul(lpscEstimateRate).Round(2)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
