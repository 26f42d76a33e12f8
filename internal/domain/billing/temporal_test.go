package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rebateBill(t *testing.T) *Bill {
	t.Helper()
	billDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	b, err := NewBill("BN-2024-0042", "CN-77042", billDate, dueDate, d("1000.00"))
	require.NoError(t, err)

	discountDate := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	b.DiscountDate = &discountDate
	b.DiscountDateRebate = d("50.00")
	b.DueDateRebate = d("20.00")
	b.PenaltyAmount = d("100.00")
	return b
}

func TestResolvePayableToday(t *testing.T) {
	t.Run("discount rebate wins before discount date", func(t *testing.T) {
		b := rebateBill(t)
		today := time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC)

		result := ResolvePayableToday(b, today)

		assert.Equal(t, "950.00", result.Amount.StringFixed(2))
		require.Len(t, result.Modifiers, 1)
		assert.Equal(t, ModifierDiscountRebate, result.Modifiers[0].Kind)
		assert.Equal(t, "-50.00", result.Modifiers[0].Amount.StringFixed(2))
		assert.False(t, result.Clamped)
		assert.False(t, result.DateAnomaly)
	})

	t.Run("due-date rebate applies between discount and due date", func(t *testing.T) {
		b := rebateBill(t)
		today := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

		result := ResolvePayableToday(b, today)

		assert.Equal(t, "980.00", result.Amount.StringFixed(2))
		require.Len(t, result.Modifiers, 1)
		assert.Equal(t, ModifierDueRebate, result.Modifiers[0].Kind)
	})

	t.Run("penalty applies after due date", func(t *testing.T) {
		b := rebateBill(t)
		today := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)

		result := ResolvePayableToday(b, today)

		assert.Equal(t, "1100.00", result.Amount.StringFixed(2))
		require.Len(t, result.Modifiers, 1)
		assert.Equal(t, ModifierLatePenalty, result.Modifiers[0].Kind)
		assert.Equal(t, "100.00", result.Modifiers[0].Amount.StringFixed(2))
	})

	t.Run("dates compare at day granularity", func(t *testing.T) {
		b := rebateBill(t)

		// Late on the due date itself still earns the due-date rebate.
		onDueDate := time.Date(2024, 1, 20, 23, 59, 59, 0, time.UTC)
		result := ResolvePayableToday(b, onDueDate)
		assert.Equal(t, "980.00", result.Amount.StringFixed(2))

		// The first moment of the following day incurs the penalty.
		dayAfter := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)
		result = ResolvePayableToday(b, dayAfter)
		assert.Equal(t, "1100.00", result.Amount.StringFixed(2))
	})

	t.Run("on discount date the discount rebate still applies", func(t *testing.T) {
		b := rebateBill(t)
		result := ResolvePayableToday(b, time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC))
		assert.Equal(t, "950.00", result.Amount.StringFixed(2))
	})

	t.Run("no rebate configured leaves amount unchanged", func(t *testing.T) {
		b := rebateBill(t)
		b.DiscountDate = nil
		b.DiscountDateRebate = d("0")
		b.DueDateRebate = d("0")

		result := ResolvePayableToday(b, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, "1000.00", result.Amount.StringFixed(2))
		assert.Empty(t, result.Modifiers)
	})

	t.Run("clamps negative result to zero", func(t *testing.T) {
		b := rebateBill(t)
		b.BillAmount = d("30.00")

		result := ResolvePayableToday(b, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
		assert.True(t, result.Amount.IsZero())
		assert.True(t, result.Clamped)
	})

	t.Run("flags discount date past due date", func(t *testing.T) {
		b := rebateBill(t)
		anomalous := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)
		b.DiscountDate = &anomalous

		result := ResolvePayableToday(b, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC))
		assert.True(t, result.DateAnomaly)
		// Both the rebate and the penalty fire in the anomalous window.
		assert.Len(t, result.Modifiers, 2)
		assert.Equal(t, "1050.00", result.Amount.StringFixed(2))
	})
}

func TestEstimateLPSC(t *testing.T) {
	b := rebateBill(t)

	t.Run("uses recorded surcharge when present", func(t *testing.T) {
		adherence := &AdherenceCharges{LPSC: d("37.25")}
		assert.Equal(t, "37.25", EstimateLPSC(b, adherence).StringFixed(2))
	})

	t.Run("falls back to rate on declared amount", func(t *testing.T) {
		assert.Equal(t, "15.00", EstimateLPSC(b, nil).StringFixed(2))
		assert.Equal(t, "15.00", EstimateLPSC(b, &AdherenceCharges{}).StringFixed(2))
	})
}
