package billing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utilibill/backend/internal/domain/shared"
)

func newTestBill(t *testing.T) *Bill {
	t.Helper()
	billDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dueDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
	b, err := NewBill("BN-2024-0001", "CN-77001", billDate, dueDate, d("1000.00"))
	require.NoError(t, err)
	return b
}

func TestNewBill(t *testing.T) {
	t.Run("creates bill with zeroed charge records", func(t *testing.T) {
		b := newTestBill(t)

		assert.Equal(t, BillStatusNew, b.Status)
		assert.Nil(t, b.ApprovedAmount)
		assert.Nil(t, b.BatchID)
		assert.False(t, b.IsValid)
		require.NotNil(t, b.Core)
		require.NotNil(t, b.Regulatory)
		require.NotNil(t, b.Adherence)
		require.NotNil(t, b.Additional)
		assert.True(t, b.Core.Total().IsZero())
		assert.Equal(t, b.ID, b.Core.BillID)
	})

	t.Run("rejects empty bill number", func(t *testing.T) {
		_, err := NewBill("", "CN-1", time.Now(), time.Now().AddDate(0, 0, 20), d("100"))
		require.Error(t, err)
		assert.Equal(t, "INVALID_BILL_NUMBER", err.(*shared.DomainError).Code)
	})

	t.Run("rejects due date before bill date", func(t *testing.T) {
		billDate := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)
		dueDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		_, err := NewBill("BN-1", "CN-1", billDate, dueDate, d("100"))
		require.Error(t, err)
		assert.Equal(t, "INVALID_BILL_DATES", err.(*shared.DomainError).Code)
	})

	t.Run("rejects negative bill amount", func(t *testing.T) {
		_, err := NewBill("BN-1", "CN-1", time.Now(), time.Now().AddDate(0, 0, 20), d("-1"))
		require.Error(t, err)
	})
}

func TestBillStatus(t *testing.T) {
	t.Run("validity", func(t *testing.T) {
		for _, s := range []BillStatus{BillStatusNew, BillStatusApproved, BillStatusRejected, BillStatusBatch, BillStatusPayment, BillStatusPaid} {
			assert.True(t, s.IsValid(), s.String())
		}
		assert.False(t, BillStatus("draft").IsValid())
	})

	t.Run("terminal states", func(t *testing.T) {
		assert.True(t, BillStatusRejected.IsTerminal())
		assert.True(t, BillStatusPayment.IsTerminal())
		assert.True(t, BillStatusPaid.IsTerminal())
		assert.False(t, BillStatusNew.IsTerminal())
		assert.False(t, BillStatusApproved.IsTerminal())
		assert.False(t, BillStatusBatch.IsTerminal())
	})
}

func TestBillApprove(t *testing.T) {
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	t.Run("approves a new bill", func(t *testing.T) {
		b := newTestBill(t)
		initialVersion := b.Version

		err := b.Approve("ops@utilibill.in", d("999.50"), now)
		require.NoError(t, err)

		assert.Equal(t, BillStatusApproved, b.Status)
		require.NotNil(t, b.ApprovedAmount)
		assert.Equal(t, "999.50", b.ApprovedAmount.StringFixed(2))
		assert.True(t, b.IsValid)
		assert.Equal(t, initialVersion+1, b.Version)

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "BillApproved", events[0].EventType())
	})

	t.Run("re-approves an approved bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Approve("ops@utilibill.in", d("999.50"), now))
		require.NoError(t, b.Approve("ops@utilibill.in", d("1000.25"), now.Add(time.Hour)))
		assert.Equal(t, "1000.25", b.ApprovedAmount.StringFixed(2))
	})

	t.Run("rejects missing operator", func(t *testing.T) {
		b := newTestBill(t)
		err := b.Approve("", d("1000"), now)
		require.Error(t, err)
		assert.Equal(t, "MISSING_OPERATOR", err.(*shared.DomainError).Code)
	})

	t.Run("rejects non-positive total", func(t *testing.T) {
		b := newTestBill(t)
		err := b.Approve("ops@utilibill.in", decimal.Zero, now)
		require.Error(t, err)
		assert.Equal(t, "NON_POSITIVE_TOTAL", err.(*shared.DomainError).Code)

		err = b.Approve("ops@utilibill.in", d("-10"), now)
		require.Error(t, err)
	})

	t.Run("cannot approve from rejected", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Reject(now))
		err := b.Approve("ops@utilibill.in", d("1000"), now)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	})

	t.Run("cannot approve a batched bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Approve("ops@utilibill.in", d("1000"), now))
		require.NoError(t, b.AttachToBatch(uuid.New(), now))
		err := b.Approve("ops@utilibill.in", d("1000"), now)
		require.Error(t, err)
	})
}

func TestBillRejectAndUnapprove(t *testing.T) {
	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)

	t.Run("rejects a new bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Reject(now))
		assert.Equal(t, BillStatusRejected, b.Status)
		assert.Nil(t, b.ApprovedAmount)
	})

	t.Run("cannot reject an approved bill", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Approve("ops@utilibill.in", d("1000"), now))
		require.Error(t, b.Reject(now))
	})

	t.Run("unapprove returns bill to new and clears amount", func(t *testing.T) {
		b := newTestBill(t)
		require.NoError(t, b.Approve("ops@utilibill.in", d("1000"), now))
		require.NoError(t, b.Unapprove(now))
		assert.Equal(t, BillStatusNew, b.Status)
		assert.Nil(t, b.ApprovedAmount)
		assert.False(t, b.IsValid)
	})

	t.Run("cannot unapprove a new bill", func(t *testing.T) {
		b := newTestBill(t)
		require.Error(t, b.Unapprove(now))
	})
}

func TestBillBatchTransitions(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	approved := func(t *testing.T) *Bill {
		b := newTestBill(t)
		require.NoError(t, b.Approve("ops@utilibill.in", d("1000"), now))
		return b
	}

	t.Run("attaches approved bill to batch", func(t *testing.T) {
		b := approved(t)
		batchID := uuid.New()
		require.NoError(t, b.AttachToBatch(batchID, now))
		assert.Equal(t, BillStatusBatch, b.Status)
		require.NotNil(t, b.BatchID)
		assert.Equal(t, batchID, *b.BatchID)
	})

	t.Run("cannot attach a new bill", func(t *testing.T) {
		b := newTestBill(t)
		require.Error(t, b.AttachToBatch(uuid.New(), now))
	})

	t.Run("cannot attach twice", func(t *testing.T) {
		b := approved(t)
		require.NoError(t, b.AttachToBatch(uuid.New(), now))
		err := b.AttachToBatch(uuid.New(), now)
		require.Error(t, err)
	})

	t.Run("detach returns bill to approved", func(t *testing.T) {
		b := approved(t)
		require.NoError(t, b.AttachToBatch(uuid.New(), now))
		require.NoError(t, b.DetachFromBatch(now))
		assert.Equal(t, BillStatusApproved, b.Status)
		assert.Nil(t, b.BatchID)
		require.NotNil(t, b.ApprovedAmount)
	})

	t.Run("cannot detach an unbatched bill", func(t *testing.T) {
		b := approved(t)
		require.Error(t, b.DetachFromBatch(now))
	})
}

func TestEffectiveCharges(t *testing.T) {
	b := newTestBill(t)
	editedCore := &CoreCharges{ID: b.Core.ID, BillID: b.ID, EnergyCharge: d("500")}

	core, regulatory, adherence, additional := b.EffectiveCharges(ChargeEdits{Core: editedCore})

	assert.Same(t, editedCore, core)
	assert.Same(t, b.Regulatory, regulatory)
	assert.Same(t, b.Adherence, adherence)
	assert.Same(t, b.Additional, additional)
}
