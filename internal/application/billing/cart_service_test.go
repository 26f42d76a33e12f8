package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
)

// mapCartStore is a map-backed CartStore for tests
type mapCartStore struct {
	carts map[uuid.UUID]*billing.Cart
}

func newMapCartStore() *mapCartStore {
	return &mapCartStore{carts: make(map[uuid.UUID]*billing.Cart)}
}

func (s *mapCartStore) Get(_ context.Context, operatorID uuid.UUID) (*billing.Cart, error) {
	if cart, ok := s.carts[operatorID]; ok {
		return cart, nil
	}
	return &billing.Cart{}, nil
}

func (s *mapCartStore) Put(_ context.Context, operatorID uuid.UUID, cart *billing.Cart) error {
	s.carts[operatorID] = cart
	return nil
}

func (s *mapCartStore) Delete(_ context.Context, operatorID uuid.UUID) error {
	delete(s.carts, operatorID)
	return nil
}

func approvedTestBill(t *testing.T) *billing.Bill {
	t.Helper()
	bill := reconciledBill(t, "1000.00")
	require.NoError(t, bill.Approve("ops@utilibill.in", dec("1000.00"), testNow))
	return bill
}

func newCartFixture(t *testing.T) (*CartService, *mapCartStore, *MockBillRepository, *MockRechargeRepository) {
	t.Helper()
	store := newMapCartStore()
	billRepo := new(MockBillRepository)
	rechargeRepo := new(MockRechargeRepository)
	return NewCartService(store, billRepo, rechargeRepo), store, billRepo, rechargeRepo
}

func TestCartServiceAddBill(t *testing.T) {
	operatorID := uuid.New()

	t.Run("adds an approved bill with its due date and approved amount", func(t *testing.T) {
		svc, _, billRepo, _ := newCartFixture(t)
		bill := approvedTestBill(t)
		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		view, err := svc.AddBill(context.Background(), operatorID, bill.ID)

		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, billing.CartItemBill, view.Items[0].Kind)
		assert.Equal(t, bill.BillNumber, view.Items[0].Label)
		assert.Equal(t, bill.DueDate, view.Items[0].PayBy)
		assert.Equal(t, "1000.00", view.Total.StringFixed(2))
	})

	t.Run("rejects unapproved bills", func(t *testing.T) {
		svc, _, billRepo, _ := newCartFixture(t)
		bill := reconciledBill(t, "1000.00")
		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		_, err := svc.AddBill(context.Background(), operatorID, bill.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	})

	t.Run("rejects already batched bills", func(t *testing.T) {
		svc, _, billRepo, _ := newCartFixture(t)
		bill := approvedTestBill(t)
		require.NoError(t, bill.AttachToBatch(uuid.New(), testNow))
		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		_, err := svc.AddBill(context.Background(), operatorID, bill.ID)
		require.Error(t, err)
		assert.Equal(t, "INVALID_STATE", err.(*shared.DomainError).Code)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		svc, _, billRepo, _ := newCartFixture(t)
		bill := approvedTestBill(t)
		billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

		_, err := svc.AddBill(context.Background(), operatorID, bill.ID)
		require.NoError(t, err)
		_, err = svc.AddBill(context.Background(), operatorID, bill.ID)
		require.Error(t, err)
		assert.Equal(t, "ALREADY_IN_CART", err.(*shared.DomainError).Code)
	})
}

func TestCartServiceAddRecharge(t *testing.T) {
	operatorID := uuid.New()

	t.Run("adds an unbatched recharge", func(t *testing.T) {
		svc, _, _, rechargeRepo := newCartFixture(t)
		recharge, err := billing.NewPrepaidRecharge("CN-77009", dec("250.50"), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		rechargeRepo.On("FindByID", mock.Anything, recharge.ID).Return(recharge, nil)

		view, err := svc.AddRecharge(context.Background(), operatorID, recharge.ID)

		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, billing.CartItemRecharge, view.Items[0].Kind)
		assert.Equal(t, "CN-77009", view.Items[0].Label)
	})

	t.Run("rejects batched recharges", func(t *testing.T) {
		svc, _, _, rechargeRepo := newCartFixture(t)
		recharge, err := billing.NewPrepaidRecharge("CN-77009", dec("250.50"), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		batchID := uuid.New()
		recharge.BatchID = &batchID
		rechargeRepo.On("FindByID", mock.Anything, recharge.ID).Return(recharge, nil)

		_, err = svc.AddRecharge(context.Background(), operatorID, recharge.ID)
		require.Error(t, err)
		assert.Equal(t, "ALREADY_BATCHED", err.(*shared.DomainError).Code)
	})
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	operatorID := uuid.New()
	svc, store, billRepo, _ := newCartFixture(t)
	bill := approvedTestBill(t)
	billRepo.On("FindByID", mock.Anything, bill.ID).Return(bill, nil)

	_, err := svc.AddBill(context.Background(), operatorID, bill.ID)
	require.NoError(t, err)

	t.Run("removing an absent item is not an error", func(t *testing.T) {
		view, err := svc.Remove(context.Background(), operatorID, uuid.New())
		require.NoError(t, err)
		assert.Len(t, view.Items, 1)
	})

	t.Run("removes the item", func(t *testing.T) {
		view, err := svc.Remove(context.Background(), operatorID, bill.ID)
		require.NoError(t, err)
		assert.Empty(t, view.Items)
	})

	t.Run("clear empties the store", func(t *testing.T) {
		_, err := svc.AddBill(context.Background(), operatorID, bill.ID)
		require.NoError(t, err)
		require.NoError(t, svc.Clear(context.Background(), operatorID))
		assert.Empty(t, store.carts)
	})
}
