package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
)

// CartStore persists per-operator carts between requests. Implementations
// live in infrastructure (redis for deployments, in-memory for tests and
// single-node setups).
type CartStore interface {
	Get(ctx context.Context, operatorID uuid.UUID) (*billing.Cart, error)
	Put(ctx context.Context, operatorID uuid.UUID, cart *billing.Cart) error
	Delete(ctx context.Context, operatorID uuid.UUID) error
}

// CartService manages the operator's pre-batch cart
type CartService struct {
	store        CartStore
	billRepo     billing.BillRepository
	rechargeRepo billing.RechargeRepository
}

// NewCartService creates a new CartService
func NewCartService(store CartStore, billRepo billing.BillRepository, rechargeRepo billing.RechargeRepository) *CartService {
	return &CartService{
		store:        store,
		billRepo:     billRepo,
		rechargeRepo: rechargeRepo,
	}
}

// CartView is the cart plus its display total
type CartView struct {
	Items []billing.CartItem `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// Get returns the operator's current cart
func (s *CartService) Get(ctx context.Context, operatorID uuid.UUID) (*CartView, error) {
	cart, err := s.store.Get(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &CartView{Items: cart.Items, Total: cart.Total()}, nil
}

// AddBill puts an approved, unbatched bill into the operator's cart. The
// cart entry carries the approved amount and the bill's due date.
func (s *CartService) AddBill(ctx context.Context, operatorID, billID uuid.UUID) (*CartView, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if bill.Status != billing.BillStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Only approved bills can join a cart, bill is %s", bill.Status))
	}
	if bill.BatchID != nil {
		return nil, shared.NewDomainError("ALREADY_BATCHED", "Bill already belongs to a batch")
	}
	if bill.ApprovedAmount == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Approved bill has no approved amount")
	}

	cart, err := s.store.Get(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := cart.Add(billing.CartItem{
		Kind:   billing.CartItemBill,
		ItemID: bill.ID,
		Label:  bill.BillNumber,
		Amount: *bill.ApprovedAmount,
		PayBy:  bill.DueDate,
	}); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, operatorID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return &CartView{Items: cart.Items, Total: cart.Total()}, nil
}

// AddRecharge puts an unbatched prepaid recharge into the operator's cart
func (s *CartService) AddRecharge(ctx context.Context, operatorID, rechargeID uuid.UUID) (*CartView, error) {
	recharge, err := s.rechargeRepo.FindByID(ctx, rechargeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recharge: %w", err)
	}
	if recharge.BatchID != nil {
		return nil, shared.NewDomainError("ALREADY_BATCHED", "Recharge already belongs to a batch")
	}

	cart, err := s.store.Get(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := cart.Add(billing.CartItem{
		Kind:   billing.CartItemRecharge,
		ItemID: recharge.ID,
		Label:  recharge.ConsumerNumber,
		Amount: recharge.RechargeAmount,
		PayBy:  recharge.RechargeDate,
	}); err != nil {
		return nil, err
	}
	if err := s.store.Put(ctx, operatorID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return &CartView{Items: cart.Items, Total: cart.Total()}, nil
}

// Remove drops an item from the operator's cart; removing an absent item is
// not an error.
func (s *CartService) Remove(ctx context.Context, operatorID, itemID uuid.UUID) (*CartView, error) {
	cart, err := s.store.Get(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	cart.Remove(itemID)
	if err := s.store.Put(ctx, operatorID, cart); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return &CartView{Items: cart.Items, Total: cart.Total()}, nil
}

// Clear empties the operator's cart
func (s *CartService) Clear(ctx context.Context, operatorID uuid.UUID) error {
	return s.store.Delete(ctx, operatorID)
}
