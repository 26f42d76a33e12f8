package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/utilibill/backend/internal/domain/billing"
)

// MockBillRepository is a mock implementation of billing.BillRepository
type MockBillRepository struct {
	mock.Mock
}

func (m *MockBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Bill), args.Error(1)
}

func (m *MockBillRepository) FindAll(ctx context.Context, filter billing.BillFilter) ([]billing.Bill, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Bill), args.Error(1)
}

func (m *MockBillRepository) Count(ctx context.Context, filter billing.BillFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBillRepository) Save(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) SaveWithLock(ctx context.Context, bill *billing.Bill) error {
	args := m.Called(ctx, bill)
	return args.Error(0)
}

func (m *MockBillRepository) CommitApproval(ctx context.Context, bill *billing.Bill, changed []billing.ChargeRecord, logEntry *billing.ApprovedLog) error {
	args := m.Called(ctx, bill, changed, logEntry)
	return args.Error(0)
}

// MockApprovalLogRepository is a mock implementation of billing.ApprovalLogRepository
type MockApprovalLogRepository struct {
	mock.Mock
}

func (m *MockApprovalLogRepository) Trail(ctx context.Context, billID uuid.UUID) (*billing.ApprovalTrail, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.ApprovalTrail), args.Error(1)
}

// MockBatchRepository is a mock implementation of billing.BatchRepository
type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAll(ctx context.Context, filter billing.BatchFilter) ([]billing.Batch, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Batch), args.Error(1)
}

func (m *MockBatchRepository) CreateWithItems(ctx context.Context, batch *billing.Batch, billIDs, rechargeIDs []uuid.UUID) error {
	args := m.Called(ctx, batch, billIDs, rechargeIDs)
	return args.Error(0)
}

func (m *MockBatchRepository) AttachItems(ctx context.Context, batchID uuid.UUID, billIDs, rechargeIDs []uuid.UUID) error {
	args := m.Called(ctx, batchID, billIDs, rechargeIDs)
	return args.Error(0)
}

// MockRechargeRepository is a mock implementation of billing.RechargeRepository
type MockRechargeRepository struct {
	mock.Mock
}

func (m *MockRechargeRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.PrepaidRecharge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.PrepaidRecharge), args.Error(1)
}

func (m *MockRechargeRepository) Save(ctx context.Context, recharge *billing.PrepaidRecharge) error {
	args := m.Called(ctx, recharge)
	return args.Error(0)
}
