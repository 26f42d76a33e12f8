package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
)

// attachChunkSize bounds how many item ids go into one attach statement so a
// very large cart cannot produce an unbounded IN clause.
const attachChunkSize = 100

// BatchService assembles approved bills and recharges into payment batches
type BatchService struct {
	batchRepo billing.BatchRepository
	billRepo  billing.BillRepository
	cart      *CartService
	clock     Clock
}

// NewBatchService creates a new BatchService
func NewBatchService(batchRepo billing.BatchRepository, billRepo billing.BillRepository, cart *CartService, clock Clock) *BatchService {
	return &BatchService{
		batchRepo: batchRepo,
		billRepo:  billRepo,
		cart:      cart,
		clock:     clock,
	}
}

// CreateBatchRequest names the batch to create from the operator's cart
type CreateBatchRequest struct {
	OperatorID uuid.UUID
	BatchName  string
}

// CreateBatch turns the operator's cart into a new batch: the validity date
// derives from the earliest pay-by date among the items, the items attach in
// the same transaction as the batch insert, and the cart clears only after
// the commit succeeds.
func (s *BatchService) CreateBatch(ctx context.Context, req CreateBatchRequest) (*billing.Batch, error) {
	cart, err := s.cart.store.Get(ctx, req.OperatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot create a batch from an empty cart")
	}

	validateAt, err := billing.ComputeValidateAt(cart.Items, s.clock.Now())
	if err != nil {
		return nil, err
	}
	batch, err := billing.NewBatch(req.BatchName, validateAt)
	if err != nil {
		return nil, err
	}

	billIDs, rechargeIDs := cart.Partition()
	if err := s.batchRepo.CreateWithItems(ctx, batch, billIDs, rechargeIDs); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	if err := s.cart.Clear(ctx, req.OperatorID); err != nil {
		// The batch committed; a stale cart is recoverable by the operator.
		return batch, fmt.Errorf("batch created but cart not cleared: %w", err)
	}
	return batch, nil
}

// AddItemsRequest attaches the operator's selected items to an open batch
type AddItemsRequest struct {
	OperatorID  uuid.UUID
	BatchID     uuid.UUID
	BillIDs     []uuid.UUID
	RechargeIDs []uuid.UUID
}

// AddItems attaches bills and recharges to an existing open batch. Ids are
// attached in chunks and items already belonging to a batch are skipped, so
// a retried call cannot double-attach. The operator's cart clears once every
// chunk has committed, mirroring CreateBatch.
func (s *BatchService) AddItems(ctx context.Context, req AddItemsRequest) (*billing.Batch, error) {
	batch, err := s.batchRepo.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	if !batch.CanAttachItems() {
		return nil, shared.NewDomainError("BATCH_NOT_OPEN", fmt.Sprintf("Batch is %s and no longer accepts items", batch.Status))
	}

	for _, bills := range chunkIDs(req.BillIDs, attachChunkSize) {
		if err := s.batchRepo.AttachItems(ctx, req.BatchID, bills, nil); err != nil {
			return nil, fmt.Errorf("failed to attach bills: %w", err)
		}
	}
	for _, recharges := range chunkIDs(req.RechargeIDs, attachChunkSize) {
		if err := s.batchRepo.AttachItems(ctx, req.BatchID, nil, recharges); err != nil {
			return nil, fmt.Errorf("failed to attach recharges: %w", err)
		}
	}

	if err := s.cart.Clear(ctx, req.OperatorID); err != nil {
		// The items attached; a stale cart is recoverable by the operator.
		return batch, fmt.Errorf("items attached but cart not cleared: %w", err)
	}
	return batch, nil
}

// RemoveBill detaches a bill from its batch, returning it to approved
func (s *BatchService) RemoveBill(ctx context.Context, billID uuid.UUID) (*billing.Bill, error) {
	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bill: %w", err)
	}
	if err := bill.DetachFromBatch(s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.billRepo.SaveWithLock(ctx, bill); err != nil {
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, nil
}

// ListBatches returns a filtered page of batches
func (s *BatchService) ListBatches(ctx context.Context, filter billing.BatchFilter) ([]billing.Batch, error) {
	return s.batchRepo.FindAll(ctx, filter)
}

// GetBatch loads one batch together with its member bills
func (s *BatchService) GetBatch(ctx context.Context, batchID uuid.UUID) (*billing.Batch, []billing.Bill, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load batch: %w", err)
	}
	bills, err := s.billRepo.FindAll(ctx, billing.BillFilter{BatchID: &batchID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load batch bills: %w", err)
	}
	return batch, bills, nil
}

func chunkIDs(ids []uuid.UUID, size int) [][]uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]uuid.UUID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
