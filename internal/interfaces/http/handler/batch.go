package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/interfaces/http/dto"
	"github.com/utilibill/backend/internal/interfaces/http/middleware"
)

// BatchHandler handles payment batch endpoints
type BatchHandler struct {
	BaseHandler
	batchService *appbilling.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *appbilling.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// RegisterRoutes registers batch routes
func (h *BatchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	batches := rg.Group("/batches")
	{
		batches.GET("", h.ListBatches)
		batches.POST("", h.CreateBatch)
		batches.GET("/:id", h.GetBatch)
		batches.POST("/:id/items", h.AddItems)
	}
	rg.POST("/batch-items/bills/:id/remove", h.RemoveBill)
}

// CreateBatchRequest names the batch built from the operator's cart
type CreateBatchRequest struct {
	BatchName string `json:"batch_name" binding:"required,max=128"`
}

// AddBatchItemsRequest attaches approved bills and pending recharges
type AddBatchItemsRequest struct {
	BillIDs     []string `json:"bill_ids" binding:"omitempty,dive,uuid"`
	RechargeIDs []string `json:"recharge_ids" binding:"omitempty,dive,uuid"`
}

// ListBatchesRequest carries batch list query parameters
type ListBatchesRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=unpaid processing paid"`
}

// GetBatchResponse pairs a batch with its member bills
type GetBatchResponse struct {
	Batch *billing.Batch `json:"batch"`
	Bills []billing.Bill `json:"bills"`
}

// ListBatches returns a filtered page of batches
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var req ListBatchesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.Normalize()

	filter := billing.BatchFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := billing.BatchStatus(req.Status)
		filter.Status = &status
	}

	batches, err := h.batchService.ListBatches(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// CreateBatch creates a batch from the operator's cart
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		h.Unauthorized(c, "Operator identity is required")
		return
	}
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	batch, err := h.batchService.CreateBatch(c.Request.Context(), appbilling.CreateBatchRequest{
		OperatorID: operatorID,
		BatchName:  req.BatchName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, batch)
}

// GetBatch returns one batch with its member bills
func (h *BatchHandler) GetBatch(c *gin.Context) {
	batchID, ok := h.batchID(c)
	if !ok {
		return
	}
	batch, bills, err := h.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, GetBatchResponse{Batch: batch, Bills: bills})
}

// AddItems attaches more items to an open batch and empties the cart
func (h *BatchHandler) AddItems(c *gin.Context) {
	operatorID, ok := middleware.GetOperatorID(c)
	if !ok {
		h.Unauthorized(c, "Operator identity is required")
		return
	}
	batchID, ok := h.batchID(c)
	if !ok {
		return
	}
	var req AddBatchItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	billIDs, err := parseUUIDs(req.BillIDs)
	if err != nil {
		h.BadRequest(c, "Invalid bill id")
		return
	}
	rechargeIDs, err := parseUUIDs(req.RechargeIDs)
	if err != nil {
		h.BadRequest(c, "Invalid recharge id")
		return
	}

	batch, err := h.batchService.AddItems(c.Request.Context(), appbilling.AddItemsRequest{
		OperatorID:  operatorID,
		BatchID:     batchID,
		BillIDs:     billIDs,
		RechargeIDs: rechargeIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batch)
}

// RemoveBill detaches a bill from its batch and restores it to approved
func (h *BatchHandler) RemoveBill(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid bill id")
		return
	}
	billID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid bill id")
		return
	}
	bill, err := h.batchService.RemoveBill(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

func (h *BatchHandler) batchID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid batch id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid batch id")
		return uuid.Nil, false
	}
	return id, true
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
