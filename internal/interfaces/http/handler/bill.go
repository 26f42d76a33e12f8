package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/domain/billing"
	"github.com/utilibill/backend/internal/domain/shared"
	"github.com/utilibill/backend/internal/interfaces/http/dto"
	"github.com/utilibill/backend/internal/interfaces/http/middleware"
)

// BillHandler handles bill reconciliation and approval endpoints
type BillHandler struct {
	BaseHandler
	approvalService *appbilling.ApprovalService
	payableService  *appbilling.PayableService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(approvalService *appbilling.ApprovalService, payableService *appbilling.PayableService) *BillHandler {
	return &BillHandler{
		approvalService: approvalService,
		payableService:  payableService,
	}
}

// RegisterRoutes registers bill routes
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bills := rg.Group("/bills")
	{
		bills.GET("", h.ListBills)
		bills.GET("/:id", h.GetBill)
		bills.GET("/:id/payable-today", h.PayableToday)
		bills.GET("/:id/approvals", h.ApprovalTrail)
		bills.POST("/:id/approve", h.Approve)
		bills.POST("/:id/reject", h.Reject)
		bills.POST("/:id/unapprove", h.Unapprove)
	}
}

// ListBillsRequest carries bill list query parameters
type ListBillsRequest struct {
	dto.ListRequest
	Status         string `form:"status" binding:"omitempty,oneof=new approved rejected batch payment paid"`
	ConsumerNumber string `form:"consumer_number"`
}

// ListBills returns a filtered page of bills
func (h *BillHandler) ListBills(c *gin.Context) {
	var req ListBillsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	req.Normalize()

	filter := billing.BillFilter{Page: req.Page, PageSize: req.PageSize}
	if req.Status != "" {
		status := billing.BillStatus(req.Status)
		filter.Status = &status
	}
	if req.ConsumerNumber != "" {
		filter.ConsumerNumber = &req.ConsumerNumber
	}

	bills, total, err := h.payableService.ListBills(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, bills, total, req.Page, req.PageSize)
}

// GetBill returns one bill with its charge records
func (h *BillHandler) GetBill(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	bill, err := h.payableService.GetBill(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// PayableToday returns the amount owed if the consumer pays today
func (h *BillHandler) PayableToday(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	view, err := h.payableService.PayableToday(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ApprovalTrail returns the bill's audit trail of approval decisions
func (h *BillHandler) ApprovalTrail(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	trail, err := h.approvalService.Trail(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, trail)
}

// Approve reconciles and approves a bill, optionally with charge edits.
// An empty body approves the charges as persisted.
func (h *BillHandler) Approve(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	operator, ok := h.operator(c)
	if !ok {
		return
	}

	var edits billing.ChargeEdits
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&edits); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	result, err := h.approvalService.Approve(c.Request.Context(), appbilling.ApproveRequest{
		BillID:   billID,
		Operator: operator,
		Edits:    edits,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Reject marks a bill rejected
func (h *BillHandler) Reject(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	bill, err := h.approvalService.Reject(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// Unapprove reopens an approved bill for correction
func (h *BillHandler) Unapprove(c *gin.Context) {
	billID, ok := h.billID(c)
	if !ok {
		return
	}
	bill, err := h.approvalService.Unapprove(c.Request.Context(), billID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

func (h *BillHandler) billID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid bill id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid bill id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BillHandler) operator(c *gin.Context) (appbilling.Operator, bool) {
	id, ok := middleware.GetOperatorID(c)
	email := middleware.GetOperatorEmail(c)
	if !ok || email == "" {
		h.HandleError(c, shared.NewDomainError("MISSING_OPERATOR", "Approving operator identity is required"))
		return appbilling.Operator{}, false
	}
	return appbilling.Operator{ID: id, Email: email}, true
}
