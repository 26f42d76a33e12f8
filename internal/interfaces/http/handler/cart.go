package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appbilling "github.com/utilibill/backend/internal/application/billing"
	"github.com/utilibill/backend/internal/interfaces/http/dto"
	"github.com/utilibill/backend/internal/interfaces/http/middleware"
)

// CartHandler handles the operator's payment cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *appbilling.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *appbilling.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers cart routes
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("/items", h.AddItem)
		cart.DELETE("/items/:id", h.RemoveItem)
		cart.DELETE("", h.ClearCart)
	}
}

// AddCartItemRequest adds one payable item to the cart
type AddCartItemRequest struct {
	Kind   string `json:"kind" binding:"required,oneof=bill recharge"`
	ItemID string `json:"item_id" binding:"required,uuid"`
}

// GetCart returns the operator's current cart
func (h *CartHandler) GetCart(c *gin.Context) {
	operatorID, ok := h.operatorID(c)
	if !ok {
		return
	}
	view, err := h.cartService.Get(c.Request.Context(), operatorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// AddItem puts an approved bill or a pending recharge into the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	operatorID, ok := h.operatorID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}

	var view *appbilling.CartView
	if req.Kind == "recharge" {
		view, err = h.cartService.AddRecharge(c.Request.Context(), operatorID, itemID)
	} else {
		view, err = h.cartService.AddBill(c.Request.Context(), operatorID, itemID)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem drops one item from the cart, ignoring ids not present
func (h *CartHandler) RemoveItem(c *gin.Context) {
	operatorID, ok := h.operatorID(c)
	if !ok {
		return
	}
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}
	itemID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid item id")
		return
	}
	view, err := h.cartService.Remove(c.Request.Context(), operatorID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ClearCart empties the operator's cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	operatorID, ok := h.operatorID(c)
	if !ok {
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), operatorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

func (h *CartHandler) operatorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetOperatorID(c)
	if !ok {
		h.Unauthorized(c, "Operator identity is required")
		return uuid.Nil, false
	}
	return id, true
}
