package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/silverledger/backend/internal/application/inventory"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Summaries godoc
// @ID           listStock
// @Summary      Stock on hand per item
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory [get]
func (h *InventoryHandler) Summaries(c *gin.Context) {
	items, err := h.inventoryService.Summaries(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// AddStock godoc
// @ID           addStock
// @Summary      Record stock received
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AddStockRequest true "Stock in"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory [post]
func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req inventoryapp.AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.inventoryService.AddStock(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Movements godoc
// @ID           listStockMovements
// @Summary      Stock log of one item, newest first
// @Tags         inventory
// @Produce      json
// @Param        itemName query string true "Item name"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	itemName := c.Query("itemName")
	if itemName == "" {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "itemName is required")
		return
	}
	req, ok := h.bindList(c)
	if !ok {
		return
	}

	moves, err := h.inventoryService.Movements(c.Request.Context(), itemName, toFilter(req))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessPage(c, moves, len(moves), req)
}
