package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	rateapp "github.com/silverledger/backend/internal/application/rate"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
)

// maxHistoryDays bounds the history window a client can ask for
const maxHistoryDays = 365

// RateHandler handles silver rate endpoints
type RateHandler struct {
	BaseHandler
	rateService *rateapp.Service
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService *rateapp.Service) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// Current godoc
// @ID           currentRate
// @Summary      Latest silver rate per kilogram
// @Tags         rates
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Security     BearerAuth
// @Router       /silver-rates [get]
func (h *RateHandler) Current(c *gin.Context) {
	resp, err := h.rateService.GetCurrent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetManual godoc
// @ID           setRate
// @Summary      Record a manually entered rate
// @Tags         rates
// @Accept       json
// @Produce      json
// @Param        request body rateapp.SetRateRequest true "Rate"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /silver-rates [post]
func (h *RateHandler) SetManual(c *gin.Context) {
	var req rateapp.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.rateService.SetManual(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// History godoc
// @ID           rateHistory
// @Summary      Rates of the last days, oldest first
// @Tags         rates
// @Produce      json
// @Param        days query int false "Window in days" default(7)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Security     BearerAuth
// @Router       /silver-rates/history [get]
func (h *RateHandler) History(c *gin.Context) {
	days := rateapp.DefaultHistoryDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxHistoryDays {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "days must be between 1 and 365")
			return
		}
		days = n
	}

	rates, err := h.rateService.History(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rates)
}
