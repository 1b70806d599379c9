package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/silverledger/backend/internal/application/report"
)

// ReportHandler serves the read-only summaries
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily godoc
// @ID           dailySummary
// @Summary      Today's sales and collections
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	resp, err := h.reportService.DailySummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Outstanding godoc
// @ID           outstandingBalances
// @Summary      Customers who owe money, largest first
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /reports/outstanding [get]
func (h *ReportHandler) Outstanding(c *gin.Context) {
	resp, err := h.reportService.Outstanding(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
