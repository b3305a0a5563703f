package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/api_gateway/service"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/reporting"
)

// CashflowHandler serves on-demand cash-flow reports
type CashflowHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewCashflowHandler creates a new cash-flow handler
func NewCashflowHandler(logger *slog.Logger, reportService service.ReportService) *CashflowHandler {
	return &CashflowHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Totals computes the totals report for the optional window without storing it
func (h *CashflowHandler) Totals(c *gin.Context) {
	var query WindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	window, err := cashflow.ParseWindow(query.DateFrom, query.DateTo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.reportService.ComputeTotals(c.Request.Context(), window, reporting.ComposeOptions{
		IncludeRestricted: middleware.IsPrivileged(c),
		Entity:            query.Entity,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, report)
}

// Close returns the latest stored totals close, or generates and stores a new one
// when generate=true
func (h *CashflowHandler) Close(c *gin.Context) {
	var query CloseQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if !query.Generate {
		snapshot, err := h.reportService.GetLatestClose(c.Request.Context(), closes.KindTotals)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		RespondOK(c, toSnapshotResponse(snapshot))
		return
	}

	window, err := cashflow.ParseWindow(query.DateFrom, query.DateTo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	snapshot, err := h.reportService.GenerateClose(c.Request.Context(), reporting.CloseCommand{
		Kind:              closes.KindTotals,
		Window:            window,
		RequestedBy:       middleware.GetCaller(c),
		IncludeRestricted: middleware.IsPrivileged(c),
		CorrelationID:     middleware.GetCorrelationID(c),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondCreated(c, toSnapshotResponse(snapshot))
}
