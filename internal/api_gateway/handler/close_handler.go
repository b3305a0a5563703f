package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/api_gateway/service"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
)

// CloseHandler handles HTTP requests for close snapshots
type CloseHandler struct {
	reportService       service.ReportService
	closeRequestService service.CloseRequestService
	logger              *slog.Logger
}

// NewCloseHandler creates a new close handler
func NewCloseHandler(logger *slog.Logger, reportService service.ReportService, closeRequestService service.CloseRequestService) *CloseHandler {
	return &CloseHandler{
		reportService:       reportService,
		closeRequestService: closeRequestService,
		logger:              logger,
	}
}

// CreateTotals computes and stores a totals close
func (h *CloseHandler) CreateTotals(c *gin.Context) {
	h.create(c, closes.KindTotals)
}

// CreateLegacy computes and stores a legacy close; the window is mandatory
func (h *CloseHandler) CreateLegacy(c *gin.Context) {
	h.create(c, closes.KindLegacy)
}

func (h *CloseHandler) create(c *gin.Context, kind closes.Kind) {
	var req CloseRequestBody
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	window, err := cashflow.ParseWindow(req.DateFrom, req.DateTo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = time.Parse(cashflow.DateLayout, req.Date)
		if err != nil {
			respondError(c, h.logger, fmt.Errorf("%w %q, expected %s", cashflow.ErrInvalidDate, req.Date, cashflow.DateLayout))
			return
		}
	}

	snapshot, err := h.reportService.GenerateClose(c.Request.Context(), reporting.CloseCommand{
		Kind:              kind,
		Window:            window,
		Date:              date,
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

// Request queues a close for the close processor and answers 202
func (h *CloseHandler) Request(c *gin.Context) {
	var req AsyncCloseRequestBody
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	kind, err := closes.ParseKind(req.Kind)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Reject here what the processor would only send to the DLQ
	window, err := cashflow.ParseWindow(req.DateFrom, req.DateTo)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if kind == closes.KindLegacy && window == nil {
		respondError(c, h.logger, cashflow.ErrPartialWindow)
		return
	}

	closeRequest := &shared.CloseRequest{
		RequestID:     uuid.New(),
		Kind:          string(kind),
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		RequestedBy:   middleware.GetCaller(c),
		Source:        shared.CloseRequestSourceAPI,
		CorrelationID: middleware.GetCorrelationID(c),
		Timestamp:     time.Now().UTC(),
	}

	if err := h.closeRequestService.RequestClose(c.Request.Context(), closeRequest); err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondAccepted(c, CloseRequestAccepted{
		RequestID: closeRequest.RequestID.String(),
		Status:    string(shared.CloseRequestStatusPending),
	})
}

// List pages through stored closes, newest first
func (h *CloseHandler) List(c *gin.Context) {
	var query ListClosesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	snapshots, total, err := h.reportService.ListCloses(c.Request.Context(), closes.Kind(query.Kind), query.Page, query.PerPage)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	rows := make([]SnapshotSummaryResponse, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, toSnapshotSummary(s))
	}

	RespondWithPaginatedData(c, http.StatusOK, rows, query.Page, query.PerPage, int(total))
}

// Latest returns the newest stored close of ?kind (totals by default)
func (h *CloseHandler) Latest(c *gin.Context) {
	kind, err := closes.ParseKind(c.Query("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	snapshot, err := h.reportService.GetLatestClose(c.Request.Context(), kind)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, toSnapshotResponse(snapshot))
}

// Get returns one stored close by id
func (h *CloseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid close ID")
		return
	}

	snapshot, err := h.reportService.GetClose(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	RespondOK(c, toSnapshotResponse(snapshot))
}

// bindOptionalJSON treats an empty body as the zero request
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
