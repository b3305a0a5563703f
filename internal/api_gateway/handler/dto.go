package handler

import (
	"encoding/json"
	"time"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
)

// WindowQuery carries an optional date window on query strings
type WindowQuery struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Entity   string `form:"entity"`
}

// CloseQuery is the query of GET /cashflow/close
type CloseQuery struct {
	WindowQuery
	Generate bool `form:"generate"`
}

// CloseRequestBody represents a request to generate a close
type CloseRequestBody struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Date     string `json:"date,omitempty"`
}

// AsyncCloseRequestBody represents a request to queue a close for the processor
type AsyncCloseRequestBody struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
	Kind     string `json:"kind" binding:"omitempty,oneof=totals legacy"`
}

// ListClosesQuery represents the filters of the snapshot listing
type ListClosesQuery struct {
	Kind string `form:"kind" binding:"omitempty,oneof=totals legacy"`
	PaginationParams
}

// CloseRequestAccepted is returned once a close request is queued
type CloseRequestAccepted struct {
	RequestID string `json:"request_id"`
	Status    string `json:"status"`
}

// SnapshotSummaryResponse is a listing row; the report body is omitted
type SnapshotSummaryResponse struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Date        string `json:"date"`
	DateFrom    string `json:"date_from,omitempty"`
	DateTo      string `json:"date_to,omitempty"`
	GeneratedAt string `json:"generated_at"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// SnapshotResponse represents a stored close with its report in API responses
type SnapshotResponse struct {
	SnapshotSummaryResponse
	Report json.RawMessage `json:"report"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func toSnapshotSummary(s *closes.Snapshot) SnapshotSummaryResponse {
	resp := SnapshotSummaryResponse{
		ID:          s.ID.String(),
		Kind:        string(s.Kind),
		Date:        s.Date.Format(cashflow.DateLayout),
		GeneratedAt: s.GeneratedAt.Format(time.RFC3339),
		RequestedBy: s.RequestedBy,
	}
	if s.DateFrom != nil {
		resp.DateFrom = s.DateFrom.Format(cashflow.DateLayout)
	}
	if s.DateTo != nil {
		resp.DateTo = s.DateTo.Format(cashflow.DateLayout)
	}
	return resp
}

func toSnapshotResponse(s *closes.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		SnapshotSummaryResponse: toSnapshotSummary(s),
		Report:                  s.Report,
	}
}
