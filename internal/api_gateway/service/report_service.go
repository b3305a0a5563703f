package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/reporting"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	closer CloseManager
	logger *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, closer CloseManager) ReportService {
	return &ReportServiceImpl{
		closer: closer,
		logger: logger,
	}
}

func (s *ReportServiceImpl) ComputeTotals(ctx context.Context, window *cashflow.Window, opts reporting.ComposeOptions) (*cashflow.Report, error) {
	report, err := s.closer.Compute(ctx, window, opts)
	if err != nil {
		s.logger.Error("Failed to compute totals report",
			"window", windowAttr(window),
			"include_restricted", opts.IncludeRestricted,
			"error", err,
		)
		return nil, err
	}
	return report, nil
}

func (s *ReportServiceImpl) GenerateClose(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error) {
	snapshot, err := s.closer.Close(ctx, cmd)
	if err != nil {
		s.logger.Error("Failed to generate close",
			"kind", string(cmd.Kind),
			"window", windowAttr(cmd.Window),
			"requested_by", cmd.RequestedBy,
			"correlation_id", cmd.CorrelationID,
			"error", err,
		)
		return nil, err
	}
	return snapshot, nil
}

func (s *ReportServiceImpl) GetLatestClose(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	snapshot, err := s.closer.Latest(ctx, kind)
	if err != nil {
		if errors.Is(err, closes.ErrSnapshotNotFound{}) {
			s.logger.Info("No close snapshot stored yet", "kind", string(kind))
			return nil, err
		}
		s.logger.Error("Failed to get latest close", "kind", string(kind), "error", err)
		return nil, err
	}
	return snapshot, nil
}

func (s *ReportServiceImpl) GetClose(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	snapshot, err := s.closer.Get(ctx, id)
	if err != nil {
		if errors.Is(err, closes.ErrSnapshotNotFound{}) {
			s.logger.Info("Close snapshot not found", "snapshot_id", id.String())
			return nil, err
		}
		s.logger.Error("Failed to get close by ID", "snapshot_id", id.String(), "error", err)
		return nil, err
	}
	return snapshot, nil
}

// ListCloses converts page/perPage to limit/offset
func (s *ReportServiceImpl) ListCloses(ctx context.Context, kind closes.Kind, page, perPage int) ([]*closes.Snapshot, int64, error) {
	offset := (page - 1) * perPage

	snapshots, total, err := s.closer.List(ctx, kind, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list closes", "kind", string(kind), "page", page, "per_page", perPage, "error", err)
		return nil, 0, err
	}
	return snapshots, total, nil
}

func windowAttr(w *cashflow.Window) string {
	if w == nil {
		return "all"
	}
	return w.String()
}
