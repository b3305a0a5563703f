package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/reporting"
)

// ReportService defines the interface for report and snapshot operations
type ReportService interface {
	// ComputeTotals builds the totals report without persisting it
	ComputeTotals(ctx context.Context, window *cashflow.Window, opts reporting.ComposeOptions) (*cashflow.Report, error)

	// GenerateClose builds a report of the command's kind and stores a new snapshot
	GenerateClose(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error)

	// GetLatestClose returns the newest snapshot of kind
	// Returns ErrSnapshotNotFound if none was ever stored
	GetLatestClose(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error)

	// GetClose returns one snapshot
	// Returns ErrSnapshotNotFound if the id is unknown
	GetClose(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error)

	// ListCloses returns a page of snapshots, newest first, and the total count
	ListCloses(ctx context.Context, kind closes.Kind, page, perPage int) ([]*closes.Snapshot, int64, error)
}

// CloseRequestService defines the interface for asynchronous close requests
type CloseRequestService interface {
	// RequestClose publishes the request for the close processor
	RequestClose(ctx context.Context, req *shared.CloseRequest) error
}

// HealthService reports whether the backing stores are reachable
type HealthService interface {
	Check(ctx context.Context) map[string]error
}

// CloseManager is the slice of reporting.Closer the gateway depends on
type CloseManager interface {
	Compute(ctx context.Context, window *cashflow.Window, opts reporting.ComposeOptions) (*cashflow.Report, error)
	Close(ctx context.Context, cmd reporting.CloseCommand) (*closes.Snapshot, error)
	Latest(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error)
	Get(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error)
	List(ctx context.Context, kind closes.Kind, limit, offset int) ([]*closes.Snapshot, int64, error)
}

// Pinger is implemented by the persistence clients
type Pinger interface {
	Ping(ctx context.Context) error
}
