package reporting

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
)

// TotalsComposer computes the totals report
type TotalsComposer interface {
	ComputeTotals(ctx context.Context, window *cashflow.Window, opts ComposeOptions) (*cashflow.Report, error)
}

// LegacyCloseGenerator computes the legacy report
type LegacyCloseGenerator interface {
	Generate(ctx context.Context, window cashflow.Window) (*cashflow.LegacyReport, error)
}

// CloseNotice describes a stored snapshot to side channels
type CloseNotice struct {
	Snapshot      *closes.Snapshot
	Summary       *cashflow.SummarySection // nil for legacy closes
	RequestID     *uuid.UUID
	CorrelationID string
}

// Notifier is told about every stored snapshot. Failures never fail the close.
type Notifier interface {
	NotifyClose(ctx context.Context, notice CloseNotice) error
}

// CloseCommand asks for one snapshot
type CloseCommand struct {
	Kind              closes.Kind
	Window            *cashflow.Window
	Date              time.Time // report date; defaults to the window end or today
	RequestedBy       string
	IncludeRestricted bool
	RequestID         *uuid.UUID
	CorrelationID     string
}

// Closer generates, stores and announces close snapshots
type Closer struct {
	composer  TotalsComposer
	legacy    LegacyCloseGenerator
	store     closes.Repository
	notifiers []Notifier
	logger    *slog.Logger
	now       func() time.Time
}

func NewCloser(logger *slog.Logger, composer TotalsComposer, legacy LegacyCloseGenerator, store closes.Repository, notifiers ...Notifier) *Closer {
	return &Closer{
		composer:  composer,
		legacy:    legacy,
		store:     store,
		notifiers: notifiers,
		logger:    logger.With("component", "closer"),
		now:       time.Now,
	}
}

// Compute returns the totals report without persisting it
func (c *Closer) Compute(ctx context.Context, window *cashflow.Window, opts ComposeOptions) (*cashflow.Report, error) {
	return c.composer.ComputeTotals(ctx, window, opts)
}

// Close generates the report for cmd and always inserts a new snapshot.
// Running it twice for the same window yields two snapshots.
func (c *Closer) Close(ctx context.Context, cmd CloseCommand) (*closes.Snapshot, error) {
	if cmd.Kind == "" {
		cmd.Kind = closes.KindTotals
	}

	var (
		payload any
		summary *cashflow.SummarySection
	)
	switch cmd.Kind {
	case closes.KindTotals:
		report, err := c.composer.ComputeTotals(ctx, cmd.Window, ComposeOptions{IncludeRestricted: cmd.IncludeRestricted})
		if err != nil {
			return nil, fmt.Errorf("failed to compute totals close: %w", err)
		}
		payload, summary = report, &report.Summary
	case closes.KindLegacy:
		if cmd.Window == nil {
			return nil, cashflow.ErrPartialWindow
		}
		report, err := c.legacy.Generate(ctx, *cmd.Window)
		if err != nil {
			return nil, fmt.Errorf("failed to compute legacy close: %w", err)
		}
		payload = report
	default:
		return nil, closes.ErrInvalidKind
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal close report: %w", err)
	}

	snapshot := closes.NewSnapshot(cmd.Kind, c.reportDate(cmd), cmd.Window, cmd.RequestedBy, raw)
	if err := c.store.Save(ctx, snapshot); err != nil {
		return nil, err
	}

	c.logger.Info("close snapshot stored",
		"snapshot_id", snapshot.ID.String(),
		"kind", string(snapshot.Kind),
		"date", snapshot.Date.Format(cashflow.DateLayout),
		"correlation_id", cmd.CorrelationID)

	c.notify(ctx, CloseNotice{
		Snapshot:      snapshot,
		Summary:       summary,
		RequestID:     cmd.RequestID,
		CorrelationID: cmd.CorrelationID,
	})

	return snapshot, nil
}

// Latest reads the newest stored snapshot of kind without regenerating
func (c *Closer) Latest(ctx context.Context, kind closes.Kind) (*closes.Snapshot, error) {
	return c.store.GetLatest(ctx, kind)
}

// Get reads one stored snapshot
func (c *Closer) Get(ctx context.Context, id uuid.UUID) (*closes.Snapshot, error) {
	return c.store.GetByID(ctx, id)
}

// List pages through stored snapshots, newest first, with the total count
func (c *Closer) List(ctx context.Context, kind closes.Kind, limit, offset int) ([]*closes.Snapshot, int64, error) {
	snapshots, err := c.store.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := c.store.Count(ctx, kind)
	if err != nil {
		return nil, 0, err
	}
	return snapshots, total, nil
}

func (c *Closer) reportDate(cmd CloseCommand) time.Time {
	switch {
	case !cmd.Date.IsZero():
		return cashflow.DayWindow(cmd.Date).From
	case cmd.Window != nil:
		return cmd.Window.To
	default:
		return cashflow.DayWindow(c.now()).From
	}
}

func (c *Closer) notify(ctx context.Context, notice CloseNotice) {
	for _, n := range c.notifiers {
		if err := n.NotifyClose(ctx, notice); err != nil {
			c.logger.Warn("close notification failed",
				"snapshot_id", notice.Snapshot.ID.String(),
				"notifier", fmt.Sprintf("%T", n),
				"error", err)
		}
	}
}
