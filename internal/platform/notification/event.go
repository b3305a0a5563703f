package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/shared"
	"github.com/realestate-cashflow/internal/platform/messaging/producers"
	"github.com/realestate-cashflow/internal/reporting"
)

// EventNotifier publishes a CloseEvent for every stored snapshot
type EventNotifier struct {
	publisher producers.MessagePublisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewEventNotifier(logger *slog.Logger, publisher producers.MessagePublisher) *EventNotifier {
	return &EventNotifier{
		publisher: publisher,
		logger:    logger.With("component", "event_notifier"),
		now:       time.Now,
	}
}

func (n *EventNotifier) NotifyClose(ctx context.Context, notice reporting.CloseNotice) error {
	event := closeEvent(notice, n.now())
	if err := n.publisher.Publish(ctx, event.SnapshotID.String(), event); err != nil {
		return err
	}
	n.logger.Debug("Close event published", "snapshot_id", event.SnapshotID.String(), "correlation_id", event.CorrelationID)
	return nil
}

func closeEvent(notice reporting.CloseNotice, at time.Time) shared.CloseEvent {
	s := notice.Snapshot
	event := shared.CloseEvent{
		SnapshotID:    s.ID,
		RequestID:     notice.RequestID,
		Kind:          string(s.Kind),
		Date:          s.Date.Format(cashflow.DateLayout),
		Status:        shared.CloseRequestStatusCompleted,
		CorrelationID: notice.CorrelationID,
		Timestamp:     at.UTC(),
	}
	if s.DateFrom != nil && s.DateTo != nil {
		event.DateFrom = s.DateFrom.Format(cashflow.DateLayout)
		event.DateTo = s.DateTo.Format(cashflow.DateLayout)
	}
	return event
}
