package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/realestate-cashflow/internal/close_processor/service"
	"github.com/realestate-cashflow/internal/config"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
	"github.com/realestate-cashflow/internal/domain/shared"
)

// Scheduler queues a totals close for the current day on every tick
type Scheduler struct {
	processor  service.ProcessingService
	logger     *slog.Logger
	interval   time.Duration
	location   *time.Location
	runOnStart bool
	now        func() time.Time
}

func NewScheduler(cfg *config.SchedulerConfig, processor service.ProcessingService, logger *slog.Logger) (*Scheduler, error) {
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load close timezone %q: %w", cfg.Timezone, err)
	}
	return &Scheduler{
		processor:  processor,
		logger:     logger,
		interval:   cfg.Interval,
		location:   location,
		runOnStart: cfg.RunOnStart,
		now:        time.Now,
	}, nil
}

// Start ticks until context is canceled
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting close scheduler",
		"interval", s.interval.String(),
		"timezone", s.location.String(),
		"run_on_start", s.runOnStart,
	)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if s.runOnStart {
		s.runOnce(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Close scheduler stopping due to context cancellation.")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	request := s.request()
	if err := s.processor.ProcessCloseRequest(ctx, request); err != nil {
		s.logger.Error("Scheduled close failed", "request_id", request.RequestID.String(), "date", request.DateTo, "error", err)
		return
	}
	s.logger.Info("Scheduled close stored", "request_id", request.RequestID.String(), "date", request.DateTo)
}

// request covers today's calendar date in the configured zone
func (s *Scheduler) request() *shared.CloseRequest {
	now := s.now().In(s.location)
	today := cashflow.DayWindow(now).From.Format(cashflow.DateLayout)
	requestID := uuid.New()
	return &shared.CloseRequest{
		RequestID:     requestID,
		Kind:          string(closes.KindTotals),
		DateFrom:      today,
		DateTo:        today,
		Source:        shared.CloseRequestSourceScheduler,
		CorrelationID: requestID.String(),
		Timestamp:     now.UTC(),
	}
}
