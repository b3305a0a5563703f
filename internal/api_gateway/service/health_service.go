package service

import (
	"context"
	"log/slog"
)

// HealthServiceImpl pings each named dependency
type HealthServiceImpl struct {
	deps   map[string]Pinger
	logger *slog.Logger
}

// NewHealthService creates a health service over the named dependencies
func NewHealthService(logger *slog.Logger, deps map[string]Pinger) HealthService {
	return &HealthServiceImpl{
		deps:   deps,
		logger: logger,
	}
}

// Check returns one entry per dependency; a nil value means healthy
func (s *HealthServiceImpl) Check(ctx context.Context) map[string]error {
	results := make(map[string]error, len(s.deps))
	for name, dep := range s.deps {
		err := dep.Ping(ctx)
		if err != nil {
			s.logger.Warn("Health check failed", "dependency", name, "error", err)
		}
		results[name] = err
	}
	return results
}
