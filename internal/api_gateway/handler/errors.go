package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/domain/cashflow"
	"github.com/realestate-cashflow/internal/domain/closes"
)

// respondError maps domain errors onto the envelope. Anything unknown is a 500
// with the generic message; the cause only goes to the log.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, cashflow.ErrPartialWindow),
		errors.Is(err, cashflow.ErrInvertedWindow),
		errors.Is(err, cashflow.ErrInvalidDate),
		errors.Is(err, closes.ErrInvalidKind):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, closes.ErrSnapshotNotFound{}):
		RespondNotFound(c, err.Error())
	default:
		logger.Error("Request failed",
			"path", c.FullPath(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}
