package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/realestate-cashflow/internal/api_gateway/handler"
	"github.com/realestate-cashflow/internal/api_gateway/middleware"
	"github.com/realestate-cashflow/internal/api_gateway/service"
)

// setupRouter configures API routes and middleware for the application.
// CorrelationID runs first so the logger and recovery see the id.
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	privilegedUsers []string,
	cashflowHandler *handler.CashflowHandler,
	closeHandler *handler.CloseHandler,
	healthService service.HealthService,
) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Caller(privilegedUsers))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		cashflow := v1.Group("/cashflow")
		{
			cashflow.GET("/totals", cashflowHandler.Totals)
			cashflow.GET("/close", cashflowHandler.Close)

			closes := cashflow.Group("/closes")
			{
				closes.POST("", closeHandler.CreateTotals)
				closes.POST("/legacy", closeHandler.CreateLegacy)
				closes.POST("/requests", closeHandler.Request)
				closes.GET("", closeHandler.List)
				closes.GET("/latest", closeHandler.Latest)
				closes.GET("/:id", closeHandler.Get)
			}
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		checks := gin.H{}
		for name, err := range healthService.Check(c.Request.Context()) {
			if err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
				checks[name] = "unavailable"
				continue
			}
			checks[name] = "ok"
		}
		c.JSON(code, gin.H{"status": status, "checks": checks, "timestamp": time.Now().UTC()})
	})
}
