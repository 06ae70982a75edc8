package dashboard_api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/collections-workflow/internal/dashboard_api/handler"
	"github.com/collections-workflow/internal/dashboard_api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, svc Services) {
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recovery(logger))

	borrowerHandler := handler.NewBorrowerHandler(logger, svc.Borrowers)
	actionHandler := handler.NewActionHandler(logger, svc.Actions)
	reportHandler := handler.NewReportHandler(svc.Reports)
	healthHandler := handler.NewHealthHandler(svc.Store, svc.Audit, svc.Dependencies...)

	v1 := r.Group(handler.APIPrefix)
	{
		borrowers := v1.Group("/borrowers")
		{
			borrowers.GET("", borrowerHandler.List)
			borrowers.POST("/bulk-status", borrowerHandler.BulkUpdateStatus)
			borrowers.GET("/:id", borrowerHandler.GetByID)
			borrowers.GET("/:id/logs", borrowerHandler.GetLogs)
			borrowers.POST("/:id/status", borrowerHandler.UpdateStatus)
			borrowers.POST("/:id/notes", borrowerHandler.AddNote)
			borrowers.POST("/:id/actions/:code", actionHandler.Perform)
			borrowers.GET("/:id/letters/:type", actionHandler.Letter)

			if svc.Archive != nil {
				archiveHandler := handler.NewArchiveHandler(logger, svc.Archive)
				borrowers.GET("/:id/archive", archiveHandler.GetByBorrower)
			}
		}

		workflow := v1.Group("/workflow")
		{
			workflow.GET("/statuses", handler.ListStatuses)
			workflow.GET("/statuses/:status/next", handler.NextStatuses)
			workflow.GET("/groups", handler.ListGroups)
		}

		v1.GET("/logs", borrowerHandler.ListLogs)
		v1.GET("/stats", reportHandler.Stats)
		v1.GET("/reports/portfolio", reportHandler.Portfolio)
	}

	// Health check endpoint for monitoring
	r.GET("/health", healthHandler.Check)
}
