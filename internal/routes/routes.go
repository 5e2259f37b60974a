package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medic-server/internal/handlers"
	"medic-server/internal/notify"
	"medic-server/internal/repository"
	"medic-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, st *store.Store, meds *repository.MedicationRepository, statuses *repository.StatusRepository, notifier notify.Notifier, logger *zap.Logger) {
	// Initialize handlers
	medicationHandler := handlers.NewMedicationHandler(meds, statuses, notifier, logger)
	statusHandler := handlers.NewStatusHandler(meds, statuses, notifier, logger)
	firstRunHandler := handlers.NewFirstRunHandler(st)

	api := router.Group("/api/v1")
	{
		medicationRoutes := api.Group("/medications")
		{
			medicationRoutes.GET("", medicationHandler.ListMedications)
			medicationRoutes.POST("", medicationHandler.CreateMedication)
			medicationRoutes.PUT("/:id", medicationHandler.UpdateMedication)
			medicationRoutes.DELETE("/:id", medicationHandler.DeleteMedication)

			// Reminder prompt actions for a single medication
			medicationRoutes.POST("/:id/status", statusHandler.RecordStatus)
			medicationRoutes.POST("/:id/snooze", statusHandler.Snooze)
		}

		api.GET("/statuses", statusHandler.ListStatuses)

		api.GET("/first-run", firstRunHandler.GetFirstRun)
		api.POST("/first-run", firstRunHandler.MarkVisited)
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
