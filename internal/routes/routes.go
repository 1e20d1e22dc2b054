package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medinext-server/internal/analysis"
	"medinext-server/internal/config"
	"medinext-server/internal/handlers"
	"medinext-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, st *store.Store, analysisClient *analysis.Client, cfg *config.Config, logger *zap.Logger) {
	// Initialize handlers
	dashboardHandler := handlers.NewDashboardHandler(st, cfg, logger)
	patientHandler := handlers.NewPatientHandler(st, cfg, logger)
	analysisHandler := handlers.NewAnalysisHandler(st, analysisClient, cfg, logger)

	api := router.Group("/api/v1")
	{
		dashboardRoutes := api.Group("/dashboard")
		{
			dashboardRoutes.GET("/summary", dashboardHandler.GetSummary)
			dashboardRoutes.GET("/activity", dashboardHandler.GetActivity)
		}

		patientRoutes := api.Group("/patients")
		{
			patientRoutes.GET("", patientHandler.ListPatients)
			patientRoutes.GET("/:id", patientHandler.GetPatientByID)
			patientRoutes.POST("/:id/analysis", analysisHandler.RequestAnalysis)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
