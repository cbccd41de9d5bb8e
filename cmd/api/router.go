package api

import (
	"net/http"

	"brandpulse-backend/internal/feedback/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	r *gin.Engine,
	chatHandler *delivery.ChatHandler,
	uploadHandler *delivery.UploadHandler,
	summaryHandler *delivery.SummaryHandler,
	ingestHandler *delivery.IngestHandler,
	maintenanceHandler *delivery.MaintenanceHandler,
) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Chat / retrieval
		api.POST("/chat", chatHandler.Chat)

		// CSV review upload
		api.POST("/upload/csv", uploadHandler.UploadCSV)

		// Summary (re)generation
		api.POST("/summaries/generate", summaryHandler.Generate)

		// Source-specific ingestion triggers
		ingestGroup := api.Group("/ingest")
		{
			ingestGroup.POST("/reviews", ingestHandler.IngestReviews)
			ingestGroup.POST("/articles", ingestHandler.IngestArticles)
			ingestGroup.POST("/linkedin", ingestHandler.IngestLinkedIn)
			ingestGroup.POST("/insights", ingestHandler.IngestInsights)
		}

		// Maintenance
		api.POST("/maintenance/repair-dates", maintenanceHandler.RepairDates)
	}
}
