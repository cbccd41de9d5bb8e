package delivery

import (
	"net/http"

	"brandpulse-backend/internal/ingest"

	"github.com/gin-gonic/gin"
)

// IngestHandler triggers the source-specific ingestion jobs. A nil job
// means its credential is not configured; the endpoint reports that instead
// of failing at startup.
type IngestHandler struct {
	placesJob   *ingest.PlacesJob
	newsJob     *ingest.NewsJob
	linkedInJob *ingest.LinkedInJob
	insightJob  *ingest.InsightJob
}

func NewIngestHandler(placesJob *ingest.PlacesJob, newsJob *ingest.NewsJob, linkedInJob *ingest.LinkedInJob, insightJob *ingest.InsightJob) *IngestHandler {
	return &IngestHandler{
		placesJob:   placesJob,
		newsJob:     newsJob,
		linkedInJob: linkedInJob,
		insightJob:  insightJob,
	}
}

// POST /api/ingest/reviews
func (h *IngestHandler) IngestReviews(c *gin.Context) {
	if h.placesJob == nil {
		notConfigured(c, "PLACES_API_KEY")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": h.placesJob.Run(c.Request.Context())})
}

// POST /api/ingest/articles
func (h *IngestHandler) IngestArticles(c *gin.Context) {
	if h.newsJob == nil {
		notConfigured(c, "GNEWS_API_KEY")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": h.newsJob.Run(c.Request.Context())})
}

// POST /api/ingest/linkedin
func (h *IngestHandler) IngestLinkedIn(c *gin.Context) {
	if h.linkedInJob == nil {
		notConfigured(c, "TAVILY_API_KEY")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": h.linkedInJob.Run(c.Request.Context())})
}

// POST /api/ingest/insights
func (h *IngestHandler) IngestInsights(c *gin.Context) {
	if h.insightJob == nil {
		notConfigured(c, "TAVILY_API_KEY or PERPLEXITY_API_KEY")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "report": h.insightJob.Run(c.Request.Context())})
}

func notConfigured(c *gin.Context, credential string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error":   "ingestion source not configured",
		"details": credential + " is not set",
	})
}
