package delivery

import (
	"net/http"

	"brandpulse-backend/internal/feedback/repository"

	"github.com/gin-gonic/gin"
)

// MaintenanceHandler serves data-repair endpoints
type MaintenanceHandler struct {
	reviewRepo repository.ReviewRepository
}

func NewMaintenanceHandler(reviewRepo repository.ReviewRepository) *MaintenanceHandler {
	return &MaintenanceHandler{reviewRepo: reviewRepo}
}

// POST /api/maintenance/repair-dates
// RepairDates rewrites reviews whose published timestamp is the zero value
// to their ingestion time.
func (h *MaintenanceHandler) RepairDates(c *gin.Context) {
	repaired, err := h.reviewRepo.RepairPublishedDates()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "date repair failed", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "repaired": repaired})
}
