package delivery

import (
	"net/http"
	"time"

	"brandpulse-backend/internal/feedback/usecase"

	"github.com/gin-gonic/gin"
)

// SummaryHandler serves summary (re)generation endpoints
type SummaryHandler struct {
	summaryUsecase *usecase.SummaryUsecase
	defaultBudget  time.Duration
}

func NewSummaryHandler(summaryUsecase *usecase.SummaryUsecase, defaultBudget time.Duration) *SummaryHandler {
	return &SummaryHandler{summaryUsecase: summaryUsecase, defaultBudget: defaultBudget}
}

// GenerateRequest selects one scope, or the full batch when All is set.
type GenerateRequest struct {
	All          bool    `json:"all,omitempty"`
	ClinicID     *string `json:"clinic_id,omitempty"`
	SourceType   *string `json:"source_type,omitempty"`
	Scope        string  `json:"scope,omitempty"`
	ForceRefresh bool    `json:"force_refresh,omitempty"`
	Budget       string  `json:"budget,omitempty"` // Go duration string
}

// POST /api/summaries/generate
// Generate refreshes cached summaries. The batch form runs under a
// wall-clock budget and reports remaining scopes for the caller to re-invoke
// rather than timing out.
func (h *SummaryHandler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if req.All {
		budget := h.defaultBudget
		if req.Budget != "" {
			if parsed, err := time.ParseDuration(req.Budget); err == nil && parsed > 0 {
				budget = parsed
			}
		}
		report := h.summaryUsecase.GenerateAll(c.Request.Context(), budget, req.ForceRefresh)
		c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
		return
	}

	if req.Scope == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope is required unless all is set"})
		return
	}

	result := h.summaryUsecase.GenerateSummary(c.Request.Context(), req.ClinicID, req.SourceType, req.Scope, req.ForceRefresh)
	if result.Status == usecase.StatusError {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "summary generation failed", "details": result.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}
