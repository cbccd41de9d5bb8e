package delivery

import (
	"io"
	"net/http"

	"brandpulse-backend/internal/feedback/usecase"

	"github.com/gin-gonic/gin"
)

// UploadHandler serves the CSV review upload endpoint
type UploadHandler struct {
	uploadUsecase *usecase.UploadUsecase
}

func NewUploadHandler(uploadUsecase *usecase.UploadUsecase) *UploadHandler {
	return &UploadHandler{uploadUsecase: uploadUsecase}
}

// POST /api/upload/csv
// UploadCSV accepts either a multipart "file" field or a raw CSV body.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	var reader io.Reader

	if file, err := c.FormFile("file"); err == nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload", "details": err.Error()})
			return
		}
		defer opened.Close()
		reader = opened
	} else {
		reader = c.Request.Body
	}

	report, err := h.uploadUsecase.UploadCSV(reader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid CSV", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report": report})
}
