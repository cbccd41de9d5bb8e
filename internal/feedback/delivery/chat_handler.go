package delivery

import (
	"net/http"

	"brandpulse-backend/internal/feedback/dto"
	"brandpulse-backend/internal/feedback/usecase"

	"github.com/gin-gonic/gin"
)

// ChatHandler serves the retrieval-and-chat endpoint
type ChatHandler struct {
	chatUsecase *usecase.ChatUsecase
}

func NewChatHandler(chatUsecase *usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{chatUsecase: chatUsecase}
}

// POST /api/chat
// Chat answers a free-text question against the stored feedback. Upstream
// failures degrade inside the usecase; this handler only rejects malformed
// requests.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	resp := h.chatUsecase.Chat(c.Request.Context(), req)
	c.JSON(http.StatusOK, gin.H{"success": true, "response": resp})
}
