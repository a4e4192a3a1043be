package handler

import (
	"net/http"

	"github.com/Aashish23092/taxwise-dashboard/dto"
	"github.com/Aashish23092/taxwise-dashboard/service"
	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var request dto.ChatRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, http.StatusBadRequest, "INVALID_BODY", "Body must be {\"message\": \"...\"}", err)
		return
	}

	c.JSON(http.StatusOK, h.chatService.Reply(c.Request.Context(), &request))
}
