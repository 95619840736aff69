package v1

import (
	"net/http"

	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUC domain.MessageUsecase
}

func NewMessageHandler(protected *gin.RouterGroup, messageUC domain.MessageUsecase) {
	handler := &MessageHandler{messageUC: messageUC}

	messages := protected.Group("/collabs/:id/messages")
	{
		messages.POST("", handler.Send)
		messages.GET("", handler.List)
	}
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,max=2000"`
}

// Send godoc
// @Summary      Send a message
// @Description  Send a message to the other participant of a collab
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id       path      string              true  "Collab ID"
// @Param        message  body      SendMessageRequest  true  "Message JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /collabs/{id}/messages [post]
// @Security     BearerAuth
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	userID := c.GetString(string(domain.KeyUserID))

	msg, err := h.messageUC.SendMessage(c.Request.Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Message sent", msg)
}

// List godoc
// @Summary      List collab messages
// @Description  List a collab's messages oldest first. Participants only.
// @Tags         messages
// @Produce      json
// @Param        id   path      string  true  "Collab ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /collabs/{id}/messages [get]
// @Security     BearerAuth
func (h *MessageHandler) List(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	messages, err := h.messageUC.ListMessages(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Messages", gin.H{
		"messages": messages,
		"total":    len(messages),
	})
}
