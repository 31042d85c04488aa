package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unicollab/study-api/internal/service"
	appErrors "github.com/unicollab/study-api/pkg/errors"
	"github.com/unicollab/study-api/pkg/response"
)

// MessageHandler exposes DM and group-hub messaging endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler constructs handler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send godoc
// @Summary Send a message
// @Tags Messages
// @Accept json
// @Produce json
// @Param payload body service.SendMessageRequest true "Message payload"
// @Success 201 {object} models.Message
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req service.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	message, err := h.messages.Send(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// PrivateHistory godoc
// @Summary Fetch the DM thread between two users
// @Tags Messages
// @Produce json
// @Param userA path string true "First participant"
// @Param userB path string true "Second participant"
// @Success 200 {array} models.Message
// @Router /messages/history/{userA}/{userB} [get]
func (h *MessageHandler) PrivateHistory(c *gin.Context) {
	messages, err := h.messages.PrivateHistory(c.Request.Context(), c.Param("userA"), c.Param("userB"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages)
}

// GroupHistory godoc
// @Summary Fetch recent group-hub messages
// @Tags Messages
// @Produce json
// @Param groupId path string true "Group id"
// @Success 200 {array} models.Message
// @Router /messages/group/{groupId} [get]
func (h *MessageHandler) GroupHistory(c *gin.Context) {
	messages, err := h.messages.GroupHistory(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages)
}
