// controllers/message_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stayhub-backend/middleware"
	"stayhub-backend/services"
	"stayhub-backend/utils"
)

type MessageController struct {
	MessageSvc *services.MessageService
}

func NewMessageController(svc *services.MessageService) *MessageController {
	return &MessageController{MessageSvc: svc}
}

type sendMessagePayload struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Subject    string `json:"subject"`
	Content    string `json:"content" binding:"required"`
}

func (ctrl *MessageController) Send(c *gin.Context) {
	var payload sendMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	msg, err := ctrl.MessageSvc.Send(middleware.CallerID(c), payload.ReceiverID, payload.Subject, payload.Content)
	if err != nil {
		switch err.Error() {
		case "empty_message":
			utils.JSONError(c, http.StatusBadRequest, "message content is empty")
		case "self_message":
			utils.JSONError(c, http.StatusBadRequest, "cannot message yourself")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to send message")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}

func (ctrl *MessageController) Inbox(c *gin.Context) {
	list, err := ctrl.MessageSvc.ForUser(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list messages")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *MessageController) Conversation(c *gin.Context) {
	otherID, ok := paramID(c)
	if !ok {
		return
	}
	list, err := ctrl.MessageSvc.Conversation(middleware.CallerID(c), otherID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, list)
}

func (ctrl *MessageController) MarkRead(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := ctrl.MessageSvc.MarkRead(id, middleware.CallerID(c)); err != nil {
		if err.Error() == "message_not_found" {
			utils.JSONError(c, http.StatusNotFound, "message not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark message read")
		return
	}
	utils.JSONMessage(c, http.StatusOK, "message marked read")
}

func (ctrl *MessageController) UnreadCount(c *gin.Context) {
	count, err := ctrl.MessageSvc.UnreadCount(middleware.CallerID(c))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to count unread messages")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"unread": count})
}
