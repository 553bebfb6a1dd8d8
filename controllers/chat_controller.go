package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitatrack/middlewares"
	"vitatrack/services"
)

type ChatController struct {
	chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

type ChatInput struct {
	Message string `json:"message" binding:"required"`
}

func (ctl *ChatController) Send(c *gin.Context) {
	userID := middlewares.UserID(c)

	var input ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := ctl.chat.Send(c.Request.Context(), userID, input.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reply":  reply.Content,
		"source": reply.Source,
	})
}

func (ctl *ChatController) History(c *gin.Context) {
	userID := middlewares.UserID(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	msgs, err := ctl.chat.History(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (ctl *ChatController) Clear(c *gin.Context) {
	userID := middlewares.UserID(c)
	if err := ctl.chat.Clear(userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chat cleared"})
}
