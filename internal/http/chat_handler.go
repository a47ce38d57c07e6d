package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-history/internal/domain"
	"chat-history/internal/service"
)

// ChatHandler expone el historial y el envio de mensajes.
type ChatHandler struct {
	logger *zap.Logger
	chat   *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chat *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger: logger,
		chat:   chat,
	}
}

type postMessageRequest struct {
	Messages  []domain.Turn `json:"messages" binding:"required"`
	SessionID string        `json:"sessionId" binding:"required"`
}

// GetHistory maneja GET /api/chat?sessionId=.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	turns, err := h.chat.GetHistory(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("get history failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": turns})
}

// PostMessage maneja POST /api/chat.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request: " + err.Error()})
		return
	}

	reply, err := h.chat.PostMessage(c.Request.Context(), req.SessionID, req.Messages)
	if err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			c.JSON(http.StatusTooManyRequests, gin.H{"detail": err.Error()})
			return
		}
		h.logger.Error("post message failed", zap.String("session_id", req.SessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

// DeleteHistory maneja DELETE /api/chat?sessionId=.
func (h *ChatHandler) DeleteHistory(c *gin.Context) {
	sessionID, ok := requireSessionID(c)
	if !ok {
		return
	}

	if err := h.chat.DeleteHistory(c.Request.Context(), sessionID); err != nil {
		h.logger.Error("delete history failed", zap.String("session_id", sessionID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Chat history deleted"})
}

// Health maneja GET /healthz.
func (h *ChatHandler) Health(c *gin.Context) {
	if err := h.chat.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requireSessionID(c *gin.Context) (string, bool) {
	// El id es opaco: se usa tal cual llega, igual que en POST.
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "sessionId is required"})
		return "", false
	}
	return sessionID, true
}
