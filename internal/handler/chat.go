package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"staffing_bridge/internal/service"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

// postMessageBody accepts every field name historical producers use for
// the request reference and the body; normalization happens past this
// boundary.
type postMessageBody struct {
	RequestID      string `json:"request_id"`
	RequestIDCamel string `json:"requestId"`
	ID             string `json:"id"`
	Text           string `json:"text"`
	Message        string `json:"message"`
	Content        string `json:"content"`
	SenderID       string `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	SenderRole     string `json:"sender_role"`
	Source         string `json:"source"`
}

func (h *ChatHandler) PostMessage(c *gin.Context) {
	var body postMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}

	rawID := firstNonEmpty(body.RequestID, body.RequestIDCamel, body.ID)
	if rawID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"request_id"}})
		return
	}
	requestID, err := uuid.Parse(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"request_id"}})
		return
	}

	message, err := h.chatService.Post(c.Request.Context(), service.PostMessageInput{
		RequestID:   requestID,
		Text:        body.Text,
		MessageText: body.Message,
		Content:     body.Content,
		SenderID:    body.SenderID,
		SenderName:  body.SenderName,
		SenderRole:  body.SenderRole,
		Source:      body.Source,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"body"}})
		case errors.Is(err, apperrors.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not_found"})
		default:
			h.log.Error("Failed to post message", "error", err, "request_id", requestID)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "try_again"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "message": message})
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	rawID := firstNonEmpty(c.Query("request_id"), c.Query("requestId"))
	if rawID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"request_id"}})
		return
	}
	requestID, err := uuid.Parse(rawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"request_id"}})
		return
	}

	afterID, _ := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)

	messages, err := h.chatService.List(c.Request.Context(), requestID, afterID)
	if err != nil {
		h.log.Error("Failed to list messages", "error", err, "request_id", requestID)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "try_again"})
		return
	}

	// Both keys populated for consumer compatibility.
	c.JSON(http.StatusOK, gin.H{"ok": true, "messages": messages, "items": messages})
}
