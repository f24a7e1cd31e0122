package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"staffing_bridge/internal/service"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

type WebhookHandler struct {
	claimService service.ClaimService
	notification service.NotificationService
	log          logger.Logger
}

func NewWebhookHandler(claimService service.ClaimService, notification service.NotificationService, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		claimService: claimService,
		notification: notification,
		log:          log,
	}
}

// actionPayload is the JSON carried in the form-encoded `payload` field of
// an interactive-action callback.
type actionPayload struct {
	Type string `json:"type"`
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"user"`
	Actions []struct {
		ActionID string `json:"action_id"`
		Value    string `json:"value"`
	} `json:"actions"`
	ResponseURL string `json:"response_url"`
}

// HandleAction processes a verified interactive-action callback. Signature
// verification has already happened in middleware.
func (h *WebhookHandler) HandleAction(c *gin.Context) {
	raw := c.PostForm("payload")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}

	var payload actionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}
	if len(payload.Actions) == 0 || payload.ResponseURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}

	action := payload.Actions[0]

	var transition func(*gin.Context, uuid.UUID, service.Operator, string) (*service.ClaimResult, error)
	switch action.ActionID {
	case service.ActionClaim:
		transition = func(c *gin.Context, id uuid.UUID, op service.Operator, url string) (*service.ClaimResult, error) {
			return h.claimService.Claim(c.Request.Context(), id, op, url)
		}
	case service.ActionStart:
		transition = func(c *gin.Context, id uuid.UUID, op service.Operator, url string) (*service.ClaimResult, error) {
			return h.claimService.Advance(c.Request.Context(), id, op, url)
		}
	default:
		// Forward-compatible no-op: acknowledge identifiers we do not know.
		h.log.Info("Ignoring unknown action", "action_id", action.ActionID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	requestID, err := uuid.Parse(action.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}

	operator := service.Operator{
		ID:   payload.User.ID,
		Name: h.notification.ResolveDisplayName(c.Request.Context(), payload.User.ID),
	}

	result, err := transition(c, requestID, operator, payload.ResponseURL)
	if err != nil {
		// Operator surface is trusted; report the specific reason.
		switch {
		case errors.Is(err, apperrors.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not_found"})
		default:
			h.log.Error("Claim transition failed", "error", err, "request_id", requestID, "action_id", action.ActionID)
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "store_failure"})
		}
		return
	}

	ack := gin.H{"ok": true}
	if !result.Won {
		ack["note"] = "already claimed by " + result.Request.Claimant()
	}
	c.JSON(http.StatusOK, ack)
}
