package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"staffing_bridge/internal/service"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

type RequestHandler struct {
	intakeService service.IntakeService
	log           logger.Logger
}

func NewRequestHandler(intakeService service.IntakeService, log logger.Logger) *RequestHandler {
	return &RequestHandler{
		intakeService: intakeService,
		log:           log,
	}
}

type createRequestBody struct {
	Organization   string `json:"organization"`
	Company        string `json:"company"` // accepted alias for organization
	ContactName    string `json:"contact_name"`
	Contact        string `json:"contact"` // accepted alias for contact_name
	ContactEmail   string `json:"contact_email"`
	Email          string `json:"email"` // accepted alias for contact_email
	Phone          string `json:"phone"`
	Location       string `json:"location"`
	Timing         string `json:"timing"`
	Headcount      int    `json:"headcount"`
	EstimatedHours int    `json:"estimated_hours"`
	Notes          string `json:"notes"`
	Source         string `json:"source"`
	Website        string `json:"website"` // honeypot; humans never fill this
}

func (h *RequestHandler) Create(c *gin.Context) {
	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "bad_payload"})
		return
	}

	submission := service.IntakeSubmission{
		Organization:   firstNonEmpty(body.Organization, body.Company),
		ContactName:    firstNonEmpty(body.ContactName, body.Contact),
		ContactEmail:   firstNonEmpty(body.ContactEmail, body.Email),
		Phone:          body.Phone,
		Location:       body.Location,
		Timing:         body.Timing,
		Headcount:      body.Headcount,
		EstimatedHours: body.EstimatedHours,
		Notes:          body.Notes,
		Source:         body.Source,
		Honeypot:       body.Website,
	}

	if missing := h.intakeService.MissingFields(submission); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":      false,
			"error":   "missing_fields",
			"details": missing,
		})
		return
	}

	result, err := h.intakeService.Submit(c.Request.Context(), submission)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": err.Error()})
			return
		}
		// Requester surface never sees store internals.
		h.log.Error("Intake failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "try_again"})
		return
	}

	switch {
	case result.Deflected:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case result.Throttled:
		c.JSON(http.StatusOK, gin.H{"ok": true, "throttled": true})
	default:
		c.JSON(http.StatusCreated, gin.H{"ok": true, "request": result.Request})
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
