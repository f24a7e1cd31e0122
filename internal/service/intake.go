package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"staffing_bridge/internal/config"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/repository"
	apperrors "staffing_bridge/pkg/errors"
	"staffing_bridge/pkg/logger"
)

// IntakeSubmission is the raw create-request payload from the collaborator
// surface.
type IntakeSubmission struct {
	Organization   string
	ContactName    string
	ContactEmail   string
	Phone          string
	Location       string
	Timing         string
	Headcount      int
	EstimatedHours int
	Notes          string
	Source         string
	Honeypot       string
}

// IntakeResult reports what actually happened. Deflected and Throttled
// submissions still look like success to the caller (anti-enumeration).
type IntakeResult struct {
	Request   *domain.Request
	Throttled bool
	Deflected bool
}

type IntakeService interface {
	Submit(ctx context.Context, submission IntakeSubmission) (*IntakeResult, error)
	// MissingFields returns the required fields absent from a submission.
	MissingFields(submission IntakeSubmission) []string
}

type intakeService struct {
	requestRepo  repository.RequestRepository
	rateLimit    RateLimitService
	audit        AuditService
	notification NotificationService
	cfg          config.IntakeConfig
	log          logger.Logger
}

func NewIntakeService(requestRepo repository.RequestRepository, rateLimit RateLimitService, audit AuditService, notification NotificationService, cfg config.IntakeConfig, log logger.Logger) IntakeService {
	return &intakeService{
		requestRepo:  requestRepo,
		rateLimit:    rateLimit,
		audit:        audit,
		notification: notification,
		cfg:          cfg,
		log:          log,
	}
}

func (s *intakeService) MissingFields(submission IntakeSubmission) []string {
	var missing []string
	if strings.TrimSpace(submission.Organization) == "" {
		missing = append(missing, "organization")
	}
	if strings.TrimSpace(submission.ContactName) == "" {
		missing = append(missing, "contact_name")
	}
	if strings.TrimSpace(submission.ContactEmail) == "" {
		missing = append(missing, "contact_email")
	}
	return missing
}

func (s *intakeService) Submit(ctx context.Context, submission IntakeSubmission) (*IntakeResult, error) {
	if missing := s.MissingFields(submission); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", apperrors.ErrValidation, strings.Join(missing, ", "))
	}

	// Bots fill the hidden field; report success, change nothing.
	if strings.TrimSpace(submission.Honeypot) != "" {
		s.log.Info("Intake deflected by honeypot", "source", submission.Source)
		return &IntakeResult{Deflected: true}, nil
	}

	email := strings.ToLower(strings.TrimSpace(submission.ContactEmail))
	throttled, err := s.throttled(ctx, email)
	if err != nil {
		// Redis trouble should not turn away a legitimate requester.
		s.log.Warn("Intake throttle check failed, allowing", "error", err)
	}
	if throttled {
		s.log.Info("Intake throttled", "contact_email", email)
		return &IntakeResult{Throttled: true}, nil
	}

	request := &domain.Request{
		ID:             uuid.New(),
		Organization:   strings.TrimSpace(submission.Organization),
		ContactName:    strings.TrimSpace(submission.ContactName),
		ContactEmail:   email,
		Phone:          strings.TrimSpace(submission.Phone),
		Location:       strings.TrimSpace(submission.Location),
		Timing:         strings.TrimSpace(submission.Timing),
		Headcount:      submission.Headcount,
		EstimatedHours: submission.EstimatedHours,
		Notes:          strings.TrimSpace(submission.Notes),
		Source:         strings.TrimSpace(submission.Source),
		ClaimStatus:    domain.ClaimStatusOpen,
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.EventTypeRequestCreated, email, domain.ActorRoleSystem, &request.ID, map[string]interface{}{
		"organization": request.Organization,
		"source":       request.Source,
	})

	// The request is durable; a failed notification is logged, not fatal.
	if err := s.notification.Dispatch(ctx, request); err != nil {
		s.log.Warn("Notification dispatch failed for new request", "error", err, "request_id", request.ID)
		s.audit.Record(ctx, domain.EventTypeNotificationFailed, domain.ActorRoleSystem, domain.ActorRoleSystem, &request.ID, map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &IntakeResult{Request: request}, nil
}

// throttled enforces at most one accepted request per contact email per
// window, skipping the configured allow-list.
func (s *intakeService) throttled(ctx context.Context, email string) (bool, error) {
	for _, allowed := range s.cfg.Allowlist {
		if strings.EqualFold(allowed, email) {
			return false, nil
		}
	}

	window := s.cfg.ThrottleWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	key := "intake:email:" + email

	allowed, err := s.rateLimit.CheckLimit(ctx, key, 1, window)
	if err != nil {
		return false, err
	}
	if !allowed {
		return true, nil
	}

	if _, err := s.rateLimit.Increment(ctx, key, window); err != nil {
		return false, err
	}
	return false, nil
}
