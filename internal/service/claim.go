package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/repository"
	"staffing_bridge/pkg/logger"
)

// Operator identifies the acting operator as reported by the verified
// webhook payload.
type Operator struct {
	ID   string
	Name string
}

// ClaimResult reports the outcome of a transition. Won is false when a
// concurrent operator took the claim first; Request then carries the
// standing claimant so the caller can say who.
type ClaimResult struct {
	Request *domain.Request
	Won     bool
}

type ClaimService interface {
	// Claim attempts the open -> claimed transition. The store arbitrates
	// concurrent attempts; a lost race is a distinct non-error outcome.
	// After a durable transition the notification is re-rendered in place;
	// delivery failure is logged and never fails the transition.
	Claim(ctx context.Context, requestID uuid.UUID, operator Operator, responseURL string) (*ClaimResult, error)
	// Advance moves a request to in_progress. An unclaimed request is
	// claimed by the acting operator in the same write.
	Advance(ctx context.Context, requestID uuid.UUID, operator Operator, responseURL string) (*ClaimResult, error)
}

type claimService struct {
	requestRepo  repository.RequestRepository
	audit        AuditService
	notification NotificationService
	slackTimeout time.Duration
	log          logger.Logger
}

func NewClaimService(requestRepo repository.RequestRepository, audit AuditService, notification NotificationService, slackTimeout time.Duration, log logger.Logger) ClaimService {
	return &claimService{
		requestRepo:  requestRepo,
		audit:        audit,
		notification: notification,
		slackTimeout: slackTimeout,
		log:          log,
	}
}

func (s *claimService) Claim(ctx context.Context, requestID uuid.UUID, operator Operator, responseURL string) (*ClaimResult, error) {
	request, won, err := s.requestRepo.Claim(ctx, requestID, operator.ID, operator.Name, time.Now())
	if err != nil {
		return nil, err
	}

	if won {
		s.audit.Record(ctx, domain.EventTypeRequestClaimed, operator.ID, domain.ActorRoleOperator, &request.ID, map[string]interface{}{
			"operator_name": operator.Name,
		})
	} else {
		s.log.Info("Claim lost race", "request_id", requestID, "operator_id", operator.ID, "claimed_by", request.Claimant())
	}

	// Re-render either way so the clicking operator's view converges on
	// the current state.
	s.redisplay(ctx, responseURL, request)

	return &ClaimResult{Request: request, Won: won}, nil
}

func (s *claimService) Advance(ctx context.Context, requestID uuid.UUID, operator Operator, responseURL string) (*ClaimResult, error) {
	request, err := s.requestRepo.Start(ctx, requestID, operator.ID, operator.Name, time.Now())
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, domain.EventTypeRequestStarted, operator.ID, domain.ActorRoleOperator, &request.ID, map[string]interface{}{
		"operator_name": operator.Name,
		"claimed_by_id": request.ClaimedByID,
	})

	s.redisplay(ctx, responseURL, request)

	return &ClaimResult{Request: request, Won: true}, nil
}

// redisplay re-renders the outward notification after a durable transition.
// Runs under a bounded timeout; failure must not roll the transition back.
func (s *claimService) redisplay(ctx context.Context, responseURL string, request *domain.Request) {
	timeout := s.slackTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	redisplayCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.notification.Redisplay(redisplayCtx, responseURL, request); err != nil {
		s.log.Warn("Notification redisplay failed after claim transition", "error", err, "request_id", request.ID)
		s.audit.Record(ctx, domain.EventTypeNotificationFailed, domain.ActorRoleSystem, domain.ActorRoleSystem, &request.ID, map[string]interface{}{
			"error": err.Error(),
		})
	}
}
