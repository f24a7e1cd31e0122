package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"staffing_bridge/internal/domain"
	"staffing_bridge/internal/repository"
	"staffing_bridge/pkg/logger"
)

type AuditService interface {
	// Record writes an audit event. Failures are logged and swallowed; the
	// audit trail never blocks the operation it describes.
	Record(ctx context.Context, eventType, actorID, actorRole string, requestID *uuid.UUID, payload map[string]interface{})
}

type auditService struct {
	auditRepo repository.AuditRepository
	log       logger.Logger
}

func NewAuditService(auditRepo repository.AuditRepository, log logger.Logger) AuditService {
	return &auditService{
		auditRepo: auditRepo,
		log:       log,
	}
}

func (s *auditService) Record(ctx context.Context, eventType, actorID, actorRole string, requestID *uuid.UUID, payload map[string]interface{}) {
	entry := &domain.AuditLog{
		EventTime: time.Now(),
		ActorID:   actorID,
		ActorRole: actorRole,
		RequestID: requestID,
		EventType: eventType,
		Payload:   payload,
	}

	if err := s.auditRepo.CreateLog(ctx, entry); err != nil {
		s.log.Warn("Failed to record audit event", "error", err, "event_type", eventType)
	}
}
