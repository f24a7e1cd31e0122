package service

import (
	"staffing_bridge/internal/config"
	"staffing_bridge/internal/realtime"
	"staffing_bridge/internal/repository"
	"staffing_bridge/pkg/logger"
)

type Services struct {
	Intake       IntakeService
	Claim        ClaimService
	Chat         ChatService
	Notification NotificationService
	RateLimit    RateLimitService
	Audit        AuditService
	Stats        StatsService
}

func NewServices(repos *repository.Repositories, slackAPI SlackAPI, hub *realtime.Hub, cfg *config.Config, log logger.Logger) *Services {
	rateLimit := NewRateLimitService(repos.RateLimit, log)
	audit := NewAuditService(repos.Audit, log)
	notification := NewNotificationService(slackAPI, repos.Request, cfg.Slack, log)

	return &Services{
		Intake:       NewIntakeService(repos.Request, rateLimit, audit, notification, cfg.Intake, log),
		Claim:        NewClaimService(repos.Request, audit, notification, cfg.Slack.Timeout, log),
		Chat:         NewChatService(repos.Message, repos.Request, hub, log),
		Notification: notification,
		RateLimit:    rateLimit,
		Audit:        audit,
		Stats:        NewStatsService(repos.Request, repos.Message, log),
	}
}
