package handler

import (
	"staffing_bridge/internal/config"
	"staffing_bridge/internal/realtime"
	"staffing_bridge/internal/service"
	"staffing_bridge/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Request   *RequestHandler
	Chat      *ChatHandler
	Webhook   *WebhookHandler
	WebSocket *WebSocketHandler
	Stats     *StatsHandler
}

func NewHandlers(services *service.Services, hub *realtime.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(cfg),
		Request:   NewRequestHandler(services.Intake, log),
		Chat:      NewChatHandler(services.Chat, log),
		Webhook:   NewWebhookHandler(services.Claim, services.Notification, log),
		WebSocket: NewWebSocketHandler(hub, log),
		Stats:     NewStatsHandler(services.Stats, log),
	}
}
