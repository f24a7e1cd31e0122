package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditLog struct {
	ID        int64                  `json:"id"`
	EventTime time.Time              `json:"event_time"`
	ActorID   string                 `json:"actor_id"`
	ActorRole string                 `json:"actor_role"`
	RequestID *uuid.UUID             `json:"request_id,omitempty"`
	EventType string                 `json:"event_type"`
	Payload   map[string]interface{} `json:"payload"`
}

const (
	ActorRoleOperator = "operator"
	ActorRoleSystem   = "system"
)

const (
	EventTypeRequestCreated     = "REQUEST_CREATED"
	EventTypeRequestClaimed     = "REQUEST_CLAIMED"
	EventTypeRequestStarted     = "REQUEST_STARTED"
	EventTypeNotificationFailed = "NOTIFICATION_FAILED"
)
