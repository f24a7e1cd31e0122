package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAgent    Role = "agent"
	RoleCustomer Role = "customer"
)

// roleSynonyms folds domain synonyms accepted at the ingress boundary into
// the two canonical roles. Nothing past NormalizeRole sees these values.
var roleSynonyms = map[string]Role{
	"agent":         RoleAgent,
	"customer":      RoleCustomer,
	"brandwacht":    RoleAgent,
	"opdrachtgever": RoleCustomer,
	"admin":         RoleAgent,
}

// SenderCustomer is the fixed sender handle used for the requester side,
// which has no messaging-platform identity.
const SenderCustomer = "customer"

const (
	SourceDashboard   = "dashboard"
	SourceSlackBridge = "slack-bridge"
)

type Message struct {
	ID         int64     `json:"id"`
	RequestID  uuid.UUID `json:"request_id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	SenderRole Role      `json:"sender_role"`
	Body       string    `json:"body"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
}

// MarshalJSON mirrors the body under the legacy field names so older
// consumers keep reading a consistent value.
func (m Message) MarshalJSON() ([]byte, error) {
	type alias Message
	return json.Marshal(struct {
		alias
		Text    string `json:"text"`
		Message string `json:"message"`
		Content string `json:"content"`
	}{
		alias:   alias(m),
		Text:    m.Body,
		Message: m.Body,
		Content: m.Body,
	})
}

// NormalizeBody collapses the three legacy body aliases into the canonical
// body: the first non-empty of text, message, content after trimming.
// Idempotent; an all-empty input yields the empty string and is rejected
// by the caller before persistence.
func NormalizeBody(text, message, content string) string {
	for _, candidate := range []string{text, message, content} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// NormalizeRole maps a raw sender role onto the closed two-role enum.
// Unknown or empty values default to the caller-declared viewer role.
func NormalizeRole(raw string, fallback Role) Role {
	if role, ok := roleSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return role
	}
	return fallback
}
