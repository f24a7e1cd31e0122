package domain

import (
	"time"

	"github.com/google/uuid"
)

type Request struct {
	ID             uuid.UUID  `json:"id"`
	Organization   string     `json:"organization"`
	ContactName    string     `json:"contact_name"`
	ContactEmail   string     `json:"contact_email"`
	Phone          string     `json:"phone,omitempty"`
	Location       string     `json:"location,omitempty"`
	Timing         string     `json:"timing,omitempty"`
	Headcount      int        `json:"headcount,omitempty"`
	EstimatedHours int        `json:"estimated_hours,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	Source         string     `json:"source,omitempty"`
	ClaimStatus    string     `json:"claim_status"`
	ClaimedByID    *string    `json:"claimed_by_id,omitempty"`
	ClaimedName    *string    `json:"claimed_name,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	SlackChannel   *string    `json:"-"`
	SlackTS        *string    `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

const (
	ClaimStatusOpen       = "open"
	ClaimStatusClaimed    = "claimed"
	ClaimStatusInProgress = "in_progress"
)

// Claimant returns the display name to show for the current claimant,
// falling back to the raw operator id.
func (r *Request) Claimant() string {
	if r.ClaimedName != nil && *r.ClaimedName != "" {
		return *r.ClaimedName
	}
	if r.ClaimedByID != nil {
		return *r.ClaimedByID
	}
	return ""
}
