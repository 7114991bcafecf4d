package models

import (
	"time"

	"github.com/google/uuid"
)

// Member represents one Whop membership with access to the clipping service.
type Member struct {
	ID               uuid.UUID  `json:"id"`
	WhopMembershipID string     `json:"whop_membership_id"`
	WhopUserID       string     `json:"whop_user_id"`
	Email            *string    `json:"email,omitempty"`
	Username         *string    `json:"username,omitempty"`
	PlanID           *string    `json:"plan_id,omitempty"`
	Status           string     `json:"status"` // active, invalidated
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	InvalidatedAt    *time.Time `json:"invalidated_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
