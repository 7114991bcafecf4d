package handlers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Organized-AI/whop-clipping-agency-sub001/internal/whop"
	"github.com/Organized-AI/whop-clipping-agency-sub001/models"
	"github.com/Organized-AI/whop-clipping-agency-sub001/utils"
)

// HandleWhopWebhook receives membership lifecycle events from Whop and keeps
// the members table in sync. Unknown event types are acknowledged so Whop
// does not retry them.
// POST /api/v1/webhooks/whop
func (h *ApplicationHandler) HandleWhopWebhook(c *fiber.Ctx) error {
	signature := c.Get(whop.SignatureHeader)
	event, err := whop.ParseEvent(h.Config.WhopWebhookSecret, c.Body(), signature)
	if err != nil {
		h.Logger.Warnf("Rejected Whop webhook: %v", err)
		return utils.RespondWithError(c, fiber.StatusUnauthorized, "Invalid webhook signature or payload")
	}

	switch event.Action {
	case whop.EventMembershipWentValid:
		membership, err := event.ParseMembership()
		if err != nil {
			h.Logger.Errorf("Could not decode membership from %s event: %v", event.Action, err)
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Malformed membership payload")
		}
		if err := h.activateMember(membership); err != nil {
			h.Logger.Errorf("Could not activate member %s: %v", membership.ID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not record membership")
		}
		h.Logger.Infof("Activated membership %s for user %s", membership.ID, membership.UserID)

	case whop.EventMembershipWentInvalid:
		membership, err := event.ParseMembership()
		if err != nil {
			h.Logger.Errorf("Could not decode membership from %s event: %v", event.Action, err)
			return utils.RespondWithError(c, fiber.StatusBadRequest, "Malformed membership payload")
		}
		if err := h.invalidateMember(membership); err != nil {
			h.Logger.Errorf("Could not invalidate member %s: %v", membership.ID, err)
			return utils.RespondWithError(c, fiber.StatusInternalServerError, "Could not record membership change")
		}
		h.Logger.Infof("Invalidated membership %s", membership.ID)

	default:
		h.Logger.Infof("Ignoring Whop webhook action %q", event.Action)
	}

	return utils.RespondWithJSON(c, fiber.StatusOK, fiber.Map{"received": true})
}

// activateMember upserts the member row for a membership that went valid.
func (h *ApplicationHandler) activateMember(m *whop.Membership) error {
	now := time.Now()

	var existing []models.Member
	bodyBytes, _, err := h.DB.From("members").
		Select("*", "", false).
		Eq("whop_membership_id", m.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("looking up member: %w", err)
	}
	if err := json.Unmarshal(bodyBytes, &existing); err != nil {
		return fmt.Errorf("unmarshalling member lookup: %w", err)
	}

	if len(existing) > 0 {
		updateFields := map[string]interface{}{
			"status":       "active",
			"activated_at": now,
			"updated_at":   now,
		}
		if m.PlanID != "" {
			updateFields["plan_id"] = m.PlanID
		}
		_, _, err := h.DB.From("members").
			Update(updateFields, "", "").
			Eq("whop_membership_id", m.ID).
			Execute()
		if err != nil {
			return fmt.Errorf("reactivating member: %w", err)
		}
		return nil
	}

	member := models.Member{
		ID:               uuid.New(),
		WhopMembershipID: m.ID,
		WhopUserID:       m.UserID,
		Email:            m.Email,
		Username:         m.Username,
		Status:           "active",
		ActivatedAt:      &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if m.PlanID != "" {
		member.PlanID = &m.PlanID
	}
	_, _, err = h.DB.From("members").
		Insert(member, false, "", "representation", "").
		Execute()
	if err != nil {
		return fmt.Errorf("inserting member: %w", err)
	}
	return nil
}

// invalidateMember marks the member row for a membership that went invalid.
func (h *ApplicationHandler) invalidateMember(m *whop.Membership) error {
	now := time.Now()
	updateFields := map[string]interface{}{
		"status":         "invalidated",
		"invalidated_at": now,
		"updated_at":     now,
	}
	_, _, err := h.DB.From("members").
		Update(updateFields, "", "").
		Eq("whop_membership_id", m.ID).
		Execute()
	if err != nil {
		return fmt.Errorf("invalidating member: %w", err)
	}
	return nil
}
