// Package whop holds the Whop platform integration: webhook signature
// verification and the membership event payloads the platform delivers.
package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Webhook event actions this service reacts to.
const (
	EventMembershipWentValid   = "membership.went_valid"
	EventMembershipWentInvalid = "membership.went_invalid"
)

// SignatureHeader is the header Whop signs webhook deliveries with.
const SignatureHeader = "X-Whop-Signature"

// WebhookEvent is the envelope of a Whop webhook delivery.
type WebhookEvent struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

// Membership is the membership object carried by membership.* events.
type Membership struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	PlanID   string  `json:"plan_id"`
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Status   string  `json:"status"`
	Valid    bool    `json:"valid"`
}

// VerifySignature checks the HMAC-SHA256 signature of a raw webhook body.
// The header value may carry a "sha256=" prefix. Comparison is constant
// time.
func VerifySignature(secret string, body []byte, signature string) error {
	if secret == "" {
		return fmt.Errorf("webhook secret is not configured")
	}
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	if signature == "" {
		return fmt.Errorf("missing webhook signature")
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("malformed webhook signature: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return fmt.Errorf("webhook signature mismatch")
	}
	return nil
}

// ParseEvent verifies the signature and decodes the webhook envelope.
func ParseEvent(secret string, body []byte, signature string) (*WebhookEvent, error) {
	if err := VerifySignature(secret, body, signature); err != nil {
		return nil, err
	}
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decoding webhook payload: %w", err)
	}
	if event.Action == "" {
		return nil, fmt.Errorf("webhook payload has no action")
	}
	return &event, nil
}

// ParseMembership decodes the membership object of a membership.* event.
func (e *WebhookEvent) ParseMembership() (*Membership, error) {
	var m Membership
	if err := json.Unmarshal(e.Data, &m); err != nil {
		return nil, fmt.Errorf("decoding membership data: %w", err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("membership event has no membership id")
	}
	return &m, nil
}
