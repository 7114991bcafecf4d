package whop

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignatureValid(t *testing.T) {
	body := []byte(`{"action":"membership.went_valid","data":{"id":"mem_123"}}`)
	if err := VerifySignature("topsecret", body, sign("topsecret", body)); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignatureAcceptsPrefixedHeader(t *testing.T) {
	body := []byte(`{}`)
	if err := VerifySignature("topsecret", body, "sha256="+sign("topsecret", body)); err != nil {
		t.Fatalf("expected valid prefixed signature, got %v", err)
	}
}

func TestVerifySignatureRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"action":"membership.went_valid"}`)
	sig := sign("topsecret", body)
	if err := VerifySignature("topsecret", []byte(`{"action":"membership.went_invalid"}`), sig); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	body := []byte(`{}`)
	if err := VerifySignature("topsecret", body, sign("othersecret", body)); err == nil {
		t.Fatal("expected signature mismatch")
	}
}

func TestVerifySignatureRejectsMissingConfig(t *testing.T) {
	if err := VerifySignature("", []byte(`{}`), "abc"); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if err := VerifySignature("topsecret", []byte(`{}`), ""); err == nil {
		t.Fatal("expected error for missing signature")
	}
}

func TestParseEventAndMembership(t *testing.T) {
	body := []byte(`{"action":"membership.went_valid","data":{"id":"mem_123","user_id":"user_9","plan_id":"plan_1","valid":true}}`)
	event, err := ParseEvent("topsecret", body, sign("topsecret", body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if event.Action != EventMembershipWentValid {
		t.Fatalf("unexpected action %q", event.Action)
	}
	m, err := event.ParseMembership()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "mem_123" || m.UserID != "user_9" || !m.Valid {
		t.Fatalf("unexpected membership %+v", m)
	}
}

func TestParseEventRejectsEmptyAction(t *testing.T) {
	body := []byte(`{"data":{}}`)
	if _, err := ParseEvent("topsecret", body, sign("topsecret", body)); err == nil {
		t.Fatal("expected error for missing action")
	}
}
