package common

import (
	"testing"
	"time"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	tokenString, expiresAt, err := svc.IssueToken("device-abc")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("Expected a future expiry")
	}

	parsed, err := svc.ValidateToken(tokenString)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if parsed.DeviceID != "device-abc" {
		t.Errorf("Expected device-abc, got %s", parsed.DeviceID)
	}
	if parsed.TokenID == "" {
		t.Error("Expected a token ID")
	}
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService([]byte("secret-a"), time.Hour)
	verifier := NewTokenService([]byte("secret-b"), time.Hour)

	tokenString, _, err := issuer.IssueToken("device-abc")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := verifier.ValidateToken(tokenString); err == nil {
		t.Error("Expected validation to fail under a different secret")
	}
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), time.Hour)

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected validation to fail for garbage input")
	}
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), -time.Minute)

	tokenString, _, err := svc.IssueToken("device-abc")
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	if _, err := svc.ValidateToken(tokenString); err == nil {
		t.Error("Expected validation to fail for an expired token")
	}
}
