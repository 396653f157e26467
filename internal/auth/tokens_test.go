package auth

import (
	"testing"
	"time"

	"fragstats/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(&config.Config{JWTSecret: "test-secret"})

	token, err := issuer.Issue("acct-1", "sess-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.AccountID != "acct-1" {
		t.Errorf("expected account acct-1, got %q", claims.AccountID)
	}
	if claims.SessionID != "sess-1" {
		t.Errorf("expected session sess-1, got %q", claims.SessionID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer(&config.Config{JWTSecret: "test-secret"})
	other := NewTokenIssuer(&config.Config{JWTSecret: "other-secret"})

	token, err := issuer.Issue("acct-1", "sess-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer := &TokenIssuer{secret: []byte("test-secret"), ttl: -time.Minute}

	token, err := issuer.Issue("acct-1", "sess-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Fatal("expected verification to fail for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer(&config.Config{JWTSecret: "test-secret"})

	if _, err := issuer.Verify("not-a-token"); err == nil {
		t.Fatal("expected verification to fail for malformed token")
	}
}
