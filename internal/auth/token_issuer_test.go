package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenIssuerIssuesAndValidatesToken(t *testing.T) {
	issuedAt := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "writecast-auth",
		Audience:      "writecast-api",
		TokenTTL:      30 * time.Minute,
		Clock:         func() time.Time { return issuedAt },
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	token, expiresIn, err := issuer.IssueSessionToken(context.Background(), "user-123", "alice")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if expiresIn != int64((30 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expiry seconds %d", expiresIn)
	}

	subject, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected token to validate: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("unexpected subject %s", subject)
	}
}

func TestTokenIssuerRejectsExpiredToken(t *testing.T) {
	current := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "writecast-auth",
		Audience:      "writecast-api",
		TokenTTL:      time.Minute,
		Clock:         func() time.Time { return current },
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	token, _, err := issuer.IssueSessionToken(context.Background(), "user-123", "alice")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := issuer.ValidateToken(token); err == nil {
		t.Fatalf("expected validation to fail after expiry")
	}
}

func TestTokenIssuerRequiresSubject(t *testing.T) {
	issuer, err := NewTokenIssuer(TokenIssuerConfig{
		SigningSecret: []byte("test-secret"),
		Issuer:        "writecast-auth",
		Audience:      "writecast-api",
	})
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}

	_, _, err = issuer.IssueSessionToken(context.Background(), "   ", "alice")
	if !errors.Is(err, errMissingSubjectClaim) {
		t.Fatalf("expected missing subject error, got %v", err)
	}
}

func TestNewTokenIssuerValidatesConfig(t *testing.T) {
	if _, err := NewTokenIssuer(TokenIssuerConfig{Issuer: "a", Audience: "b"}); !errors.Is(err, errMissingSigningSecret) {
		t.Fatalf("expected missing signing secret error, got %v", err)
	}
	if _, err := NewTokenIssuer(TokenIssuerConfig{SigningSecret: []byte("s"), Audience: "b"}); !errors.Is(err, errMissingIssuerConfig) {
		t.Fatalf("expected missing issuer error, got %v", err)
	}
	if _, err := NewTokenIssuer(TokenIssuerConfig{SigningSecret: []byte("s"), Issuer: "a"}); !errors.Is(err, errMissingAudience) {
		t.Fatalf("expected missing audience error, got %v", err)
	}
}
