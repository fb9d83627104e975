package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"carmate-platform/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		AccessSecret:  "access-secret-access-secret-access-secret",
		RefreshSecret: "refresh-secret-refresh-secret-refresh-secret",
		Issuer:        "carmate",
		Audience:      "carmate-api",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := testManager(t)

	now := time.Unix(1700000000, 0).UTC()
	id := Identity{UserID: "user-1", Email: "kim@example.com", CompanyID: "co-1"}
	pair, err := m.IssuePair(now, id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token strings")
	}

	got, err := m.VerifyAccess(pair.AccessToken, now.Add(1*time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if got != id {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestVerifyRejectsWrongTokenClass(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, Identity{UserID: "u", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.VerifyAccess(pair.RefreshToken, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("refresh token passed access verification: %v", err)
	}
	if _, err := m.VerifyRefresh(pair.AccessToken, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("access token passed refresh verification: %v", err)
	}
}

func TestVerifyExpiredDistinctFromInvalid(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, Identity{UserID: "u", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Past expiry plus leeway.
	late := now.Add(16 * time.Minute)
	if _, err := m.VerifyAccess(pair.AccessToken, late); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Within the 30s leeway the token is still accepted.
	if _, err := m.VerifyAccess(pair.AccessToken, now.Add(15*time.Minute+10*time.Second)); err != nil {
		t.Fatalf("expected leeway to accept, got %v", err)
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, Identity{UserID: "u", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(pair.AccessToken, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := m.VerifyAccess(tampered, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}

	if _, err := m.VerifyAccess("not-a-jwt", now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestVerifyRejectsForeignIssuer(t *testing.T) {
	other, err := NewManager(config.AuthConfig{
		AccessSecret:  "access-secret-access-secret-access-secret",
		RefreshSecret: "refresh-secret-refresh-secret-refresh-secret",
		Issuer:        "someone-else",
		Audience:      "carmate-api",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}

	now := time.Unix(1700000000, 0).UTC()
	pair, err := other.IssuePair(now, Identity{UserID: "u", Email: "e@x.com"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	m := testManager(t)
	if _, err := m.VerifyAccess(pair.AccessToken, now); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected issuer mismatch rejection, got %v", err)
	}
}

func TestDecodeUnsafe(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()
	id := Identity{UserID: "u", Email: "e@x.com", IsAdmin: true}
	pair, err := m.IssuePair(now, id)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	got, ok := m.DecodeUnsafe(pair.AccessToken)
	if !ok || got != id {
		t.Fatalf("decode: ok=%v identity=%+v", ok, got)
	}
	if _, ok := m.DecodeUnsafe("garbage"); ok {
		t.Fatalf("expected decode failure")
	}
}

func TestNewManagerValidation(t *testing.T) {
	long := strings.Repeat("s", 32)

	if _, err := NewManager(config.AuthConfig{AccessSecret: "short", RefreshSecret: long}); err == nil {
		t.Fatalf("expected short secret rejection")
	}
	if _, err := NewManager(config.AuthConfig{AccessSecret: long, RefreshSecret: long}); err == nil {
		t.Fatalf("expected identical secret rejection")
	}
}
