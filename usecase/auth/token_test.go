package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/cybertodo/backend/domain"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret")
	session := &domain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	token, err := mgr.Issue(session)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sid, err := mgr.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sid != "sess-1" {
		t.Errorf("sid = %q, want sess-1", sid)
	}
}

func TestTokenExpired(t *testing.T) {
	mgr := NewTokenManager("test-secret")
	session := &domain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}

	token, err := mgr.Issue(session)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mgr.Parse(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Parse expired token = %v, want ErrUnauthorized", err)
	}
}

func TestTokenRejectsForgeries(t *testing.T) {
	mgr := NewTokenManager("test-secret")
	other := NewTokenManager("different-secret")
	session := &domain.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	foreign, err := other.Issue(session)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := mgr.Parse(tt.token); !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Parse(%q) = %v, want ErrUnauthorized", tt.token, err)
			}
		})
	}
}

func TestIssueNilSession(t *testing.T) {
	mgr := NewTokenManager("test-secret")
	if _, err := mgr.Issue(nil); err == nil {
		t.Error("Issue(nil) succeeded, want error")
	}
}
