package eauth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-kept-long-enough-for-hs256"

func TestMintToken_RoundTrip(t *testing.T) {
	token, err := MintToken("saltdev", "static", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("MintToken() returned empty token")
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.Subject != "saltdev" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "saltdev")
	}
	if claims.Backend != "static" {
		t.Errorf("Backend = %q, want %q", claims.Backend, "static")
	}
	if claims.ID == "" {
		t.Error("token should carry a unique ID")
	}
}

func TestMintToken_DefaultTTL(t *testing.T) {
	token, err := MintToken("saltdev", "static", testSecret, 0)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	claims, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	// Zero TTL falls back to 12 hours.
	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 12*time.Hour {
		t.Errorf("token lifetime = %v, want %v", lifetime, 12*time.Hour)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := MintToken("saltdev", "static", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	_, err = ParseToken(token, "a-completely-different-secret")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := MintToken("saltdev", "static", testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	_, err = ParseToken(token, testSecret)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Tampered(t *testing.T) {
	token, err := MintToken("saltdev", "static", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("MintToken() error = %v", err)
	}

	// Flip the payload; the signature no longer matches.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("JWT should have 3 parts, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1][:len(parts[1])-2] + "xx." + parts[2]

	if _, err := ParseToken(tampered, testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not-a-jwt", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}
