package eauth

import (
	"context"
	"errors"
	"testing"
	"time"
)

// testIssuer builds a static issuer with one known user.
func testIssuer(t *testing.T) *StaticIssuer {
	t.Helper()

	hash, err := HashPassword("saltdev")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	return NewStaticIssuer(map[string]string{"saltdev": hash}, testSecret, time.Hour)
}

func TestStaticIssuer_ValidCredentials(t *testing.T) {
	issuer := testIssuer(t)

	token, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "saltdev",
		Password: "saltdev",
		Backend:  "static",
	})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
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
}

func TestStaticIssuer_WrongPassword(t *testing.T) {
	issuer := testIssuer(t)

	_, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "saltdev",
		Password: "nope",
		Backend:  "static",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestStaticIssuer_UnknownUser(t *testing.T) {
	issuer := testIssuer(t)

	_, err := issuer.IssueToken(context.Background(), Credentials{
		Username: "who",
		Password: "saltdev",
		Backend:  "static",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("IssueToken() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	issuer := testIssuer(t)
	reg.Register("static", issuer)

	got, err := reg.Resolve("static")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != Issuer(issuer) {
		t.Error("Resolve() returned a different issuer than registered")
	}
}

func TestRegistry_UnknownBackend(t *testing.T) {
	reg := NewRegistry()
	reg.Register("static", testIssuer(t))

	_, err := reg.Resolve("ldap")
	if !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Resolve() error = %v, want ErrUnknownBackend", err)
	}
}

func TestRegistry_Backends(t *testing.T) {
	reg := NewRegistry()
	issuer := testIssuer(t)
	reg.Register("static", issuer)
	reg.Register("auto", issuer)

	got := reg.Backends()
	want := []string{"auto", "static"}
	if len(got) != len(want) {
		t.Fatalf("Backends() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Backends()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
