package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-with-enough-entropy"

func newTestService(t *testing.T, cfg Config, opts ...Option) *Service {
	t.Helper()
	svc, err := NewService(&cfg, opts...)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func assertKind(t *testing.T, err error, want Kind) {
	t.Helper()
	var ite *InvalidTokenError
	if !errors.As(err, &ite) {
		t.Fatalf("expected *InvalidTokenError, got %T (%v)", err, err)
	}
	if ite.Kind != want {
		t.Errorf("kind = %s, want %s (%v)", ite.Kind, want, ite.Err)
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})

	token, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	for i := 0; i < 2; i++ {
		subject, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify #%d: %v", i+1, err)
		}
		if subject != "user-123" {
			t.Errorf("subject = %q, want user-123", subject)
		}
	}
}

func TestIssueCarriesIssuedAtWithoutExpiry(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTestService(t, Config{Secret: testSecret}, WithClock(func() time.Time { return fixed }))

	token, err := svc.Issue("abc")
	if err != nil {
		t.Fatal(err)
	}

	claims := &gojwt.RegisteredClaims{}
	if _, _, err := gojwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if claims.IssuedAt == nil || !claims.IssuedAt.Time.Equal(fixed) {
		t.Errorf("iat = %v, want %v", claims.IssuedAt, fixed)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("expected no exp claim when TTL is zero, got %v", claims.ExpiresAt)
	}
}

func TestIssueEmptySubject(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	if _, err := svc.Issue(""); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("expected ErrEmptySubject, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := newTestService(t, Config{Secret: testSecret})
	other := newTestService(t, Config{Secret: "a-completely-different-secret"})

	token, _ := issuer.Issue("user-1")
	_, err := other.Verify(token)
	assertKind(t, err, SignatureInvalid)
}

func TestVerifyWrongAlgorithm(t *testing.T) {
	hs512 := newTestService(t, Config{Secret: testSecret, Method: HS512})
	hs256 := newTestService(t, Config{Secret: testSecret})

	token, _ := hs512.Issue("user-1")
	_, err := hs256.Verify(token)
	assertKind(t, err, SignatureInvalid)
}

func TestVerifyExpired(t *testing.T) {
	past := time.Now().Add(-2 * time.Hour)
	old := newTestService(t, Config{Secret: testSecret, TTL: time.Hour}, WithClock(func() time.Time { return past }))
	current := newTestService(t, Config{Secret: testSecret, TTL: time.Hour})

	token, _ := old.Issue("user-1")
	_, err := current.Verify(token)
	assertKind(t, err, Expired)
}

func TestVerifyWithinTTL(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret, TTL: time.Hour})
	token, _ := svc.Issue("user-1")
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("expected fresh token to verify, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	for _, token := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9.e30"} {
		t.Run(token, func(t *testing.T) {
			_, err := svc.Verify(token)
			assertKind(t, err, Malformed)
		})
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	svc := newTestService(t, Config{Secret: testSecret})
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		IssuedAt: gojwt.NewNumericDate(time.Now()),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Verify(token)
	assertKind(t, err, Malformed)
}

func TestVerifyIssuerMismatch(t *testing.T) {
	a := newTestService(t, Config{Secret: testSecret, Issuer: "svc-a"})
	b := newTestService(t, Config{Secret: testSecret, Issuer: "svc-b"})

	token, _ := a.Issue("user-1")
	if _, err := a.Verify(token); err != nil {
		t.Fatalf("same issuer should verify: %v", err)
	}
	_, err := b.Verify(token)
	assertKind(t, err, Malformed)
}

func TestES256(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	svc := newTestService(t, Config{Method: ES256, PrivateKey: key})

	token, err := svc.Issue("user-ec")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	subject, err := svc.Verify(token)
	if err != nil || subject != "user-ec" {
		t.Errorf("Verify = %q, %v", subject, err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"hmac with secret", Config{Secret: testSecret}, false},
		{"hmac without secret", Config{}, true},
		{"negative ttl", Config{Secret: testSecret, TTL: -time.Second}, true},
		{"rs256 without key", Config{Method: RS256}, true},
		{"unknown method", Config{Secret: testSecret, Method: "none"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewService(&tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Errorf("NewService error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestNewServiceCopiesConfig(t *testing.T) {
	cfg := Config{Secret: testSecret}
	svc, err := NewService(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	token, _ := svc.Issue("user-1")

	cfg.Secret = "changed-after-construction"
	if _, err := svc.Verify(token); err != nil {
		t.Errorf("service must not observe later config changes: %v", err)
	}
}
