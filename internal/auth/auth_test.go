package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "super-secret" {
		t.Fatal("hash must not equal plaintext")
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestHashPasswordIsSalted(t *testing.T) {
	first, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	second, err := HashPassword("same")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if first == second {
		t.Fatal("expected different hashes for the same password")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	claims := Claims{UserID: "u1", Username: "alice", Email: "alice@example.com"}

	token, err := GenerateToken(secret, claims, issued, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token, issued.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.Username != claims.Username || parsed.Email != claims.Email {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
	if !parsed.ExpiresAt.Time.Equal(issued.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour after issue, got %v", parsed.ExpiresAt.Time)
	}
}

func TestParseTokenExpired(t *testing.T) {
	issued := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, issued, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	_, err = ParseToken("secret", token, issued.Add(time.Hour+time.Minute))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParseTokenRejectsBadSignature(t *testing.T) {
	issued := time.Now()
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, issued, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	if _, err := ParseToken("other-secret", token, issued); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := ParseToken("secret", "not-a-token", issued); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestParseTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		UserID:           "u1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign error: %v", err)
	}
	if _, err := ParseToken("secret", signed, time.Now()); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected none algorithm to be rejected, got %v", err)
	}
}
