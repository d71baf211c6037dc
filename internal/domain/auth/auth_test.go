package auth

import (
	"testing"
	"time"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected password to match: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("unit-secret", Claims{UserID: "u1", WorkerID: "w1", Role: RoleEmployee}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := ParseToken("unit-secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != "u1" || claims.WorkerID != "w1" || claims.Role != RoleEmployee {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("unit-secret", Claims{UserID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}

func TestSigningTokenRoundTrip(t *testing.T) {
	token, err := GenerateSigningToken("sign-secret", "sub-42", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	submissionID, err := ParseSigningToken("sign-secret", token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submissionID != "sub-42" {
		t.Fatalf("expected sub-42, got %q", submissionID)
	}
}

func TestSigningTokenExpired(t *testing.T) {
	token, err := GenerateSigningToken("sign-secret", "sub-42", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseSigningToken("sign-secret", token); err != ErrSigningTokenExpired {
		t.Fatalf("expected ErrSigningTokenExpired, got %v", err)
	}
}
