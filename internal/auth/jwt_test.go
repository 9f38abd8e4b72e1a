package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseJWT(t *testing.T) {
	secret := "test-secret"
	token, err := GenerateJWT(secret, 42, "alex", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alex" || claims.Role != "user" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret-a", 1, "alex", "user", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if _, err := ParseJWT("secret-b", token); err == nil {
		t.Errorf("expected error for wrong secret")
	}
}

func TestParseJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("secret", 1, "alex", "user", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}
	if _, err := ParseJWT("secret", token); err == nil {
		t.Errorf("expected error for expired token")
	}
}
