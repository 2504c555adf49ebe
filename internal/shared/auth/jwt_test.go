package auth

import (
	"testing"

	"github.com/explorer2005/skycab-booking-system/internal/shared/config"
)

func TestGenerateAndValidateToken(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 10})

	token, err := svc.GenerateToken("user-1", "rider@example.com", RoleRider)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("UserID = %s, want user-1", claims.UserID)
	}
	if claims.Role != RoleRider {
		t.Errorf("Role = %s, want %s", claims.Role, RoleRider)
	}
	if claims.IsAdmin() {
		t.Error("rider claims report IsAdmin")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTService(config.JWTConfig{Secret: "secret_a", ExpiryMinutes: 10})
	verifier := NewJWTService(config.JWTConfig{Secret: "secret_b", ExpiryMinutes: 10})

	token, err := issuer.GenerateToken("user-1", "x@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret validated")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: -1})

	token, err := svc.GenerateToken("user-1", "x@example.com", RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Error("expired token validated")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test_secret", ExpiryMinutes: 10})

	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Error("garbage token validated")
	}
}
