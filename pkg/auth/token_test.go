package auth

import (
	"testing"
	"time"

	"github.com/tgshopai/tgshop-backend/pkg/config"
)

func TestMintAndParseAdminToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "tgshop",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()

	token, err := MintAdminToken(cfg, now)
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	claims, err := ParseAdminToken(cfg, token)
	if err != nil {
		t.Fatalf("parse admin token: %v", err)
	}

	if claims.Role != RoleAdmin {
		t.Fatalf("unexpected role %q", claims.Role)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp, claims.ExpiresAt, diff)
	}
}

func TestParseAdminTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "tgshop", ExpirationMinutes: 10}

	token, err := MintAdminToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	other := config.JWTConfig{Secret: "different", Issuer: "tgshop", ExpirationMinutes: 10}
	if _, err := ParseAdminToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}
}

func TestParseAdminTokenWrongIssuer(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "tgshop", ExpirationMinutes: 10}

	token, err := MintAdminToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("mint admin token: %v", err)
	}

	other := config.JWTConfig{Secret: "secret", Issuer: "someone-else", ExpirationMinutes: 10}
	if _, err := ParseAdminToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestMintAdminTokenRequiresConfig(t *testing.T) {
	if _, err := MintAdminToken(config.JWTConfig{}, time.Now()); err == nil {
		t.Fatal("expected empty config to be rejected")
	}
	if _, err := MintAdminToken(config.JWTConfig{Secret: "s", Issuer: "i"}, time.Now()); err == nil {
		t.Fatal("expected non-positive TTL to be rejected")
	}
}
