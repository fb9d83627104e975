package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "carmate"},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
		Auth: AuthConfig{
			AccessSecret:  strings.Repeat("a", 32),
			RefreshSecret: strings.Repeat("r", 32),
		},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_ProductionRequiresSSLMode(t *testing.T) {
	c := validConfig()
	c.App.Env = "production"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE")
	}
}

func TestValidate_LocalDefaultsSSLMode(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
}

func TestValidate_AuthDefaults(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.Auth.Issuer != "carmate" || c.Auth.Audience != "carmate-api" {
		t.Fatalf("unexpected issuer/audience defaults: %q %q", c.Auth.Issuer, c.Auth.Audience)
	}
	if c.Auth.AccessTTL != time.Hour || c.Auth.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("unexpected TTL defaults: %v %v", c.Auth.AccessTTL, c.Auth.RefreshTTL)
	}
}

func TestValidate_SecretRules(t *testing.T) {
	c := validConfig()
	c.Auth.AccessSecret = "too short"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected short secret rejection")
	}

	c = validConfig()
	c.Auth.RefreshSecret = c.Auth.AccessSecret
	if err := c.Validate(); err == nil {
		t.Fatalf("expected identical secret rejection")
	}
}

func TestValidate_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	c := validConfig()
	c.Auth.AccessTTL = 2 * time.Hour
	c.Auth.RefreshTTL = time.Hour
	if err := c.Validate(); err == nil {
		t.Fatalf("expected TTL ordering rejection")
	}
}

func TestValidate_RateLimitWindowDefault(t *testing.T) {
	c := validConfig()
	c.RateLimit.MaxRequests = 100
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.RateLimit.Window != time.Minute {
		t.Fatalf("expected one minute default window, got %v", c.RateLimit.Window)
	}
}

func TestValidate_RejectsUnknownEnv(t *testing.T) {
	c := validConfig()
	c.App.Env = "qa"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected unknown env rejection")
	}
}

func TestPostgresDSN(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	dsn := c.PostgresDSN()
	for _, part := range []string{"host=localhost", "port=5432", "dbname=carmate", "sslmode=disable"} {
		if !strings.Contains(dsn, part) {
			t.Fatalf("dsn missing %q: %s", part, dsn)
		}
	}
}
