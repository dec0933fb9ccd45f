package config

import (
	"testing"
	"time"
)

func validBase() Config {
	return Config{
		App:   AppConfig{Env: "local", Port: 8080},
		DB:    DBConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "x", Name: "callcenter", SSLMode: ""},
		Redis: RedisConfig{Host: "localhost", Port: 6379},
	}
}

func TestValidate_ReportsMissingRequired(t *testing.T) {
	c := Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestValidate_LocalDefaults(t *testing.T) {
	c := validBase()
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if c.DB.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable default, got %q", c.DB.SSLMode)
	}
	if c.Dashboard.CacheTTL != 10*time.Second {
		t.Fatalf("expected 10s cache TTL default, got %s", c.Dashboard.CacheTTL)
	}
}

func TestValidate_ProductionRequiresSSLModeAndOrigins(t *testing.T) {
	c := validBase()
	c.App.Env = "production"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for production without DB_SSLMODE and CORS_ALLOW_ORIGINS")
	}

	c = validBase()
	c.App.Env = "production"
	c.DB.SSLMode = "require"
	c.Dashboard.CORSAllowOrigins = []string{"https://dashboard.example.com"}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidate_CacheTTLMustStayBelowPollInterval(t *testing.T) {
	c := validBase()
	c.Dashboard.CacheTTL = time.Minute
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error for TTL above poll interval")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
	if len(splitCSV("")) != 0 {
		t.Fatalf("expected empty slice for empty input")
	}
}
