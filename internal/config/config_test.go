package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected port 8080 got %s", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day token ttl got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Ledger.OverdueValue != 30 || cfg.Ledger.OverdueUnit != "days" {
		t.Fatalf("unexpected overdue defaults %+v", cfg.Ledger)
	}
	if cfg.Location.TimeZone != "Africa/Casablanca" {
		t.Fatalf("unexpected tz %s", cfg.Location.TimeZone)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MIGRATIONS", "true")
	t.Setenv("WHTSP_SERVICE_BASE_URL", `"http://gw.local/"`)
	t.Setenv("WHTSP_SERVICE_API_KEY", "'k3y'")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || !cfg.App.Migrations {
		t.Fatalf("overrides not applied: %+v %+v", cfg.Server, cfg.App)
	}
	wa := cfg.WhatsApp.Trimmed()
	if wa.BaseURL != "http://gw.local" || wa.APIKey != "k3y" {
		t.Fatalf("unexpected whatsapp settings %+v", wa)
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("DB_PORT", "not-an-int")
	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "g", SSLMode: "disable"}
	if got := d.DSN(); got != "host=db port=5432 user=u password=p dbname=g sslmode=disable" {
		t.Fatalf("dsn: %s", got)
	}
	if got := d.URL(); got != "postgres://u:p@db:5432/g?sslmode=disable" {
		t.Fatalf("url: %s", got)
	}
	d.RawDSN = `"host=x  user=a dbname=b"`
	if got := d.DSN(); got != "host=x user=a dbname=b sslmode=disable" {
		t.Fatalf("raw dsn: %s", got)
	}
	if got := d.URL(); got != "postgres://a@x/b?sslmode=disable" {
		t.Fatalf("raw url: %s", got)
	}
}

func TestNormalizeDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"postgres://u:p@h/db", "postgres://u:p@h/db"},
		{"not a dsn", "not a dsn"},
		{"host=h sslmode=require", "host=h sslmode=require"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
