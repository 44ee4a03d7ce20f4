package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InvitationTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day invitation ttl, got %s", cfg.InvitationTTL)
	}
	if !cfg.DeleteInvitationAfterAccept {
		t.Fatal("expected invitations to be deleted after accept by default")
	}
	if cfg.VerificationStore != "db" {
		t.Fatalf("expected db verification store, got %q", cfg.VerificationStore)
	}
	if cfg.SMTP.Port != 587 {
		t.Fatalf("expected smtp port 587, got %d", cfg.SMTP.Port)
	}
}

func TestLoadReadsDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_DRIVER=sqlite\nJWT_SECRET=from-file\nINVITATION_TTL=48h\nSMTP_HOST=mail.example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		for _, k := range []string{"DB_DRIVER", "JWT_SECRET", "INVITATION_TTL", "SMTP_HOST"} {
			os.Unsetenv(k)
		}
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-file" {
		t.Fatalf("expected secret from file, got %q", cfg.JWTSecret)
	}
	if cfg.InvitationTTL != 48*time.Hour {
		t.Fatalf("expected 48h, got %s", cfg.InvitationTTL)
	}
	if cfg.SMTP.Host != "mail.example.com" {
		t.Fatalf("expected smtp host from file, got %q", cfg.SMTP.Host)
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := Config{DBDriver: "sqlite", SQLitePath: "x.db", InvitationTTL: time.Hour, VerificationCodeTTL: time.Minute, VerificationStore: "db", MaxPlanDays: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT secret")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{DBDriver: "mongo", JWTSecret: "s", InvitationTTL: time.Hour, VerificationCodeTTL: time.Minute, VerificationStore: "db", MaxPlanDays: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
