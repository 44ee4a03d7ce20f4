package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	DBDriver       string `env:"DB_DRIVER" envDefault:"postgres"` // "postgres" | "sqlite"
	PostgresURL    string `env:"POSTGRES_URL"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"tabi.db"`
	DBAutoMigrate  bool   `env:"DB_AUTOMIGRATE" envDefault:"true"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`

	JWTSecret string        `env:"JWT_SECRET"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`

	InvitationTTL               time.Duration `env:"INVITATION_TTL" envDefault:"168h"`
	DeleteInvitationAfterAccept bool          `env:"DELETE_INVITATION_AFTER_ACCEPT" envDefault:"true"`

	VerificationCodeTTL time.Duration `env:"VERIFICATION_CODE_TTL" envDefault:"10m"`
	VerificationStore   string        `env:"VERIFICATION_STORE" envDefault:"db"` // "db" | "memory"

	MaxPlanDays int `env:"MAX_PLAN_DAYS" envDefault:"60"`

	SMTP SMTPConfig `envPrefix:"SMTP_"`

	AppName    string `env:"APP_NAME" envDefault:"Tabi"`
	AppBaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:3000"`
	// Empty allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`
}

type SMTPConfig struct {
	Host       string `env:"HOST" envDefault:"smtp.gmail.com"`
	Port       int    `env:"PORT" envDefault:"587"`
	Username   string `env:"USERNAME"`
	Password   string `env:"PASSWORD"`
	From       string `env:"FROM"`
	FromName   string `env:"FROM_NAME" envDefault:"Tabi"`
	UseSSL     bool   `env:"USE_SSL" envDefault:"false"`
	RequireTLS bool   `env:"REQUIRE_TLS" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load dotenv: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "postgres", "postgresql":
		if strings.TrimSpace(c.PostgresURL) == "" {
			return errors.New("POSTGRES_URL is required when DB_DRIVER=postgres")
		}
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("SQLITE_PATH is required when DB_DRIVER=sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.InvitationTTL <= 0 {
		return errors.New("INVITATION_TTL must be positive")
	}
	if c.VerificationCodeTTL <= 0 {
		return errors.New("VERIFICATION_CODE_TTL must be positive")
	}
	switch c.VerificationStore {
	case "db", "memory":
	default:
		return fmt.Errorf("unsupported VERIFICATION_STORE %q", c.VerificationStore)
	}
	if c.MaxPlanDays < 1 {
		return errors.New("MAX_PLAN_DAYS must be at least 1")
	}
	return nil
}
