package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration, loaded from the environment.
type Config struct {
	AppEnv          string        `envconfig:"APP_ENV" default:"development"`
	AppAddr         string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout  time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`

	DatabaseURL       string `envconfig:"DATABASE_URL"`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	JWTSecret         string `envconfig:"JWT_SECRET"`
	DataEncryptionKey string `envconfig:"DATA_ENCRYPTION_KEY"`

	AccessTokenTTL     time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"8h"`
	LockoutMaxAttempts int           `envconfig:"LOCKOUT_MAX_ATTEMPTS" default:"5"`
	LockoutWindow      time.Duration `envconfig:"LOCKOUT_WINDOW" default:"15m"`

	MaxBodyBytes       int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
	RateLimitPerMinute int   `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60"`

	RunMigrations bool   `envconfig:"RUN_MIGRATIONS" default:"true"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RunSeed       bool   `envconfig:"RUN_SEED" default:"true"`

	SeedTenantName         string `envconfig:"SEED_TENANT_NAME" default:"HeroHub"`
	SeedAdminEmail         string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword      string `envconfig:"SEED_ADMIN_PASSWORD"`
	SeedSuperAdminEmail    string `envconfig:"SEED_SUPERADMIN_EMAIL"`
	SeedSuperAdminPassword string `envconfig:"SEED_SUPERADMIN_PASSWORD"`

	EmailEnabled bool   `envconfig:"EMAIL_ENABLED" default:"false"`
	EmailFrom    string `envconfig:"EMAIL_FROM" default:"no-reply@herohub.local"`
	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPUseTLS   bool   `envconfig:"SMTP_USE_TLS" default:"true"`

	SessionSweepInterval       time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1h"`
	OnboardingReminderInterval time.Duration `envconfig:"ONBOARDING_REMINDER_INTERVAL" default:"24h"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.LockoutMaxAttempts <= 0 {
		return fmt.Errorf("LOCKOUT_MAX_ATTEMPTS must be positive")
	}
	if c.LockoutWindow <= 0 {
		return fmt.Errorf("LOCKOUT_WINDOW must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
