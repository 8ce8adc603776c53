package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"golang.org/x/crypto/bcrypt"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort       string        `env:"HTTP_PORT" envDefault:"8080"`
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`

	DatabaseURL   string `env:"DATABASE_URL,required"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBAutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"true"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	JWTIssuer  string        `env:"JWT_ISSUER" envDefault:"crowdfund"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"1h"`

	VerificationTTL     time.Duration `env:"VERIFICATION_TTL" envDefault:"1h"`
	ResetTTL            time.Duration `env:"RESET_TTL" envDefault:"15m"`
	BcryptCost          int           `env:"BCRYPT_COST" envDefault:"10"`
	HashConcurrency     int64         `env:"HASH_CONCURRENCY" envDefault:"4"`
	ConcealUnknownEmail bool          `env:"CONCEAL_UNKNOWN_EMAIL" envDefault:"false"`

	SMTPHost     string        `env:"SMTP_HOST"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string        `env:"SMTP_USER"`
	SMTPPass     string        `env:"SMTP_PASS"`
	SMTPFrom     string        `env:"SMTP_FROM"`
	SMTPFromName string        `env:"SMTP_FROM_NAME" envDefault:"Crowdfunding App"`
	SMTPUseTLS   bool          `env:"SMTP_USE_TLS" envDefault:"false"`
	MailTimeout  time.Duration `env:"MAIL_TIMEOUT" envDefault:"10s"`

	RedisAddr        string        `env:"REDIS_ADDR"`
	RedisPassword    string        `env:"REDIS_PASSWORD"`
	RedisDB          int           `env:"REDIS_DB" envDefault:"0"`
	CampaignCacheTTL time.Duration `env:"CAMPAIGN_CACHE_TTL" envDefault:"60s"`

	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	EmailLimitWindow time.Duration `env:"EMAIL_LIMIT_WINDOW" envDefault:"10m"`
	EmailLimitMax    int           `env:"EMAIL_LIMIT_MAX" envDefault:"3"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rechaza combinaciones que el servicio no puede usar.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET must not be empty")
	}
	for name, d := range map[string]time.Duration{
		"SESSION_TTL":      c.SessionTTL,
		"VERIFICATION_TTL": c.VerificationTTL,
		"RESET_TTL":        c.ResetTTL,
		"REQUEST_TIMEOUT":  c.RequestTimeout,
		"MAIL_TIMEOUT":     c.MailTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("config: %s must be positive", name)
		}
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.HashConcurrency <= 0 {
		return errors.New("config: HASH_CONCURRENCY must be positive")
	}
	return nil
}
