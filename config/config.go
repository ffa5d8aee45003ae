package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"PORT" envDefault:"8080"`

	DatabaseURL string `env:"DB_URL,required,notEmpty"`

	JWTSecret      string `env:"JWT_SECRET,required,notEmpty"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"168"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"true"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	BusinessOpenHour  int `env:"BUSINESS_OPEN_HOUR" envDefault:"9"`
	BusinessCloseHour int `env:"BUSINESS_CLOSE_HOUR" envDefault:"17"`

	// Bootstrap admin, created on start when ADMIN_EMAIL is set and unused.
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminPhone    string `env:"ADMIN_PHONE"`

	// SMS reminders
	TwilioAccountSID  string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `env:"TWILIO_AUTH_TOKEN"`
	TwilioPhoneNumber string `env:"TWILIO_PHONE_NUMBER"`
	ReminderCron      string `env:"REMINDER_CRON" envDefault:"0 9 * * *"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTExpiryHours <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive, got %d", c.JWTExpiryHours)
	}
	if c.BusinessOpenHour < 0 || c.BusinessCloseHour > 24 || c.BusinessOpenHour >= c.BusinessCloseHour {
		return fmt.Errorf("invalid business hours %d-%d", c.BusinessOpenHour, c.BusinessCloseHour)
	}
	if c.AdminEmail != "" && len(c.AdminPassword) < 6 {
		return fmt.Errorf("ADMIN_PASSWORD must be at least 6 characters when ADMIN_EMAIL is set")
	}
	return nil
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.JWTExpiryHours) * time.Hour
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// SMSEnabled reports whether Twilio credentials are configured.
func (c *Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioPhoneNumber != ""
}
