package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Database
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"stockroom"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// Sessions
	SessionSecret  string        `envconfig:"SESSION_SECRET"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	SessionCookie  string        `envconfig:"SESSION_COOKIE" default:"stockroom_session"`
	SecureCookies  bool          `envconfig:"SECURE_COOKIES" default:"false"`
	SignupRole     string        `envconfig:"SIGNUP_ROLE" default:"merchant"`
	SessionPurgeAt time.Duration `envconfig:"SESSION_PURGE_INTERVAL" default:"1h"`

	// Guard destinations
	LoginPath    string `envconfig:"LOGIN_PATH" default:"/"`
	PendingPath  string `envconfig:"PENDING_PATH" default:"/pending"`
	LandingPath  string `envconfig:"LANDING_PATH" default:"/dashboard"`
	DeniedNotice string `envconfig:"DENIED_NOTICE" default:"You do not have permission to access this page."`

	// Display
	TimeZone string `envconfig:"TIME_ZONE" default:"Australia/Sydney"`

	// Server
	Port        string `envconfig:"PORT" default:"8080"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogRetain   int    `envconfig:"LOG_RETENTION_DAYS" default:"30"`

	// Depot registry
	DepotsConfigPath string `envconfig:"DEPOTS_CONFIG_PATH" default:"depots.yaml"`

	SentryDSN string `envconfig:"SENTRY_DSN"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
}

func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &c, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location falls back to UTC when TimeZone is not a known zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
