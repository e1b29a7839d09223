package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Server holds runtime configuration for cmd/server. Every variable carries
// the MESS_ prefix in its tag; unprefixed names are never read.
type Server struct {
	Env  string `envconfig:"MESS_ENV" default:"development"`
	Addr string `envconfig:"MESS_ADDR" default:":8080"`

	DBPath  string `envconfig:"MESS_DB_PATH" default:"messhall.db"`
	CSRFKey string `envconfig:"MESS_CSRF_KEY"`

	// Hosts allowed to post cross-origin, e.g. mess.example.edu:8443
	TrustedOrigins []string `envconfig:"MESS_TRUSTED_ORIGINS"`

	AdminUsername string `envconfig:"MESS_ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"MESS_ADMIN_PASSWORD" default:"change-me-please"`

	MealCost  float64 `envconfig:"MESS_MEAL_COST" default:"50"`
	Currency  string  `envconfig:"MESS_CURRENCY" default:"₹"`
	RateLimit int     `envconfig:"MESS_RATE_LIMIT" default:"10"`

	SlowQueryMs   int `envconfig:"MESS_SLOW_QUERY_MS" default:"50"`
	SlowRequestMs int `envconfig:"MESS_SLOW_REQUEST_MS" default:"200"`

	ReadTimeout  time.Duration `envconfig:"MESS_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"MESS_WRITE_TIMEOUT" default:"15s"`

	LogFormat string `envconfig:"MESS_LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"MESS_LOG_LEVEL" default:"info"`
}

// Client holds runtime configuration for cmd/mealctl.
type Client struct {
	ServerURL      string        `envconfig:"MESS_SERVER_URL" default:"http://localhost:8080"`
	Username       string        `envconfig:"MESS_USERNAME"`
	Password       string        `envconfig:"MESS_PASSWORD"`
	RequestTimeout time.Duration `envconfig:"MESS_REQUEST_TIMEOUT" default:"10s"`
	ReportType     string        `envconfig:"MESS_REPORT_TYPE" default:"attendance"`

	LogFormat string `envconfig:"MESS_LOG_FORMAT" default:"text"`
	LogLevel  string `envconfig:"MESS_LOG_LEVEL" default:"info"`
}

// Log selects the slog handler.
type Log struct {
	Format string
	Level  string
}

// Logging returns the server's log settings.
func (c *Server) Logging() Log {
	return Log{Format: c.LogFormat, Level: c.LogLevel}
}

// Logging returns mealctl's log settings.
func (c *Client) Logging() Log {
	return Log{Format: c.LogFormat, Level: c.LogLevel}
}

var (
	ErrCSRFKeyRequired = errors.New("MESS_CSRF_KEY is required in production")
	ErrCSRFKeyFormat   = errors.New("MESS_CSRF_KEY must be 64 hex characters (32 bytes)")
	ErrMissingLogin    = errors.New("MESS_USERNAME and MESS_PASSWORD must be set")
)

// loadDotEnv reads .env when present. A missing file is not an error.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("config_event", "event", "dotenv_skipped", "error", err.Error())
	}
}

// LoadServer reads server configuration from the environment (and .env).
func LoadServer(dotenvFiles ...string) (*Server, error) {
	loadDotEnv(dotenvFiles...)
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.MealCost < 0 {
		return nil, fmt.Errorf("MESS_MEAL_COST cannot be negative: %v", cfg.MealCost)
	}
	if cfg.RateLimit <= 0 {
		return nil, fmt.Errorf("MESS_RATE_LIMIT must be positive: %d", cfg.RateLimit)
	}
	return &cfg, nil
}

// LoadClient reads mealctl configuration from the environment (and .env).
func LoadClient(dotenvFiles ...string) (*Client, error) {
	loadDotEnv(dotenvFiles...)
	var cfg Client
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, ErrMissingLogin
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	return &cfg, nil
}

// IsProduction returns true when the server runs in production.
func (c *Server) IsProduction() bool {
	return c != nil && c.Env == "production"
}

// CSRFSecret decodes CSRFKey. Outside production an empty key yields a
// random one, so sessions do not survive a restart.
func (c *Server) CSRFSecret() ([]byte, error) {
	if c.CSRFKey != "" {
		key, err := hex.DecodeString(c.CSRFKey)
		if err != nil || len(key) != 32 {
			return nil, ErrCSRFKeyFormat
		}
		return key, nil
	}
	if c.IsProduction() {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("config_event", "event", "random_csrf_key", "hint", "set MESS_CSRF_KEY for production")
	return key, nil
}
