package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Fields bind to environment
// variables via env tags; unset variables fall back to the defaults
// below.
type Config struct {
	// App
	AppName string `env:"APP_NAME" envDefault:"DialogKit"`
	Version string `env:"APP_VERSION" envDefault:"1.0.0"`
	Debug   bool   `env:"DEBUG" envDefault:"false"`

	// HTTP
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	APIPrefix   string `env:"API_PREFIX" envDefault:"/api/v1"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	// Conversation state
	ContextTTL       time.Duration `env:"CONTEXT_TTL" envDefault:"1h"`
	MemoryTTL        time.Duration `env:"MEMORY_TTL" envDefault:"1h"`
	SummaryThreshold int           `env:"SUMMARY_THRESHOLD" envDefault:"10"`
	LongTermEnabled  bool          `env:"LONG_TERM_ENABLED" envDefault:"true"`

	// Rate limiting
	RateLimitEnabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitMax     int           `env:"RATE_LIMIT_MAX" envDefault:"100"`
	RateLimitWindow  time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`

	// Redis. An empty addr keeps session memory and rate limiting in
	// process.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Long-term storage
	SQLitePath string `env:"SQLITE_PATH" envDefault:"chatbot.db"`

	// Safety
	SafetyEnabled bool `env:"SAFETY_ENABLED" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Slack adapter
	SlackBotToken      string `env:"SLACK_BOT_TOKEN"`
	SlackSigningSecret string `env:"SLACK_SIGNING_SECRET"`

	// Teams adapter
	TeamsAppID       string `env:"TEAMS_APP_ID"`
	TeamsAppPassword string `env:"TEAMS_APP_PASSWORD"`

	// WhatsApp adapter (Twilio)
	TwilioAccountSID     string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `env:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppNumber string `env:"TWILIO_WHATSAPP_NUMBER"`
}

// Load reads .env when one is present and binds the environment to a
// Config.
func Load() (*Config, error) {
	// A missing .env is fine; the runtime may inject the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// CORSOriginsList splits the configured comma-separated origins. "*"
// allows all.
func (c *Config) CORSOriginsList() []string {
	if c.CORSOrigins == "*" {
		return []string{"*"}
	}

	parts := strings.Split(c.CORSOrigins, ",")

	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return origins
}
