package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the configuration for the bot.
//
//go:generate go run ../cmd/generate/main.go -type=Env -output=../.env.example
//go:generate go run ../cmd/generate/main.go -type=ConfigMap -output=../examples/kubernetes/configmap.yaml
//go:generate go run ../cmd/generate/main.go -type=Secret -output=../examples/kubernetes/secret.yaml
//go:generate go run ../cmd/generate/main.go -type=MD -output=../Configurations.md
type Config struct {
	// General settings
	ApplicationName string `env:"APPLICATION_NAME, default=shortnote-bot" description:"The name of the application"`
	Environment     string `env:"ENVIRONMENT, default=production" description:"The environment"`
	EnableTelemetry bool   `env:"ENABLE_TELEMETRY, default=false" description:"Enable telemetry"`
	MessagesPath    string `env:"MESSAGES_PATH" description:"Optional YAML file overriding the reply texts"`

	// Telegram settings
	Telegram *TelegramConfig `env:", prefix=TELEGRAM_" description:"Telegram configuration"`

	// Google OAuth settings
	Google *GoogleConfig `env:", prefix=GOOGLE_" description:"Google OAuth configuration"`

	// OIDC settings
	OIDC *OIDC `env:", prefix=OIDC_" description:"OIDC configuration"`

	// Calendar settings
	Calendar *CalendarConfig `env:", prefix=CALENDAR_" description:"Calendar configuration"`

	// Storage settings
	Store *StoreConfig `env:", prefix=STORE_" description:"Credential store configuration"`

	// Server settings
	Server *ServerConfig `env:", prefix=SERVER_" description:"Server configuration"`
}

// Telegram configuration
type TelegramConfig struct {
	BotToken      string        `env:"BOT_TOKEN" type:"secret" description:"Telegram bot token"`
	APIRoot       string        `env:"API_ROOT, default=https://api.telegram.org" description:"Telegram Bot API root URL"`
	PollTimeout   time.Duration `env:"POLL_TIMEOUT, default=30s" description:"Long polling timeout"`
	PollInterval  time.Duration `env:"POLL_INTERVAL, default=1s" description:"Delay between polling rounds"`
	WebhookURL    string        `env:"WEBHOOK_URL" description:"Public URL of the webhook endpoint, enables webhook mode"`
	WebhookSecret string        `env:"WEBHOOK_SECRET" type:"secret" description:"Secret token expected on webhook requests"`
}

// Google OAuth configuration
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID" type:"secret" description:"Google OAuth client ID"`
	ClientSecret string `env:"CLIENT_SECRET" type:"secret" description:"Google OAuth client secret"`
	RedirectURL  string `env:"REDIRECT_URI, default=http://localhost:3000/oauth2callback" description:"OAuth redirect URI"`
}

// OIDC configuration
type OIDC struct {
	Enable    bool   `env:"ENABLE, default=false" description:"Verify the ID token returned by the login flow"`
	IssuerURL string `env:"ISSUER_URL, default=https://accounts.google.com" description:"OIDC issuer URL"`
}

// Calendar configuration
type CalendarConfig struct {
	ID             string        `env:"ID, default=primary" description:"Calendar the events are written to"`
	TimeZone       string        `env:"TIME_ZONE, default=Asia/Ho_Chi_Minh" description:"Time zone attached to created events"`
	EventType      string        `env:"EVENT_TYPE, default=focusTime" description:"Event type of created events"`
	Visibility     string        `env:"VISIBILITY, default=private" description:"Visibility of created events"`
	MaxConcurrency int           `env:"MAX_CONCURRENCY, default=8" description:"Maximum concurrent calendar requests per message"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s" description:"Timeout of a single calendar request"`
}

// Credential store configuration
type StoreConfig struct {
	Driver string `env:"DRIVER, default=file" description:"Credential store driver (file, sqlite or memory)"`
	Path   string `env:"PATH, default=db.json" description:"Credential store path"`
}

// Server configuration
type ServerConfig struct {
	Host         string        `env:"HOST, default=0.0.0.0" description:"Server host"`
	Port         string        `env:"PORT, default=3000" description:"Server port"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT, default=30s" description:"Read timeout"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT, default=30s" description:"Write timeout"`
	IdleTimeout  time.Duration `env:"IDLE_TIMEOUT, default=120s" description:"Idle timeout"`
	TLSCertPath  string        `env:"TLS_CERT_PATH" description:"TLS certificate path"`
	TLSKeyPath   string        `env:"TLS_KEY_PATH" description:"TLS key path"`
}

// WebhookMode reports whether updates are pushed by Telegram instead of polled.
func (c *Config) WebhookMode() bool {
	return c.Telegram != nil && c.Telegram.WebhookURL != ""
}

// Load configuration
func (cfg *Config) Load(lookuper envconfig.Lookuper) (Config, error) {
	if err := envconfig.ProcessWith(context.Background(), &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return Config{}, err
	}

	return *cfg, nil
}
