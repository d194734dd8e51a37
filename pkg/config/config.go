// Package config resolves runtime configuration for the softphone server.
//
// Sources are layered in priority order: defaults, an optional YAML file,
// then environment variables. Twilio settings keep their TWILIO_* names;
// server settings use the SOFTPHONE_ prefix.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

// Config is the resolved runtime configuration
type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Twilio TwilioConfig `koanf:"twilio"`
	Voice  VoiceConfig  `koanf:"voice"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	MetricsEnabled    bool          `koanf:"metrics_enabled"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// TwilioConfig holds the account credentials and caller ID
type TwilioConfig struct {
	AccountSID   string        `koanf:"account_sid"`
	APIKeySID    string        `koanf:"api_key_sid"`
	APIKeySecret string        `koanf:"api_key_secret"`
	AppSID       string        `koanf:"app_sid"`
	PhoneNumber  string        `koanf:"phone_number"`
	TokenTTL     time.Duration `koanf:"token_ttl"`
}

// VoiceConfig tunes the voice endpoint
type VoiceConfig struct {
	DefaultRegion   string `koanf:"default_region"`
	RequireCallerID bool   `koanf:"require_caller_id"`
}

// envKeys maps accepted environment variables onto config keys
var envKeys = map[string]string{
	"TWILIO_ACCOUNT_SID":    "twilio.account_sid",
	"TWILIO_API_KEY_SID":    "twilio.api_key_sid",
	"TWILIO_API_KEY_SECRET": "twilio.api_key_secret",
	"TWILIO_APP_SID":        "twilio.app_sid",
	"TWILIO_PHONE_NUMBER":   "twilio.phone_number",

	"SOFTPHONE_ADDR":                "server.addr",
	"SOFTPHONE_READ_HEADER_TIMEOUT": "server.read_header_timeout",
	"SOFTPHONE_SHUTDOWN_TIMEOUT":    "server.shutdown_timeout",
	"SOFTPHONE_METRICS_ENABLED":     "server.metrics_enabled",
	"SOFTPHONE_LOG_LEVEL":           "log.level",
	"SOFTPHONE_LOG_FORMAT":          "log.format",
	"SOFTPHONE_TOKEN_TTL":           "twilio.token_ttl",
	"SOFTPHONE_DEFAULT_REGION":      "voice.default_region",
	"SOFTPHONE_REQUIRE_CALLER_ID":   "voice.require_caller_id",
}

// Default returns the configuration used when no source overrides a value
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			MetricsEnabled:    true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Twilio: TwilioConfig{
			TokenTTL: twilio.DefaultTokenTTL,
		},
		Voice: VoiceConfig{
			DefaultRegion: "US",
		},
	}
}

// Load resolves configuration from defaults, the YAML file at path (skipped
// when path is empty) and the process environment.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.Twilio.PhoneNumber = strings.TrimSpace(cfg.Twilio.PhoneNumber)
	return cfg, nil
}

// LoadEnvFile loads a dotenv file into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks settings that must be correct before the server starts.
// Missing Twilio credentials are not fatal here: the token endpoint reports
// them per request.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server address is required")
	}
	if c.Twilio.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.Twilio.TokenTTL)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Voice.RequireCallerID && c.Twilio.PhoneNumber == "" {
		return errors.New("missing TWILIO_PHONE_NUMBER")
	}
	return nil
}

// Credentials returns the Twilio signing credentials
func (c Config) Credentials() twilio.Credentials {
	return twilio.Credentials{
		AccountSID:   c.Twilio.AccountSID,
		APIKeySID:    c.Twilio.APIKeySID,
		APIKeySecret: c.Twilio.APIKeySecret,
		AppSID:       c.Twilio.AppSID,
	}
}

func envKey(name string) string {
	return envKeys[name]
}
