package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Twilio.TokenTTL != time.Hour {
		t.Errorf("token ttl = %s, want 1h", cfg.Twilio.TokenTTL)
	}
	if cfg.Voice.DefaultRegion != "US" {
		t.Errorf("default region = %q, want US", cfg.Voice.DefaultRegion)
	}
	if cfg.Voice.RequireCallerID {
		t.Errorf("caller id should not be required by default")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeFile(t, "softphone.yaml", `
server:
  addr: ":9000"
  shutdown_timeout: 3s
log:
  level: DEBUG
  format: json
twilio:
  account_sid: AC-from-file
  app_sid: AP-from-file
  phone_number: "+15550000000"
  token_ttl: 30m
voice:
  default_region: GB
`)

	t.Setenv("TWILIO_ACCOUNT_SID", "AC-from-env")
	t.Setenv("TWILIO_API_KEY_SID", "SK-from-env")
	t.Setenv("TWILIO_API_KEY_SECRET", "secret-from-env")
	t.Setenv("TWILIO_PHONE_NUMBER", " +15559999999 ")
	t.Setenv("SOFTPHONE_REQUIRE_CALLER_ID", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("shutdown timeout = %s, want 3s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Server.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("read header timeout should keep its default, got %s", cfg.Server.ReadHeaderTimeout)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Twilio.AccountSID != "AC-from-env" {
		t.Errorf("env should override file, got account sid %q", cfg.Twilio.AccountSID)
	}
	if cfg.Twilio.AppSID != "AP-from-file" {
		t.Errorf("app sid = %q, want AP-from-file", cfg.Twilio.AppSID)
	}
	if cfg.Twilio.PhoneNumber != "+15559999999" {
		t.Errorf("phone number = %q, want trimmed env value", cfg.Twilio.PhoneNumber)
	}
	if cfg.Twilio.TokenTTL != 30*time.Minute {
		t.Errorf("token ttl = %s, want 30m", cfg.Twilio.TokenTTL)
	}
	if cfg.Voice.DefaultRegion != "GB" {
		t.Errorf("default region = %q, want GB", cfg.Voice.DefaultRegion)
	}
	if !cfg.Voice.RequireCallerID {
		t.Errorf("expected require_caller_id from env")
	}

	creds := cfg.Credentials()
	if creds.APIKeySID != "SK-from-env" || creds.APIKeySecret != "secret-from-env" {
		t.Errorf("credentials = %+v", creds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing credentials are not fatal", mutate: func(c *Config) { c.Twilio = TwilioConfig{TokenTTL: time.Hour} }},
		{name: "empty addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.Twilio.TokenTTL = 0 }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: true},
		{name: "strict caller id", mutate: func(c *Config) { c.Voice.RequireCallerID = true }, wantErr: true},
		{name: "strict caller id present", mutate: func(c *Config) {
			c.Voice.RequireCallerID = true
			c.Twilio.PhoneNumber = "+15559999999"
		}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestLoadEnvFileDoesNotOverride(t *testing.T) {
	path := writeFile(t, ".env", "TWILIO_APP_SID=AP-from-dotenv\nTWILIO_ACCOUNT_SID=AC-from-dotenv\n")

	t.Setenv("TWILIO_ACCOUNT_SID", "AC-already-set")
	t.Setenv("TWILIO_APP_SID", "")
	os.Unsetenv("TWILIO_APP_SID")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("TWILIO_APP_SID"); got != "AP-from-dotenv" {
		t.Errorf("TWILIO_APP_SID = %q, want value from dotenv", got)
	}
	if got := os.Getenv("TWILIO_ACCOUNT_SID"); got != "AC-already-set" {
		t.Errorf("TWILIO_ACCOUNT_SID = %q, existing value must win", got)
	}

	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("empty path should be ignored: %v", err)
	}
}
