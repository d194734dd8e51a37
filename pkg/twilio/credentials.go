package twilio

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when a credential needed for token signing is missing
var ErrNotConfigured = errors.New("twilio credentials not configured")

// Credentials identifies the account, API key pair and TwiML application
// used to sign voice access tokens
type Credentials struct {
	AccountSID   string
	APIKeySID    string
	APIKeySecret string
	AppSID       string
}

// ValidateConfiguration checks that every credential is present
func (c Credentials) ValidateConfiguration() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNotConfigured, missing)
	}
	return nil
}

// Missing returns the environment names of the credentials that are empty
func (c Credentials) Missing() []string {
	var missing []string
	if c.AccountSID == "" {
		missing = append(missing, "TWILIO_ACCOUNT_SID")
	}
	if c.APIKeySID == "" {
		missing = append(missing, "TWILIO_API_KEY_SID")
	}
	if c.APIKeySecret == "" {
		missing = append(missing, "TWILIO_API_KEY_SECRET")
	}
	if c.AppSID == "" {
		missing = append(missing, "TWILIO_APP_SID")
	}
	return missing
}
