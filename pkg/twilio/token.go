package twilio

import (
	"fmt"
	"time"

	twiliojwt "github.com/twilio/twilio-go/client/jwt"
)

// DefaultTokenTTL is how long a voice access token stays valid
const DefaultTokenTTL = time.Hour

// VoiceGrant is the capability embedded in a voice access token
type VoiceGrant struct {
	OutgoingApplicationSID string
	IncomingAllow          bool
}

// CredentialIssuer signs access tokens for softphone identities
type CredentialIssuer interface {
	IssueCredential(identity string, grant VoiceGrant, ttl time.Duration) (string, error)
}

// AccessTokenIssuer signs voice access tokens with an API key pair
type AccessTokenIssuer struct {
	accountSID   string
	apiKeySID    string
	apiKeySecret string
}

// NewAccessTokenIssuer creates an issuer for the given account credentials
func NewAccessTokenIssuer(creds Credentials) *AccessTokenIssuer {
	return &AccessTokenIssuer{
		accountSID:   creds.AccountSID,
		apiKeySID:    creds.APIKeySID,
		apiKeySecret: creds.APIKeySecret,
	}
}

// IssueCredential mints a token for identity carrying exactly one voice grant.
// A non-positive ttl falls back to DefaultTokenTTL.
func (i *AccessTokenIssuer) IssueCredential(identity string, grant VoiceGrant, ttl time.Duration) (string, error) {
	if i.accountSID == "" || i.apiKeySID == "" || i.apiKeySecret == "" {
		return "", ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	token := twiliojwt.CreateAccessToken(twiliojwt.AccessTokenParams{
		AccountSid:    i.accountSID,
		SigningKeySid: i.apiKeySID,
		Secret:        i.apiKeySecret,
		Identity:      identity,
		Ttl:           ttl.Seconds(),
	})
	token.AddGrant(&twiliojwt.VoiceGrant{
		Incoming: twiliojwt.Incoming{Allow: grant.IncomingAllow},
		Outgoing: twiliojwt.Outgoing{ApplicationSid: grant.OutgoingApplicationSID},
	})

	signed, err := token.ToJwt()
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
