package twilio

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDetails is what a signed voice access token asserts
type TokenDetails struct {
	Identity               string
	AccountSID             string
	APIKeySID              string
	OutgoingApplicationSID string
	IncomingAllow          bool
	ExpiresAt              time.Time
}

type voiceTokenClaims struct {
	Grants struct {
		Identity string `json:"identity"`
		Voice    struct {
			Incoming struct {
				Allow bool `json:"allow"`
			} `json:"incoming"`
			Outgoing struct {
				ApplicationSID string `json:"application_sid"`
			} `json:"outgoing"`
		} `json:"voice"`
	} `json:"grants"`
	jwt.RegisteredClaims
}

// InspectToken verifies raw against the API key secret and returns its claims
func InspectToken(raw, apiKeySecret string) (TokenDetails, error) {
	if apiKeySecret == "" {
		return TokenDetails{}, ErrNotConfigured
	}

	parsed, err := jwt.ParseWithClaims(raw, &voiceTokenClaims{}, func(token *jwt.Token) (any, error) {
		return []byte(apiKeySecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		return TokenDetails{}, fmt.Errorf("failed to verify access token: %w", err)
	}
	claims, ok := parsed.Claims.(*voiceTokenClaims)
	if !ok || !parsed.Valid {
		return TokenDetails{}, errors.New("invalid access token claims")
	}
	if claims.ExpiresAt == nil {
		return TokenDetails{}, errors.New("access token has no expiry")
	}

	return TokenDetails{
		Identity:               claims.Grants.Identity,
		AccountSID:             claims.Subject,
		APIKeySID:              claims.Issuer,
		OutgoingApplicationSID: claims.Grants.Voice.Outgoing.ApplicationSID,
		IncomingAllow:          claims.Grants.Voice.Incoming.Allow,
		ExpiresAt:              claims.ExpiresAt.Time.UTC(),
	}, nil
}
