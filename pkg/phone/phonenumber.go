// Package phone normalizes the phone numbers the voice endpoints hand to Twilio.
package phone

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ttacon/libphonenumber"
)

var (
	// ErrEmpty is returned when there is no number to normalize
	ErrEmpty = errors.New("phone number is empty")
	// ErrImpossible is returned for numbers with an impossible length for their region
	ErrImpossible = errors.New("phone number is not possible")

	e164Regexp = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)
)

// IsE164 reports whether number is already in E.164 form (+ followed by up to 15 digits)
func IsE164(number string) bool {
	return e164Regexp.MatchString(number)
}

// IsAddress reports whether number is a client or SIP address rather than a PSTN number
func IsAddress(number string) bool {
	lower := strings.ToLower(number)
	return strings.HasPrefix(lower, "client:") || strings.HasPrefix(lower, "sip:")
}

// NormalizeE164 formats raw as E.164, resolving national numbers against
// defaultRegion (an ISO 3166 code such as "US"). Client and SIP addresses are
// returned unchanged.
func NormalizeE164(raw, defaultRegion string) (string, error) {
	number := strings.TrimSpace(raw)
	if number == "" {
		return "", ErrEmpty
	}
	if IsAddress(number) || IsE164(number) {
		return number, nil
	}

	parsed, err := libphonenumber.Parse(number, strings.ToUpper(defaultRegion))
	if err != nil {
		return "", fmt.Errorf("parse phone number %q: %w", number, err)
	}
	if !libphonenumber.IsPossibleNumber(parsed) {
		return "", fmt.Errorf("%w: %s", ErrImpossible, number)
	}
	return libphonenumber.Format(parsed, libphonenumber.E164), nil
}
