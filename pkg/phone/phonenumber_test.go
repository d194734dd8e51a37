package phone

import (
	"errors"
	"testing"
)

func TestNormalizeE164(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{name: "already e164", raw: "+15559999999", region: "US", want: "+15559999999"},
		{name: "surrounding whitespace", raw: "  +14155552671 ", region: "US", want: "+14155552671"},
		{name: "international with separators", raw: "+1 (415) 555-2671", region: "US", want: "+14155552671"},
		{name: "national number", raw: "(415) 555-2671", region: "US", want: "+14155552671"},
		{name: "lowercase region", raw: "415 555 2671", region: "us", want: "+14155552671"},
		{name: "client address", raw: "client:alice", region: "US", want: "client:alice"},
		{name: "sip address", raw: "sip:agent@example.com", region: "US", want: "sip:agent@example.com"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeE164(tc.raw, tc.region)
			if err != nil {
				t.Fatalf("NormalizeE164(%q): %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeE164Errors(t *testing.T) {
	t.Parallel()

	if _, err := NormalizeE164("   ", "US"); !errors.Is(err, ErrEmpty) {
		t.Errorf("expected ErrEmpty, got %v", err)
	}
	if _, err := NormalizeE164("not a number", "US"); err == nil {
		t.Errorf("expected parse error for text input")
	}
	if _, err := NormalizeE164("12", "US"); err == nil {
		t.Errorf("expected error for a two digit number")
	}
}

func TestIsE164(t *testing.T) {
	t.Parallel()

	for number, want := range map[string]bool{
		"+15551234567":      true,
		"+442071838750":     true,
		"15551234567":       false,
		"+0123":             false,
		"+1555123456789012": false,
		"":                  false,
	} {
		if got := IsE164(number); got != want {
			t.Errorf("IsE164(%q) = %v, want %v", number, got, want)
		}
	}
}
