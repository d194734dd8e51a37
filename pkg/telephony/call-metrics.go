package telephony

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

const (
	tokenOutcomeIssued       = "issued"
	tokenOutcomeConfigError  = "config_error"
	tokenOutcomeSigningError = "signing_error"
)

// Metrics counts token and voice requests by outcome.
// A nil *Metrics records nothing.
type Metrics struct {
	tokenRequests *prometheus.CounterVec
	voiceRequests *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg when non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tokenRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "softphone",
			Name:      "token_requests_total",
			Help:      "Voice access token requests by outcome.",
		}, []string{"outcome"}),
		voiceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "softphone",
			Name:      "voice_requests_total",
			Help:      "Voice routing requests by TwiML instruction.",
		}, []string{"instruction"}),
	}
	if reg != nil {
		reg.MustRegister(m.tokenRequests, m.voiceRequests)
	}
	return m
}

func (m *Metrics) observeToken(outcome string) {
	if m == nil {
		return
	}
	m.tokenRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeVoice(kind twilio.InstructionKind) {
	if m == nil {
		return
	}
	m.voiceRequests.WithLabelValues(string(kind)).Inc()
}
