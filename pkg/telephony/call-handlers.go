package telephony

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

// ============================================
// SOFTPHONE CALL HANDLERS
// HTTP endpoints for browser softphone tokens and call control
// ============================================

// DefaultIdentity is used when a token request names no identity
const DefaultIdentity = "anonymous"

// Options configures CallHandlers. Issuer and Builder default to the
// twilio-go backed implementations when nil.
type Options struct {
	Credentials twilio.Credentials
	CallerID    string
	TokenTTL    time.Duration

	Issuer  twilio.CredentialIssuer
	Builder twilio.DocumentBuilder
	Metrics *Metrics
	Logger  *slog.Logger
}

// CallHandlers serves the token and voice endpoints.
// Configuration is captured at construction and never changes afterwards.
type CallHandlers struct {
	credentials twilio.Credentials
	callerID    string
	tokenTTL    time.Duration

	issuer  twilio.CredentialIssuer
	builder twilio.DocumentBuilder
	metrics *Metrics
	logger  *slog.Logger
}

// NewCallHandlers creates a new call handlers instance
func NewCallHandlers(opts Options) *CallHandlers {
	h := &CallHandlers{
		credentials: opts.Credentials,
		callerID:    opts.CallerID,
		tokenTTL:    opts.TokenTTL,
		issuer:      opts.Issuer,
		builder:     opts.Builder,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
	}
	if h.tokenTTL <= 0 {
		h.tokenTTL = twilio.DefaultTokenTTL
	}
	if h.issuer == nil {
		h.issuer = twilio.NewAccessTokenIssuer(opts.Credentials)
	}
	if h.builder == nil {
		h.builder = twilio.NewTwiMLBuilder()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.logger = h.logger.With("component", "call_handlers")
	return h
}

// ============================================
// ROUTE REGISTRATION
// ============================================

// RegisterRoutes registers the token and voice endpoints for every method
func (h *CallHandlers) RegisterRoutes(r chi.Router) {
	r.HandleFunc("/api/token", h.HandleToken)
	r.HandleFunc("/api/voice", h.HandleVoice)

	h.logger.Debug("registered call handler routes", "event", "routes_registered")
}
