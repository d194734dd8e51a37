package telephony

import (
	"fmt"
	"net/http"

	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

const (
	errTwilioNotConfigured = "Twilio environment variables are not configured."
	errTokenFailed         = "Failed to generate token"
)

type tokenResponse struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleToken mints a voice access token for the identity query parameter
func (h *CallHandlers) HandleToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := r.FormValue("identity")
	if identity == "" {
		identity = DefaultIdentity
	}

	if missing := h.credentials.Missing(); len(missing) > 0 {
		h.logger.ErrorContext(ctx, "token requested without twilio credentials",
			"event", "token_config_error",
			"missing", missing,
			"request_id", requestIDFromContext(ctx))
		h.metrics.observeToken(tokenOutcomeConfigError)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errTwilioNotConfigured})
		return
	}

	token, err := h.issueToken(identity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate token",
			"event", "token_signing_error",
			"identity", identity,
			"error", err.Error(),
			"request_id", requestIDFromContext(ctx))
		h.metrics.observeToken(tokenOutcomeSigningError)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errTokenFailed})
		return
	}

	h.logger.InfoContext(ctx, "issued voice token",
		"event", "token_issued",
		"identity", identity,
		"ttl", h.tokenTTL.String(),
		"request_id", requestIDFromContext(ctx))
	h.metrics.observeToken(tokenOutcomeIssued)

	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, tokenResponse{Identity: identity, Token: token})
}

// issueToken signs a token with the single voice grant, turning an issuer
// panic into an error
func (h *CallHandlers) issueToken(identity string) (token string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("token issuer panicked: %v", rec)
		}
	}()

	grant := twilio.VoiceGrant{
		OutgoingApplicationSID: h.credentials.AppSID,
		IncomingAllow:          true,
	}
	return h.issuer.IssueCredential(identity, grant, h.tokenTTL)
}
