package telephony

import (
	"io"
	"net/http"
	"strings"

	"github.com/birddigital/twilio-softphone/pkg/twilio"
)

// destinationParams are checked in order; the first non-empty value wins
var destinationParams = []string{"To", "to"}

// RouteInstruction picks the call-control instruction for a destination:
// dial it when present, otherwise greet the caller
func RouteInstruction(destination, callerID string) twilio.Instruction {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return twilio.SayInstruction(twilio.Greeting)
	}
	return twilio.DialInstruction(destination, callerID)
}

// HandleVoice returns the TwiML for an in-progress call.
// It always answers 200 with text/xml.
func (h *CallHandlers) HandleVoice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	destination := destinationNumber(r)
	instruction := RouteInstruction(destination, h.callerID)

	doc, err := h.builder.BuildCallControlDocument(instruction)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build call control document",
			"event", "twiml_build_error",
			"instruction", string(instruction.Kind),
			"error", err.Error(),
			"request_id", requestIDFromContext(ctx))
		doc = twilio.EmptyDocument
	}

	if instruction.Kind == twilio.InstructionDial && h.callerID == "" {
		h.logger.WarnContext(ctx, "dialing without a caller ID",
			"event", "voice_missing_caller_id",
			"request_id", requestIDFromContext(ctx))
	}
	h.logger.InfoContext(ctx, "routed voice call",
		"event", "voice_routed",
		"instruction", string(instruction.Kind),
		"to", destination,
		"call_sid", r.FormValue("CallSid"),
		"request_id", requestIDFromContext(ctx))
	h.metrics.observeVoice(instruction.Kind)

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

// destinationNumber reads the trimmed destination from the merged query and
// form values
func destinationNumber(r *http.Request) string {
	_ = r.ParseForm()
	for _, name := range destinationParams {
		if value := strings.TrimSpace(r.Form.Get(name)); value != "" {
			return value
		}
	}
	return ""
}
