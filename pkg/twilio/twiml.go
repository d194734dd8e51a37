package twilio

import (
	"errors"
	"fmt"

	"github.com/twilio/twilio-go/twiml"
)

// Greeting is spoken when a call reaches the voice endpoint without a destination
const Greeting = "Thank you for calling. Please wait while we connect you."

// EmptyDocument is a call-control document with no instruction
const EmptyDocument = `<?xml version="1.0" encoding="UTF-8"?><Response></Response>`

// InstructionKind names the top-level TwiML verb of a document
type InstructionKind string

const (
	InstructionDial InstructionKind = "dial"
	InstructionSay  InstructionKind = "say"
)

// Instruction is the single top-level verb of a call-control document.
// Number, CallerID and AnswerOnBridge apply to dial; Message applies to say.
type Instruction struct {
	Kind           InstructionKind
	Number         string
	CallerID       string
	AnswerOnBridge bool
	Message        string
}

// DialInstruction bridges the call to number once it answers
func DialInstruction(number, callerID string) Instruction {
	return Instruction{
		Kind:           InstructionDial,
		Number:         number,
		CallerID:       callerID,
		AnswerOnBridge: true,
	}
}

// SayInstruction speaks message to the caller
func SayInstruction(message string) Instruction {
	return Instruction{
		Kind:    InstructionSay,
		Message: message,
	}
}

// DocumentBuilder serializes an instruction into a call-control document
type DocumentBuilder interface {
	BuildCallControlDocument(instruction Instruction) (string, error)
}

// TwiMLBuilder renders instructions with the twilio-go TwiML package
type TwiMLBuilder struct{}

// NewTwiMLBuilder creates a new TwiML builder
func NewTwiMLBuilder() *TwiMLBuilder {
	return &TwiMLBuilder{}
}

// BuildCallControlDocument creates a <Response> document holding exactly one verb
func (b *TwiMLBuilder) BuildCallControlDocument(instruction Instruction) (string, error) {
	var verb twiml.Element

	switch instruction.Kind {
	case InstructionDial:
		if instruction.Number == "" {
			return "", errors.New("twiml: dial requires a number")
		}
		dial := &twiml.VoiceDial{
			CallerId: instruction.CallerID,
			InnerElements: []twiml.Element{
				&twiml.VoiceNumber{PhoneNumber: instruction.Number},
			},
		}
		if instruction.AnswerOnBridge {
			dial.AnswerOnBridge = "true"
		}
		verb = dial
	case InstructionSay:
		verb = &twiml.VoiceSay{Message: instruction.Message}
	default:
		return "", fmt.Errorf("twiml: unknown instruction %q", instruction.Kind)
	}

	doc, err := twiml.Voice([]twiml.Element{verb})
	if err != nil {
		return "", fmt.Errorf("failed to render TwiML: %w", err)
	}
	return doc, nil
}
