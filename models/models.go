package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyMessage is returned when a turn arrives without a user message.
var ErrEmptyMessage = errors.New("message must not be empty")

// ErrHistoryUnavailable marks storage faults around the history store.
// It is recovered locally by the orchestrator and never reaches the caller.
var ErrHistoryUnavailable = errors.New("history store unavailable")

// Turn is one exchange in a session: a user message and the assistant reply,
// ordered within the session by timestamp.
type Turn struct {
	SessionID        string    `json:"session_id"`
	UserMessage      string    `json:"user_message"`
	BotResponse      string    `json:"bot_response"`
	Timestamp        time.Time `json:"timestamp"`
	IsDocument       bool      `json:"is_document"`
	DocumentFilename string    `json:"document_filename,omitempty"`
	DocumentType     string    `json:"document_type,omitempty"`
}

// ConsultationType selects which prompt template shapes the reply.
type ConsultationType string

const (
	ConsultationGeneral     ConsultationType = "general"
	Consultation            ConsultationType = "consultation"
	ConsultationCase        ConsultationType = "case_analysis"
	ConsultationResearch    ConsultationType = "legal_research"
	ConsultationDraft       ConsultationType = "document_draft"
	ConsultationLegislation ConsultationType = "legislation_search"
)

// Known reports whether t is one of the closed set of consultation types.
// Unknown tags are still served, falling back to the generic template.
func (t ConsultationType) Known() bool {
	switch t {
	case ConsultationGeneral, Consultation, ConsultationCase,
		ConsultationResearch, ConsultationDraft, ConsultationLegislation:
		return true
	}
	return false
}

// TurnErrorKind classifies turn failures for the caller.
type TurnErrorKind string

const (
	KindValidation        TurnErrorKind = "validation"
	KindMissingSlot       TurnErrorKind = "missing_slot"
	KindGeneration        TurnErrorKind = "generation"
	KindGenerationTimeout TurnErrorKind = "generation_timeout"
)

// TurnError is the error surface of RunTurn. Only validation and generation
// failures carry through to the caller; history faults are absorbed upstream.
type TurnError struct {
	Kind TurnErrorKind
	Err  error
}

func (e *TurnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *TurnError) Unwrap() error { return e.Err }

// Retryable reports whether the caller may usefully resubmit the turn.
func (e *TurnError) Retryable() bool {
	return e.Kind == KindGeneration || e.Kind == KindGenerationTimeout
}
