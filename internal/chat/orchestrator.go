package chat

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/internal/generation"
	"github.com/jurema-br/nino/internal/history"
	"github.com/jurema-br/nino/internal/prompt"
	"github.com/jurema-br/nino/internal/telemetry"
	"github.com/jurema-br/nino/models"
)

// TurnRequest is one user message entering the conversation loop.
type TurnRequest struct {
	SessionID        string
	Message          string
	ConsultationType models.ConsultationType

	// Set for turns synthesized from an uploaded document.
	IsDocument       bool
	DocumentFilename string
	DocumentType     string
}

// TurnResult is the completed exchange.
type TurnResult struct {
	SessionID        string
	Response         string
	ConsultationType models.ConsultationType
}

// Orchestrator drives a conversation turn end to end.
type Orchestrator struct {
	engine       generation.Engine
	store        history.Store
	contexts     *ContextBuilder
	timeout      time.Duration
	maxNewTokens int
	logger       *log.Logger
	metrics      *telemetry.Telemetry
}

func NewOrchestrator(engine generation.Engine, store history.Store, cfg config.Config, metrics *telemetry.Telemetry, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	}
	return &Orchestrator{
		engine:       engine,
		store:        store,
		contexts:     NewContextBuilder(store, cfg.Chat, logger),
		timeout:      cfg.LLM.Timeout,
		maxNewTokens: cfg.LLM.MaxNewTokens,
		logger:       logger,
		metrics:      metrics,
	}
}

// RunTurn validates the request, assembles the full prompt, generates the
// response within the configured deadline, and records the exchange. A failed
// or timed-out generation leaves no trace in history.
func (o *Orchestrator) RunTurn(ctx context.Context, req TurnRequest) (TurnResult, error) {
	consultationType := req.ConsultationType
	if consultationType == "" {
		consultationType = models.Consultation
	}
	label := turnLabel(consultationType)

	if isBlank(req.Message) {
		o.metrics.RecordTurn(label, "validation")
		return TurnResult{}, &models.TurnError{Kind: models.KindValidation, Err: models.ErrEmptyMessage}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	conversationContext := o.contexts.Build(ctx, sessionID)

	rendered, err := prompt.Render(consultationType, prompt.Slots(consultationType, req.Message))
	if err != nil {
		o.metrics.RecordTurn(label, "missing_slot")
		return TurnResult{}, &models.TurnError{Kind: models.KindMissingSlot, Err: err}
	}

	fullPrompt := prompt.SystemPrompt + "\n\n" + conversationContext + rendered

	genCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	response, err := o.generate(genCtx, fullPrompt)
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			o.logger.Printf("generation timed out after %s for session %s", o.timeout, sessionID)
			o.metrics.RecordTurn(label, "generation_timeout")
			return TurnResult{}, &models.TurnError{Kind: models.KindGenerationTimeout, Err: err}
		case errors.Is(err, context.Canceled):
			// Client disconnects are not backend faults; keep them out of the
			// generation-failure count.
			o.logger.Printf("generation canceled for session %s", sessionID)
			o.metrics.RecordTurn(label, "canceled")
			return TurnResult{}, &models.TurnError{Kind: models.KindGeneration, Err: err}
		}
		o.logger.Printf("generation failed for session %s: %v", sessionID, err)
		o.metrics.RecordTurn(label, "generation")
		return TurnResult{}, &models.TurnError{Kind: models.KindGeneration, Err: err}
	}
	o.metrics.RecordGeneration(time.Since(start))

	turn := models.Turn{
		SessionID:        sessionID,
		UserMessage:      req.Message,
		BotResponse:      response,
		Timestamp:        time.Now().UTC(),
		IsDocument:       req.IsDocument,
		DocumentFilename: req.DocumentFilename,
		DocumentType:     req.DocumentType,
	}
	if err := o.store.Append(ctx, turn); err != nil {
		// The user already has the answer; losing one history row is the
		// lesser failure.
		o.logger.Printf("history append failed for session %s: %v", sessionID, err)
		o.metrics.RecordHistoryFailure()
	}

	o.metrics.RecordTurn(label, "ok")
	return TurnResult{
		SessionID:        sessionID,
		Response:         response,
		ConsultationType: consultationType,
	}, nil
}

// generate dispatches the engine call on its own goroutine so a stuck backend
// cannot hold the caller past the deadline.
func (o *Orchestrator) generate(ctx context.Context, fullPrompt string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := o.engine.Generate(ctx, fullPrompt, o.maxNewTokens)
		ch <- result{text, err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.text, res.err
	}
}

// turnLabel bounds metric cardinality: arbitrary client-supplied type tags
// collapse into one label value.
func turnLabel(t models.ConsultationType) string {
	if t.Known() {
		return string(t)
	}
	return "unknown"
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
