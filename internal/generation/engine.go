// Package generation wraps the text-completion backends behind a single
// Engine interface. The model is opaque here: prompt in, completion out,
// bounded by a new-token budget.
package generation

import (
	"context"
	"fmt"

	"github.com/jurema-br/nino/config"
)

// Engine is the text-completion function the orchestrator dispatches to.
type Engine interface {
	Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error)
}

// NewEngine creates the configured engine implementation. A max_concurrent
// of 1 serializes generations through a single-slot queue, the safe setting
// for a local single-device model; remote APIs can run wider.
func NewEngine(cfg config.LLMConfig) (Engine, error) {
	var engine Engine
	switch cfg.Provider {
	case "openai":
		engine = NewOpenAIEngine(cfg)
	case "huggingface":
		engine = NewHuggingFaceEngine(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
	if cfg.MaxConcurrent > 0 {
		engine = NewSerializedEngine(engine, cfg.MaxConcurrent)
	}
	return engine, nil
}

// SerializedEngine bounds in-flight generations with a semaphore so a backend
// that cannot serve concurrent calls is never asked to.
type SerializedEngine struct {
	inner Engine
	slots chan struct{}
}

func NewSerializedEngine(inner Engine, maxConcurrent int) *SerializedEngine {
	return &SerializedEngine{
		inner: inner,
		slots: make(chan struct{}, maxConcurrent),
	}
}

func (e *SerializedEngine) Generate(ctx context.Context, prompt string, maxNewTokens int) (string, error) {
	select {
	case e.slots <- struct{}{}:
		defer func() { <-e.slots }()
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return e.inner.Generate(ctx, prompt, maxNewTokens)
}
