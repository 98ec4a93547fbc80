// Package chat runs conversation turns: it assembles the prompt from session
// history and the consultation template, dispatches the generation, and
// records the exchange.
package chat

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jurema-br/nino/config"
	"github.com/jurema-br/nino/internal/history"
)

// ContextBuilder renders recent session history into the conversational
// context block that precedes the consultation prompt.
type ContextBuilder struct {
	store           history.Store
	maxExchanges    int
	perMessageChars int
	charBudget      int
	logger          *log.Logger
}

func NewContextBuilder(store history.Store, cfg config.ChatConfig, logger *log.Logger) *ContextBuilder {
	if logger == nil {
		logger = log.New(log.Writer(), "[CHAT] ", log.LstdFlags)
	}
	return &ContextBuilder{
		store:           store,
		maxExchanges:    cfg.MaxExchanges,
		perMessageChars: cfg.PerMessageChars,
		charBudget:      cfg.ContextCharBudget,
		logger:          logger,
	}
}

// Build returns the context block for a session: one Usuário/Assistente pair
// per recent exchange, oldest first, each block terminated by a blank line.
// A session with no history yields the empty string. History read failures
// are absorbed; a turn without context beats no turn at all.
func (b *ContextBuilder) Build(ctx context.Context, sessionID string) string {
	turns, err := b.store.Recent(ctx, sessionID, b.maxExchanges)
	if err != nil {
		b.logger.Printf("history read failed for session %s, continuing without context: %v", sessionID, err)
		return ""
	}
	if len(turns) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(turns))
	for _, turn := range turns {
		var sb strings.Builder
		sb.WriteString("Usuário: ")
		sb.WriteString(clip(turn.UserMessage, b.perMessageChars))
		sb.WriteString("\nAssistente: ")
		sb.WriteString(clip(turn.BotResponse, b.perMessageChars))
		sb.WriteString("\n\n")
		blocks = append(blocks, sb.String())
	}

	// Enforce the budget by dropping whole exchanges, oldest first, so the
	// context never starts mid-block.
	total := 0
	for _, block := range blocks {
		total += len(block)
	}
	start := 0
	for start < len(blocks) && total > b.charBudget {
		total -= len(blocks[start])
		start++
	}
	return strings.Join(blocks[start:], "")
}

func clip(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Back the cut up to a rune boundary; a byte cut would leave a mangled
	// partial rune in the prompt.
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
