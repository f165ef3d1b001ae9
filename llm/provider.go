package llm

import (
	"context"

	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// Provider abstracts the chat completion backend. One implementation backed by
// any OpenAI-compatible API ships in this package; tests substitute fakes.
type Provider interface {
	// GenerateCompletion sends a single-prompt completion request.
	GenerateCompletion(ctx context.Context, prompt string) (string, error)
	// ChatCompletion sends a full message sequence with an explicit
	// temperature (translation calls pin it to 0 for determinism).
	ChatCompletion(ctx context.Context, messages []schema.ChatMessage, temperature float64) (string, error)
}

// Roles used when assembling message sequences.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
