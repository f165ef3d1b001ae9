package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

const contextualizeSystem = `Given a chat history and the latest user question, reformulate the question into a standalone question that can be understood without the history.
Resolve pronouns and references like "it", "that", "the second one" against the history.
Do NOT answer the question. Return the question unchanged if it already stands on its own.`

// Rewriter turns a follow-up question into a standalone query by resolving
// references against the conversation history.
type Rewriter struct {
	LLM llm.Provider
}

// Contextualize rewrites query against history. An empty history is a
// passthrough, and any LLM failure degrades to the original query.
func (r *Rewriter) Contextualize(ctx context.Context, query string, history []schema.ChatMessage) string {
	if len(history) == 0 {
		return query
	}
	if r.LLM == nil {
		return query
	}

	var sb strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&sb, "%s: %s\n", turn.Role, turn.Content)
	}

	messages := []schema.ChatMessage{
		{Role: llm.RoleSystem, Content: contextualizeSystem},
		{Role: llm.RoleUser, Content: fmt.Sprintf("History:\n%s\nQuestion: %s", sb.String(), query)},
	}

	out, err := r.LLM.ChatCompletion(ctx, messages, 0)
	if err != nil {
		logger.Warnf("rewrite: contextualize failed, keeping original query: %v", err)
		return query
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return query
	}
	return out
}
