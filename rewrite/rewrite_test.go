package rewrite

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HasinduNiran/Nephro-AI-sub000/common/logger"
	"github.com/HasinduNiran/Nephro-AI-sub000/llm"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

func TestMain(m *testing.M) {
	logger.SetOutput(io.Discard)
	m.Run()
}

type fakeLLM struct {
	reply string
	err   error
	calls int
}

func (f *fakeLLM) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.reply, f.err
}

func (f *fakeLLM) ChatCompletion(ctx context.Context, messages []schema.ChatMessage, temperature float64) (string, error) {
	f.calls++
	return f.reply, f.err
}

func TestContextualize_EmptyHistoryPassthrough(t *testing.T) {
	mock := &fakeLLM{reply: "rewritten"}
	r := &Rewriter{LLM: mock}

	got := r.Contextualize(context.Background(), "What is CKD?", nil)
	assert.Equal(t, "What is CKD?", got)
	assert.Zero(t, mock.calls, "empty history must not call the LLM")
}

func TestContextualize_RewritesFollowUp(t *testing.T) {
	mock := &fakeLLM{reply: "What are the stages of chronic kidney disease?"}
	r := &Rewriter{LLM: mock}

	history := []schema.ChatMessage{
		{Role: llm.RoleUser, Content: "What is CKD?"},
		{Role: llm.RoleAssistant, Content: "Chronic kidney disease is ..."},
	}
	got := r.Contextualize(context.Background(), "what are its stages?", history)
	assert.Equal(t, "What are the stages of chronic kidney disease?", got)
	assert.Equal(t, 1, mock.calls)
}

func TestContextualize_LLMFailureKeepsOriginal(t *testing.T) {
	r := &Rewriter{LLM: &fakeLLM{err: fmt.Errorf("timeout")}}

	history := []schema.ChatMessage{{Role: llm.RoleUser, Content: "hi"}}
	got := r.Contextualize(context.Background(), "what about it?", history)
	assert.Equal(t, "what about it?", got)
}

func TestContextualize_EmptyReplyKeepsOriginal(t *testing.T) {
	r := &Rewriter{LLM: &fakeLLM{reply: "  "}}

	history := []schema.ChatMessage{{Role: llm.RoleUser, Content: "hi"}}
	got := r.Contextualize(context.Background(), "what about it?", history)
	assert.Equal(t, "what about it?", got)
}
