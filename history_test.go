package rag

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

func TestMemHistory_AppendAndRead(t *testing.T) {
	h := NewMemHistory(10)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "P-1",
		schema.ChatMessage{Role: "user", Content: "What is CKD?"},
		schema.ChatMessage{Role: "assistant", Content: "Chronic kidney disease ..."},
	))

	turns, err := h.Turns(ctx, "P-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)

	turns, err = h.Turns(ctx, "P-2")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemHistory_SlidingWindow(t *testing.T) {
	h := NewMemHistory(10)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		require.NoError(t, h.Append(ctx, "P-1",
			schema.ChatMessage{Role: "user", Content: fmt.Sprintf("q%d", i)},
			schema.ChatMessage{Role: "assistant", Content: fmt.Sprintf("a%d", i)},
		))
	}

	turns, err := h.Turns(ctx, "P-1")
	require.NoError(t, err)
	assert.Len(t, turns, 10)
	assert.Equal(t, "q2", turns[0].Content, "oldest turns fall off the window")
	assert.Equal(t, "a6", turns[9].Content)
}

func TestMemHistory_Clear(t *testing.T) {
	h := NewMemHistory(10)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "P-1", schema.ChatMessage{Role: "user", Content: "hi"}))
	require.NoError(t, h.Clear(ctx, "P-1"))

	turns, err := h.Turns(ctx, "P-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemHistory_ReadIsACopy(t *testing.T) {
	h := NewMemHistory(10)
	ctx := context.Background()

	require.NoError(t, h.Append(ctx, "P-1", schema.ChatMessage{Role: "user", Content: "hi"}))
	turns, _ := h.Turns(ctx, "P-1")
	turns[0].Content = "mutated"

	again, _ := h.Turns(ctx, "P-1")
	assert.Equal(t, "hi", again[0].Content)
}

func TestNewHistoryStore_DefaultsToMemory(t *testing.T) {
	h, err := NewHistoryStore(config.SessionConfig{})
	require.NoError(t, err)
	assert.IsType(t, &MemHistory{}, h)
}

func TestNewRedisHistory_RequiresAddr(t *testing.T) {
	_, err := NewRedisHistory(config.SessionConfig{Store: "redis"})
	assert.Error(t, err)
}
