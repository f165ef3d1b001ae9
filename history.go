package rag

import (
	"context"
	"sync"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// HistoryStore keeps the recent conversation per patient. Implementations
// enforce the turn cap themselves so callers always read a bounded window.
type HistoryStore interface {
	Turns(ctx context.Context, patientID string) ([]schema.ChatMessage, error)
	Append(ctx context.Context, patientID string, turns ...schema.ChatMessage) error
	Clear(ctx context.Context, patientID string) error
}

// NewHistoryStore builds the store selected by cfg. The in-memory store is
// the default; redis keeps history across restarts.
func NewHistoryStore(cfg config.SessionConfig) (HistoryStore, error) {
	if cfg.Store == "redis" {
		return NewRedisHistory(cfg)
	}
	return NewMemHistory(cfg.MaxTurnsOrDefault()), nil
}

// MemHistory manages per-patient history in memory.
type MemHistory struct {
	mu       sync.RWMutex
	maxTurns int
	turns    map[string][]schema.ChatMessage
}

func NewMemHistory(maxTurns int) *MemHistory {
	if maxTurns <= 0 {
		maxTurns = config.DefaultMaxTurns
	}
	return &MemHistory{
		maxTurns: maxTurns,
		turns:    make(map[string][]schema.ChatMessage),
	}
}

func (m *MemHistory) Turns(ctx context.Context, patientID string) ([]schema.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.turns[patientID]
	out := make([]schema.ChatMessage, len(stored))
	copy(out, stored)
	return out, nil
}

func (m *MemHistory) Append(ctx context.Context, patientID string, turns ...schema.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	updated := append(m.turns[patientID], turns...)
	if len(updated) > m.maxTurns {
		updated = updated[len(updated)-m.maxTurns:]
	}
	m.turns[patientID] = updated
	return nil
}

func (m *MemHistory) Clear(ctx context.Context, patientID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.turns, patientID)
	return nil
}
