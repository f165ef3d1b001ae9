package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/HasinduNiran/Nephro-AI-sub000/config"
	"github.com/HasinduNiran/Nephro-AI-sub000/schema"
)

// RedisHistory persists per-patient history in Redis.
// Data model: key prefix+patientID => list of JSON(ChatMessage), trimmed to
// the turn cap on every append, with a sliding idle TTL.
type RedisHistory struct {
	rdb      *redis.Client
	prefix   string
	maxTurns int
	ttl      time.Duration
}

func NewRedisHistory(cfg config.SessionConfig) (*RedisHistory, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis history store requires session.redis.addr")
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis history store unreachable: %w", err)
	}
	return &RedisHistory{
		rdb:      rdb,
		prefix:   "nephro:hist:",
		maxTurns: cfg.MaxTurnsOrDefault(),
		ttl:      ttl,
	}, nil
}

func (r *RedisHistory) key(patientID string) string { return r.prefix + patientID }

func (r *RedisHistory) Turns(ctx context.Context, patientID string) ([]schema.ChatMessage, error) {
	raw, err := r.rdb.LRange(ctx, r.key(patientID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	turns := make([]schema.ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg schema.ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			continue
		}
		turns = append(turns, msg)
	}
	return turns, nil
}

func (r *RedisHistory) Append(ctx context.Context, patientID string, turns ...schema.ChatMessage) error {
	if len(turns) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, b)
	}

	key := r.key(patientID)
	pipe := r.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-r.maxTurns), -1)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (r *RedisHistory) Clear(ctx context.Context, patientID string) error {
	return r.rdb.Del(ctx, r.key(patientID)).Err()
}
