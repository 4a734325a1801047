package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"crew-exam/internal/cache"
	"crew-exam/internal/domain"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

// AttemptOrder is the question and answer order shown for one attempt.
type AttemptOrder struct {
	QuestionIDs []string            `json:"question_ids"`
	AnswerIDs   map[string][]string `json:"answer_ids,omitempty"`
}

// AttemptOrderCache keeps the presented order so a reload shows the same sequence.
type AttemptOrderCache interface {
	Put(ctx context.Context, attemptID string, order *AttemptOrder, ttl time.Duration)
	// Get returns nil when nothing is cached.
	Get(ctx context.Context, attemptID string) *AttemptOrder
}

type attemptOrderCacheImpl struct {
	cache domain.Cache
}

func NewAttemptOrderCache(cache domain.Cache) AttemptOrderCache {
	if cache == nil {
		logger.Get().Warn("AttemptOrderCache initialized with nil cache. Presentation order will be rebuilt from storage.")
		return noopAttemptOrderCache{}
	}
	return &attemptOrderCacheImpl{cache: cache}
}

func (c *attemptOrderCacheImpl) Put(ctx context.Context, attemptID string, order *AttemptOrder, ttl time.Duration) {
	key := cache.AttemptOrderKey(attemptID)
	data, err := json.Marshal(order)
	if err != nil {
		logger.Get().Error("Failed to marshal attempt order", zap.Error(err), zap.String("attemptID", attemptID))
		return
	}
	if err := c.cache.Set(ctx, key, string(data), ttl); err != nil {
		logger.Get().Warn("Failed to cache attempt order", zap.Error(err), zap.String("key", key))
	}
}

func (c *attemptOrderCacheImpl) Get(ctx context.Context, attemptID string) *AttemptOrder {
	key := cache.AttemptOrderKey(attemptID)
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read attempt order", zap.Error(err), zap.String("key", key))
		}
		return nil
	}
	var order AttemptOrder
	if err := json.Unmarshal([]byte(data), &order); err != nil {
		logger.Get().Warn("Discarding malformed attempt order", zap.Error(err), zap.String("key", key))
		return nil
	}
	return &order
}

type noopAttemptOrderCache struct{}

func (noopAttemptOrderCache) Put(ctx context.Context, attemptID string, order *AttemptOrder, ttl time.Duration) {
}

func (noopAttemptOrderCache) Get(ctx context.Context, attemptID string) *AttemptOrder { return nil }
