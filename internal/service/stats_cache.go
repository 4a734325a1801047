package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crew-exam/internal/cache"
	"crew-exam/internal/domain"
	"crew-exam/internal/dto"
	"crew-exam/internal/logger"

	"go.uber.org/zap"
)

// ErrStatsNotCached is returned when no statistics are cached for a test.
var ErrStatsNotCached = errors.New("test statistics not found in cache")

// StatsCacheService caches aggregated test statistics until the next submission or grade.
type StatsCacheService interface {
	Put(ctx context.Context, testID string, stats *dto.TestStatistics) error
	Get(ctx context.Context, testID string) (*dto.TestStatistics, error)
	Invalidate(ctx context.Context, testID string)
}

type statsCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewStatsCacheService falls back to a no-op cache when cache is nil.
func NewStatsCacheService(cache domain.Cache, ttl time.Duration) StatsCacheService {
	if cache == nil {
		logger.Get().Warn("StatsCacheService initialized with nil cache. Service will be no-op.")
		return &noopStatsCacheService{}
	}
	return &statsCacheServiceImpl{cache: cache, ttl: ttl}
}

func (s *statsCacheServiceImpl) Put(ctx context.Context, testID string, stats *dto.TestStatistics) error {
	if stats == nil {
		return domain.NewInvalidInputError("cannot cache nil statistics")
	}

	key := cache.TestStatsKey(testID)
	data, err := json.Marshal(stats)
	if err != nil {
		return domain.NewInternalError("failed to marshal statistics for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to cache test statistics", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to set statistics for key %s", key), err)
	}
	logger.Get().Debug("Cached test statistics", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *statsCacheServiceImpl) Get(ctx context.Context, testID string) (*dto.TestStatistics, error) {
	key := cache.TestStatsKey(testID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Test statistics cache miss", zap.String("key", key))
			return nil, ErrStatsNotCached
		}
		logger.Get().Error("Failed to get test statistics from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get statistics for key %s", key), err)
	}
	if data == "" {
		return nil, ErrStatsNotCached
	}

	var stats dto.TestStatistics
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		logger.Get().Error("Failed to unmarshal cached test statistics", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal statistics for key %s", key), err)
	}
	return &stats, nil
}

// Invalidate drops the cached entry. Failures are logged only; the entry expires on its own.
func (s *statsCacheServiceImpl) Invalidate(ctx context.Context, testID string) {
	key := cache.TestStatsKey(testID)
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Get().Warn("Failed to invalidate test statistics", zap.Error(err), zap.String("key", key))
	}
}

type noopStatsCacheService struct{}

func (s *noopStatsCacheService) Put(ctx context.Context, testID string, stats *dto.TestStatistics) error {
	return nil
}

func (s *noopStatsCacheService) Get(ctx context.Context, testID string) (*dto.TestStatistics, error) {
	return nil, ErrStatsNotCached
}

func (s *noopStatsCacheService) Invalidate(ctx context.Context, testID string) {}
