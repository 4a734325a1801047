package cache

import "strings"

const (
	GlobalKeyPrefix = "crewexam"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// AttemptOrderKey holds the question and answer order presented for one attempt.
func AttemptOrderKey(attemptID string) string {
	return GenerateCacheKey("attempt", "order", attemptID)
}

// TestStatsKey holds the aggregated statistics of one test.
func TestStatsKey(testID string) string {
	return GenerateCacheKey("test", "stats", testID)
}
