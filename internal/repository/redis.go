package repository

import (
	"context"
	"fmt"

	"shipping/estimator/internal/domain"

	"github.com/redis/go-redis/v9"
)

type redisStatsSource struct {
	redisClient *redis.Client
	key         string
}

// NewRedisStatsSource reads a hash whose fields are category keys and whose
// values are entry JSON documents.
func NewRedisStatsSource(redisClient *redis.Client, key string) StatsSource {
	return &redisStatsSource{
		redisClient: redisClient,
		key:         key,
	}
}

func (s *redisStatsSource) LoadStats(ctx context.Context) (map[string]domain.CategoryStatEntry, error) {
	fields, err := s.redisClient.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read category stats hash %s: %w", s.key, err)
	}

	entries := make(map[string]domain.CategoryStatEntry, len(fields))
	for key, value := range fields {
		entry, err := decodeEntry(key, []byte(value))
		if err != nil {
			return nil, err
		}
		entries[key] = entry
	}

	return entries, nil
}
