package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"shipping/estimator/internal/domain"

	log "github.com/sirupsen/logrus"
)

// StatsSource loads the persisted category statistics dataset.
type StatsSource interface {
	LoadStats(ctx context.Context) (map[string]domain.CategoryStatEntry, error)
}

type fileStatsSource struct {
	path string
}

// NewFileStatsSource reads a JSON object of key -> entry from path.
func NewFileStatsSource(path string) StatsSource {
	return &fileStatsSource{path: path}
}

func (s *fileStatsSource) LoadStats(ctx context.Context) (map[string]domain.CategoryStatEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warnf("Category stats file %s not found, using default estimates", s.path)
			return map[string]domain.CategoryStatEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read category stats file: %w", err)
	}

	var entries map[string]domain.CategoryStatEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode category stats file %s: %w", s.path, err)
	}
	if entries == nil {
		entries = map[string]domain.CategoryStatEntry{}
	}

	return entries, nil
}

func decodeEntry(key string, data []byte) (domain.CategoryStatEntry, error) {
	var e domain.CategoryStatEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("failed to decode stats entry %s: %w", key, err)
	}
	return e, nil
}
