package repository

import (
	"context"
	"fmt"

	"shipping/estimator/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStatsSource struct {
	db    *pgxpool.Pool
	table string
}

// NewPostgresStatsSource reads (key, data) rows where data is the entry as jsonb.
func NewPostgresStatsSource(db *pgxpool.Pool, table string) StatsSource {
	return &postgresStatsSource{
		db:    db,
		table: table,
	}
}

func (s *postgresStatsSource) LoadStats(ctx context.Context) (map[string]domain.CategoryStatEntry, error) {
	query := fmt.Sprintf(`SELECT key, data FROM %s`, pgx.Identifier{s.table}.Sanitize())

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query category stats: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]domain.CategoryStatEntry)
	for rows.Next() {
		var (
			key  string
			data []byte
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan category stats row: %w", err)
		}

		entry, err := decodeEntry(key, data)
		if err != nil {
			return nil, err
		}
		entries[key] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read category stats rows: %w", err)
	}

	return entries, nil
}
