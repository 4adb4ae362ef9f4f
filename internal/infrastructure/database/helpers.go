package database

import (
	"fmt"
	"time"
)

// PoolStats is a snapshot of the pgx pool, reported by the health endpoint.
type PoolStats struct {
	AcquiredConns      int32         `json:"acquired_conns"`
	IdleConns          int32         `json:"idle_conns"`
	TotalConns         int32         `json:"total_conns"`
	MaxConns           int32         `json:"max_conns"`
	AcquireCount       int64         `json:"acquire_count"`
	AvgAcquireDuration time.Duration `json:"avg_acquire_duration"`
}

// Stats returns the current pool statistics.
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquiredConns:      raw.AcquiredConns(),
		IdleConns:          raw.IdleConns(),
		TotalConns:         raw.TotalConns(),
		MaxConns:           raw.MaxConns(),
		AcquireCount:       raw.AcquireCount(),
		AvgAcquireDuration: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}, nil
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
