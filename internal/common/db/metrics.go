package db

import (
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/messagely/messagely/internal/observability/metrics"
)

// StartPoolMetrics exports pool stats as gauges on a fixed interval.
// Runs until the process exits; the pool outlives all requests.
func StartPoolMetrics(pool *pgxpool.Pool, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			stat := pool.Stat()
			metrics.DBPoolTotalConns.Set(float64(stat.TotalConns()))
			metrics.DBPoolIdleConns.Set(float64(stat.IdleConns()))
			metrics.DBPoolAcquiredConns.Set(float64(stat.AcquiredConns()))
		}
	}()
}
