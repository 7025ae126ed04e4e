package pg

import (
	"context"
	"log/slog"
	"time"
)

const defaultPingTimeout = 2 * time.Second

// HealthChecker pings the pool with a bounded timeout so a stuck database
// cannot hang the health endpoint.
type HealthChecker struct {
	pool    *ConnectionPool
	timeout time.Duration
}

func NewHealthChecker(pool *ConnectionPool) *HealthChecker {
	return &HealthChecker{
		pool:    pool,
		timeout: defaultPingTimeout,
	}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	if hc.pool == nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	if err := hc.pool.Ping(ctx); err != nil {
		stat := hc.pool.GetConn().Stat()
		slog.Warn("Postgres health check failed",
			"error", err,
			"total_conns", stat.TotalConns(),
			"idle_conns", stat.IdleConns(),
		)
		return false
	}

	return true
}
