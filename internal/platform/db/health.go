package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
	AcquireCount  int64 `json:"acquire_count"`
}

// Health is the /health response body.
type Health struct {
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	LatencyMS float64    `json:"latency_ms"`
	Pool      *PoolStats `json:"pool"`
}

func poolStats(pool *pgxpool.Pool) *PoolStats {
	s := pool.Stat()
	return &PoolStats{
		TotalConns:    s.TotalConns(),
		IdleConns:     s.IdleConns(),
		AcquiredConns: s.AcquiredConns(),
		MaxConns:      s.MaxConns(),
		AcquireCount:  s.AcquireCount(),
	}
}

// HealthHandler pings the database and reports round-trip latency and pool usage.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return healthHandler(pool.Ping, func() *PoolStats { return poolStats(pool) })
}

func healthHandler(ping func(context.Context) error, stats func() *PoolStats) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		start := time.Now()
		err := ping(ctx)
		h := Health{
			Status:    "healthy",
			LatencyMS: float64(time.Since(start).Microseconds()) / 1000,
			Pool:      stats(),
		}
		code := http.StatusOK
		if err != nil {
			h.Status, h.Error = "unhealthy", err.Error()
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, h)
	}
}
