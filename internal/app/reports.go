package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	platformcache "github.com/paulpark6/salesvision/internal/platform/cache"
	platformdb "github.com/paulpark6/salesvision/internal/platform/db"
	"github.com/paulpark6/salesvision/internal/reports"
	reportsdb "github.com/paulpark6/salesvision/internal/reports/db"
	"github.com/paulpark6/salesvision/internal/reports/seed"
)

// ReportStack is the report service with the resources backing it.
type ReportStack struct {
	Service   *reports.Service
	Cache     *reports.Cache
	Readiness []ReadinessCheck
	closers   []func()
}

// Close releases the database pool, if one was opened.
func (s *ReportStack) Close() {
	if s == nil {
		return
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// BuildReports selects the configured repository and wires it to the report
// cache. A nil redis client disables caching.
func BuildReports(ctx context.Context, cfg *Config, logger *slog.Logger, redisClient *redis.Client) (*ReportStack, error) {
	stack := &ReportStack{}

	var repo reports.Repository
	switch cfg.DataSource {
	case DataSourcePostgres:
		pool, err := platformdb.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
		if err != nil {
			return nil, err
		}
		stack.closers = append(stack.closers, pool.Close)
		store := reportsdb.New(pool)
		if err := store.Migrate(ctx); err != nil {
			stack.Close()
			return nil, fmt.Errorf("app: migrate report schema: %w", err)
		}
		if cfg.PGSeed {
			if err := store.Load(ctx, seed.New().Dataset()); err != nil {
				stack.Close()
				return nil, fmt.Errorf("app: load seed data: %w", err)
			}
			logger.Info("loaded seed data into postgres")
		}
		stack.Readiness = append(stack.Readiness, ReadinessCheck{Name: "postgres", Check: pool.Ping})
		repo = store
	default:
		repo = seed.New()
	}

	if redisClient != nil {
		stack.Cache = reports.NewCache(redisClient, cfg.ReportCacheTTL)
		stack.Readiness = append(stack.Readiness, ReadinessCheck{
			Name: "redis",
			Check: func(ctx context.Context) error {
				return platformcache.Ping(ctx, redisClient)
			},
		})
	}
	stack.Service = reports.NewService(repo, stack.Cache, cfg.StatusPolicy())
	logger.Info("report service ready",
		slog.String("data_source", cfg.DataSource),
		slog.Bool("cache", stack.Cache != nil),
		slog.Int("overdue_grace_days", cfg.AgingOverdueGraceDays),
		slog.Int("due_window_days", cfg.AgingDueWindowDays),
	)
	return stack, nil
}
