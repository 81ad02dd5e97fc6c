package journal

import (
	"context"
	"fmt"

	"solana-token-admin/internal/storage/clickhouse"
	"solana-token-admin/internal/storage/migrations"
	"solana-token-admin/internal/storage/postgres"
)

// Config names the journal databases. Empty DSNs are skipped.
type Config struct {
	Network       string
	PostgresDSN   string
	ClickhouseDSN string
}

// Open connects to the configured databases, applies migrations and returns
// a recorder writing to all of them. Postgres, when configured, is the
// backend returned by Store.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Recorder, error) {
	var (
		backends []Backend
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres journal: %w", err)
		}
		closers = append(closers, pool.Close)

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			closeAll()
			return nil, fmt.Errorf("migrate postgres journal: %w", err)
		}
		backends = append(backends, Backend{Name: "postgres", Store: postgres.NewOperationStore(pool)})
	}

	if cfg.ClickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("open clickhouse journal: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		backends = append(backends, Backend{Name: "clickhouse", Store: clickhouse.NewOperationStore(conn)})
	}

	r := NewRecorder(cfg.Network, backends, opts...)
	r.closers = closers
	return r, nil
}
