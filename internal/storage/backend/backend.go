// Package backend opens the quote sample store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"quote-lab/internal/config"
	"quote-lab/internal/logging"
	"quote-lab/internal/storage"
	chstore "quote-lab/internal/storage/clickhouse"
	"quote-lab/internal/storage/memory"
	"quote-lab/internal/storage/migrations"
	pgstore "quote-lab/internal/storage/postgres"
)

// Backend names, also used as metrics labels.
const (
	Memory     = "memory"
	Postgres   = "postgres"
	Clickhouse = "clickhouse"
)

// Backend is an open quote sample store.
type Backend struct {
	Name  string
	Store storage.QuoteSampleStore
	close func() error
}

// Close releases the underlying connection.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects to PostgreSQL or ClickHouse when a DSN is configured and
// falls back to an empty in-memory store otherwise. With cfg.Migrate the
// embedded migrations run first.
func Open(ctx context.Context, cfg config.StorageConfig, logger *logging.Logger) (*Backend, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	switch {
	case cfg.PostgresDSN != "":
		pool, err := pgstore.NewPoolWithOptions(ctx, cfg.PostgresDSN, pgstore.PoolOptions{
			MaxConns:       cfg.MaxConns,
			ConnectTimeout: cfg.ConnectTimeout,
		})
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("postgres migrations: %w", err)
			}
			logger.Info("postgres migrations applied")
		}
		return &Backend{
			Name:  Postgres,
			Store: pgstore.NewQuoteSampleStore(pool),
			close: func() error { pool.Close(); return nil },
		}, nil

	case cfg.ClickhouseDSN != "":
		var (
			conn *chstore.Conn
			err  error
		)
		if cfg.Migrate {
			conn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
			if err != nil {
				return nil, fmt.Errorf("clickhouse migrations: %w", err)
			}
			logger.Info("clickhouse migrations applied")
		} else {
			conn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
			if err != nil {
				return nil, err
			}
		}
		return &Backend{
			Name:  Clickhouse,
			Store: chstore.NewQuoteSampleStore(conn),
			close: conn.Close,
		}, nil

	default:
		return &Backend{Name: Memory, Store: memory.NewQuoteSampleStore()}, nil
	}
}
