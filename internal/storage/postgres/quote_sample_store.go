package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"quote-lab/internal/domain"
	"quote-lab/internal/storage"
)

// QuoteSampleStore implements storage.QuoteSampleStore using PostgreSQL.
type QuoteSampleStore struct {
	pool *Pool
}

// NewQuoteSampleStore creates a new QuoteSampleStore.
func NewQuoteSampleStore(pool *Pool) *QuoteSampleStore {
	return &QuoteSampleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.QuoteSampleStore = (*QuoteSampleStore)(nil)

var quoteSampleColumns = []string{
	"symbol", "timestamp", "bid_price", "bid_size", "ask_price", "ask_size",
	"last_price", "last_size", "last_sign", "vwap", "sweep_event",
}

// InsertBulk adds multiple samples atomically via COPY.
// Fails entire batch on any duplicate (symbol, timestamp).
func (s *QuoteSampleStore) InsertBulk(ctx context.Context, samples []*domain.QuoteSample) error {
	if len(samples) == 0 {
		return nil
	}
	for _, q := range samples {
		if err := storage.ValidateSample(q); err != nil {
			return err
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"quote_samples"},
		quoteSampleColumns,
		pgx.CopyFromSlice(len(samples), func(i int) ([]any, error) {
			q := samples[i]
			return []any{
				q.Symbol, q.Timestamp,
				q.BidPrice, q.BidSize,
				q.AskPrice, q.AskSize,
				q.LastPrice, q.LastSize, q.LastSign,
				q.VWAP, q.SweepEvent,
			}, nil
		}),
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("copy quote samples: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all samples for a symbol, ordered by timestamp ASC.
func (s *QuoteSampleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.QuoteSample, error) {
	query := `
		SELECT symbol, timestamp, bid_price, bid_size, ask_price, ask_size,
		       last_price, last_size, last_sign, vwap, sweep_event
		FROM quote_samples
		WHERE symbol = $1
		ORDER BY timestamp ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("get quote samples by symbol: %w", err)
	}
	defer rows.Close()

	return scanQuoteSamples(rows)
}

// GetByTimeRange retrieves samples for a symbol within [start, end] (inclusive).
func (s *QuoteSampleStore) GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.QuoteSample, error) {
	query := `
		SELECT symbol, timestamp, bid_price, bid_size, ask_price, ask_size,
		       last_price, last_size, last_sign, vwap, sweep_event
		FROM quote_samples
		WHERE symbol = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("get quote samples by time range: %w", err)
	}
	defer rows.Close()

	return scanQuoteSamples(rows)
}

// ListSymbols returns all stored symbols in ascending order.
func (s *QuoteSampleStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT symbol FROM quote_samples ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}

	symbols, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("collect symbols: %w", err)
	}
	return symbols, nil
}

// Count returns the number of stored samples for a symbol.
// Returns ErrNotFound when the symbol has no samples.
func (s *QuoteSampleStore) Count(ctx context.Context, symbol string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx,
		`SELECT count(*) FROM quote_samples WHERE symbol = $1 GROUP BY symbol`, symbol,
	).Scan(&count)
	if err != nil {
		if isNotFoundError(err) {
			return 0, storage.ErrNotFound
		}
		return 0, fmt.Errorf("count quote samples: %w", err)
	}
	return count, nil
}

// scanQuoteSamples scans multiple rows into a slice of QuoteSample.
func scanQuoteSamples(rows pgx.Rows) ([]*domain.QuoteSample, error) {
	var samples []*domain.QuoteSample

	for rows.Next() {
		var q domain.QuoteSample

		err := rows.Scan(
			&q.Symbol,
			&q.Timestamp,
			&q.BidPrice,
			&q.BidSize,
			&q.AskPrice,
			&q.AskSize,
			&q.LastPrice,
			&q.LastSize,
			&q.LastSign,
			&q.VWAP,
			&q.SweepEvent,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quote sample row: %w", err)
		}

		samples = append(samples, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote sample rows: %w", err)
	}

	return samples, nil
}
