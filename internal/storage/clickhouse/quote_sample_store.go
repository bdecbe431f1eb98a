package clickhouse

import (
	"context"
	"fmt"

	"quote-lab/internal/domain"
	"quote-lab/internal/storage"
)

// QuoteSampleStore implements storage.QuoteSampleStore using ClickHouse.
type QuoteSampleStore struct {
	conn *Conn
}

// NewQuoteSampleStore creates a new QuoteSampleStore.
func NewQuoteSampleStore(conn *Conn) *QuoteSampleStore {
	return &QuoteSampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.QuoteSampleStore = (*QuoteSampleStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate (symbol, timestamp).
// MergeTree does not enforce uniqueness, so duplicates are checked before the batch is sent.
func (s *QuoteSampleStore) InsertBulk(ctx context.Context, samples []*domain.QuoteSample) error {
	if len(samples) == 0 {
		return nil
	}

	// Check for intra-batch duplicates and collect per-symbol bounds
	type key struct {
		symbol    string
		timestamp int64
	}
	type bounds struct{ min, max int64 }
	seen := make(map[key]struct{}, len(samples))
	ranges := make(map[string]bounds)
	for _, q := range samples {
		if err := storage.ValidateSample(q); err != nil {
			return err
		}
		k := key{q.Symbol, q.Timestamp}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}

		b, ok := ranges[q.Symbol]
		if !ok {
			b = bounds{q.Timestamp, q.Timestamp}
		}
		b.min = min(b.min, q.Timestamp)
		b.max = max(b.max, q.Timestamp)
		ranges[q.Symbol] = b
	}

	// Check for duplicates against existing rows, one range query per symbol
	for symbol, b := range ranges {
		existing, err := s.timestamps(ctx, symbol, b.min, b.max)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, ts := range existing {
			if _, dup := seen[key{symbol, ts}]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO quote_samples (
			symbol, timestamp, bid_price, bid_size, ask_price, ask_size,
			last_price, last_size, last_sign, vwap, sweep_event
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, q := range samples {
		var sweep uint8
		if q.SweepEvent {
			sweep = 1
		}
		err = batch.Append(
			q.Symbol, q.Timestamp,
			q.BidPrice, q.BidSize,
			q.AskPrice, q.AskSize,
			q.LastPrice, q.LastSize, q.LastSign,
			q.VWAP, sweep,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySymbol retrieves all samples for a symbol, ordered by timestamp ASC.
func (s *QuoteSampleStore) GetBySymbol(ctx context.Context, symbol string) ([]*domain.QuoteSample, error) {
	query := `
		SELECT symbol, timestamp, bid_price, bid_size, ask_price, ask_size,
		       last_price, last_size, last_sign, vwap, sweep_event
		FROM quote_samples
		WHERE symbol = ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("query by symbol: %w", err)
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
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanQuoteSamples(rows)
}

// ListSymbols returns all stored symbols in ascending order.
func (s *QuoteSampleStore) ListSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx, `SELECT DISTINCT symbol FROM quote_samples ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symbols: %w", err)
	}
	return symbols, nil
}

// timestamps returns stored timestamps for a symbol within [start, end].
func (s *QuoteSampleStore) timestamps(ctx context.Context, symbol string, start, end int64) ([]int64, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT timestamp FROM quote_samples
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
	`, symbol, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var ts int64
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

// scanQuoteSamples scans multiple rows.
func scanQuoteSamples(rows chRows) ([]*domain.QuoteSample, error) {
	var samples []*domain.QuoteSample

	for rows.Next() {
		var q domain.QuoteSample
		var sweep uint8

		err := rows.Scan(
			&q.Symbol, &q.Timestamp,
			&q.BidPrice, &q.BidSize,
			&q.AskPrice, &q.AskSize,
			&q.LastPrice, &q.LastSize, &q.LastSign,
			&q.VWAP, &sweep,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quote sample row: %w", err)
		}

		q.SweepEvent = sweep != 0
		samples = append(samples, &q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote sample rows: %w", err)
	}

	return samples, nil
}
