package storage

import (
	"context"

	"quote-lab/internal/domain"
)

// QuoteSampleStore provides access to quote_samples storage.
type QuoteSampleStore interface {
	// InsertBulk adds multiple samples atomically.
	// Fails entire batch on any duplicate (symbol, timestamp).
	InsertBulk(ctx context.Context, samples []*domain.QuoteSample) error

	// GetBySymbol retrieves all samples for a symbol, ordered by timestamp ASC.
	GetBySymbol(ctx context.Context, symbol string) ([]*domain.QuoteSample, error)

	// GetByTimeRange retrieves samples for a symbol within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, symbol string, start, end int64) ([]*domain.QuoteSample, error)

	// ListSymbols returns all stored symbols in ascending order.
	ListSymbols(ctx context.Context) ([]string, error)
}

// ValidateSample checks the fields every store requires.
func ValidateSample(s *domain.QuoteSample) error {
	if s == nil || s.Symbol == "" || s.Timestamp < 0 {
		return ErrInvalidInput
	}
	return nil
}
