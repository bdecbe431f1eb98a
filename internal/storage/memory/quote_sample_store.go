package memory

import (
	"context"
	"sort"
	"sync"

	"quote-lab/internal/domain"
	"quote-lab/internal/storage"
)

type quoteKey struct {
	symbol    string
	timestamp int64
}

// QuoteSampleStore is an in-memory implementation of storage.QuoteSampleStore.
type QuoteSampleStore struct {
	mu   sync.RWMutex
	data map[quoteKey]*domain.QuoteSample
}

// NewQuoteSampleStore creates a new in-memory quote sample store.
func NewQuoteSampleStore() *QuoteSampleStore {
	return &QuoteSampleStore{
		data: make(map[quoteKey]*domain.QuoteSample),
	}
}

// InsertBulk adds multiple samples. Fails entire batch on duplicate.
func (s *QuoteSampleStore) InsertBulk(_ context.Context, samples []*domain.QuoteSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate and check duplicates (existing + intra-batch)
	batchKeys := make(map[quoteKey]struct{}, len(samples))
	for _, q := range samples {
		if err := storage.ValidateSample(q); err != nil {
			return err
		}
		key := quoteKey{q.Symbol, q.Timestamp}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, q := range samples {
		sampleCopy := *q
		s.data[quoteKey{q.Symbol, q.Timestamp}] = &sampleCopy
	}

	return nil
}

// GetBySymbol retrieves all samples for a symbol, ordered by timestamp ASC.
func (s *QuoteSampleStore) GetBySymbol(_ context.Context, symbol string) ([]*domain.QuoteSample, error) {
	return s.collect(func(q *domain.QuoteSample) bool {
		return q.Symbol == symbol
	}), nil
}

// GetByTimeRange retrieves samples for a symbol within [start, end] (inclusive).
func (s *QuoteSampleStore) GetByTimeRange(_ context.Context, symbol string, start, end int64) ([]*domain.QuoteSample, error) {
	return s.collect(func(q *domain.QuoteSample) bool {
		return q.Symbol == symbol && q.Timestamp >= start && q.Timestamp <= end
	}), nil
}

// ListSymbols returns all stored symbols in ascending order.
func (s *QuoteSampleStore) ListSymbols(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var symbols []string
	for key := range s.data {
		if _, ok := seen[key.symbol]; ok {
			continue
		}
		seen[key.symbol] = struct{}{}
		symbols = append(symbols, key.symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

func (s *QuoteSampleStore) collect(match func(*domain.QuoteSample) bool) []*domain.QuoteSample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.QuoteSample
	for _, q := range s.data {
		if match(q) {
			sampleCopy := *q
			result = append(result, &sampleCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp < result[j].Timestamp
	})

	return result
}

var _ storage.QuoteSampleStore = (*QuoteSampleStore)(nil)
