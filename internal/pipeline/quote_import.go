package pipeline

import (
	"context"
	"fmt"
	"time"

	"quote-lab/internal/domain"
	"quote-lab/internal/logging"
	"quote-lab/internal/observability"
	"quote-lab/internal/storage"
)

// QuoteImport loads parsed trace samples into a quote sample store.
type QuoteImport struct {
	store    storage.QuoteSampleStore
	database string // metrics label: memory, postgres or clickhouse
	symbol   string
	logger   *logging.Logger
	metrics  *observability.Metrics
}

// NewQuoteImport creates an importer writing to store.
func NewQuoteImport(store storage.QuoteSampleStore, database string) *QuoteImport {
	return &QuoteImport{
		store:    store,
		database: database,
		logger:   logging.Nop(),
	}
}

// WithSymbol keeps only samples of the given symbol.
func (q *QuoteImport) WithSymbol(symbol string) *QuoteImport {
	q.symbol = symbol
	return q
}

// WithLogger sets the logger.
func (q *QuoteImport) WithLogger(logger *logging.Logger) *QuoteImport {
	q.logger = logger
	return q
}

// WithMetrics records store timings and stored row counts.
func (q *QuoteImport) WithMetrics(m *observability.Metrics) *QuoteImport {
	q.metrics = m
	return q
}

// QuoteImportResult summarizes an import.
type QuoteImportResult struct {
	Read    int
	Stored  int
	Symbols []string // symbols present in the store afterwards
}

// Run stores samples as one batch. A duplicate (symbol, timestamp) fails
// the whole batch with storage.ErrDuplicateKey.
func (q *QuoteImport) Run(ctx context.Context, samples []*domain.QuoteSample) (*QuoteImportResult, error) {
	start := time.Now()
	result, err := q.run(ctx, samples)
	if q.metrics != nil {
		q.metrics.RecordPipelineRun("quote_import", time.Since(start), err)
	}
	return result, err
}

func (q *QuoteImport) run(ctx context.Context, samples []*domain.QuoteSample) (*QuoteImportResult, error) {
	result := &QuoteImportResult{Read: len(samples)}

	batch := samples
	if q.symbol != "" {
		batch = make([]*domain.QuoteSample, 0, len(samples))
		for _, s := range samples {
			if s.Symbol == q.symbol {
				batch = append(batch, s)
			}
		}
	}
	if len(batch) == 0 {
		q.logger.Warn("nothing to import",
			logging.Int("read", len(samples)),
			logging.String("symbol", q.symbol),
		)
		return result, nil
	}

	insertStart := time.Now()
	err := q.store.InsertBulk(ctx, batch)
	if q.metrics != nil {
		q.metrics.RecordDBQuery(q.database, "insert_bulk", time.Since(insertStart), err)
	}
	if err != nil {
		return nil, fmt.Errorf("insert %d samples: %w", len(batch), err)
	}
	result.Stored = len(batch)
	if q.metrics != nil {
		q.metrics.RowsStored.Add(float64(len(batch)))
	}

	symbols, err := q.store.ListSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	result.Symbols = symbols

	q.logger.Info("samples imported",
		logging.String("database", q.database),
		logging.Int("read", result.Read),
		logging.Int("stored", result.Stored),
		logging.Any("symbols", symbols),
	)
	return result, nil
}
