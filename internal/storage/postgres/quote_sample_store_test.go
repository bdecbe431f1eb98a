package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-lab/internal/domain"
	"quote-lab/internal/storage"
)

func TestQuoteSampleStore_InsertBulkAndGetBySymbol(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewQuoteSampleStore(pool)

	samples := []*domain.QuoteSample{
		{
			Symbol:    "AAPL",
			Timestamp: 34200200,
			BidPrice:  ptr(189.10),
			BidSize:   ptr(int64(300)),
			AskPrice:  ptr(189.12),
			AskSize:   ptr(int64(200)),
			LastSign:  "",
		},
		{
			Symbol:     "AAPL",
			Timestamp:  34200100,
			LastPrice:  ptr(189.11),
			LastSize:   ptr(int64(100)),
			LastSign:   "B",
			VWAP:       ptr(189.105),
			SweepEvent: true,
		},
	}

	require.NoError(t, store.InsertBulk(ctx, samples))

	result, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, result, 2)

	// Ordered by timestamp ASC
	first, second := result[0], result[1]
	assert.Equal(t, int64(34200100), first.Timestamp)
	assert.Nil(t, first.BidPrice)
	assert.Nil(t, first.AskSize)
	require.NotNil(t, first.LastPrice)
	assert.InDelta(t, 189.11, *first.LastPrice, 1e-9)
	assert.Equal(t, "B", first.LastSign)
	assert.True(t, first.SweepEvent)

	assert.Equal(t, int64(34200200), second.Timestamp)
	require.NotNil(t, second.BidSize)
	assert.Equal(t, int64(300), *second.BidSize)
	assert.Nil(t, second.VWAP)
	assert.False(t, second.SweepEvent)

	count, err := store.Count(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestQuoteSampleStore_DuplicateRejectsBatch(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewQuoteSampleStore(pool)

	require.NoError(t, store.InsertBulk(ctx, []*domain.QuoteSample{{Symbol: "AAPL", Timestamp: 1000}}))

	err := store.InsertBulk(ctx, []*domain.QuoteSample{
		{Symbol: "AAPL", Timestamp: 2000},
		{Symbol: "AAPL", Timestamp: 1000},
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	result, err := store.GetBySymbol(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, result, 1, "failed batch must not be partially applied")
}

func TestQuoteSampleStore_GetByTimeRangeAndListSymbols(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewQuoteSampleStore(pool)

	var samples []*domain.QuoteSample
	for ts := int64(1000); ts <= 5000; ts += 1000 {
		samples = append(samples,
			&domain.QuoteSample{Symbol: "MSFT", Timestamp: ts},
			&domain.QuoteSample{Symbol: "AAPL", Timestamp: ts},
		)
	}
	require.NoError(t, store.InsertBulk(ctx, samples))

	result, err := store.GetByTimeRange(ctx, "AAPL", 2000, 4000)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, int64(2000), result[0].Timestamp)
	assert.Equal(t, int64(4000), result[2].Timestamp)

	symbols, err := store.ListSymbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)

	_, err = store.Count(ctx, "GOOG")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
