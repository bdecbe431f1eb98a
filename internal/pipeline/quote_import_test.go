package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"quote-lab/internal/domain"
	"quote-lab/internal/loader"
	"quote-lab/internal/observability"
	"quote-lab/internal/storage"
	"quote-lab/internal/storage/memory"
)

const twoSymbolTrace = `Symbol,Timestamp,BidPrice,BidSize,AskPrice,AskSize,LastPrice,LastSize,LastSign,VWAP,SweepEvent
HLX,100,10.0,5,10.2,7,,,,,N
HLX,101,,,,,10.1,3,B,10.1,N
ABC,100,20.0,1,20.5,2,,,,,Y
`

func TestQuoteImport_Run(t *testing.T) {
	ctx := context.Background()
	samples, err := loader.ParseQuoteSamples(strings.NewReader(twoSymbolTrace), "trace.csv")
	if err != nil {
		t.Fatalf("ParseQuoteSamples failed: %v", err)
	}

	store := memory.NewQuoteSampleStore()
	metrics := observability.NewMetrics("")
	result, err := NewQuoteImport(store, "memory").WithMetrics(metrics).Run(ctx, samples)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Read != 3 || result.Stored != 3 {
		t.Errorf("Read/Stored = %d/%d, want 3/3", result.Read, result.Stored)
	}
	if len(result.Symbols) != 2 || result.Symbols[0] != "ABC" || result.Symbols[1] != "HLX" {
		t.Errorf("Symbols = %v", result.Symbols)
	}
	if got := testutil.ToFloat64(metrics.RowsStored); got != 3 {
		t.Errorf("RowsStored = %v, want 3", got)
	}

	hlx, err := store.GetBySymbol(ctx, "HLX")
	if err != nil {
		t.Fatalf("GetBySymbol failed: %v", err)
	}
	if len(hlx) != 2 || hlx[1].LastSign != "B" || hlx[1].BidPrice != nil {
		t.Errorf("Unexpected HLX samples: %+v", hlx)
	}
}

func TestQuoteImport_SymbolFilter(t *testing.T) {
	ctx := context.Background()
	samples, err := loader.ParseQuoteSamples(strings.NewReader(twoSymbolTrace), "trace.csv")
	if err != nil {
		t.Fatalf("ParseQuoteSamples failed: %v", err)
	}

	store := memory.NewQuoteSampleStore()
	result, err := NewQuoteImport(store, "memory").WithSymbol("ABC").Run(ctx, samples)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stored != 1 {
		t.Errorf("Stored = %d, want 1", result.Stored)
	}

	got, _ := store.GetBySymbol(ctx, "ABC")
	if len(got) != 1 || !got[0].SweepEvent {
		t.Errorf("Unexpected ABC samples: %+v", got)
	}

	// Unknown symbol imports nothing and is not an error.
	result, err = NewQuoteImport(store, "memory").WithSymbol("ZZZ").Run(ctx, samples)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Stored != 0 {
		t.Errorf("Stored = %d, want 0", result.Stored)
	}
}

func TestQuoteImport_DuplicateFailsBatch(t *testing.T) {
	ctx := context.Background()
	store := memory.NewQuoteSampleStore()
	if err := LoadQuoteFixtures(ctx, store); err != nil {
		t.Fatalf("Failed to load fixtures: %v", err)
	}

	metrics := observability.NewMetrics("")
	batch := []*domain.QuoteSample{
		{Symbol: FixtureSymbol, Timestamp: 1},
		{Symbol: FixtureSymbol, Timestamp: 34200000},
	}
	_, err := NewQuoteImport(store, "memory").WithMetrics(metrics).Run(ctx, batch)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}

	got, _ := store.GetBySymbol(ctx, FixtureSymbol)
	if len(got) != len(QuoteFixtureSamples()) {
		t.Errorf("Batch was partially stored: %d samples", len(got))
	}
	if v := testutil.ToFloat64(metrics.DBQueryErrors.WithLabelValues("memory", "insert_bulk")); v != 1 {
		t.Errorf("DBQueryErrors = %v, want 1", v)
	}
}
