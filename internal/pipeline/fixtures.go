package pipeline

import (
	"context"

	"quote-lab/internal/domain"
	"quote-lab/internal/storage"
)

// FixtureSymbol is the symbol of the fixture quote trace.
const FixtureSymbol = "HLX"

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

// QuoteFixtureSamples returns a short quote trace for demonstration runs.
// Quote events carry bid/ask, trade events carry last/VWAP, so every
// price column has gaps.
func QuoteFixtureSamples() []*domain.QuoteSample {
	quote := func(ts int64, bid, ask float64, sweep bool) *domain.QuoteSample {
		return &domain.QuoteSample{
			Symbol:     FixtureSymbol,
			Timestamp:  ts,
			BidPrice:   f64(bid),
			BidSize:    i64(500),
			AskPrice:   f64(ask),
			AskSize:    i64(400),
			SweepEvent: sweep,
		}
	}
	trade := func(ts int64, price float64, size int64, sign string, vwap float64) *domain.QuoteSample {
		return &domain.QuoteSample{
			Symbol:    FixtureSymbol,
			Timestamp: ts,
			LastPrice: f64(price),
			LastSize:  i64(size),
			LastSign:  sign,
			VWAP:      f64(vwap),
		}
	}

	return []*domain.QuoteSample{
		quote(34200000, 100.00, 100.04, false), // 09:30:00.000
		trade(34200150, 100.02, 100, "B", 100.02),
		quote(34200400, 100.01, 100.05, false),
		trade(34200420, 100.05, 200, "B", 100.04),
		trade(34200800, 100.03, 100, "S", 100.0375),
		quote(34201200, 100.03, 100.06, false),
		trade(34201500, 100.06, 300, "B", 100.0471),
		quote(34202000, 100.05, 100.08, true),
		trade(34202300, 100.08, 100, "B", 100.0513),
		quote(34202900, 100.06, 100.09, false),
	}
}

// QuoteFixtureFrame returns the fixture trace as a frame.
func QuoteFixtureFrame() *domain.Frame {
	return domain.FrameFromSamples(QuoteFixtureSamples())
}

// LoadQuoteFixtures populates a store with the fixture trace.
func LoadQuoteFixtures(ctx context.Context, store storage.QuoteSampleStore) error {
	return store.InsertBulk(ctx, QuoteFixtureSamples())
}

// SeparableDatasets returns linearly separable train and test matrices over
// labels -1, 0 and +1. Features 1-3 mark the class; features 4-5 are noise.
func SeparableDatasets(trainPerClass, testPerClass int) (train, test *domain.Dataset) {
	labels := []float64{domain.LabelDownward, domain.LabelStationary, domain.LabelUpward}
	build := func(n, offset int) *domain.Dataset {
		ds := &domain.Dataset{}
		for i := 0; i < n; i++ {
			k := i + offset
			for j, label := range labels {
				row := domain.SparseVector{}
				for f := 0; f < 5; f++ {
					v := 0.05 * float64((k+j+f)%3)
					if f == j {
						v = 1 + 0.1*float64(k%5)
					}
					if v == 0 {
						continue
					}
					row.Indices = append(row.Indices, f+1)
					row.Values = append(row.Values, v)
				}
				ds.Append(label, row)
			}
		}
		return ds
	}
	return build(trainPerClass, 0), build(testPerClass, trainPerClass)
}
