package domain

import "math"

// QuoteSample is one row of a quote trace: top of book, last trade and VWAP.
// Corresponds to quote_samples table in PostgreSQL and ClickHouse.
type QuoteSample struct {
	Symbol     string   // ticker symbol
	Timestamp  int64    // feed timestamp (ms since midnight)
	BidPrice   *float64 // best bid (nullable)
	BidSize    *int64   // best bid size (nullable)
	AskPrice   *float64 // best ask (nullable)
	AskSize    *int64   // best ask size (nullable)
	LastPrice  *float64 // last trade price (nullable)
	LastSize   *int64   // last trade size (nullable)
	LastSign   string   // "B" | "S" | "C" | "N" | ""
	VWAP       *float64 // running volume-weighted average price (nullable)
	SweepEvent bool     // order book sweep flagged on this event
}

// FrameFromSamples converts samples into a frame, in the given order.
// Null fields become NaN.
func FrameFromSamples(samples []*QuoteSample) *Frame {
	n := len(samples)
	ts := make([]float64, n)
	bid := make([]float64, n)
	bidSize := make([]float64, n)
	ask := make([]float64, n)
	askSize := make([]float64, n)
	last := make([]float64, n)
	lastSize := make([]float64, n)
	vwap := make([]float64, n)

	for i, s := range samples {
		ts[i] = float64(s.Timestamp)
		bid[i] = floatOrNaN(s.BidPrice)
		bidSize[i] = intOrNaN(s.BidSize)
		ask[i] = floatOrNaN(s.AskPrice)
		askSize[i] = intOrNaN(s.AskSize)
		last[i] = floatOrNaN(s.LastPrice)
		lastSize[i] = intOrNaN(s.LastSize)
		vwap[i] = floatOrNaN(s.VWAP)
	}

	// All columns share length n, so Set cannot fail here.
	f := NewFrame()
	_ = f.Set(ColumnTimestamp, ts)
	_ = f.Set(ColumnBidPrice, bid)
	_ = f.Set(ColumnBidSize, bidSize)
	_ = f.Set(ColumnAskPrice, ask)
	_ = f.Set(ColumnAskSize, askSize)
	_ = f.Set(ColumnLastPrice, last)
	_ = f.Set(ColumnLastSize, lastSize)
	_ = f.Set(ColumnVWAP, vwap)
	return f
}

func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

func intOrNaN(v *int64) float64 {
	if v == nil {
		return math.NaN()
	}
	return float64(*v)
}
