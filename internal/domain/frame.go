package domain

import (
	"errors"
	"fmt"
	"math"
)

// Well-known quote trace columns.
const (
	ColumnSymbol     = "Symbol"
	ColumnTimestamp  = "Timestamp"
	ColumnBidPrice   = "BidPrice"
	ColumnBidSize    = "BidSize"
	ColumnAskPrice   = "AskPrice"
	ColumnAskSize    = "AskSize"
	ColumnLastPrice  = "LastPrice"
	ColumnLastSize   = "LastSize"
	ColumnLastSign   = "LastSign"
	ColumnVWAP       = "VWAP"
	ColumnSweepEvent = "SweepEvent"
)

// ErrColumnLength is returned when a column does not match the frame length.
var ErrColumnLength = errors.New("column length does not match frame")

// Frame is a record of named numeric series aligned by position.
// Missing values are NaN. All columns share one length.
type Frame struct {
	names   []string
	columns map[string][]float64
	n       int
}

// NewFrame creates an empty frame.
func NewFrame() *Frame {
	return &Frame{columns: make(map[string][]float64)}
}

// Set adds or replaces a column. The first column fixes the frame length.
// The slice is stored as-is, so callers may mutate it in place afterwards.
func (f *Frame) Set(name string, values []float64) error {
	_, exists := f.columns[name]
	onlyColumn := exists && len(f.columns) == 1
	if len(f.columns) > 0 && !onlyColumn && len(values) != f.n {
		return fmt.Errorf("%w: %s has %d values, frame has %d", ErrColumnLength, name, len(values), f.n)
	}
	if !exists {
		f.names = append(f.names, name)
	}
	f.columns[name] = values
	f.n = len(values)
	return nil
}

// Column returns the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	values, ok := f.columns[name]
	return values, ok
}

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.columns[name]
	return ok
}

// Names returns column names in insertion order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.n
}

// MissingCount returns the number of NaN entries in the named column.
func (f *Frame) MissingCount(name string) int {
	count := 0
	for _, v := range f.columns[name] {
		if math.IsNaN(v) {
			count++
		}
	}
	return count
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	out := NewFrame()
	for _, name := range f.names {
		values := make([]float64, len(f.columns[name]))
		copy(values, f.columns[name])
		out.names = append(out.names, name)
		out.columns[name] = values
	}
	out.n = f.n
	return out
}
