package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"quote-lab/internal/domain"
)

// ParseFrame reads a headed CSV into a frame of named numeric columns.
// Empty or non-numeric cells become NaN, so text columns such as Symbol
// end up all-NaN. The Timestamp column is required.
func ParseFrame(r io.Reader, source string) (*domain.Frame, error) {
	reader := newCSVReader(r)

	header, err := readHeader(reader, source)
	if err != nil {
		return nil, err
	}
	if _, ok := header[domain.ColumnTimestamp]; !ok {
		return nil, fmt.Errorf("%s: %w: %s", source, ErrMissingColumn, domain.ColumnTimestamp)
	}

	names := make([]string, len(header))
	for name, idx := range header {
		names[idx] = name
	}
	columns := make([][]float64, len(names))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}
		for i, cell := range record {
			columns[i] = append(columns[i], parseCell(cell))
		}
	}

	frame := domain.NewFrame()
	for i, name := range names {
		values := columns[i]
		if values == nil {
			values = []float64{}
		}
		if err := frame.Set(name, values); err != nil {
			return nil, formatErrorf(source, 0, "%v", err)
		}
	}
	return frame, nil
}

// LoadFrameFile reads a headed CSV file into a frame.
func LoadFrameFile(path string) (*domain.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseFrame(file, path)
}

// ParseQuoteSamples reads a quote trace CSV into samples.
// Symbol and Timestamp are required; other columns are optional and
// empty cells become null fields. Malformed numbers are format errors.
func ParseQuoteSamples(r io.Reader, source string) ([]*domain.QuoteSample, error) {
	reader := newCSVReader(r)

	header, err := readHeader(reader, source)
	if err != nil {
		return nil, err
	}
	for _, required := range []string{domain.ColumnSymbol, domain.ColumnTimestamp} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("%s: %w: %s", source, ErrMissingColumn, required)
		}
	}

	var samples []*domain.QuoteSample
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(source, err)
		}
		line, _ := reader.FieldPos(0)

		s, err := parseQuoteRecord(header, record)
		if err != nil {
			return nil, formatErrorf(source, line, "%v", err)
		}
		samples = append(samples, s)
	}

	return samples, nil
}

// LoadQuoteSamplesFile reads a quote trace CSV file into samples.
func LoadQuoteSamplesFile(path string) ([]*domain.QuoteSample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseQuoteSamples(file, path)
}

func parseQuoteRecord(header map[string]int, record []string) (*domain.QuoteSample, error) {
	cell := func(name string) string {
		idx, ok := header[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	s := &domain.QuoteSample{
		Symbol:     cell(domain.ColumnSymbol),
		LastSign:   cell(domain.ColumnLastSign),
		SweepEvent: cell(domain.ColumnSweepEvent) == "Y",
	}
	if s.Symbol == "" {
		return nil, errors.New("empty symbol")
	}

	ts, err := strconv.ParseInt(cell(domain.ColumnTimestamp), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q", cell(domain.ColumnTimestamp))
	}
	s.Timestamp = ts

	floats := []struct {
		name string
		dst  **float64
	}{
		{domain.ColumnBidPrice, &s.BidPrice},
		{domain.ColumnAskPrice, &s.AskPrice},
		{domain.ColumnLastPrice, &s.LastPrice},
		{domain.ColumnVWAP, &s.VWAP},
	}
	for _, f := range floats {
		raw := cell(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = &v
	}

	ints := []struct {
		name string
		dst  **int64
	}{
		{domain.ColumnBidSize, &s.BidSize},
		{domain.ColumnAskSize, &s.AskSize},
		{domain.ColumnLastSize, &s.LastSize},
	}
	for _, f := range ints {
		raw := cell(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", f.name, raw)
		}
		*f.dst = &v
	}

	return s, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	return reader
}

// readHeader reads the header row and maps column names to indices.
func readHeader(reader *csv.Reader, source string) (map[string]int, error) {
	row, err := reader.Read()
	if err == io.EOF {
		return nil, formatErrorf(source, 0, "empty input, header row expected")
	}
	if err != nil {
		return nil, csvError(source, err)
	}

	header := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimSpace(strings.Trim(name, "\""))
		if name == "" {
			return nil, formatErrorf(source, 1, "empty column name at position %d", i+1)
		}
		if _, dup := header[name]; dup {
			return nil, formatErrorf(source, 1, "duplicate column %q", name)
		}
		header[name] = i
	}
	return header, nil
}

func parseCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func csvError(source string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return formatErrorf(source, parseErr.Line, "%v", parseErr.Err)
	}
	return formatErrorf(source, 0, "%v", err)
}
