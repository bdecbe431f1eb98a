package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-lab/internal/domain"
	"quote-lab/internal/loader"
	"quote-lab/internal/logging"
)

var nan = math.NaN()

func TestFill(t *testing.T) {
	tests := []struct {
		name   string
		in     []float64
		want   []float64
		filled int
	}{
		{"interior gap", []float64{1, nan, 3}, []float64{1, 2, 3}, 1},
		{"single known value clamps both sides", []float64{nan, 2, nan}, []float64{2, 2, 2}, 2},
		{"leading and trailing clamp", []float64{nan, nan, 4, nan, 8, nan}, []float64{4, 4, 4, 6, 8, 8}, 4},
		{"uneven gap", []float64{0, nan, nan, 3}, []float64{0, 1, 2, 3}, 2},
		{"no missing", []float64{5, 4, 3}, []float64{5, 4, 3}, 0},
		{"empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := append([]float64(nil), tt.in...)
			filled, err := Fill(values)
			require.NoError(t, err)
			assert.Equal(t, tt.filled, filled)
			require.Len(t, values, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], values[i], 1e-12, "index %d", i)
			}
		})
	}
}

func TestFill_AllMissing(t *testing.T) {
	values := []float64{nan, nan}
	_, err := Fill(values)
	assert.ErrorIs(t, err, ErrAllMissing)
	assert.True(t, math.IsNaN(values[0]))
}

func TestFill_Idempotent(t *testing.T) {
	values := []float64{nan, 1, nan, nan, 7, nan}
	_, err := Fill(values)
	require.NoError(t, err)
	once := append([]float64(nil), values...)

	filled, err := Fill(values)
	require.NoError(t, err)
	assert.Equal(t, 0, filled)
	assert.Equal(t, once, values)
}

func newFrame(t *testing.T, cols map[string][]float64) *domain.Frame {
	t.Helper()
	f := domain.NewFrame()
	for _, name := range []string{domain.ColumnTimestamp, domain.ColumnBidPrice, domain.ColumnAskPrice, domain.ColumnVWAP} {
		if v, ok := cols[name]; ok {
			require.NoError(t, f.Set(name, v))
		}
	}
	return f
}

func TestFrame_FillsDesignatedColumnsOnly(t *testing.T) {
	f := newFrame(t, map[string][]float64{
		domain.ColumnTimestamp: {100, 250, 900},
		domain.ColumnBidPrice:  {1, nan, 3},
		domain.ColumnAskPrice:  {nan, 5, nan},
		domain.ColumnVWAP:      {nan, 2, 4},
	})

	res, err := Frame(f, Options{Columns: []string{domain.ColumnBidPrice, domain.ColumnAskPrice}}, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Filled())

	bid, _ := f.Column(domain.ColumnBidPrice)
	ask, _ := f.Column(domain.ColumnAskPrice)
	vwap, _ := f.Column(domain.ColumnVWAP)
	// Position index, not Timestamp, is the x-axis.
	assert.Equal(t, []float64{1, 2, 3}, bid)
	assert.Equal(t, []float64{5, 5, 5}, ask)
	assert.True(t, math.IsNaN(vwap[0]))
}

func TestFrame_MissingColumn(t *testing.T) {
	f := newFrame(t, map[string][]float64{
		domain.ColumnTimestamp: {1, 2},
		domain.ColumnBidPrice:  {1, nan},
	})

	_, err := Frame(f, Options{Columns: []string{domain.ColumnBidPrice, domain.ColumnVWAP}}, nil)
	assert.ErrorIs(t, err, loader.ErrMissingColumn)

	res, err := Frame(f, Options{
		Columns:  []string{domain.ColumnBidPrice, domain.ColumnVWAP},
		Optional: []string{domain.ColumnVWAP},
	}, nil)
	require.NoError(t, err)
	require.Len(t, res.Columns, 2)
	assert.True(t, res.Columns[1].Skipped)
}

func TestFrame_AllMissingPolicy(t *testing.T) {
	build := func() *domain.Frame {
		return newFrame(t, map[string][]float64{
			domain.ColumnTimestamp: {1, 2},
			domain.ColumnBidPrice:  {nan, nan},
			domain.ColumnAskPrice:  {nan, 3},
		})
	}
	cols := []string{domain.ColumnBidPrice, domain.ColumnAskPrice}

	_, err := Frame(build(), Options{Columns: cols}, nil)
	assert.ErrorIs(t, err, ErrAllMissing)

	f := build()
	res, err := Frame(f, Options{Columns: cols, OnAllMissing: AllMissingSkip}, nil)
	require.NoError(t, err)
	assert.True(t, res.Columns[0].Skipped)
	assert.Equal(t, 1, res.Columns[1].Filled)
	assert.Equal(t, 2, f.MissingCount(domain.ColumnBidPrice))
}
