package pipeline

import (
	"context"
	"fmt"

	"quote-lab/internal/domain"
	"quote-lab/internal/loader"
	"quote-lab/internal/storage"
)

// FrameSource provides the frame a quote plot run works on.
type FrameSource interface {
	Frame(ctx context.Context) (*domain.Frame, error)
	Describe() string
}

// CSVSource reads a quote trace CSV file.
type CSVSource struct {
	Path string
}

// Frame loads the file.
func (s CSVSource) Frame(_ context.Context) (*domain.Frame, error) {
	return loader.LoadFrameFile(s.Path)
}

// Describe returns the file path.
func (s CSVSource) Describe() string {
	return "csv:" + s.Path
}

// StoreSource reads one symbol's samples from a quote sample store.
// A zero End reads every sample of the symbol.
type StoreSource struct {
	Store  storage.QuoteSampleStore
	Symbol string
	Start  int64
	End    int64
}

// Frame queries the store and converts samples in timestamp order.
func (s StoreSource) Frame(ctx context.Context) (*domain.Frame, error) {
	var (
		samples []*domain.QuoteSample
		err     error
	)
	if s.End > 0 {
		samples, err = s.Store.GetByTimeRange(ctx, s.Symbol, s.Start, s.End)
	} else {
		samples, err = s.Store.GetBySymbol(ctx, s.Symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("load samples for %s: %w", s.Symbol, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("symbol %s: %w", s.Symbol, storage.ErrNotFound)
	}
	return domain.FrameFromSamples(samples), nil
}

// Describe returns the symbol.
func (s StoreSource) Describe() string {
	return "store:" + s.Symbol
}

// StaticSource serves a copy of an in-memory frame.
type StaticSource struct {
	Name string
	Data *domain.Frame
}

// Frame returns a copy so repeated runs start from the same data.
func (s StaticSource) Frame(_ context.Context) (*domain.Frame, error) {
	if s.Data == nil {
		return nil, fmt.Errorf("static source %s has no frame", s.Name)
	}
	return s.Data.Copy(), nil
}

// Describe returns the source name.
func (s StaticSource) Describe() string {
	return "static:" + s.Name
}
