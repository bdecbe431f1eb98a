package render

import "sync"

// Recorder keeps copies of rendered figures in memory.
type Recorder struct {
	mu      sync.Mutex
	figures []*Figure
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Render validates and stores a copy of the figure.
func (r *Recorder) Render(fig *Figure) error {
	if err := fig.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.figures = append(r.figures, fig.Copy())
	return nil
}

// Last returns the most recent figure, or nil.
func (r *Recorder) Last() *Figure {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.figures) == 0 {
		return nil
	}
	return r.figures[len(r.figures)-1]
}

// Count returns the number of rendered figures.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.figures)
}

var _ Renderer = (*Recorder)(nil)
