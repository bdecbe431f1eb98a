package loader

import (
	"errors"
	"fmt"
)

// Errors returned by loaders.
var (
	// ErrFormat is returned when input cannot be parsed.
	ErrFormat = errors.New("malformed input")

	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("missing column")
)

// FormatError locates a parse failure within an input.
type FormatError struct {
	Source string // file name or "<reader>"
	Line   int    // 1-based line number, 0 if unknown
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Source, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

// Unwrap allows errors.Is(err, ErrFormat).
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

func formatErrorf(source string, line int, format string, args ...interface{}) error {
	return &FormatError{Source: source, Line: line, Msg: fmt.Sprintf(format, args...)}
}
