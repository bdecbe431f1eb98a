package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"quote-lab/internal/domain"
)

const maxLineBytes = 64 << 20

// ParseSparse parses sparse labeled-vector text: one sample per line,
// "label index:value ...", indices 1-based and strictly increasing.
// Text after '#' is a comment. A "qid:" token is accepted and ignored.
// Blank lines are skipped. Zero-valued features are not stored.
func ParseSparse(r io.Reader, source string) (*domain.Dataset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	ds := &domain.Dataset{}
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		label, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, formatErrorf(source, lineNo, "invalid label %q", fields[0])
		}

		row, err := parseFeatures(fields[1:])
		if err != nil {
			return nil, formatErrorf(source, lineNo, "%v", err)
		}
		ds.Append(label, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, formatErrorf(source, lineNo, "read: %v", err)
	}

	if ds.Len() == 0 {
		return nil, formatErrorf(source, 0, "no samples")
	}

	return ds, nil
}

// parseFeatures parses "index:value" tokens into a sparse vector.
func parseFeatures(tokens []string) (domain.SparseVector, error) {
	var row domain.SparseVector
	prev := 0
	for _, tok := range tokens {
		if strings.HasPrefix(tok, "qid:") {
			continue
		}
		colon := strings.IndexByte(tok, ':')
		if colon <= 0 || colon == len(tok)-1 {
			return row, fmt.Errorf("invalid feature %q", tok)
		}
		idx, err := strconv.Atoi(tok[:colon])
		if err != nil || idx < 1 {
			return row, fmt.Errorf("invalid feature index %q", tok[:colon])
		}
		if idx <= prev {
			return row, fmt.Errorf("feature indices must be strictly increasing (%d after %d)", idx, prev)
		}
		prev = idx

		val, err := strconv.ParseFloat(tok[colon+1:], 64)
		if err != nil {
			return row, fmt.Errorf("invalid feature value %q", tok[colon+1:])
		}
		if val == 0 {
			continue
		}
		row.Indices = append(row.Indices, idx)
		row.Values = append(row.Values, val)
	}
	return row, nil
}

// LoadSparseFile parses a sparse labeled-vector file.
func LoadSparseFile(path string) (*domain.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseSparse(file, path)
}
