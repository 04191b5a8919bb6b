package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/okian/sharpscore/internal/domain/features"
)

// Writer encodes examples as CSV rows in Header order. Booleans are written
// as True/False.
type Writer struct {
	csv *csv.Writer
	buf []string
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w), buf: make([]string, len(Header))}
}

// WriteHeader writes the column names.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(Header)
}

// Write encodes one example.
func (w *Writer) Write(ex Example) error {
	for i, col := range Header {
		w.buf[i] = formatColumn(col, ex)
	}
	return w.csv.Write(w.buf)
}

// Flush writes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

func formatColumn(col string, ex Example) string {
	switch col {
	case ColUserID:
		return ex.Meta.UserID
	case ColTimestamp:
		return strconv.FormatInt(ex.Meta.Timestamp, 10)
	case ColTimezone:
		return ex.Meta.Timezone
	case ColLanguage:
		return ex.Meta.Language
	case ColCountry:
		return ex.Meta.Country
	case ColASN:
		return ex.Meta.ASN
	case ColOrientation:
		return ex.Meta.Orientation
	case ColServerTimestamp:
		return ex.Meta.ServerTimestamp
	case ColTarget:
		return strconv.Itoa(ex.Label)
	}
	v, _ := ex.Row.Get(col)
	if features.IsCategorical(col) {
		if v != 0 {
			return "True"
		}
		return "False"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadFile reads every example from the dataset at path. A missing file is
// ErrMissing.
func ReadFile(path string) ([]Example, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes a dataset. Columns are matched by header name, so extra
// columns and reordering are tolerated; a missing column is ErrHeader.
func Read(r io.Reader) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrHeader)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[name] = i
	}
	index := make([]int, len(Header))
	for i, col := range Header {
		p, ok := pos[col]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrHeader, col)
		}
		index[i] = p
	}

	var out []Example
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, line, err)
		}
		var ex Example
		for i, col := range Header {
			if err := parseColumn(col, rec[index[i]], &ex); err != nil {
				return nil, fmt.Errorf("%w: line %d column %s: %w", ErrMalformed, line, col, err)
			}
		}
		out = append(out, ex)
	}
}

func parseColumn(col, raw string, ex *Example) error {
	switch col {
	case ColUserID:
		ex.Meta.UserID = raw
	case ColTimestamp:
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		ex.Meta.Timestamp = ts
	case ColTimezone:
		ex.Meta.Timezone = raw
	case ColLanguage:
		ex.Meta.Language = raw
	case ColCountry:
		ex.Meta.Country = raw
	case ColASN:
		ex.Meta.ASN = raw
	case ColOrientation:
		ex.Meta.Orientation = raw
	case ColServerTimestamp:
		ex.Meta.ServerTimestamp = raw
	case ColTarget:
		label, err := parseLabel(raw)
		if err != nil {
			return err
		}
		ex.Label = label
	default:
		v, err := parseFeature(col, raw)
		if err != nil {
			return err
		}
		ex.Row.Set(col, v)
	}
	return nil
}

func parseFeature(col, raw string) (float64, error) {
	if features.IsCategorical(col) {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return 0, err
		}
		if b {
			return 1, nil
		}
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

// parseLabel accepts integral labels written as "1" or "1.0".
func parseLabel(raw string) (int, error) {
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("non-integral label %q", raw)
	}
	return int(f), nil
}
