package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"seq-trading-bot/internal/types"
)

var ErrMalformedRow = errors.New("malformed row")

// RowError describes an input line that could not be parsed.
type RowError struct {
	Line  int
	Field int
	Err   error
}

func (e *RowError) Error() string {
	if e.Field >= 0 {
		return fmt.Sprintf("line %d field %d: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

func (e *RowError) Is(target error) bool {
	return target == ErrMalformedRow
}

type Options struct {
	Comma      rune
	SkipHeader bool
}

// Reader yields numeric rows from a delimited text stream.
type Reader struct {
	csv        *csv.Reader
	skipHeader bool
}

func NewReader(r io.Reader, opts Options) *Reader {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &Reader{csv: cr, skipHeader: opts.SkipHeader}
}

// Next returns the next row. It returns io.EOF at the end of input and a
// *RowError for a line that is not numeric; the reader stays usable after a
// *RowError.
func (r *Reader) Next() (types.Row, error) {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return types.Row{}, io.EOF
		}
		if err != nil {
			r.skipHeader = false
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return types.Row{}, &RowError{Line: parseErr.Line, Field: -1, Err: parseErr.Err}
			}
			return types.Row{}, err
		}
		line, _ := r.csv.FieldPos(0)

		if r.skipHeader {
			r.skipHeader = false
			continue
		}

		values, field, err := ParseValues(record)
		if err != nil {
			return types.Row{}, &RowError{Line: line, Field: field, Err: err}
		}
		return types.Row{Line: line, Values: values}, nil
	}
}

// ParseValues converts every field to a finite float64. On failure it
// returns the index of the offending field.
func ParseValues(fields []string) ([]float64, int, error) {
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, i, fmt.Errorf("parse %q: %w", f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, i, fmt.Errorf("parse %q: value is not finite", f)
		}
		values[i] = v
	}
	return values, -1, nil
}

// Column returns the value at index, or a *RowError when the row is too short.
func Column(row types.Row, index int) (float64, error) {
	if index < 0 || index >= len(row.Values) {
		return 0, &RowError{
			Line:  row.Line,
			Field: index,
			Err:   fmt.Errorf("row has %d fields, need index %d", len(row.Values), index),
		}
	}
	return row.Values[index], nil
}
