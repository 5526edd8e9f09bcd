package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"seq-trading-bot/internal/types"
)

// Writer renders step results, one line each.
type Writer struct {
	w         io.Writer
	json      *json.Encoder
	format    string
	precision int32
}

type jsonLine struct {
	Line          int     `json:"line"`
	Action        string  `json:"action"`
	Fraction      float64 `json:"fraction"`
	Predicted     float64 `json:"predicted,omitempty"`
	PreviousClose float64 `json:"previous_close"`
	Reason        string  `json:"reason,omitempty"`
	Rejected      string  `json:"rejected,omitempty"`
}

// NewWriter accepts "text" (ACTION FRACTION) or "json". A positive precision
// fixes the number of fraction decimals in text output.
func NewWriter(w io.Writer, format string, precision int32) *Writer {
	return &Writer{w: w, json: json.NewEncoder(w), format: format, precision: precision}
}

func (o *Writer) Write(r *types.StepResult) error {
	if o.format == "json" {
		return o.json.Encode(jsonLine{
			Line:          r.Line,
			Action:        string(r.Decision.Action),
			Fraction:      r.Decision.Fraction,
			Predicted:     r.Predicted,
			PreviousClose: r.PreviousClose,
			Reason:        r.Decision.Reason,
			Rejected:      r.Rejected,
		})
	}
	_, err := fmt.Fprintf(o.w, "%s %s\n", r.Decision.Action, FormatFraction(r.Decision.Fraction, o.precision))
	return err
}

func FormatFraction(f float64, precision int32) string {
	d := decimal.NewFromFloat(f)
	if precision > 0 {
		return d.StringFixed(precision)
	}
	return d.String()
}
