package types

type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
	Hold Action = "HOLD"
)

func (a Action) Valid() bool {
	return a == Buy || a == Sell || a == Hold
}

// Row is one parsed line of the input stream.
type Row struct {
	Line   int
	Values []float64
}

type Decision struct {
	Action   Action  `json:"action"`
	Fraction float64 `json:"fraction"`
	Reason   string  `json:"reason,omitempty"`
}

type StepResult struct {
	RunID         string   `json:"run_id,omitempty"`
	Line          int      `json:"line"`
	Decision      Decision `json:"decision"`
	Predicted     float64  `json:"predicted,omitempty"`
	PreviousClose float64  `json:"previous_close"`
	WarmUp        bool     `json:"warm_up,omitempty"`
	Rejected      string   `json:"rejected,omitempty"`
}

// DaySummary is the roll-up of one day of journaled decisions.
type DaySummary struct {
	Date          string         `json:"date"`
	CSVPath       string         `json:"csv_path"`
	Decisions     int            `json:"decisions"`
	Actions       map[Action]int `json:"actions"`
	TotalFraction string         `json:"total_fraction"`
	ForcedSells   int            `json:"forced_sells"`
	Rejected      int            `json:"rejected"`
	WarmUp        int            `json:"warm_up"`
}
