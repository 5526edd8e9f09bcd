package eod

import "github.com/shopspring/decimal"

// aggRow holds the totals for one action over a day of decisions.
type aggRow struct {
	Action      string
	Count       int
	Fractions   decimal.Decimal // sum of fractions
	ForcedSells int
	Rejected    int
	WarmUp      int
}
