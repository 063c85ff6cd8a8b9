package cli

import (
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

// signed formats an amount with an explicit sign, e.g. +5.00 or -5.00.
func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}
