// Package format renders money and counts for people, with grouping
// separators ("₹ 1,234.50", "12,345").
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Formatter struct {
	symbol  string
	printer *message.Printer
}

func New(currencySymbol string) *Formatter {
	return &Formatter{
		symbol:  currencySymbol,
		printer: message.NewPrinter(language.English),
	}
}

func (f *Formatter) Money(d decimal.Decimal) string {
	amount := f.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
	if f.symbol == "" {
		return amount
	}
	return f.symbol + " " + amount
}

func (f *Formatter) Quantity(n int) string {
	return f.printer.Sprintf("%d", n)
}
