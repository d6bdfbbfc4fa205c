// Package format renders amounts and dates for API responses and logs.
package format

import (
	"time"

	"github.com/Rhymond/go-money"

	"moneypouch/internal/core"
)

// DefaultCurrency matches the integer-amount model: yen have no minor
// unit, so stored amounts and displayed amounts coincide.
const DefaultCurrency = money.JPY

// Formatter renders stored integer amounts in a fixed currency.
// Amounts are minor units of that currency.
type Formatter struct {
	currency string
}

// NewFormatter returns a formatter for the given ISO 4217 code, falling
// back to the default when the code is unknown.
func NewFormatter(currencyCode string) *Formatter {
	if money.GetCurrency(currencyCode) == nil {
		currencyCode = DefaultCurrency
	}
	return &Formatter{currency: currencyCode}
}

// Currency returns the active ISO 4217 code.
func (f *Formatter) Currency() string {
	return f.currency
}

// Amount renders an amount with the currency symbol, e.g. "¥1,200".
func (f *Formatter) Amount(amount int64) string {
	return money.New(amount, f.currency).Display()
}

// Date renders a stored YYYY-MM-DD date for display, e.g. "22 Aug 2026".
// Unparseable input comes back unchanged.
func (f *Formatter) Date(date string) string {
	t, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("2 Jan 2006")
}

// YearMonth renders a YYYY-MM key for display, e.g. "August 2026".
func (f *Formatter) YearMonth(yearMonth string) string {
	t, err := core.ParseYearMonth(yearMonth)
	if err != nil {
		return yearMonth
	}
	return t.Format("January 2006")
}
