package cmd

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney renders d in currency, rounded half away from zero to the
// currency's minor unit.
func formatMoney(d decimal.Decimal, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(c.Fraction)).Round(0).IntPart()
	return money.New(minor, c.Code).Display()
}
