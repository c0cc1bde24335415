package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency of every amount in a brokerage file.
const Currency = money.USD

// Amount formats d in Currency, "-" for a missing value.
func Amount(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, Currency).Currency()
	minor := d.Decimal.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return cur.Formatter().Format(minor.IntPart())
}

// Number formats a quantity or a price, "-" for a missing value.
func Number(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.String()
}
