package txingest

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer("$", "", "€", "", ",", "")

// ParseDecimal parses a broker formatted number like "$1,234.50", "€12" or
// "(12.50)". Blank input is not an error and returns an invalid NullDecimal.
func ParseDecimal(s string) (decimal.NullDecimal, error) {
	cleaned := strings.TrimSpace(currencyStripper.Replace(s))
	if cleaned == "" {
		return decimal.NullDecimal{}, nil
	}
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + strings.TrimSpace(cleaned[1:len(cleaned)-1])
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return decimal.NewNullDecimal(d), nil
}

// newDecimal is a convenient factory for optional decimals.
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.NullDecimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return decimal.NewNullDecimal(v)
	case float64:
		return decimal.NewNullDecimal(decimal.NewFromFloat(v))
	case int:
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(v)))
	case int64:
		return decimal.NewNullDecimal(decimal.NewFromInt(v))
	default:
		panic("unsupported type")
	}
}

// coerceDecimal converts an edited value into an optional decimal.
// nil and blank text clear the value.
func coerceDecimal(value any) (decimal.NullDecimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.NullDecimal{}, nil
	case decimal.NullDecimal:
		return v, nil
	case decimal.Decimal:
		return newDecimal(v), nil
	case float64:
		return newDecimal(v), nil
	case int:
		return newDecimal(v), nil
	case int64:
		return newDecimal(v), nil
	case string:
		return ParseDecimal(v)
	default:
		return ParseDecimal(fmt.Sprint(v))
	}
}

// tradeAmount computes quantity × price, plus fees for a buy and minus fees
// for a sell. Other types have no computable amount.
func tradeAmount(t TransactionType, quantity, price, fees decimal.NullDecimal) decimal.NullDecimal {
	if !t.IsTrade() || !quantity.Valid || !price.Valid {
		return decimal.NullDecimal{}
	}
	f := decimal.Zero
	if fees.Valid {
		f = fees.Decimal
	}
	gross := quantity.Decimal.Mul(price.Decimal)
	if t == TxBuy {
		return decimal.NewNullDecimal(gross.Add(f))
	}
	return decimal.NewNullDecimal(gross.Sub(f))
}

// formatDecimal renders an optional decimal, blank when unset.
func formatDecimal(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
