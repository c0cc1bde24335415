package txingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OptionDetails is what can be read about an option from a symbol and a description.
type OptionDetails struct {
	IsOption   bool
	Ticker     string
	OptionType OptionType
	Expiration Date
	Strike     decimal.NullDecimal
}

var (
	// occSymbolRE matches OCC style symbols like MSFT211217C00340000.
	occSymbolRE = regexp.MustCompile(`^([A-Z]+)([0-9]{6})([CP])([0-9]{8})$`)

	optionTickerRE = regexp.MustCompile(`^(?:CALL|PUT)\s+([A-Z\s]+)\s`)

	strikePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\$([0-9]+(?:\.[0-9]+)?)`),
		regexp.MustCompile(`(?i)([0-9]+(?:\.[0-9]+)?)\s*(?:strike|put|call)`),
		regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)`),
	}

	expirationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)exp\s+([0-9]{1,2}/[0-9]{1,2}/(?:[0-9]{4}|[0-9]{2}))`),
		regexp.MustCompile(`([0-9]{1,2}/[0-9]{1,2}/(?:[0-9]{4}|[0-9]{2}))`),
	}

	optionIndicators = []string{"call", "put", "option", "strike", "exp", "$"}
)

// ParseOptionDetails reads option details from a symbol and a free text description.
//
// An OCC symbol fully determines the option. Otherwise the description is
// scanned for option wording, then a space separated symbol like
// "AAPL 01/17/2025 150.00 C" is read token by token. Fields found by an
// earlier step are kept. An option whose type is never found is a call.
func ParseOptionDetails(symbol, description string) OptionDetails {
	symbol = strings.TrimSpace(symbol)
	d := OptionDetails{Ticker: symbol}

	if m := occSymbolRE.FindStringSubmatch(symbol); m != nil {
		return occDetails(m)
	}

	if description != "" {
		d.scanDescription(symbol, description)
	}

	if parts := strings.Fields(symbol); len(parts) >= 3 {
		d.Ticker = parts[0]
		d.IsOption = true
		for _, part := range parts[1:] {
			if date, ok := ParseDate(part); ok && d.Expiration.IsZero() {
				d.Expiration = date
				continue
			}
			if strike, err := decimal.NewFromString(strings.NewReplacer("$", "", ",", "").Replace(part)); err == nil && !d.Strike.Valid {
				d.Strike = decimal.NewNullDecimal(strike)
				continue
			}
			if d.OptionType == "" {
				switch strings.ToUpper(part) {
				case "C", "CALL":
					d.OptionType = Call
				case "P", "PUT":
					d.OptionType = Put
				}
			}
		}
	}

	if d.IsOption && d.OptionType == "" {
		d.OptionType = Call
	}
	return d
}

func occDetails(m []string) OptionDetails {
	yy, _ := strconv.Atoi(m[2][0:2])
	mm, _ := strconv.Atoi(m[2][2:4])
	dd, _ := strconv.Atoi(m[2][4:6])
	strike, _ := decimal.NewFromString(m[4])
	d := OptionDetails{
		IsOption:   true,
		Ticker:     m[1],
		OptionType: Call,
		Expiration: NewDate(2000+yy, time.Month(mm), dd),
		Strike:     decimal.NewNullDecimal(strike.Div(decimal.NewFromInt(1000))),
	}
	if m[3] == "P" {
		d.OptionType = Put
	}
	return d
}

func (d *OptionDetails) scanDescription(symbol, description string) {
	lower := strings.ToLower(description)
	found := false
	for _, ind := range optionIndicators {
		if strings.Contains(lower, ind) {
			found = true
			break
		}
	}
	if !found {
		return
	}
	d.IsOption = true

	if symbol == "" {
		if m := optionTickerRE.FindStringSubmatch(strings.ToUpper(description)); m != nil {
			d.Ticker = strings.TrimSpace(m[1])
		}
	}

	switch {
	case strings.Contains(lower, "call"):
		d.OptionType = Call
	case strings.Contains(lower, "put"):
		d.OptionType = Put
	}

	for _, re := range strikePatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			if v, err := decimal.NewFromString(m[1]); err == nil {
				d.Strike = decimal.NewNullDecimal(v)
			}
			break
		}
	}

	for _, re := range expirationPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			d.Expiration, _ = ParseDate(m[1])
			break
		}
	}
}
