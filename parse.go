package txingest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// optionActionTerms mark an action as an option trade.
var optionActionTerms = []string{"call", "put", "option", "bto", "sto", "btc", "stc", "exercise", "assign"}

// brokerHintRE extracts the broker from account names like "Main (Schwab)".
var brokerHintRE = regexp.MustCompile(`\(([^)]+)\)\s*$`)

// Parser turns raw rows into candidates.
type Parser struct {
	Standardizer *Standardizer
}

// NewParser returns a Parser standardizing actions with s.
func NewParser(s *Standardizer) *Parser {
	return &Parser{Standardizer: s}
}

// ParseRows parses every row of sheet. The only error is a StructuralError
// for a mapping that does not fit the file; row level problems end up in
// each candidate diagnostics.
func (p *Parser) ParseRows(sheet *Sheet, m ColumnMapping) ([]*Candidate, error) {
	if err := m.Validate(sheet.Headers); err != nil {
		return nil, err
	}
	out := make([]*Candidate, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		out = append(out, p.ParseRow(row, m))
	}
	Logger.Debug("parsed rows", "rows", len(out))
	return out, nil
}

// cell returns the trimmed value mapped to f, and whether f is mapped and
// present in the row.
func cell(row RawRow, m ColumnMapping, f Field) (string, bool) {
	h, ok := m.Header(f)
	if !ok {
		return "", false
	}
	v, ok := row.Get(h)
	return strings.TrimSpace(v), ok
}

// ParseRow parses a single row. It never fails.
func (p *Parser) ParseRow(row RawRow, m ColumnMapping) *Candidate {
	c := &Candidate{Raw: row}

	// date
	if text, ok := cell(row, m, FieldDate); ok {
		if d, ok := ParseDate(text); ok {
			c.Date = d
		} else {
			c.reject(ColDate, text, "Invalid date format: "+text)
		}
	} else {
		c.reject(ColDate, "", "Date field is required but not mapped")
	}

	// symbol and option details
	symbol, _ := cell(row, m, FieldSymbol)
	symbol = strings.ToUpper(symbol)
	description, _ := cell(row, m, FieldNotes)
	var od OptionDetails
	if symbol != "" || description != "" {
		od = ParseOptionDetails(symbol, description)
	}

	c.Quantity = p.decimalCell(c, row, m, FieldQuantity, ColQuantity)
	// the option flag only comes from the action wording
	isOption := false
	if action, ok := cell(row, m, FieldAction); ok {
		lower := strings.ToLower(action)
		isOption = containsAny(lower, optionActionTerms)
		if strings.Contains(lower, "expir") || strings.Contains(lower, "worthless") {
			c.Price = newDecimal(0)
			c.Amount = newDecimal(0)
		}
		if action == "" {
			c.reject(ColType, action, "Could not determine transaction type: "+action)
		} else {
			c.Type = p.standardize(action, isOption, c.Quantity, brokerHint(row, m))
		}
	} else {
		c.reject(ColType, "", "Action field is required but not mapped")
	}

	c.Symbol = symbol
	if od.IsOption {
		c.Instrument = InstrumentOption
		c.Symbol = od.Ticker
		c.OptionType = od.OptionType
		c.Expiration = od.Expiration
		c.Strike = od.Strike
		c.OriginalSymbol = symbol
	} else if isOption {
		c.Instrument = InstrumentOption
	}

	// instrument type
	if text, ok := cell(row, m, FieldInstrument); ok && text != "" {
		if t, ok := ParseInstrumentType(text); ok {
			c.Instrument = t
		} else {
			c.reject(ColInstrument, text, "Invalid instrument type: "+text)
		}
	} else if c.Instrument == "" && c.Symbol != "" {
		c.Instrument = InstrumentStock
		c.notice("Instrument type not provided, defaulting to 'stock'")
	}

	c.AccountName, _ = cell(row, m, FieldAccount)

	if price := p.decimalCell(c, row, m, FieldPrice, ColPrice); price.Valid {
		c.Price = price
	}
	if _, ok := m.Header(FieldFees); ok {
		c.Fees = p.decimalCell(c, row, m, FieldFees, ColFees)
		if !c.Fees.Valid {
			if _, rejected := c.rejected[ColFees]; !rejected {
				c.Fees = newDecimal(0)
			}
		}
	} else {
		c.Fees = newDecimal(0)
	}

	if text, ok := cell(row, m, FieldJournal); ok && text != "" {
		if j, err := ParseJournal(text); err == nil {
			c.Journal = j
		} else {
			c.reject(ColJournal, text, "Invalid JSON in journal_details: "+text)
		}
	}

	if notes, ok := cell(row, m, FieldNotes); ok {
		c.Notes = notes
	}

	if amount := p.decimalCell(c, row, m, FieldAmount, ColAmount); amount.Valid {
		c.Amount = amount
	}
	if !c.Amount.Valid {
		c.Amount = tradeAmount(c.Type, c.Quantity, c.Price, c.Fees)
	}

	Validate(c)
	return c
}

func (p *Parser) standardize(action string, isOption bool, quantity decimal.NullDecimal, broker string) TransactionType {
	if p.Standardizer == nil {
		return NewStandardizer(nil).Standardize(action, isOption, quantity, broker)
	}
	return p.Standardizer.Standardize(action, isOption, quantity, broker)
}

// decimalCell parses the numeric cell mapped to f. A cell that is not a
// number is rejected on col and reads as unset.
func (p *Parser) decimalCell(c *Candidate, row RawRow, m ColumnMapping, f Field, col Column) decimal.NullDecimal {
	text, ok := cell(row, m, f)
	if !ok || text == "" {
		return decimal.NullDecimal{}
	}
	v, err := ParseDecimal(text)
	if err != nil {
		c.reject(col, text, fmt.Sprintf("Invalid number for %s: %s", col, text))
		return decimal.NullDecimal{}
	}
	return v
}

// brokerHint returns the lowercased broker named in parentheses at the end
// of the account name, if any.
func brokerHint(row RawRow, m ColumnMapping) string {
	account, _ := cell(row, m, FieldAccount)
	if match := brokerHintRE.FindStringSubmatch(account); match != nil {
		return strings.ToLower(strings.TrimSpace(match[1]))
	}
	return ""
}
