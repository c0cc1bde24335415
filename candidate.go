package txingest

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Column names a field of a Candidate, as shown in the staging grid.
type Column string

const (
	ColDate       Column = "transaction_date"
	ColSymbol     Column = "symbol"
	ColType       Column = "transaction_type"
	ColInstrument Column = "instrument_type"
	ColOptionType Column = "option_type"
	ColExpiration Column = "expiration_date"
	ColStrike     Column = "strike_price"
	ColQuantity   Column = "quantity"
	ColPrice      Column = "price"
	ColAmount     Column = "amount"
	ColFees       Column = "fees"
	ColAccount    Column = "account_name"
	ColNotes      Column = "notes"
	ColJournal    Column = "journal_details"
)

// AllColumns lists every Candidate column in display order.
var AllColumns = []Column{
	ColDate, ColSymbol, ColType, ColInstrument,
	ColOptionType, ColExpiration, ColStrike,
	ColQuantity, ColPrice, ColAmount, ColFees,
	ColAccount, ColJournal, ColNotes,
}

// ParseColumn validates a column name.
func ParseColumn(s string) (Column, bool) {
	for _, c := range AllColumns {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Candidate is a parsed, not yet persisted, transaction. Every field is
// optional; Errors and Warnings carry the diagnostics. A Candidate can be
// committed only when Errors is empty.
type Candidate struct {
	Date        Date
	Symbol      string
	Type        TransactionType // empty when undetermined
	Instrument  InstrumentType  // empty when undetermined
	OptionType  OptionType
	Expiration  Date
	Strike      decimal.NullDecimal
	Quantity    decimal.NullDecimal
	Price       decimal.NullDecimal
	Amount      decimal.NullDecimal
	Fees        decimal.NullDecimal
	AccountName string
	Notes       string
	Journal     Journal

	// OriginalSymbol is the symbol as written in the file, before option
	// details replaced it with the underlying ticker.
	OriginalSymbol string
	Raw            RawRow

	Errors   []string
	Warnings []string

	// rejected holds, per column, the error of an input that could not be
	// coerced. It survives revalidation until the column gets a valid value.
	rejected map[Column]rejection
	// notices are parse-time warnings that do not depend on field values.
	notices []string
}

type rejection struct {
	text string
	msg  string
}

// Valid reports whether the candidate can be committed.
func (c *Candidate) Valid() bool { return len(c.Errors) == 0 }

// IsOption reports whether the candidate carries option details.
func (c *Candidate) IsOption() bool {
	return c.Instrument == InstrumentOption || c.OptionType != "" || !c.Expiration.IsZero() || c.Strike.Valid
}

// RejectedText returns the raw text that could not be stored in column col.
func (c *Candidate) RejectedText(col Column) (string, bool) {
	r, ok := c.rejected[col]
	return r.text, ok
}

func (c *Candidate) reject(col Column, text, msg string) {
	if c.rejected == nil {
		c.rejected = make(map[Column]rejection)
	}
	c.rejected[col] = rejection{text: text, msg: msg}
}

func (c *Candidate) accept(col Column) { delete(c.rejected, col) }

func (c *Candidate) notice(msg string) {
	if !slices.Contains(c.notices, msg) {
		c.notices = append(c.notices, msg)
	}
}

// Value returns the display text of column col.
func (c *Candidate) Value(col Column) string {
	switch col {
	case ColDate:
		return c.Date.String()
	case ColSymbol:
		return c.Symbol
	case ColType:
		return string(c.Type)
	case ColInstrument:
		return string(c.Instrument)
	case ColOptionType:
		return string(c.OptionType)
	case ColExpiration:
		return c.Expiration.String()
	case ColStrike:
		return formatDecimal(c.Strike)
	case ColQuantity:
		return formatDecimal(c.Quantity)
	case ColPrice:
		return formatDecimal(c.Price)
	case ColAmount:
		return formatDecimal(c.Amount)
	case ColFees:
		return formatDecimal(c.Fees)
	case ColAccount:
		return c.AccountName
	case ColNotes:
		return c.Notes
	case ColJournal:
		return c.Journal.String()
	}
	return ""
}
