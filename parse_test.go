package txingest

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var stdMapping = ColumnMapping{
	FieldDate:     "Date",
	FieldAction:   "Action",
	FieldSymbol:   "Symbol",
	FieldQuantity: "Quantity",
	FieldPrice:    "Price",
	FieldFees:     "Fees",
	FieldAmount:   "Amount",
	FieldAccount:  "Account",
	FieldNotes:    "Description",
	FieldJournal:  "Journal",
}

const stdHeader = "Date,Action,Symbol,Quantity,Price,Fees,Amount,Account,Description,Journal\n"

func parseOne(t *testing.T, m ColumnMapping, csv string) *Candidate {
	t.Helper()
	s := sheetOf(t, csv)
	got, err := NewParser(NewStandardizer(NewMemoryMappingStore())).ParseRows(s, m)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ParseRows() returned %d rows, want 1", len(got))
	}
	return got[0]
}

func equalDecimal(d decimal.NullDecimal, want string) bool {
	if want == "" {
		return !d.Valid
	}
	return d.Valid && d.Decimal.Equal(decimal.RequireFromString(want))
}

func TestParseRowBuy(t *testing.T) {
	c := parseOne(t, stdMapping, stdHeader+`01/05/2024,Bought,aapl,10,$150.00,1,,Main (Fidelity),APPLE INC,`)

	if !c.Valid() {
		t.Fatalf("errors = %v, want none", c.Errors)
	}
	if c.Date != NewDate(2024, time.January, 5) {
		t.Errorf("date = %v", c.Date)
	}
	if c.Type != TxBuy || c.Symbol != "AAPL" || c.Instrument != InstrumentStock {
		t.Errorf("type, symbol, instrument = %s, %s, %s", c.Type, c.Symbol, c.Instrument)
	}
	if !equalDecimal(c.Amount, "1501") {
		t.Errorf("amount = %v, want 1501", c.Amount)
	}
	if c.Notes != "APPLE INC" || c.Raw.Num != 2 {
		t.Errorf("notes = %q, row = %d", c.Notes, c.Raw.Num)
	}
	if !slices.Contains(c.Warnings, "Instrument type not provided, defaulting to 'stock'") {
		t.Errorf("warnings = %v, want the instrument default", c.Warnings)
	}
}

func TestParseRowDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		mapping  ColumnMapping
		row      string
		errors   []string
		warnings []string
	}{
		{
			name: "bad date",
			row:  `someday,Deposit,,,,,100,Main,,`,
			errors: []string{
				"Invalid date format: someday",
			},
		},
		{
			name:   "missing account",
			row:    `2024-01-05,Deposit,,,,,100,,,`,
			errors: []string{"Account name is required"},
		},
		{
			name: "sell without price",
			row:  `2024-01-05,Sell,MSFT,5,,,,Main,,`,
			errors: []string{
				"Price is required for buy/sell transactions",
				"Cannot determine transaction amount",
			},
			warnings: []string{"Instrument type not provided, defaulting to 'stock'"},
		},
		{
			name: "deposit without amount",
			row:  `2024-01-05,Deposit,,,,,,Main,,`,
			errors: []string{
				"Amount is required for cash transactions",
				"Cannot determine transaction amount",
			},
		},
		{
			name:     "dividend without symbol",
			row:      `2024-01-05,Dividend,,,,,12.5,Main,,`,
			warnings: []string{"Symbol is recommended for this transaction type but not mapped"},
		},
		{
			name:     "bad number",
			row:      `2024-01-05,Dividend,KO,,,,12.5.1,Main,,`,
			errors:   []string{"Invalid number for amount: 12.5.1", "Cannot determine transaction amount"},
			warnings: []string{"Instrument type not provided, defaulting to 'stock'"},
		},
		{
			name:     "bad journal",
			row:      `2024-01-05,Transfer,,,,,100,Main,,"{oops"`,
			errors:   []string{"Invalid JSON in journal_details: {oops"},
			warnings: []string{"Symbol is recommended for this transaction type but not mapped"},
		},
		{
			name:    "unmapped action",
			mapping: ColumnMapping{FieldDate: "Date", FieldAmount: "Amount", FieldAccount: "Account"},
			row:     `2024-01-05,Deposit,,,,,100,Main,,`,
			errors:  []string{"Action field is required but not mapped"},
		},
		{
			name:    "unmapped date",
			mapping: ColumnMapping{FieldAction: "Action", FieldAmount: "Amount", FieldAccount: "Account"},
			row:     `2024-01-05,Deposit,,,,,100,Main,,`,
			errors:  []string{"Date field is required but not mapped"},
		},
		{
			name:   "blank action",
			row:    `2024-01-05,,,,,,100,Main,,`,
			errors: []string{"Could not determine transaction type: "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := tt.mapping
			if m == nil {
				m = stdMapping
			}
			c := parseOne(t, m, stdHeader+tt.row)
			if !slices.Equal(c.Errors, tt.errors) {
				t.Errorf("errors = %q, want %q", c.Errors, tt.errors)
			}
			if !slices.Equal(c.Warnings, tt.warnings) {
				t.Errorf("warnings = %q, want %q", c.Warnings, tt.warnings)
			}
		})
	}
}

func TestParseRowOption(t *testing.T) {
	c := parseOne(t, stdMapping, stdHeader+`2021-12-01,Buy to Open,MSFT211217C00340000,1,2.5,0.65,-250.65,Main,,`)
	if !c.Valid() {
		t.Fatalf("errors = %v", c.Errors)
	}
	if c.Type != TxBuyToOpen || c.Instrument != InstrumentOption || c.Symbol != "MSFT" {
		t.Errorf("type, instrument, symbol = %s, %s, %s", c.Type, c.Instrument, c.Symbol)
	}
	if c.OriginalSymbol != "MSFT211217C00340000" || c.OptionType != Call || c.Expiration != NewDate(2021, time.December, 17) {
		t.Errorf("option = %s %s %v", c.OriginalSymbol, c.OptionType, c.Expiration)
	}
	if !equalDecimal(c.Strike, "340") || !equalDecimal(c.Amount, "-250.65") {
		t.Errorf("strike, amount = %v, %v", c.Strike, c.Amount)
	}
}

// TestParseRowStockWithPriceInNotes checks that a dollar amount in the notes
// does not make a plain buy an option trade.
func TestParseRowStockWithPriceInNotes(t *testing.T) {
	c := parseOne(t, stdMapping, stdHeader+`2024-01-05,Buy,AAPL,10,150,1,,Main,Bought 10 AAPL at $150,`)
	if c.Type != TxBuy {
		t.Errorf("type = %s, want %s", c.Type, TxBuy)
	}
	if !equalDecimal(c.Amount, "1501") {
		t.Errorf("amount = %v, want 1501", c.Amount)
	}
	if !c.Valid() {
		t.Errorf("errors = %v, want none", c.Errors)
	}
}

func TestParseRowExpiration(t *testing.T) {
	c := parseOne(t, stdMapping, stdHeader+`2024-01-19,Expired,AAPL 01/19/2024 200 P,-1,,,,Main,,`)
	if c.Type != TxOptionExpiration {
		t.Errorf("type = %s, want %s", c.Type, TxOptionExpiration)
	}
	if !equalDecimal(c.Price, "0") || !equalDecimal(c.Amount, "0") {
		t.Errorf("price, amount = %v, %v want 0, 0", c.Price, c.Amount)
	}
	if c.OptionType != Put || !c.Valid() {
		t.Errorf("option type = %s, errors = %v", c.OptionType, c.Errors)
	}
}

func TestParseRowTransferDirection(t *testing.T) {
	c := parseOne(t, stdMapping, stdHeader+`2024-01-05,Journal Shares,VTI,-5,,,0,Main,,"{""to_account"": ""IRA""}"`)
	if c.Type != TxTransferOut {
		t.Errorf("type = %s, want %s", c.Type, TxTransferOut)
	}
	if got := c.Journal.Counterparty(c.Type); got != "IRA" {
		t.Errorf("counterparty = %q, want IRA", got)
	}
}

func TestParseRowsStructuralError(t *testing.T) {
	s := sheetOf(t, stdHeader+`2024-01-05,Deposit,,,,,100,Main,,`)
	m := ColumnMapping{FieldDate: "Date", FieldAction: "Kind"}
	_, err := NewParser(nil).ParseRows(s, m)
	var serr *StructuralError
	if !errors.As(err, &serr) {
		t.Fatalf("ParseRows() error = %v, want a StructuralError", err)
	}
}
