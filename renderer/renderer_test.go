package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/txingest"
	"github.com/shopspring/decimal"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "-"},
		{"1501", "$1,501.00"},
		{"-250.65", "-$250.65"},
		{"0.1", "$0.10"},
		{"12.344", "$12.34"},
	}
	for _, tt := range tests {
		var d decimal.NullDecimal
		if tt.in != "" {
			d = decimal.NewNullDecimal(decimal.RequireFromString(tt.in))
		}
		if got := Amount(d); got != tt.want {
			t.Errorf("Amount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func sheetOf(t *testing.T, csv string) *txingest.Sheet {
	t.Helper()
	s, err := txingest.LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func containsAll(t *testing.T, doc string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(doc, w) {
			t.Errorf("missing %q in:\n%s", w, doc)
		}
	}
}

func TestDetectionMarkdown(t *testing.T) {
	s := sheetOf(t, "Trade Date,Ticker,Qty,Comment\n2024-01-05,AAPL,10,CALL AAPL 200\n")
	d := txingest.Detect(s.Headers, s.Preview())
	got := DetectionMarkdown(d, s)
	containsAll(t, got, "# Column Mapping", "Trade Date", "2024-01-05", "Missing Required Fields", "action", "Comment")
}

func TestGridMarkdown(t *testing.T) {
	s := sheetOf(t, "Date,Action,Symbol,Quantity,Price,Account\n2024-01-05,Buy,AAPL,10,150,Main\n2024-01-06,Sell,MSFT,x,10,\n")
	m := txingest.ColumnMapping{
		txingest.FieldDate:     "Date",
		txingest.FieldAction:   "Action",
		txingest.FieldSymbol:   "Symbol",
		txingest.FieldQuantity: "Quantity",
		txingest.FieldPrice:    "Price",
		txingest.FieldAccount:  "Account",
	}
	cands, err := txingest.NewParser(nil).ParseRows(s, m)
	if err != nil {
		t.Fatal(err)
	}
	g := txingest.NewGrid(cands, []txingest.Column{txingest.ColDate, txingest.ColQuantity, txingest.ColAmount})

	got := GridMarkdown(g, GridOptions{})
	containsAll(t, got,
		"1 valid, 1 with errors.",
		"$1,500.00",
		"!x",
		"Row 3: Invalid number for quantity: x",
		"Row 3: Account name is required",
		"Row 2 (warning)",
	)

	got = GridMarkdown(g, GridOptions{InvalidOnly: true, NoWarnings: true})
	if strings.Contains(got, "$1,500.00") || strings.Contains(got, "(warning)") {
		t.Errorf("GridMarkdown(InvalidOnly) shows valid rows or warnings:\n%s", got)
	}
}

func TestRulesMarkdown(t *testing.T) {
	store := txingest.NewMemoryMappingStore()
	if err := store.AddBroker("acme"); err != nil {
		t.Fatal(err)
	}
	got := RulesMarkdown(store, "general", "acme")
	containsAll(t, got, "## general", "buy", "## acme", "No rules.")
	if strings.Contains(got, "## fidelity") {
		t.Errorf("RulesMarkdown() rendered an unrequested broker:\n%s", got)
	}
}

func TestAccountsMarkdown(t *testing.T) {
	containsAll(t, AccountsMarkdown(nil), "No account yet")
	containsAll(t, AccountsMarkdown([]txingest.Account{{Name: "Main", Broker: "schwab"}}), "Main", "schwab")
	containsAll(t, CommitMarkdown(txingest.CommitResult{Committed: 3, Skipped: 1}), "Committed", "3", "Skipped")
}
