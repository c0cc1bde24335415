package txingest

import (
	"slices"
	"strings"
	"testing"
)

// sheetOf builds a sheet from CSV text.
func sheetOf(t *testing.T, csv string) *Sheet {
	t.Helper()
	s, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	return s
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		want    ColumnMapping
		brokers []string
		option  bool
	}{
		{
			name: "generic",
			csv: "Trade Date,Ticker,Activity,Qty,Price,Net Amount,Commission,Account\n" +
				"2024-01-05,AAPL,Buy,10,150,1500,1,Main\n",
			want: ColumnMapping{
				FieldDate: "Trade Date", FieldSymbol: "Ticker", FieldAction: "Activity",
				FieldQuantity: "Qty", FieldPrice: "Price", FieldAmount: "Net Amount",
				FieldFees: "Commission", FieldAccount: "Account",
			},
		},
		{
			name: "nothing recognized",
			csv: "When,Code,What\n" +
				"2024-01-05,MSFT,bought some\n",
			want: ColumnMapping{},
		},
		{
			name: "symbol inferred from values",
			csv: "Date,Action,Code\n" +
				"2024-01-05,Buy,MSFT\n",
			want: ColumnMapping{FieldDate: "Date", FieldAction: "Action", FieldSymbol: "Code"},
		},
		{
			name: "action inferred from values",
			csv: "Date,Ticker,What\n" +
				"2024-01-05,MSFT,Dividend paid\n",
			want: ColumnMapping{FieldDate: "Date", FieldSymbol: "Ticker", FieldAction: "What"},
		},
		{
			name: "action needs a trade or cash keyword",
			csv: "Date,Ticker,Category,What\n" +
				"2024-01-05,MSFT,Interest income,Dividend paid\n",
			want: ColumnMapping{FieldDate: "Date", FieldSymbol: "Ticker", FieldAction: "What"},
		},
		{
			name: "fidelity",
			csv: "Run Date,Action,Symbol,Description,Quantity,Price ($),Commission ($),Fees ($),Amount ($)\n" +
				"01/05/2024,YOU BOUGHT,AAPL,Main,10,150,0,0,-1500\n",
			want: ColumnMapping{
				FieldDate: "Run Date", FieldAction: "Action", FieldSymbol: "Symbol",
				FieldNotes: "Description", FieldAccount: "Description",
				FieldQuantity: "Quantity", FieldPrice: "Price ($)", FieldFees: "Fees ($)",
				FieldAmount: "Amount ($)",
			},
			brokers: []string{"fidelity"},
		},
		{
			name: "schwab",
			csv: "Date,Symbol,Description,Quantity,Price,Fees & Comm,Amount\n" +
				"01/05/2024,AAPL 01/17/2025 150.00 C,CALL APPLE INC $150 EXP 01/17/25,1,2.5,0.65,-250.65\n",
			want: ColumnMapping{
				FieldDate: "Date", FieldAction: "Description", FieldSymbol: "Symbol",
				FieldNotes: "Description", FieldQuantity: "Quantity", FieldPrice: "Price",
				FieldFees: "Fees & Comm", FieldAmount: "Amount",
			},
			brokers: []string{"schwab"},
			option:  true,
		},
		{
			name: "lot details",
			csv: "Open Date,Quantity,Price,Cost/Share,Market Value,Holding Period,Name\n" +
				"01/05/2020,10,180,150,1800,Long Term,aapl\n",
			want: ColumnMapping{
				FieldDate: "Open Date", FieldQuantity: "Quantity", FieldPrice: "Cost/Share",
				FieldAmount: "Market Value", FieldSymbol: "Name",
			},
			brokers: []string{"lot details"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sheetOf(t, tt.csv)
			got := Detect(s.Headers, s.Preview())
			for _, f := range Fields {
				if got.Mapping[f] != tt.want[f] {
					t.Errorf("Detect() mapping[%s] = %q, want %q", f, got.Mapping[f], tt.want[f])
				}
			}
			if !slices.Equal(got.Brokers, tt.brokers) {
				t.Errorf("Detect() brokers = %v, want %v", got.Brokers, tt.brokers)
			}
			if got.OptionSignal != tt.option {
				t.Errorf("Detect() option signal = %v, want %v", got.OptionSignal, tt.option)
			}
		})
	}
}

func TestDetectIgnoresLongHeaders(t *testing.T) {
	long := strings.Repeat("x", 46) + " date"
	got := Detect([]string{long, `"Quoted Date"`, "Date"}, nil)
	if got.Mapping[FieldDate] != "Date" {
		t.Errorf("Detect() date = %q, want Date", got.Mapping[FieldDate])
	}
}
