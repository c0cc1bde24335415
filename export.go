package txingest

import (
	"io"
	"strings"

	"github.com/gocarina/gocsv"
)

// exportRow is one staged row as written by ExportCSV.
type exportRow struct {
	Row         int    `csv:"row"`
	Date        string `csv:"transaction_date"`
	Symbol      string `csv:"symbol"`
	Type        string `csv:"transaction_type"`
	Instrument  string `csv:"instrument_type"`
	OptionType  string `csv:"option_type"`
	Expiration  string `csv:"expiration_date"`
	Strike      string `csv:"strike_price"`
	Quantity    string `csv:"quantity"`
	Price       string `csv:"price"`
	Amount      string `csv:"amount"`
	Fees        string `csv:"fees"`
	AccountName string `csv:"account_name"`
	Journal     string `csv:"journal_details"`
	Notes       string `csv:"notes"`
	Errors      string `csv:"errors"`
	Warnings    string `csv:"warnings"`
}

// ExportCSV writes candidates, with their diagnostics, as a CSV document
// using the column names of the staging grid.
func ExportCSV(w io.Writer, candidates []*Candidate) error {
	rows := make([]exportRow, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, exportRow{
			Row:         c.Raw.Num,
			Date:        c.Value(ColDate),
			Symbol:      c.Value(ColSymbol),
			Type:        c.Value(ColType),
			Instrument:  c.Value(ColInstrument),
			OptionType:  c.Value(ColOptionType),
			Expiration:  c.Value(ColExpiration),
			Strike:      c.Value(ColStrike),
			Quantity:    c.Value(ColQuantity),
			Price:       c.Value(ColPrice),
			Amount:      c.Value(ColAmount),
			Fees:        c.Value(ColFees),
			AccountName: c.Value(ColAccount),
			Journal:     c.Value(ColJournal),
			Notes:       c.Value(ColNotes),
			Errors:      strings.Join(c.Errors, "; "),
			Warnings:    strings.Join(c.Warnings, "; "),
		})
	}
	return gocsv.Marshal(&rows, w)
}
