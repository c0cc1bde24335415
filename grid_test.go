package txingest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// memRepository is an in-memory Repository.
type memRepository struct {
	accounts  []Account
	symbols   []Symbol
	committed []Transaction
	failWith  error
}

func (r *memRepository) FindAccountByName(_ context.Context, name string) (*Account, error) {
	for _, a := range r.accounts {
		if a.Name == name {
			return &a, nil
		}
	}
	return nil, nil
}

func (r *memRepository) GetOrCreateSymbol(_ context.Context, key SymbolKey) (Symbol, error) {
	for _, s := range r.symbols {
		if s.Ticker == key.Ticker && s.Instrument == key.Instrument && s.OptionType == key.OptionType &&
			s.Expiration == key.Expiration && s.Strike.Decimal.Equal(key.Strike.Decimal) && s.Strike.Valid == key.Strike.Valid {
			return s, nil
		}
	}
	s := Symbol{ID: fmt.Sprintf("sym-%d", len(r.symbols)+1), SymbolKey: key}
	r.symbols = append(r.symbols, s)
	return s, nil
}

func (r *memRepository) CommitBatch(ctx context.Context, txs []Transaction) error {
	if r.failWith != nil {
		return r.failWith
	}
	for _, tx := range txs {
		if tx.Symbol != nil {
			r.GetOrCreateSymbol(ctx, *tx.Symbol)
		}
	}
	r.committed = append(r.committed, txs...)
	return nil
}

func stagedGrid(t *testing.T, rows string) *Grid {
	t.Helper()
	s := sheetOf(t, stdHeader+rows)
	cands, err := NewParser(NewStandardizer(NewMemoryMappingStore())).ParseRows(s, stdMapping)
	if err != nil {
		t.Fatalf("ParseRows() error = %v", err)
	}
	return NewGrid(cands, nil)
}

// TestGridAccountEdit checks that fixing the account removes exactly the
// account error.
func TestGridAccountEdit(t *testing.T) {
	g := stagedGrid(t, "someday,Deposit,,,,,100,,,\n")
	before := g.Rows()[0].Errors
	if !slices.Contains(before, "Account name is required") || !slices.Contains(before, "Invalid date format: someday") {
		t.Fatalf("errors = %v, want the account and date errors", before)
	}

	if err := g.FieldEdited(0, ColAccount, "Main"); err != nil {
		t.Fatalf("FieldEdited() error = %v", err)
	}
	if got, want := g.Rows()[0].Errors, []string{"Invalid date format: someday"}; !slices.Equal(got, want) {
		t.Errorf("errors = %v, want %v", got, want)
	}

	if err := g.FieldEdited(0, ColDate, "2024-02-01"); err != nil {
		t.Fatalf("FieldEdited() error = %v", err)
	}
	if !g.Valid(0) || !g.Ready() {
		t.Errorf("errors = %v, want none", g.Rows()[0].Errors)
	}
}

func TestGridQuantityEditRecomputesAmount(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Buy,AAPL,10,150,1,,Main,,\n")
	if err := g.FieldEdited(0, ColQuantity, "20"); err != nil {
		t.Fatalf("FieldEdited() error = %v", err)
	}
	if c := g.Rows()[0]; !equalDecimal(c.Amount, "3001") {
		t.Errorf("amount = %v, want 3001", c.Amount)
	}
	if err := g.FieldEdited(0, ColFees, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("FieldEdited() error = %v", err)
	}
	if c := g.Rows()[0]; !equalDecimal(c.Amount, "3005") {
		t.Errorf("amount = %v, want 3005", c.Amount)
	}
}

func TestGridRejectedEdit(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Buy,AAPL,10,150,1,,Main,,\n")
	err := g.FieldEdited(0, ColPrice, "abc")
	if !errors.Is(err, ErrEditRejected) {
		t.Fatalf("FieldEdited() error = %v, want ErrEditRejected", err)
	}
	c := g.Rows()[0]
	if !equalDecimal(c.Price, "150") {
		t.Errorf("price = %v, want the prior 150", c.Price)
	}
	if got, want := c.Errors, []string{"Invalid number for price: abc"}; !slices.Equal(got, want) {
		t.Errorf("errors = %v, want %v", got, want)
	}
	if text, ok := c.RejectedText(ColPrice); !ok || text != "abc" {
		t.Errorf("RejectedText() = %q, %v", text, ok)
	}

	// an unrelated edit keeps the error.
	g.FieldEdited(0, ColNotes, "note")
	if !slices.Contains(c.Errors, "Invalid number for price: abc") {
		t.Errorf("errors = %v, lost the price error", c.Errors)
	}
	// a valid price clears it.
	g.FieldEdited(0, ColPrice, "151")
	if !c.Valid() {
		t.Errorf("errors = %v, want none", c.Errors)
	}
}

func TestGridTypedEdits(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Dividend,KO,,,,12,Main,,\n")
	c := g.Rows()[0]
	tests := []struct {
		col   Column
		value any
		check func() bool
	}{
		{ColDate, NewDate(2024, time.March, 1), func() bool { return c.Date == NewDate(2024, time.March, 1) }},
		{ColDate, time.Date(2024, time.April, 2, 15, 0, 0, 0, time.UTC), func() bool { return c.Date == NewDate(2024, time.April, 2) }},
		{ColType, TxInterest, func() bool { return c.Type == TxInterest }},
		{ColType, "Dividend", func() bool { return c.Type == TxDividend }},
		{ColInstrument, "ETF", func() bool { return c.Instrument == InstrumentETF }},
		{ColJournal, `{"from_account":"IRA"}`, func() bool { return c.Journal.Counterparty(TxTransferIn) == "IRA" }},
		{ColJournal, Journal{"to_account": "HSA"}, func() bool { return c.Journal.Counterparty(TxTransferOut) == "HSA" }},
		{ColAmount, 12.25, func() bool { return equalDecimal(c.Amount, "12.25") }},
		{ColSymbol, "ko", func() bool { return c.Symbol == "KO" }},
	}
	for _, tt := range tests {
		if err := g.FieldEdited(0, tt.col, tt.value); err != nil {
			t.Errorf("FieldEdited(%s, %v) error = %v", tt.col, tt.value, err)
			continue
		}
		if !tt.check() {
			t.Errorf("FieldEdited(%s, %v) did not apply", tt.col, tt.value)
		}
	}

	for _, bad := range []struct {
		col   Column
		value any
		msg   string
	}{
		{ColType, "nonsense", "Invalid transaction type: nonsense"},
		{ColInstrument, "bond", "Invalid instrument type: bond"},
		{ColJournal, "{", "Invalid JSON in journal_details: {"},
	} {
		if err := g.FieldEdited(0, bad.col, bad.value); !errors.Is(err, ErrEditRejected) {
			t.Errorf("FieldEdited(%s, %v) error = %v, want ErrEditRejected", bad.col, bad.value, err)
		}
		if !slices.Contains(c.Errors, bad.msg) {
			t.Errorf("errors = %v, want %q", c.Errors, bad.msg)
		}
	}
	if c.Type != TxDividend {
		t.Errorf("type = %s, rejected edit changed it", c.Type)
	}
	if err := g.FieldEdited(0, "bogus", "x"); err == nil || errors.Is(err, ErrEditRejected) {
		t.Errorf("FieldEdited(bogus) error = %v, want unknown column", err)
	}
}

func TestGridCommit(t *testing.T) {
	rows := "2024-01-05,Buy,AAPL,10,150,1,,Main,,\n" +
		"2024-01-06,Sell,AAPL,5,,,,Main,,\n" + // invalid: no price
		"2024-01-07,Buy to Open,MSFT211217C00340000,1,2.5,0.65,-250.65,Main,,\n" +
		"2024-01-08,Deposit,,,,,1000,Main,,\n" +
		"2024-01-09,Buy,AAPL,1,151,,,Main,,\n"

	g := stagedGrid(t, rows)
	repo := &memRepository{accounts: []Account{{ID: "acc-1", Name: "Main"}}}
	res, err := g.CommitRequested(context.Background(), repo)
	if err != nil {
		t.Fatalf("CommitRequested() error = %v", err)
	}
	if res != (CommitResult{Committed: 4, Skipped: 1}) {
		t.Errorf("CommitRequested() = %+v", res)
	}
	if g.Len() != 0 {
		t.Errorf("grid still holds %d rows after commit", g.Len())
	}
	if len(repo.symbols) != 2 {
		t.Errorf("symbols = %+v, want AAPL and the MSFT option", repo.symbols)
	}
	opt := repo.symbols[1]
	if opt.Instrument != InstrumentOption || opt.OptionType != Call || opt.Ticker != "MSFT" {
		t.Errorf("option symbol = %+v", opt)
	}
	if tx := repo.committed[2]; tx.Symbol != nil || tx.AccountID != "acc-1" || !tx.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("deposit = %+v", tx)
	}
	if tx := repo.committed[3]; !tx.Fees.IsZero() || tx.Symbol == nil || tx.Symbol.Ticker != "AAPL" || tx.Symbol.Instrument != InstrumentStock {
		t.Errorf("second AAPL buy = %+v", tx)
	}
}

func TestGridCommitUnknownAccount(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Buy,AAPL,10,150,1,,Main,,\n2024-01-05,Deposit,,,,,10,Other,,\n")
	repo := &memRepository{accounts: []Account{{ID: "acc-1", Name: "Main"}}}

	_, err := g.CommitRequested(context.Background(), repo)
	var perr *PersistenceError
	if !errors.As(err, &perr) || !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("CommitRequested() error = %v, want an unknown account PersistenceError", err)
	}
	if len(repo.committed) != 0 || len(repo.symbols) != 0 {
		t.Errorf("something was written: %+v %+v", repo.committed, repo.symbols)
	}
	if g.Len() != 2 {
		t.Errorf("grid holds %d rows, want the 2 staged rows kept", g.Len())
	}
}

func TestGridCommitBatchFailure(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Buy,AAPL,10,150,1,,Main,,\n")
	repo := &memRepository{accounts: []Account{{ID: "acc-1", Name: "Main"}}, failWith: errors.New("disk full")}

	if _, err := g.CommitRequested(context.Background(), repo); err == nil {
		t.Fatalf("CommitRequested() succeeded, want error")
	}
	if g.Len() != 1 {
		t.Errorf("grid holds %d rows, want 1", g.Len())
	}
	if len(repo.symbols) != 0 {
		t.Errorf("symbols = %+v, want none after a failed batch", repo.symbols)
	}
}

func TestGridApplyAccountAndDiscard(t *testing.T) {
	g := stagedGrid(t, "2024-01-05,Deposit,,,,,100,,,\n2024-01-06,Withdrawal,,,,,50,,,\n")
	if got := g.Stats(); got != (Stats{Valid: 0, Invalid: 2}) {
		t.Fatalf("Stats() = %+v", got)
	}
	g.ApplyAccount("Main")
	if got := g.Stats(); got != (Stats{Valid: 2, Invalid: 0}) {
		t.Errorf("Stats() after ApplyAccount = %+v", got)
	}
	view := g.View()
	if len(view.Rows) != 2 || view.RowNums[1] != 3 {
		t.Errorf("View() = %+v", view)
	}
	g.DiscardRequested()
	if g.Len() != 0 {
		t.Errorf("Len() after discard = %d", g.Len())
	}
}
