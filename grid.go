package txingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Grid is the editable staging area between parsing and commit. Every edit
// revalidates the edited row.
type Grid struct {
	columns []Column
	rows    []*Candidate
}

// GridView is a read-only snapshot for display.
type GridView struct {
	Columns  []Column
	Rows     [][]string
	RowNums  []int
	Errors   [][]string
	Warnings [][]string
}

// Stats counts rows per state.
type Stats struct {
	Valid   int
	Invalid int
}

// CommitResult reports what a commit wrote.
type CommitResult struct {
	Committed int
	Skipped   int
}

// NewGrid stages candidates. A nil columns shows every column.
func NewGrid(candidates []*Candidate, columns []Column) *Grid {
	if columns == nil {
		columns = AllColumns
	}
	return &Grid{columns: columns, rows: candidates}
}

// Columns returns the displayed columns.
func (g *Grid) Columns() []Column { return g.columns }

// Rows returns the staged candidates.
func (g *Grid) Rows() []*Candidate { return g.rows }

// Len returns the number of staged rows.
func (g *Grid) Len() int { return len(g.rows) }

// View returns the display text of every staged row.
func (g *Grid) View() GridView {
	v := GridView{Columns: g.columns}
	for _, c := range g.rows {
		cells := make([]string, len(g.columns))
		for i, col := range g.columns {
			cells[i] = c.Value(col)
		}
		v.Rows = append(v.Rows, cells)
		v.RowNums = append(v.RowNums, c.Raw.Num)
		v.Errors = append(v.Errors, c.Errors)
		v.Warnings = append(v.Warnings, c.Warnings)
	}
	return v
}

// Valid reports whether row can be committed.
func (g *Grid) Valid(row int) bool {
	if row < 0 || row >= len(g.rows) {
		return false
	}
	return g.rows[row].Valid()
}

// Ready reports whether every staged row is valid.
func (g *Grid) Ready() bool {
	for _, c := range g.rows {
		if !c.Valid() {
			return false
		}
	}
	return true
}

// Stats counts valid and invalid rows.
func (g *Grid) Stats() Stats {
	var s Stats
	for _, c := range g.rows {
		if c.Valid() {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return s
}

// FieldEdited sets column col of row to value and revalidates the row.
//
// value is either text, parsed like the input file, or a value of the
// column type (Date, time.Time, decimal.Decimal, TransactionType, Journal...).
// A value that cannot be coerced leaves the field unchanged, records a field
// error on the row and returns an error wrapping ErrEditRejected.
func (g *Grid) FieldEdited(row int, col Column, value any) error {
	if row < 0 || row >= len(g.rows) {
		return fmt.Errorf("row %d out of range", row)
	}
	c := g.rows[row]
	if err := c.set(col, value); err != nil {
		Validate(c)
		return err
	}

	switch col {
	case ColQuantity, ColPrice, ColFees:
		if amount := tradeAmount(c.Type, c.Quantity, c.Price, c.Fees); amount.Valid {
			c.Amount = amount
			c.accept(ColAmount)
		}
	}
	Validate(c)
	return nil
}

// ApplyAccount sets the account of every staged row.
func (g *Grid) ApplyAccount(name string) {
	for i := range g.rows {
		g.FieldEdited(i, ColAccount, name)
	}
}

// DiscardRequested drops every staged row.
func (g *Grid) DiscardRequested() {
	g.rows = nil
}

// CommitRequested writes the valid rows to repo in a single batch. Invalid
// rows are skipped. Accounts are resolved before anything is written and an
// unknown account aborts the whole commit. On success the grid is emptied.
func (g *Grid) CommitRequested(ctx context.Context, repo Repository) (CommitResult, error) {
	var (
		res   CommitResult
		valid []*Candidate
	)
	for _, c := range g.rows {
		if c.Valid() {
			valid = append(valid, c)
		} else {
			res.Skipped++
		}
	}

	accounts := make(map[string]*Account)
	for _, c := range valid {
		name := strings.TrimSpace(c.AccountName)
		if _, ok := accounts[name]; ok {
			continue
		}
		a, err := repo.FindAccountByName(ctx, name)
		if err != nil {
			return CommitResult{}, &PersistenceError{Op: "find account " + name, Err: err}
		}
		if a == nil {
			return CommitResult{}, &PersistenceError{Op: "find account " + name, Err: ErrUnknownAccount}
		}
		accounts[name] = a
	}

	txs := make([]Transaction, 0, len(valid))
	for _, c := range valid {
		tx := Transaction{
			AccountID: accounts[strings.TrimSpace(c.AccountName)].ID,
			Type:      c.Type,
			Date:      c.Date,
			Quantity:  c.Quantity,
			Price:     c.Price,
			Amount:    c.Amount.Decimal,
			Fees:      decimal.Zero,
			Notes:     c.Notes,
			Journal:   c.Journal,
		}
		if c.Fees.Valid {
			tx.Fees = c.Fees.Decimal
		}
		if key, ok := symbolKey(c); ok {
			tx.Symbol = &key
		}
		txs = append(txs, tx)
	}

	if err := repo.CommitBatch(ctx, txs); err != nil {
		return CommitResult{}, &PersistenceError{Op: "commit transactions", Err: err}
	}
	Logger.Info("committed transactions", "committed", len(txs), "skipped", res.Skipped)
	res.Committed = len(txs)
	g.rows = nil
	return res, nil
}

// set coerces value into column col.
func (c *Candidate) set(col Column, value any) error {
	text, isText := value.(string)
	if isText {
		text = strings.TrimSpace(text)
	}
	rejectf := func(format string) error {
		raw := text
		if !isText {
			raw = fmt.Sprint(value)
		}
		msg := fmt.Sprintf(format, raw)
		c.reject(col, raw, msg)
		return fmt.Errorf("%w: %s", ErrEditRejected, msg)
	}

	switch col {
	case ColDate, ColExpiration:
		var d Date
		switch v := value.(type) {
		case Date:
			d = v
		case time.Time:
			d = NewDate(v.Date())
		case nil:
		case string:
			if text != "" {
				var ok bool
				if d, ok = ParseDate(text); !ok {
					if col == ColDate {
						return rejectf("Invalid date format: %s")
					}
					return rejectf("Invalid expiration date: %s")
				}
			}
		default:
			return rejectf("Invalid date format: %s")
		}
		if col == ColDate {
			c.Date = d
		} else {
			c.Expiration = d
		}

	case ColType:
		var t TransactionType
		switch v := value.(type) {
		case TransactionType:
			t = v
		default:
			t = TransactionType(text)
			if !isText {
				t = TransactionType(fmt.Sprint(v))
			}
		}
		parsed, ok := ParseTransactionType(string(t))
		if !ok {
			return rejectf("Invalid transaction type: %s")
		}
		c.Type = parsed

	case ColInstrument:
		if isText && text == "" {
			c.Instrument = ""
			break
		}
		raw := text
		if v, ok := value.(InstrumentType); ok {
			raw = string(v)
		}
		t, ok := ParseInstrumentType(raw)
		if !ok {
			return rejectf("Invalid instrument type: %s")
		}
		c.Instrument = t

	case ColOptionType:
		if isText && text == "" {
			c.OptionType = ""
			break
		}
		raw := text
		if v, ok := value.(OptionType); ok {
			raw = string(v)
		}
		t, ok := ParseOptionType(raw)
		if !ok {
			return rejectf("Invalid option type: %s")
		}
		c.OptionType = t

	case ColStrike, ColQuantity, ColPrice, ColAmount, ColFees:
		d, err := coerceDecimal(value)
		if err != nil {
			return rejectf("Invalid number for " + string(col) + ": %s")
		}
		switch col {
		case ColStrike:
			c.Strike = d
		case ColQuantity:
			c.Quantity = d
		case ColPrice:
			c.Price = d
		case ColAmount:
			c.Amount = d
		case ColFees:
			c.Fees = d
		}

	case ColJournal:
		switch v := value.(type) {
		case nil:
			c.Journal = nil
		case Journal:
			c.Journal = v
		case map[string]any:
			c.Journal = Journal(v)
		case string:
			j, err := ParseJournal(text)
			if err != nil {
				return rejectf("Invalid JSON in journal_details: %s")
			}
			c.Journal = j
		default:
			return rejectf("Invalid JSON in journal_details: %s")
		}

	case ColSymbol:
		c.Symbol = strings.ToUpper(textOf(value))
	case ColAccount:
		c.AccountName = textOf(value)
	case ColNotes:
		c.Notes = textOf(value)

	default:
		return fmt.Errorf("unknown column %q", col)
	}
	c.accept(col)
	return nil
}

func textOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return fmt.Sprint(v)
	}
}
