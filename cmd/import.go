package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/txingest"
	"github.com/etnz/txingest/renderer"
	"github.com/google/subcommands"
)

type importCmd struct {
	mapping     string
	maps        stringList
	account     string
	sets        stringList
	columns     string
	export      string
	commit      bool
	invalidOnly bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "stage, review and commit the transactions of a file" }
func (*importCmd) Usage() string {
	return `txi import [-mapping <file>] [-map field=column]... [-account <name>]
           [-set row:column=value]... [-export <file>] [-commit] <file>

  Parses every row of a CSV or .xlsx file into a candidate transaction and
  shows the candidates with their errors and warnings. Rows are fixed with
  -set, using the line number of the row in the file (the header is row 1).

  With -commit, the rows without errors are stored in the database, all at
  once. Nothing is stored when an account named in the file is unknown.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping, "mapping", "", "Column mapping JSON file, as saved by 'txi detect -save'. Defaults to the detected mapping.")
	f.Var(&c.maps, "map", "Map a field to a column, as field=column. Can be repeated.")
	f.StringVar(&c.account, "account", "", "Account of every row, for files without an account column.")
	f.Var(&c.sets, "set", "Set a value, as row:column=value. Can be repeated.")
	f.StringVar(&c.columns, "columns", "transaction_date,transaction_type,symbol,quantity,price,amount,account_name", "Comma separated columns to display.")
	f.StringVar(&c.export, "export", "", "Write the staged rows and their diagnostics to this CSV file.")
	f.BoolVar(&c.commit, "commit", false, "Store the valid rows in the database.")
	f.BoolVar(&c.invalidOnly, "invalid-only", false, "Only display the rows with errors.")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	columns, err := parseColumns(c.columns)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	sheet, err := txingest.OpenSheet(f.Arg(0))
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	m, err := c.columnMapping(sheet)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if missing := m.Missing(); len(missing) > 0 {
		txingest.Logger.Warn("required fields are not mapped", "fields", missing)
	}

	rules, err := OpenRules()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	candidates, err := txingest.NewParser(txingest.NewStandardizer(rules)).ParseRows(sheet, m)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	grid := txingest.NewGrid(candidates, columns)
	if c.account != "" {
		grid.ApplyAccount(c.account)
	}
	if err := c.applyEdits(grid); err != nil {
		fail("%v", err)
		return subcommands.ExitUsageError
	}

	if c.export != "" {
		if err := exportCSV(c.export, grid.Rows()); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.GridMarkdown(grid, renderer.GridOptions{InvalidOnly: c.invalidOnly}))
	printReadiness(grid)

	if !c.commit {
		return subcommands.ExitSuccess
	}
	db, err := OpenDB()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	res, err := grid.CommitRequested(ctx, db)
	if err != nil {
		var perr *txingest.PersistenceError
		if errors.As(err, &perr) && errors.Is(err, txingest.ErrUnknownAccount) {
			fail("%v, create it with 'txi add-account'", err)
		} else {
			fail("%v", err)
		}
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.CommitMarkdown(res))
	return subcommands.ExitSuccess
}

// columnMapping returns the mapping from -mapping, or the detected one, with
// the -map overrides applied.
func (c *importCmd) columnMapping(sheet *txingest.Sheet) (txingest.ColumnMapping, error) {
	var m txingest.ColumnMapping
	if c.mapping != "" {
		var err error
		if m, err = loadMapping(c.mapping, sheet.Headers); err != nil {
			return nil, err
		}
	} else {
		d := txingest.Detect(sheet.Headers, sheet.Preview())
		if d.OptionSignal {
			txingest.Logger.Info("the file seems to contain options")
		}
		m = d.Mapping
	}
	for _, s := range c.maps {
		a, err := parseFieldAssignment(s)
		if err != nil {
			return nil, err
		}
		if a.header == "" {
			delete(m, a.field)
		} else {
			m[a.field] = a.header
		}
	}
	return m, nil
}

// applyEdits applies the -set flags. A rejected value is reported on its row
// and is not an error.
func (c *importCmd) applyEdits(grid *txingest.Grid) error {
	for _, s := range c.sets {
		e, err := parseCellEdit(s)
		if err != nil {
			return err
		}
		index := -1
		for i, cand := range grid.Rows() {
			if cand.Raw.Num == e.row {
				index = i
				break
			}
		}
		if index < 0 {
			return fmt.Errorf("no row %d in the file", e.row)
		}
		if err := grid.FieldEdited(index, e.column, e.value); err != nil {
			if !errors.Is(err, txingest.ErrEditRejected) {
				return err
			}
			txingest.Logger.Warn("edit rejected", "row", e.row, "column", e.column, "err", err)
		}
	}
	return nil
}

func exportCSV(path string, candidates []*txingest.Candidate) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := txingest.ExportCSV(f, candidates); err != nil {
		f.Close()
		return fmt.Errorf("writing export file: %w", err)
	}
	return f.Close()
}
