package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/txingest"
	"github.com/etnz/txingest/renderer"
	"github.com/google/subcommands"
)

type detectCmd struct {
	save string
}

func (*detectCmd) Name() string     { return "detect" }
func (*detectCmd) Synopsis() string { return "propose a column mapping for a file" }
func (*detectCmd) Usage() string {
	return `txi detect [-save <mapping.json>] <file>

  Detects which column of a CSV or .xlsx file holds each transaction field,
  and shows a sample of each. The mapping can be saved, edited and reused with
  'txi import -mapping'.
`
}

func (c *detectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.save, "save", "", "Save the proposed mapping to this JSON file.")
}

func (c *detectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	sheet, err := txingest.OpenSheet(f.Arg(0))
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	d := txingest.Detect(sheet.Headers, sheet.Preview())
	printMarkdown(renderer.DetectionMarkdown(d, sheet))

	if c.save != "" {
		if err := saveMapping(c.save, d.Mapping); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Mapping saved to %s\n", c.save)
	}
	return subcommands.ExitSuccess
}

func saveMapping(path string, m txingest.ColumnMapping) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating mapping file: %w", err)
	}
	if err := txingest.SaveMapping(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func loadMapping(path string, headers []string) (txingest.ColumnMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapping file: %w", err)
	}
	defer f.Close()
	m, dropped, err := txingest.LoadMapping(f, headers)
	if err != nil {
		return nil, err
	}
	for _, field := range dropped {
		txingest.Logger.Warn("mapped column not in file, ignored", "field", field)
	}
	return m, nil
}
