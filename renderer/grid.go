package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/txingest"
	md "github.com/nao1215/markdown"
)

// GridOptions selects the staged rows to render.
type GridOptions struct {
	InvalidOnly bool // Only rows with errors.
	NoWarnings  bool // Do not list warnings.
}

// GridMarkdown renders the staged rows of g and their diagnostics.
func GridMarkdown(g *txingest.Grid, opts GridOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	stats := g.Stats()
	doc.H1("Staged Transactions")
	doc.PlainText(fmt.Sprintf("%d valid, %d with errors.", stats.Valid, stats.Invalid))

	columns := g.Columns()
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignRight, md.AlignLeft},
		Header:    []string{"Row", ""},
	}
	for _, col := range columns {
		table.Header = append(table.Header, string(col))
		table.Alignment = append(table.Alignment, alignment(col))
	}

	var problems []string
	for _, c := range g.Rows() {
		if opts.InvalidOnly && c.Valid() {
			continue
		}
		status := "ok"
		if !c.Valid() {
			status = md.Bold("error")
		}
		row := []string{strconv.Itoa(c.Raw.Num), status}
		for _, col := range columns {
			row = append(row, Cell(c, col))
		}
		table.Rows = append(table.Rows, row)

		for _, e := range c.Errors {
			problems = append(problems, fmt.Sprintf("Row %d: %s", c.Raw.Num, e))
		}
		if !opts.NoWarnings {
			for _, w := range c.Warnings {
				problems = append(problems, fmt.Sprintf("Row %d (warning): %s", c.Raw.Num, w))
			}
		}
	}
	if len(table.Rows) > 0 {
		doc.Table(table)
	}
	if len(problems) > 0 {
		doc.H2("Problems")
		doc.BulletList(problems...)
	}
	return doc.String()
}

// Cell returns the display text of column col of c. An input that could not
// be stored is shown as typed, prefixed with "!".
func Cell(c *txingest.Candidate, col txingest.Column) string {
	if text, ok := c.RejectedText(col); ok {
		return "!" + text
	}
	switch col {
	case txingest.ColAmount:
		return Amount(c.Amount)
	case txingest.ColFees:
		return Amount(c.Fees)
	case txingest.ColPrice:
		return Amount(c.Price)
	case txingest.ColStrike:
		return Amount(c.Strike)
	case txingest.ColQuantity:
		return Number(c.Quantity)
	}
	return c.Value(col)
}

func alignment(col txingest.Column) md.TableAlignment {
	switch col {
	case txingest.ColAmount, txingest.ColFees, txingest.ColPrice, txingest.ColStrike, txingest.ColQuantity:
		return md.AlignRight
	}
	return md.AlignLeft
}

// CommitMarkdown renders the outcome of a commit.
func CommitMarkdown(res txingest.CommitResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Commit")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Rows", "Count"},
		Rows: [][]string{
			{"Committed", strconv.Itoa(res.Committed)},
			{"Skipped", strconv.Itoa(res.Skipped)},
		},
	})
	return doc.String()
}
