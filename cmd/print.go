package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/txingest"
	"github.com/fatih/color"
)

// printMarkdown renders md to the terminal, or prints it raw if it cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	txingest.Logger.Debug("cannot render markdown", "err", err)
	fmt.Print(md)
}

// printReadiness prints a one line summary of the staged rows.
func printReadiness(g *txingest.Grid) {
	s := g.Stats()
	switch {
	case s.Valid+s.Invalid == 0:
		color.New(color.FgYellow).Println("Nothing to import.")
	case s.Invalid == 0:
		color.New(color.FgGreen, color.Bold).Printf("All %d rows are ready to commit.\n", s.Valid)
	default:
		color.New(color.FgRed, color.Bold).Printf("%d of %d rows have errors and will be skipped.\n", s.Invalid, s.Valid+s.Invalid)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
