package renderer

import (
	"bytes"

	"github.com/etnz/txingest"
	md "github.com/nao1215/markdown"
)

// AccountsMarkdown renders the list of known accounts.
func AccountsMarkdown(accounts []txingest.Account) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Accounts")
	if len(accounts) == 0 {
		doc.PlainText("No account yet, create one with `txi add-account`.")
		return doc.String()
	}
	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
		Header:    []string{"Name", "Broker"},
	}
	for _, a := range accounts {
		table.Rows = append(table.Rows, []string{a.Name, a.Broker})
	}
	doc.Table(table)
	return doc.String()
}
