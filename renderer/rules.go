package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/txingest"
	md "github.com/nao1215/markdown"
)

// RulesMarkdown renders the action rules of the given brokers, every broker
// when none is given.
func RulesMarkdown(store *txingest.MappingStore, brokers ...string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transaction Type Rules")
	if store.Path() != "" {
		doc.PlainText(fmt.Sprintf("Stored in %s", store.Path()))
	}
	if len(brokers) == 0 {
		brokers = store.Brokers()
	}
	for _, broker := range brokers {
		doc.H2(broker)
		rules := store.Rules(broker)
		if len(rules) == 0 {
			doc.PlainText("No rules.")
			continue
		}
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft},
			Header:    []string{"Action contains", "Transaction type"},
		}
		for _, r := range rules {
			table.Rows = append(table.Rows, []string{r.Action, string(r.Type)})
		}
		doc.Table(table)
	}
	return doc.String()
}
