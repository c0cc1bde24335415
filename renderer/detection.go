package renderer

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/txingest"
	md "github.com/nao1215/markdown"
)

// DetectionMarkdown renders a proposed column mapping for sheet, with a
// sample value of every mapped column.
func DetectionMarkdown(d txingest.Detection, sheet *txingest.Sheet) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Column Mapping")
	if len(d.Brokers) > 0 {
		doc.PlainText(fmt.Sprintf("Recognized layout: %s", strings.Join(d.Brokers, ", ")))
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft},
		Header:    []string{"Field", "Column", "Sample"},
	}
	for _, f := range txingest.Fields {
		name := string(f)
		if slices.Contains(txingest.RequiredFields, f) {
			name = md.Bold(name)
		}
		column, sample := "-", ""
		if h, ok := d.Mapping.Header(f); ok {
			column, sample = h, sampleOf(sheet, h)
		}
		table.Rows = append(table.Rows, []string{name, column, sample})
	}
	doc.Table(table)

	if missing := d.Mapping.Missing(); len(missing) > 0 {
		doc.H2("Missing Required Fields")
		var items []string
		for _, f := range missing {
			items = append(items, string(f))
		}
		doc.BulletList(items...)
	}

	var unused []string
	for _, h := range sheet.Headers {
		if !mapped(d.Mapping, h) {
			unused = append(unused, h)
		}
	}
	if len(unused) > 0 {
		doc.H2("Unmapped Columns")
		doc.BulletList(unused...)
	}

	if d.OptionSignal {
		doc.PlainText("The file seems to contain option transactions.")
	}
	return doc.String()
}

func mapped(m txingest.ColumnMapping, header string) bool {
	for _, f := range txingest.Fields {
		if h, ok := m.Header(f); ok && h == header {
			return true
		}
	}
	return false
}

// sampleOf returns the first non blank preview value of header.
func sampleOf(sheet *txingest.Sheet, header string) string {
	for _, row := range sheet.Preview() {
		if v, _ := row.Get(header); strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
