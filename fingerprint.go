package txingest

import (
	"slices"
	"strings"
)

// fingerprint recognizes the export layout of a known broker from its
// exact header names and maps it without guessing.
type fingerprint struct {
	name     string
	required []string
	mapping  []fieldHeader
	// fill completes the mapping when the layout needs more than a fixed table.
	fill func(m ColumnMapping, headers []string, preview []RawRow)
}

type fieldHeader struct {
	field  Field
	header string
}

func (fp fingerprint) matches(headers []string) bool {
	for _, h := range fp.required {
		if !slices.Contains(headers, h) {
			return false
		}
	}
	return true
}

// apply overwrites m with the fingerprint table. Table entries whose header
// is absent from the file are skipped.
func (fp fingerprint) apply(m ColumnMapping, headers []string, preview []RawRow) {
	for _, fh := range fp.mapping {
		if slices.Contains(headers, fh.header) {
			m[fh.field] = fh.header
		}
	}
	if fp.fill != nil {
		fp.fill(m, headers, preview)
	}
}

var fingerprints = []fingerprint{
	{
		name:     "fidelity",
		required: []string{"Run Date", "Action", "Symbol", "Amount ($)"},
		mapping: []fieldHeader{
			{FieldDate, "Run Date"},
			{FieldAction, "Action"},
			{FieldSymbol, "Symbol"},
			{FieldAmount, "Amount ($)"},
			{FieldQuantity, "Quantity"},
			{FieldPrice, "Price ($)"},
			{FieldFees, "Fees ($)"},
		},
		fill: func(m ColumnMapping, headers []string, _ []RawRow) {
			if _, ok := m[FieldAccount]; !ok && slices.Contains(headers, "Description") {
				m[FieldAccount] = "Description"
			}
		},
	},
	{
		name:     "schwab",
		required: []string{"Date", "Symbol", "Description", "Quantity", "Price", "Amount"},
		mapping: []fieldHeader{
			{FieldDate, "Date"},
			{FieldSymbol, "Symbol"},
			{FieldQuantity, "Quantity"},
			{FieldPrice, "Price"},
			{FieldAmount, "Amount"},
			{FieldAction, "Description"},
		},
	},
	{
		name:     "robinhood",
		required: []string{"Date", "Symbol", "Action", "Quantity", "Price", "Fees & Comm", "Amount"},
		mapping: []fieldHeader{
			{FieldDate, "Date"},
			{FieldSymbol, "Symbol"},
			{FieldAction, "Action"},
			{FieldQuantity, "Quantity"},
			{FieldPrice, "Price"},
			{FieldFees, "Fees & Comm"},
			{FieldAmount, "Amount"},
		},
	},
	{
		name:     "lot details",
		required: []string{"Open Date", "Quantity", "Price", "Cost/Share", "Market Value", "Holding Period"},
		mapping: []fieldHeader{
			{FieldDate, "Open Date"},
			{FieldQuantity, "Quantity"},
			{FieldPrice, "Cost/Share"},
			{FieldAmount, "Market Value"},
		},
		fill: func(m ColumnMapping, headers []string, preview []RawRow) {
			if _, ok := m[FieldSymbol]; ok {
				return
			}
			for _, row := range preview {
				for _, h := range headers {
					if v, ok := row.Get(h); ok && isTickerShaped(strings.TrimSpace(v)) {
						m[FieldSymbol] = h
						return
					}
				}
			}
		},
	},
}
