package txingest

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// Field is a logical input field a file column can be mapped to.
type Field string

const (
	FieldDate       Field = "date"
	FieldSymbol     Field = "symbol"
	FieldAction     Field = "action"
	FieldQuantity   Field = "quantity"
	FieldPrice      Field = "price"
	FieldAmount     Field = "amount"
	FieldFees       Field = "fees"
	FieldAccount    Field = "account_name"
	FieldInstrument Field = "instrument_type"
	FieldNotes      Field = "notes"
	FieldJournal    Field = "journal_details"
)

// Fields lists every logical field in display order.
var Fields = []Field{
	FieldDate, FieldSymbol, FieldAction, FieldQuantity, FieldPrice, FieldAmount,
	FieldFees, FieldAccount, FieldInstrument, FieldNotes, FieldJournal,
}

// RequiredFields must be mapped before rows can be parsed.
var RequiredFields = []Field{FieldDate, FieldAction}

// ParseField validates a field name.
func ParseField(s string) (Field, bool) {
	for _, f := range Fields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

// ColumnMapping maps logical fields to file headers.
type ColumnMapping map[Field]string

// Header returns the header mapped to f.
func (m ColumnMapping) Header(f Field) (string, bool) {
	h, ok := m[f]
	return h, ok && h != ""
}

// Missing returns the required fields that are not mapped.
func (m ColumnMapping) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if _, ok := m.Header(f); !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Validate checks that every mapped header exists in headers.
func (m ColumnMapping) Validate(headers []string) error {
	for _, f := range Fields {
		h, ok := m.Header(f)
		if !ok {
			continue
		}
		if !slices.Contains(headers, h) {
			return &StructuralError{Msg: fmt.Sprintf("Column %q mapped to %s is missing from the file", h, f)}
		}
	}
	return nil
}

// mapped reports whether header is already used by some field.
func (m ColumnMapping) mapped(header string) bool {
	for _, h := range m {
		if h == header {
			return true
		}
	}
	return false
}

// MarshalJSON writes the mapping as a flat object in field order.
func (m ColumnMapping) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, f := range Fields {
		w.Optional(string(f), m[f])
	}
	return w.MarshalJSON()
}

// SaveMapping writes m as indented JSON.
func SaveMapping(w io.Writer, m ColumnMapping) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode column mapping: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write column mapping: %w", err)
	}
	return nil
}

// LoadMapping reads a mapping saved by SaveMapping. Entries whose header is
// not one of headers are dropped and returned as dropped fields.
func LoadMapping(r io.Reader, headers []string) (m ColumnMapping, dropped []Field, err error) {
	var raw map[string]string
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("decode column mapping: %w", err)
	}
	m = make(ColumnMapping)
	for key, header := range raw {
		f, ok := ParseField(key)
		if !ok {
			return nil, nil, fmt.Errorf("decode column mapping: unknown field %q", key)
		}
		if header == "" {
			continue
		}
		if !slices.Contains(headers, header) {
			dropped = append(dropped, f)
			continue
		}
		m[f] = header
	}
	slices.SortFunc(dropped, func(a, b Field) int {
		return slices.Index(Fields, a) - slices.Index(Fields, b)
	})
	return m, dropped, nil
}
