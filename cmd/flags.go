package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/etnz/txingest"
)

// stringList is a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// fieldAssignment is a "-map field=header" flag value.
type fieldAssignment struct {
	field  txingest.Field
	header string
}

func parseFieldAssignment(s string) (fieldAssignment, error) {
	key, header, ok := strings.Cut(s, "=")
	if !ok {
		return fieldAssignment{}, fmt.Errorf("invalid mapping %q, want field=column", s)
	}
	f, ok := txingest.ParseField(strings.TrimSpace(key))
	if !ok {
		return fieldAssignment{}, fmt.Errorf("unknown field %q", key)
	}
	return fieldAssignment{field: f, header: strings.TrimSpace(header)}, nil
}

// cellEdit is a "-set row:column=value" flag value. Row is the line number
// in the file.
type cellEdit struct {
	row    int
	column txingest.Column
	value  string
}

func parseCellEdit(s string) (cellEdit, error) {
	target, value, ok := strings.Cut(s, "=")
	if !ok {
		return cellEdit{}, fmt.Errorf("invalid edit %q, want row:column=value", s)
	}
	rowText, colText, ok := strings.Cut(target, ":")
	if !ok {
		return cellEdit{}, fmt.Errorf("invalid edit %q, want row:column=value", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowText))
	if err != nil {
		return cellEdit{}, fmt.Errorf("invalid row in %q: %w", s, err)
	}
	col, ok := txingest.ParseColumn(strings.TrimSpace(colText))
	if !ok {
		return cellEdit{}, fmt.Errorf("unknown column %q", colText)
	}
	return cellEdit{row: row, column: col, value: value}, nil
}

// parseColumns parses a comma separated list of columns, nil for all.
func parseColumns(s string) ([]txingest.Column, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var cols []txingest.Column
	for _, name := range strings.Split(s, ",") {
		col, ok := txingest.ParseColumn(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, col)
	}
	return cols, nil
}
