package txingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// Journal holds the structured details a broker attaches to a journal or
// transfer row, typically the other side of the movement.
type Journal map[string]any

// ParseJournal decodes a JSON object. Blank text returns a nil Journal.
func ParseJournal(s string) (Journal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var j Journal
	if err := dec.Decode(&j); err != nil {
		return nil, fmt.Errorf("invalid journal details: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid journal details: trailing data")
	}
	if j == nil {
		return nil, fmt.Errorf("invalid journal details: not an object")
	}
	return j, nil
}

// Lookup evaluates a JSONPath expression such as "$.to_account" against the journal.
func (j Journal) Lookup(path string) (any, error) {
	return jsonpath.Get(path, map[string]any(j))
}

// counterpartyPaths are tried in order to find the other account of a transfer.
var counterpartyPaths = map[TransactionType][]string{
	TxTransferOut: {"$.to_account", "$.account", "$.counterparty"},
	TxTransferIn:  {"$.from_account", "$.account", "$.counterparty"},
}

// Counterparty returns the name of the other account of a transfer, or the
// empty string when the journal does not name one.
func (j Journal) Counterparty(t TransactionType) string {
	if j == nil {
		return ""
	}
	for _, path := range counterpartyPaths[t] {
		v, err := j.Lookup(path)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// String returns the compact JSON form, empty for a nil Journal.
func (j Journal) String() string {
	if j == nil {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(j)); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}
