package txingest

import (
	"regexp"
	"strings"
	"unicode"
)

// headerPatterns are the substrings identifying each field in a header.
// Fields are tried in this order for every header.
var headerPatterns = []struct {
	field    Field
	patterns []string
}{
	{FieldDate, []string{"date", "transaction date", "trade date", "activity date", "run date", "open date"}},
	{FieldSymbol, []string{"symbol", "ticker", "security", "security symbol"}},
	{FieldAction, []string{"action", "activity", "transaction type", "type", "description"}},
	{FieldQuantity, []string{"quantity", "qty", "shares", "amount"}},
	{FieldPrice, []string{"price", "price ($)", "price/share", "share price"}},
	{FieldAmount, []string{"amount", "amount ($)", "value", "total", "net amount", "proceeds", "total amount"}},
	{FieldFees, []string{"fees", "commission", "fees & comm", "commission ($)", "fees ($)"}},
	{FieldAccount, []string{"account", "account name", "acct"}},
	{FieldInstrument, []string{"instrument type", "security type", "asset class", "type"}},
	{FieldNotes, []string{"notes", "description", "comments", "memo", "memo_desc"}},
}

var descriptionHeaders = []string{"description", "transaction description", "security description", "details"}

var commonActions = []string{"buy", "sell", "dividend", "deposit", "withdrawal"}

var (
	optionNoteTerms = []string{"call", "put", "option", "strike", "exp", "expiry", "expiration"}
	optionNoteRE    = regexp.MustCompile(`\$[0-9]+|[0-9]{1,2}/[0-9]{1,2}`)
	digitRE         = regexp.MustCompile(`[0-9]`)
)

// Detection is a proposed column mapping.
type Detection struct {
	Mapping ColumnMapping
	// OptionSignal reports that the preview looks like it contains options.
	OptionSignal bool
	// Brokers lists the export layouts recognized, in the order applied.
	Brokers []string
}

// Detect proposes a column mapping from the headers and a few preview rows.
// It never fails: fields it cannot place are left unmapped.
func Detect(headers []string, preview []RawRow) Detection {
	if len(preview) > PreviewSize {
		preview = preview[:PreviewSize]
	}
	m := make(ColumnMapping)

	for _, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		if strings.HasPrefix(lower, `"`) || len(lower) > 50 {
			continue
		}
	fields:
		for _, hp := range headerPatterns {
			for _, p := range hp.patterns {
				if strings.Contains(lower, p) {
					if _, done := m[hp.field]; !done {
						m[hp.field] = header
						break fields
					}
				}
			}
		}
	}

	if _, ok := m[FieldNotes]; !ok {
		for _, header := range headers {
			lower := strings.ToLower(header)
			if containsAny(lower, descriptionHeaders) {
				m[FieldNotes] = header
				break
			}
		}
	}

	_, hasAction := m[FieldAction]
	_, hasSymbol := m[FieldSymbol]
	if hasAction && !hasSymbol {
		for _, header := range headers {
			if m.mapped(header) {
				continue
			}
			if anyValue(preview, header, func(v string) bool { return isTickerShaped(strings.ToUpper(strings.TrimSpace(v))) }) {
				m[FieldSymbol] = header
				break
			}
		}
	}

	_, hasDate := m[FieldDate]
	_, hasAction = m[FieldAction]
	if hasDate && !hasAction {
		for _, header := range headers {
			if m.mapped(header) {
				continue
			}
			if anyValue(preview, header, func(v string) bool { return containsAny(strings.ToLower(v), commonActions) }) {
				m[FieldAction] = header
				break
			}
		}
	}

	d := Detection{Mapping: m, OptionSignal: optionSignal(m, preview)}
	if d.OptionSignal {
		Logger.Debug("option transactions detected in preview")
	}

	for _, fp := range fingerprints {
		if fp.matches(headers) {
			fp.apply(m, headers, preview)
			d.Brokers = append(d.Brokers, fp.name)
		}
	}
	return d
}

func optionSignal(m ColumnMapping, preview []RawRow) bool {
	if header, ok := m.Header(FieldSymbol); ok {
		if anyValue(preview, header, func(v string) bool {
			upper := strings.ToUpper(v)
			return strings.Contains(v, " ") &&
				containsAny(upper, []string{"CALL", "PUT", "C", "P"}) &&
				digitRE.MatchString(v)
		}) {
			return true
		}
	}
	if header, ok := m.Header(FieldNotes); ok {
		if anyValue(preview, header, func(v string) bool {
			return containsAny(strings.ToLower(v), optionNoteTerms) && optionNoteRE.MatchString(v)
		}) {
			return true
		}
	}
	return false
}

func anyValue(rows []RawRow, header string, pred func(string) bool) bool {
	for _, r := range rows {
		if v, ok := r.Get(header); ok && pred(v) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// isTickerShaped reports whether v is 1 to 5 letters.
func isTickerShaped(v string) bool {
	n := 0
	for _, r := range v {
		if !unicode.IsLetter(r) {
			return false
		}
		n++
	}
	return n >= 1 && n <= 5
}
