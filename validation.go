package txingest

import "strings"

// rejectionOrder is the order rejected inputs are reported in.
var rejectionOrder = []Column{
	ColDate, ColType, ColInstrument, ColOptionType, ColExpiration,
	ColStrike, ColQuantity, ColPrice, ColFees, ColAmount, ColJournal,
}

// Validate recomputes c.Errors and c.Warnings from scratch, from the current
// field values and the inputs that were rejected.
func Validate(c *Candidate) {
	var errs []string
	add := func(msg string) {
		for _, e := range errs {
			if e == msg {
				return
			}
		}
		errs = append(errs, msg)
	}
	rejected := func(col Column) bool {
		r, ok := c.rejected[col]
		if ok {
			add(r.msg)
		}
		return ok
	}

	if !rejected(ColDate) && c.Date.IsZero() {
		add("Date is required")
	}
	if !rejected(ColType) && c.Type == "" {
		add("Transaction type is required")
	}
	for _, col := range rejectionOrder[2:] {
		rejected(col)
	}
	if strings.TrimSpace(c.AccountName) == "" {
		add("Account name is required")
	}

	switch {
	case c.Type.IsTrade():
		if !c.Quantity.Valid {
			add("Quantity is required for buy/sell transactions")
		}
		if !c.Price.Valid {
			add("Price is required for buy/sell transactions")
		}
	case c.Type.IsCash():
		if !c.Amount.Valid {
			add("Amount is required for cash transactions")
		}
	}
	if c.Type != "" && !c.Amount.Valid {
		add("Cannot determine transaction amount")
	}
	c.Errors = errs

	warnings := append([]string(nil), c.notices...)
	if c.Type != "" && c.Type.needsSymbol() && c.Symbol == "" {
		warnings = append(warnings, "Symbol is recommended for this transaction type but not mapped")
	}
	c.Warnings = warnings
}
