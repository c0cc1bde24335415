package txingest

import (
	"context"

	"github.com/shopspring/decimal"
)

// Account is a brokerage account transactions are committed to.
type Account struct {
	ID     string
	Name   string
	Broker string
}

// SymbolKey identifies a tradable instrument. Option fields are zero for
// anything but options.
type SymbolKey struct {
	Ticker     string
	Instrument InstrumentType
	OptionType OptionType
	Expiration Date
	Strike     decimal.NullDecimal
}

// Symbol is a stored instrument.
type Symbol struct {
	ID string
	SymbolKey
}

// Transaction is a validated candidate ready to be stored.
type Transaction struct {
	AccountID string
	Symbol    *SymbolKey // nil for cash movements
	Type      TransactionType
	Date      Date
	Quantity  decimal.NullDecimal
	Price     decimal.NullDecimal
	Amount    decimal.Decimal
	Fees      decimal.Decimal
	Notes     string
	Journal   Journal
}

// Repository is the storage the staging grid commits to.
type Repository interface {
	// FindAccountByName returns nil, nil when there is no such account.
	FindAccountByName(ctx context.Context, name string) (*Account, error)
	// GetOrCreateSymbol returns the symbol with exactly this key, creating it if needed.
	GetOrCreateSymbol(ctx context.Context, key SymbolKey) (Symbol, error)
	// CommitBatch stores all transactions or none. Symbols the transactions
	// refer to are created as part of the same batch.
	CommitBatch(ctx context.Context, txs []Transaction) error
}

// symbolKey returns the instrument key of c, or false for cash rows.
func symbolKey(c *Candidate) (SymbolKey, bool) {
	if c.Symbol == "" {
		return SymbolKey{}, false
	}
	k := SymbolKey{Ticker: c.Symbol, Instrument: c.Instrument}
	if k.Instrument == "" {
		k.Instrument = InstrumentStock
	}
	if c.OptionType != "" || !c.Expiration.IsZero() || c.Strike.Valid {
		k.Instrument = InstrumentOption
	}
	if k.Instrument == InstrumentOption {
		k.OptionType = c.OptionType
		if k.OptionType == "" {
			k.OptionType = Call
		}
		k.Expiration = c.Expiration
		k.Strike = c.Strike
	}
	return k, true
}
