package txingest

import (
	"strings"
)

// TransactionType is the closed vocabulary every broker action is normalized to.
type TransactionType string

const (
	TxBuy              TransactionType = "buy"
	TxSell             TransactionType = "sell"
	TxBuyToOpen        TransactionType = "buy_to_open"
	TxSellToOpen       TransactionType = "sell_to_open"
	TxBuyToClose       TransactionType = "buy_to_close"
	TxSellToClose      TransactionType = "sell_to_close"
	TxOptionExercise   TransactionType = "option_exercise"
	TxOptionAssignment TransactionType = "option_assignment"
	TxOptionExpiration TransactionType = "option_expiration"
	TxDividend         TransactionType = "dividend"
	TxInterest         TransactionType = "interest"
	TxDeposit          TransactionType = "deposit"
	TxWithdrawal       TransactionType = "withdrawal"
	TxTransferIn       TransactionType = "transfer_in"
	TxTransferOut      TransactionType = "transfer_out"
	TxFee              TransactionType = "fee"
	TxSplit            TransactionType = "split"
	TxOther            TransactionType = "other"
)

var transactionTypes = []TransactionType{
	TxBuy, TxSell,
	TxBuyToOpen, TxSellToOpen, TxBuyToClose, TxSellToClose,
	TxOptionExercise, TxOptionAssignment, TxOptionExpiration,
	TxDividend, TxInterest, TxDeposit, TxWithdrawal,
	TxTransferIn, TxTransferOut, TxFee, TxSplit, TxOther,
}

// TransactionTypes returns every known transaction type.
func TransactionTypes() []TransactionType {
	return append([]TransactionType(nil), transactionTypes...)
}

// ParseTransactionType validates a transaction type code.
// Unknown codes return TxOther and false.
func ParseTransactionType(s string) (TransactionType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range transactionTypes {
		if string(t) == s {
			return t, true
		}
	}
	return TxOther, false
}

// IsTransfer reports whether t moves assets between accounts.
func (t TransactionType) IsTransfer() bool { return t == TxTransferIn || t == TxTransferOut }

// IsTrade reports whether t is a plain buy or sell, the only types whose
// amount can be derived from quantity and price.
func (t TransactionType) IsTrade() bool { return t == TxBuy || t == TxSell }

// IsCash reports whether t only moves cash.
func (t TransactionType) IsCash() bool {
	return t == TxDeposit || t == TxWithdrawal || t == TxFee
}

// needsSymbol reports whether a missing symbol deserves a warning.
func (t TransactionType) needsSymbol() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxFee, TxInterest:
		return false
	}
	return true
}

// InstrumentType is the closed set of instrument kinds.
type InstrumentType string

const (
	InstrumentStock  InstrumentType = "stock"
	InstrumentETF    InstrumentType = "etf"
	InstrumentOption InstrumentType = "option"
	InstrumentCash   InstrumentType = "cash"
	InstrumentOther  InstrumentType = "other"
)

var instrumentTypes = []InstrumentType{InstrumentStock, InstrumentETF, InstrumentOption, InstrumentCash, InstrumentOther}

// InstrumentTypes returns every known instrument type.
func InstrumentTypes() []InstrumentType {
	return append([]InstrumentType(nil), instrumentTypes...)
}

// ParseInstrumentType validates an instrument type code.
func ParseInstrumentType(s string) (InstrumentType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range instrumentTypes {
		if string(t) == s {
			return t, true
		}
	}
	return InstrumentOther, false
}

// OptionType is call or put.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType accepts call, put and their one letter forms.
func ParseOptionType(s string) (OptionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, true
	case "put", "p":
		return Put, true
	}
	return "", false
}
