package txingest

import (
	"strings"

	"github.com/shopspring/decimal"
)

type phrase struct {
	text string
	typ  TransactionType
}

// optionPhrases are matched as substrings, in order.
var optionPhrases = []phrase{
	{"buy to open", TxBuyToOpen},
	{"bto", TxBuyToOpen},
	{"open buy", TxBuyToOpen},
	{"opening purchase", TxBuyToOpen},
	{"sell to open", TxSellToOpen},
	{"sto", TxSellToOpen},
	{"open sell", TxSellToOpen},
	{"opening sale", TxSellToOpen},
	{"option writing", TxSellToOpen},
	{"writing", TxSellToOpen},
	{"write", TxSellToOpen},
	{"buy to close", TxBuyToClose},
	{"btc", TxBuyToClose},
	{"close buy", TxBuyToClose},
	{"closing purchase", TxBuyToClose},
	{"sell to close", TxSellToClose},
	{"stc", TxSellToClose},
	{"close sell", TxSellToClose},
	{"closing sale", TxSellToClose},
	{"exercise", TxOptionExercise},
	{"exercised", TxOptionExercise},
	{"assignment", TxOptionAssignment},
	{"assigned", TxOptionAssignment},
	{"expiration", TxOptionExpiration},
	{"expired", TxOptionExpiration},
	{"worthless", TxOptionExpiration},
}

// genericPhrases is the last resort, matched as substrings in order.
var genericPhrases = []phrase{
	{"buy", TxBuy},
	{"sell", TxSell},
	{"dividend", TxDividend},
	{"interest", TxInterest},
	{"deposit", TxDeposit},
	{"withdrawal", TxWithdrawal},
	{"transfer", TxTransferIn},
	{"journal", TxTransferIn},
	{"fee", TxFee},
	{"split", TxSplit},
}

func matchPhrase(text string, phrases []phrase) (TransactionType, bool) {
	for _, p := range phrases {
		if strings.Contains(text, p.text) {
			return p.typ, true
		}
	}
	return "", false
}

// refineTrade looks for an option phrase in the text of a plain buy or sell.
// Outside option rows only phrases of several words count: "sto" is also in
// "stock".
func refineTrade(text string, isOption bool) (TransactionType, bool) {
	for _, p := range optionPhrases {
		if (isOption || strings.Contains(p.text, " ")) && strings.Contains(text, p.text) {
			return p.typ, true
		}
	}
	return "", false
}

// Standardizer turns free text actions into transaction types.
type Standardizer struct {
	Store *MappingStore
}

// NewStandardizer returns a Standardizer consulting store. A nil store only
// uses the built-in phrase tables.
func NewStandardizer(store *MappingStore) *Standardizer {
	return &Standardizer{Store: store}
}

// Standardize never fails: text nothing recognizes is TxOther.
//
// The user rules come first, then the option phrases, then plain keywords.
// Whatever resolves to a transfer takes its direction from the sign of a
// known quantity. A rule resolving to a plain buy or sell is refined by the
// option phrases, see refineTrade.
func (s *Standardizer) Standardize(action string, isOption bool, quantity decimal.NullDecimal, broker string) TransactionType {
	text := strings.ToLower(strings.TrimSpace(action))

	if s.Store != nil {
		if t, ok := s.Store.Lookup(text, broker, quantity); ok {
			if !t.IsTrade() {
				return t
			}
			if o, ok := refineTrade(text, isOption); ok {
				return o
			}
			if !isOption {
				return t
			}
		}
	}

	if t, ok := matchPhrase(text, optionPhrases); ok {
		return t
	}
	if isOption {
		switch {
		case strings.Contains(text, "buy"), strings.Contains(text, "purchase"):
			return TxBuyToOpen
		case strings.Contains(text, "sell"):
			return TxSellToClose
		}
	}

	if t, ok := matchPhrase(text, genericPhrases); ok {
		if t.IsTransfer() {
			return transferDirection(quantity)
		}
		return t
	}
	return TxOther
}
