package txingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// GeneralBroker is the bucket of rules consulted for every broker.
const GeneralBroker = "general"

// Rule maps every action text containing Action to Type.
type Rule struct {
	Action string
	Type   TransactionType
}

type bucket struct {
	broker string
	rules  []Rule
}

func (b *bucket) index(action string) int {
	for i, r := range b.rules {
		if r.Action == action {
			return i
		}
	}
	return -1
}

// match returns the first rule, in stored order, whose action is a substring of text.
func (b *bucket) match(text string) (Rule, bool) {
	for _, r := range b.rules {
		if strings.Contains(text, r.Action) {
			return r, true
		}
	}
	return Rule{}, false
}

func (b *bucket) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, r := range b.rules {
		w.Append(r.Action, r.Type)
	}
	return w.MarshalJSON()
}

// MappingStore holds the user editable rules turning broker action text into
// transaction types. Rules are grouped per broker and kept in stored order,
// since the first matching rule wins. Every mutation is written to disk
// immediately.
type MappingStore struct {
	path    string
	buckets []*bucket
}

// DefaultMappingPath returns the per-user location of the rule file.
func DefaultMappingPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".portfolio-tracker", "transaction_type_mappings.json")
}

// OpenMappingStore loads the rules stored at path.
//
// A missing file is seeded with the built-in rules, which are saved right
// away. A file that cannot be read or decoded is logged and the built-in
// rules are used in memory without touching the file.
func OpenMappingStore(path string) (*MappingStore, error) {
	s := &MappingStore{path: path}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.buckets = defaultBuckets()
		if err := s.save(); err != nil {
			return nil, err
		}
		Logger.Info("created transaction type mappings", "path", path)
		return s, nil
	}
	if err == nil {
		s.buckets, err = decodeBuckets(data)
	}
	if err != nil {
		Logger.Error("cannot load transaction type mappings, using defaults", "path", path, "err", err)
		s.buckets = defaultBuckets()
		return s, nil
	}
	Logger.Debug("loaded transaction type mappings", "path", path, "brokers", len(s.buckets))
	return s, nil
}

// NewMemoryMappingStore returns a store seeded with the built-in rules that is
// never written to disk.
func NewMemoryMappingStore() *MappingStore {
	return &MappingStore{buckets: defaultBuckets()}
}

// Path returns the file backing the store, empty for an in-memory store.
func (s *MappingStore) Path() string { return s.path }

func decodeBuckets(data []byte) ([]*bucket, error) {
	var buckets []*bucket
	dec := json.NewDecoder(bytes.NewReader(data))
	err := decodeObject(dec, func(broker string, dec *json.Decoder) error {
		b := &bucket{broker: strings.ToLower(broker)}
		buckets = append(buckets, b)
		return decodeObject(dec, func(action string, dec *json.Decoder) error {
			var code string
			if err := dec.Decode(&code); err != nil {
				return fmt.Errorf("rule %q of %q: %w", action, broker, err)
			}
			b.rules = append(b.rules, Rule{Action: strings.ToLower(action), Type: TransactionType(code)})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("decode transaction type mappings: %w", err)
	}
	return buckets, nil
}

func (s *MappingStore) save() error {
	if s.path == "" {
		return nil
	}
	var w jsonObjectWriter
	for _, b := range s.buckets {
		w.Append(b.broker, b)
	}
	compact, err := w.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode transaction type mappings: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return fmt.Errorf("encode transaction type mappings: %w", err)
	}
	out.WriteByte('\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create mappings directory: %w", err)
	}
	if err := os.WriteFile(s.path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save transaction type mappings: %w", err)
	}
	return nil
}

func (s *MappingStore) bucket(broker string) *bucket {
	broker = strings.ToLower(strings.TrimSpace(broker))
	for _, b := range s.buckets {
		if b.broker == broker {
			return b
		}
	}
	return nil
}

// Brokers returns the broker names, sorted.
func (s *MappingStore) Brokers() []string {
	names := make([]string, 0, len(s.buckets))
	for _, b := range s.buckets {
		names = append(names, b.broker)
	}
	sort.Strings(names)
	return names
}

// Rules returns the rules of broker in stored order.
func (s *MappingStore) Rules(broker string) []Rule {
	b := s.bucket(broker)
	if b == nil {
		return nil
	}
	return append([]Rule(nil), b.rules...)
}

// Add stores a rule for broker, creating the broker if needed. An existing
// rule for the same action is updated in place and keeps its position.
func (s *MappingStore) Add(broker, action string, t TransactionType) error {
	broker = strings.ToLower(strings.TrimSpace(broker))
	action = strings.ToLower(strings.TrimSpace(action))
	if broker == "" || action == "" {
		return fmt.Errorf("broker and action are required")
	}
	if _, ok := ParseTransactionType(string(t)); !ok {
		return fmt.Errorf("invalid transaction type %q", t)
	}
	b := s.bucket(broker)
	if b == nil {
		b = &bucket{broker: broker}
		s.buckets = append(s.buckets, b)
	}
	if i := b.index(action); i >= 0 {
		b.rules[i].Type = t
	} else {
		b.rules = append(b.rules, Rule{Action: action, Type: t})
	}
	return s.save()
}

// Update changes the type of an existing rule, or adds it.
func (s *MappingStore) Update(broker, action string, t TransactionType) error {
	return s.Add(broker, action, t)
}

// Delete removes the rule for action. Deleting a missing rule is a no-op.
func (s *MappingStore) Delete(broker, action string) error {
	b := s.bucket(broker)
	if b == nil {
		return nil
	}
	i := b.index(strings.ToLower(strings.TrimSpace(action)))
	if i < 0 {
		return nil
	}
	b.rules = append(b.rules[:i], b.rules[i+1:]...)
	return s.save()
}

// AddBroker creates an empty bucket for broker.
func (s *MappingStore) AddBroker(broker string) error {
	broker = strings.ToLower(strings.TrimSpace(broker))
	if broker == "" {
		return fmt.Errorf("broker name is required")
	}
	if s.bucket(broker) != nil {
		return nil
	}
	s.buckets = append(s.buckets, &bucket{broker: broker})
	return s.save()
}

// DeleteBroker removes broker and all its rules. The general bucket cannot be deleted.
func (s *MappingStore) DeleteBroker(broker string) error {
	broker = strings.ToLower(strings.TrimSpace(broker))
	if broker == GeneralBroker {
		return fmt.Errorf("the %q rules cannot be deleted", GeneralBroker)
	}
	for i, b := range s.buckets {
		if b.broker == broker {
			s.buckets = append(s.buckets[:i], s.buckets[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Lookup returns the transaction type of the first rule whose action is
// contained in action, looking at broker's rules first and then at the
// general ones. A transfer rule takes its direction from the sign of
// quantity when known.
func (s *MappingStore) Lookup(action, broker string, quantity decimal.NullDecimal) (TransactionType, bool) {
	text := strings.ToLower(action)
	var (
		r     Rule
		found bool
	)
	if broker != "" {
		if b := s.bucket(broker); b != nil {
			r, found = b.match(text)
		}
	}
	if !found {
		if b := s.bucket(GeneralBroker); b != nil {
			r, found = b.match(text)
		}
	}
	if !found {
		return TxOther, false
	}
	t, ok := ParseTransactionType(string(r.Type))
	if !ok {
		Logger.Warn("ignoring invalid transaction type in mappings", "action", r.Action, "type", r.Type)
		return TxOther, false
	}
	if t.IsTransfer() && quantity.Valid {
		t = transferDirection(quantity)
	}
	return t, true
}

func transferDirection(quantity decimal.NullDecimal) TransactionType {
	if quantity.Valid && quantity.Decimal.IsNegative() {
		return TxTransferOut
	}
	return TxTransferIn
}

// defaultBuckets returns the built-in rules.
func defaultBuckets() []*bucket {
	rules := func(pairs ...string) []Rule {
		out := make([]Rule, 0, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			out = append(out, Rule{Action: strings.ToLower(pairs[i]), Type: TransactionType(pairs[i+1])})
		}
		return out
	}
	return []*bucket{
		{broker: GeneralBroker, rules: rules(
			"buy", "buy",
			"sell", "sell",
			"dividend", "dividend",
			"interest", "interest",
			"deposit", "deposit",
			"withdrawal", "withdrawal",
			"fee", "fee",
			"split", "split",
			"transfer", "transfer_in",
			"journal", "transfer_in",
			"transfer shares", "transfer_in",
			"journal shares", "transfer_in",
			"transfer securities", "transfer_in",
			"transfer funds", "transfer_in",
			"securities transferred", "transfer_in",
		)},
		{broker: "fidelity", rules: rules(
			"bought", "buy",
			"sold", "sell",
			"cash contribution", "deposit",
			"dividend received", "dividend",
			"reinvestment", "buy",
			"transferred in", "transfer_in",
			"transferred out", "transfer_out",
			"journaled", "transfer_in",
		)},
		{broker: "schwab", rules: rules(
			"bought", "buy",
			"sold", "sell",
			"qualified dividend", "dividend",
			"non-qualified dividend", "dividend",
			"bank interest", "interest",
			"service fee", "fee",
			"journal", "transfer_in",
			"MoneyLink Transfer", "transfer_in",
		)},
		{broker: "robinhood", rules: rules(
			"market buy", "buy",
			"market sell", "sell",
			"limit buy", "buy",
			"limit sell", "sell",
			"dividend", "dividend",
			"deposit", "deposit",
			"withdrawal", "withdrawal",
			"transfer", "transfer_in",
		)},
		{broker: "ibkr", rules: rules(
			"buy", "buy",
			"sell", "sell",
			"dividend", "dividend",
			"deposit", "deposit",
			"withdrawal", "withdrawal",
			"transfer", "transfer_in",
			"cash transfer", "transfer_in",
		)},
		{broker: "tdameritrade", rules: rules(
			"bought", "buy",
			"sold", "sell",
			"reinvestment", "buy",
			"dividend", "dividend",
			"transfer", "transfer_in",
		)},
	}
}
