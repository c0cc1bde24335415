// Package sqlstore stores accounts, symbols and committed transactions in a
// SQLite database. It implements txingest.Repository.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/txingest"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store is a SQLite backed txingest.Repository.
type Store struct {
	db *sql.DB
	// symbols caches symbol ids by key; symbols are never deleted.
	symbols *cache.Cache
}

var _ txingest.Repository = (*Store)(nil)

// Open opens or creates the database at path and creates missing tables.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single writer, sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("execute schema: %w", err)
	}
	txingest.Logger.Debug("opened database", "path", path)
	return &Store{db: db, symbols: cache.New(cache.NoExpiration, 0)}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// CreateAccount adds an account. Names are unique.
func (s *Store) CreateAccount(ctx context.Context, name, broker string) (txingest.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return txingest.Account{}, errors.New("account name is required")
	}
	a := txingest.Account{ID: uuid.NewString(), Name: name, Broker: strings.ToLower(strings.TrimSpace(broker))}
	_, err := s.db.ExecContext(ctx, `INSERT INTO accounts (id, name, broker) VALUES (?, ?, ?)`, a.ID, a.Name, a.Broker)
	if err != nil {
		return txingest.Account{}, fmt.Errorf("insert account %q: %w", name, err)
	}
	return a, nil
}

// Accounts returns every account sorted by name.
func (s *Store) Accounts(ctx context.Context) ([]txingest.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, broker FROM accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []txingest.Account
	for rows.Next() {
		var a txingest.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.Broker); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// FindAccountByName returns the account called name, or nil if there is none.
func (s *Store) FindAccountByName(ctx context.Context, name string) (*txingest.Account, error) {
	return findAccount(ctx, s.db, strings.TrimSpace(name))
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func findAccount(ctx context.Context, q queryer, name string) (*txingest.Account, error) {
	var a txingest.Account
	err := q.QueryRowContext(ctx, `SELECT id, name, broker FROM accounts WHERE name = ?`, name).Scan(&a.ID, &a.Name, &a.Broker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query account %q: %w", name, err)
	}
	return &a, nil
}

// symbolColumns returns the stored form of the key columns. Strikes are
// stored as canonical decimal text so that 340 and 340.00 are the same key.
func symbolColumns(k txingest.SymbolKey) (ticker, instrument, optionType, expiration, strike string) {
	if k.Strike.Valid {
		strike = k.Strike.Decimal.String()
	}
	return k.Ticker, string(k.Instrument), string(k.OptionType), k.Expiration.String(), strike
}

func symbolCacheKey(k txingest.SymbolKey) string {
	ticker, instrument, optionType, expiration, strike := symbolColumns(k)
	return strings.Join([]string{ticker, instrument, optionType, expiration, strike}, "|")
}

// GetOrCreateSymbol returns the symbol with exactly key, creating it if
// needed.
func (s *Store) GetOrCreateSymbol(ctx context.Context, key txingest.SymbolKey) (txingest.Symbol, error) {
	cacheKey := symbolCacheKey(key)
	if id, ok := s.symbols.Get(cacheKey); ok {
		return txingest.Symbol{ID: id.(string), SymbolKey: key}, nil
	}
	id, err := getOrCreateSymbol(ctx, s.db, key)
	if err != nil {
		return txingest.Symbol{}, err
	}
	s.symbols.Set(cacheKey, id, cache.NoExpiration)
	return txingest.Symbol{ID: id, SymbolKey: key}, nil
}

func getOrCreateSymbol(ctx context.Context, q queryer, key txingest.SymbolKey) (string, error) {
	ticker, instrument, optionType, expiration, strike := symbolColumns(key)
	_, err := q.ExecContext(ctx, `
		INSERT INTO symbols (id, ticker, instrument_type, option_type, expiration_date, strike_price)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (ticker, instrument_type, option_type, expiration_date, strike_price) DO NOTHING
	`, uuid.NewString(), ticker, instrument, optionType, expiration, strike)
	if err != nil {
		return "", fmt.Errorf("insert symbol %s: %w", ticker, err)
	}

	var id string
	err = q.QueryRowContext(ctx, `
		SELECT id FROM symbols
		WHERE ticker = ? AND instrument_type = ? AND option_type = ? AND expiration_date = ? AND strike_price = ?
	`, ticker, instrument, optionType, expiration, strike).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("query symbol %s: %w", ticker, err)
	}
	return id, nil
}

// CommitBatch inserts txs, and the symbols they refer to, in a single
// database transaction. Transfers whose journal names another known account
// are linked to it. Symbols only reach the cache once the batch is committed.
func (s *Store) CommitBatch(ctx context.Context, txs []txingest.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (
			id, account_id, symbol_id, transaction_type, transaction_date, quantity, price,
			amount, fees, notes, journal_details, counterparty_account_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	created := make(map[string]string)
	for i, tx := range txs {
		var symbolID sql.NullString
		if tx.Symbol != nil {
			cacheKey := symbolCacheKey(*tx.Symbol)
			id, ok := created[cacheKey]
			if !ok {
				if cached, found := s.symbols.Get(cacheKey); found {
					id = cached.(string)
				} else {
					id, err = getOrCreateSymbol(ctx, dbTx, *tx.Symbol)
					if err != nil {
						return err
					}
				}
				created[cacheKey] = id
			}
			symbolID = sql.NullString{String: id, Valid: true}
		}

		var counterparty sql.NullString
		if name := tx.Journal.Counterparty(tx.Type); name != "" {
			a, err := findAccount(ctx, dbTx, name)
			if err != nil {
				return err
			}
			if a != nil {
				counterparty = sql.NullString{String: a.ID, Valid: true}
			} else {
				txingest.Logger.Warn("unknown transfer counterparty", "account", name, "date", tx.Date)
			}
		}
		_, err := stmt.ExecContext(ctx,
			uuid.NewString(), tx.AccountID, symbolID, string(tx.Type), tx.Date.String(),
			tx.Quantity, tx.Price, tx.Amount, tx.Fees, tx.Notes, nullString(tx.Journal.String()), counterparty)
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", i+1, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	for k, id := range created {
		s.symbols.Set(k, id, cache.NoExpiration)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Record is a stored transaction.
type Record struct {
	ID             string
	Account        string
	Symbol         string // ticker, empty for cash movements
	Counterparty   string // account name, empty if none
	Type           txingest.TransactionType
	Date           txingest.Date
	Quantity       decimal.NullDecimal
	Price          decimal.NullDecimal
	Amount         decimal.Decimal
	Fees           decimal.Decimal
	Notes          string
	JournalDetails string
}

// Transactions returns the stored transactions of account, oldest first.
func (s *Store) Transactions(ctx context.Context, account string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, a.name, COALESCE(sy.ticker, ''), COALESCE(c.name, ''), t.transaction_type,
		       t.transaction_date, t.quantity, t.price, t.amount, t.fees, t.notes,
		       COALESCE(t.journal_details, '')
		FROM transactions t
		JOIN accounts a ON t.account_id = a.id
		LEFT JOIN symbols sy ON t.symbol_id = sy.id
		LEFT JOIN accounts c ON t.counterparty_account_id = c.id
		WHERE a.name = ?
		ORDER BY t.transaction_date, t.rowid
	`, account)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r         Record
			typ, date string
		)
		if err := rows.Scan(&r.ID, &r.Account, &r.Symbol, &r.Counterparty, &typ, &date,
			&r.Quantity, &r.Price, &r.Amount, &r.Fees, &r.Notes, &r.JournalDetails); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		r.Type = txingest.TransactionType(typ)
		r.Date, _ = txingest.ParseDate(date)
		records = append(records, r)
	}
	return records, rows.Err()
}
