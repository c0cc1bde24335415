// Package cmd implements the txi command line application.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/etnz/txingest"
	"github.com/etnz/txingest/sqlstore"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&detectCmd{}, "import")
	c.Register(&importCmd{}, "import")

	c.Register(&rulesCmd{}, "rules")
	c.Register(&addRuleCmd{}, "rules")
	c.Register(&deleteRuleCmd{}, "rules")
	c.Register(&addBrokerCmd{}, "rules")
	c.Register(&deleteBrokerCmd{}, "rules")

	c.Register(&accountsCmd{}, "accounts")
	c.Register(&addAccountCmd{}, "accounts")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	rulesFile = flag.String("rules-file", "", "Path to the broker rules file. Defaults to $"+EnvRulesFile+" or ~/.portfolio-tracker/transaction_type_mappings.json")
	dbFile    = flag.String("db", "", "Path to the transactions database. Defaults to $"+EnvDB+" or ~/.portfolio-tracker/transactions.db")
	Verbose   = flag.Bool("v", false, "Verbose logging. Defaults to $"+EnvVerbose)
)

// The flags fall back on the environment at use time, so that a .env file
// loaded after the flag declarations is taken into account.

// RulesFile returns the path of the broker rules file.
func RulesFile() string {
	if *rulesFile != "" {
		return *rulesFile
	}
	if v := os.Getenv(EnvRulesFile); v != "" {
		return v
	}
	return txingest.DefaultMappingPath()
}

// DBFile returns the path of the transactions database.
func DBFile() string {
	if *dbFile != "" {
		return *dbFile
	}
	if v := os.Getenv(EnvDB); v != "" {
		return v
	}
	return filepath.Join(filepath.Dir(txingest.DefaultMappingPath()), "transactions.db")
}

// IsVerbose reports whether debug logs are on.
func IsVerbose() bool {
	if *Verbose {
		return true
	}
	v, _ := strconv.ParseBool(os.Getenv(EnvVerbose))
	return v
}

// SetupLogging configures the package logger from the flags.
func SetupLogging() {
	txingest.Logger.SetReportTimestamp(false)
	if IsVerbose() {
		txingest.Logger.SetLevel(log.DebugLevel)
	} else {
		txingest.Logger.SetLevel(log.WarnLevel)
	}
}

// OpenRules opens the broker rules store.
func OpenRules() (*txingest.MappingStore, error) {
	return txingest.OpenMappingStore(RulesFile())
}

// OpenDB opens the transactions database.
func OpenDB() (*sqlstore.Store, error) {
	s, err := sqlstore.Open(DBFile())
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", DBFile(), err)
	}
	return s, nil
}
