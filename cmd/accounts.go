package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/txingest/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct{}

func (*accountsCmd) Name() string           { return "accounts" }
func (*accountsCmd) Synopsis() string       { return "list the accounts" }
func (*accountsCmd) Usage() string          { return "txi accounts\n" }
func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (*accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := OpenDB()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	accounts, err := db.Accounts(ctx)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.AccountsMarkdown(accounts))
	return subcommands.ExitSuccess
}

type addAccountCmd struct {
	broker string
}

func (*addAccountCmd) Name() string     { return "add-account" }
func (*addAccountCmd) Synopsis() string { return "create an account" }
func (*addAccountCmd) Usage() string {
	return `txi add-account [-broker <broker>] <name>

  Creates the account transactions are committed to. The name must be the
  one used in the account column of the imported files, or given to
  'txi import -account'.
`
}

func (c *addAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.broker, "broker", "", "Broker holding the account.")
}

func (c *addAccountCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	db, err := OpenDB()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	a, err := db.CreateAccount(ctx, f.Arg(0), c.broker)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Account %q created\n", a.Name)
	return subcommands.ExitSuccess
}
