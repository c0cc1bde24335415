package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/txingest"
	"github.com/etnz/txingest/renderer"
	"github.com/google/subcommands"
)

type rulesCmd struct{}

func (*rulesCmd) Name() string     { return "rules" }
func (*rulesCmd) Synopsis() string { return "list the broker rules" }
func (*rulesCmd) Usage() string {
	return `txi rules [<broker>...]

  Lists the rules turning broker actions into transaction types, for the
  given brokers or all of them.
`
}
func (*rulesCmd) SetFlags(*flag.FlagSet) {}

func (*rulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := OpenRules()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RulesMarkdown(store, f.Args()...))
	return subcommands.ExitSuccess
}

type addRuleCmd struct{}

func (*addRuleCmd) Name() string     { return "add-rule" }
func (*addRuleCmd) Synopsis() string { return "add or update a broker rule" }
func (*addRuleCmd) Usage() string {
	return `txi add-rule <broker> <action text> <transaction type>

  Actions containing <action text> are given <transaction type> for files
  of <broker>. Use the "general" broker for rules that apply to every file.
  An existing rule for the same text is updated.
`
}
func (*addRuleCmd) SetFlags(*flag.FlagSet) {}

func (c *addRuleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	t, ok := txingest.ParseTransactionType(f.Arg(2))
	if !ok {
		fail("unknown transaction type %q, want one of %v", f.Arg(2), txingest.TransactionTypes())
		return subcommands.ExitUsageError
	}
	return mutateRules(func(s *txingest.MappingStore) error { return s.Add(f.Arg(0), f.Arg(1), t) })
}

type deleteRuleCmd struct{}

func (*deleteRuleCmd) Name() string     { return "delete-rule" }
func (*deleteRuleCmd) Synopsis() string { return "delete a broker rule" }
func (*deleteRuleCmd) Usage() string {
	return `txi delete-rule <broker> <action text>
`
}
func (*deleteRuleCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteRuleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	return mutateRules(func(s *txingest.MappingStore) error { return s.Delete(f.Arg(0), f.Arg(1)) })
}

type addBrokerCmd struct{}

func (*addBrokerCmd) Name() string     { return "add-broker" }
func (*addBrokerCmd) Synopsis() string { return "add a broker with no rules" }
func (*addBrokerCmd) Usage() string {
	return `txi add-broker <broker>
`
}
func (*addBrokerCmd) SetFlags(*flag.FlagSet) {}

func (c *addBrokerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	return mutateRules(func(s *txingest.MappingStore) error { return s.AddBroker(f.Arg(0)) })
}

type deleteBrokerCmd struct{}

func (*deleteBrokerCmd) Name() string     { return "delete-broker" }
func (*deleteBrokerCmd) Synopsis() string { return "delete a broker and its rules" }
func (*deleteBrokerCmd) Usage() string {
	return `txi delete-broker <broker>

  The "general" rules cannot be deleted.
`
}
func (*deleteBrokerCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteBrokerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage:", c.Usage())
		return subcommands.ExitUsageError
	}
	return mutateRules(func(s *txingest.MappingStore) error { return s.DeleteBroker(f.Arg(0)) })
}

// mutateRules opens the rules store and applies change, which persists it.
func mutateRules(change func(*txingest.MappingStore) error) subcommands.ExitStatus {
	store, err := OpenRules()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if err := change(store); err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Rules saved to %s\n", store.Path())
	return subcommands.ExitSuccess
}
