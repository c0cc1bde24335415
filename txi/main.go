// Command txi imports brokerage CSV exports into a transaction database.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/txingest"
	"github.com/etnz/txingest/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		txingest.Logger.Warn("cannot load .env", "err", err)
	}
	cmd.Completion().Complete("txi")

	commander := subcommands.NewCommander(flag.CommandLine, "txi")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	cmd.SetupLogging()

	ctx := context.Background()
	if sub := flag.Arg(0); sub != "" && !registered(commander, sub) {
		if found, code := cmd.RunExtension(sub, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(ctx)))
}

// registered reports whether name is a built-in command.
func registered(c *subcommands.Commander, name string) bool {
	found := false
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		if cmd.Name() == name {
			found = true
		}
	})
	return found
}
