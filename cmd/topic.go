package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/etnz/txingest/docs"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `txi topic [<topic>...]

  Shows documentation topics, '*' for all of them: ` + strings.Join(docs.All(), ", ") + `
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics := f.Args()
	if len(topics) == 0 {
		topics = []string{"readme"}
	}
	doc, err := docs.Topics(topics...)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}
