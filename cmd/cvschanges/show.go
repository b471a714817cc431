package main

import (
	"fmt"
	"strings"

	"github.com/aquilax/truncate"
	"github.com/dustin/go-humanize"
	"github.com/gertd/go-pluralize"
	"github.com/samber/lo"

	"github.com/pescuma/cvschanges/lib/filters"
	"github.com/pescuma/cvschanges/lib/model"
)

var plurals = pluralize.NewClient()

type ListCmd struct {
}

func (c *ListCmd) Run(ctx *appContext) error {
	css, err := ctx.ws.List()
	if err != nil {
		return err
	}

	if len(css) == 0 {
		fmt.Printf("No change sets stored\n")
		return nil
	}

	printChangeSets(css)
	return nil
}

type ShowCmd struct {
	ID      string `arg:"" help:"Change set to show."`
	Filter  string `help:"Only show commits matching this filter: author, msg:<re>, file:<glob>, deleted. Can be combined with ! | &."`
	Width   int    `default:"60" help:"Maximum width of commit messages. Use 0 to show everything."`
	NoFiles bool   `help:"Do not list the files of each commit."`
}

func (c *ShowCmd) Run(ctx *appContext) error {
	filter, err := filters.ParseCommitFilter(c.Filter)
	if err != nil {
		return err
	}

	cs, err := ctx.ws.Get(model.UUID(c.ID))
	if err != nil {
		return err
	}

	printChangeSet(cs)

	commits := lo.Filter(cs.Commits, func(commit *model.Commit, _ int) bool { return filter(commit) })
	if len(commits) != len(cs.Commits) {
		fmt.Printf("Showing %v of %v\n", len(commits), count(len(cs.Commits), "commit"))
	}

	for _, commit := range commits {
		fmt.Printf("\n%v  %v  (%v)\n", commit.Date.Format("2006-01-02 15:04:05"), commit.Author, count(len(commit.Files), "file"))
		fmt.Printf("    %v\n", c.message(commit.Message))

		if c.NoFiles {
			continue
		}

		for _, f := range commit.Files {
			fmt.Printf("    %v\n", formatFile(f))
		}
	}

	return nil
}

func (c *ShowCmd) message(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")

	if c.Width <= 0 {
		return msg
	}

	return truncate.Truncate(msg, c.Width, "...", truncate.PositionEnd)
}

func formatFile(f *model.File) string {
	result := fmt.Sprintf("%v %v", f.Name, f.Revision)
	if f.HasPrevRevision() {
		result += " (from " + f.PrevRevision + ")"
	}
	if f.Dead {
		result += " [deleted]"
	}
	return result
}

func printChangeSet(cs *model.ChangeSet) {
	first, last := cs.Period()

	period := "no commits"
	if !cs.IsEmpty() {
		period = fmt.Sprintf("%v to %v", first.Format("2006-01-02"), last.Format("2006-01-02"))
	}

	fmt.Printf("%v  %v %v  parsed %v\n", cs.ID, cs.Root, cs.Location, humanize.Time(cs.ParsedAt))
	fmt.Printf("    %v, %v, %v, %v, %v\n",
		count(len(cs.Commits), "commit"),
		count(len(cs.Files), "file"),
		count(cs.BranchNames.Size(), "branch"),
		count(cs.TagNames.Size(), "tag"),
		period)
}

func count(n int, word string) string {
	return humanize.Comma(int64(n)) + " " + plurals.Pluralize(word, n, false)
}
