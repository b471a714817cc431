package main

import (
	"github.com/alecthomas/kong"

	"github.com/pescuma/cvschanges/lib/workspace"
)

var cli struct {
	Workspace string `short:"w" help:"Workspace to store data. Default is ./.cvschanges or ~/.cvschanges if that does not exist."`

	Parse  ParseCmd  `cmd:"" help:"Parse a cvs rlog report and write its change log."`
	Import ImportCmd `cmd:"" help:"Parse cvs rlog reports and store their change sets."`
	Rlog   RlogCmd   `cmd:"" help:"Run cvs rlog and store the change set. This requires cvs to be in path."`
	List   ListCmd   `cmd:"" help:"List stored change sets."`
	Show   ShowCmd   `cmd:"" help:"Show the commits of a stored change set."`
	Export ExportCmd `cmd:"" help:"Write the change log of a stored change set."`
	Delete DeleteCmd `cmd:"" help:"Delete a stored change set."`
	Names  NamesCmd  `cmd:"" help:"List branch and tag names seen in stored reports."`
	Serve  ServeCmd  `cmd:"" help:"Start a server to query stored change sets."`
}

type appContext struct {
	ws *workspace.Workspace
}

func main() {
	ctx := kong.Parse(&cli, kong.ShortUsageOnError())

	ws, err := workspace.NewWorkspace(cli.Workspace)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&appContext{
		ws: ws,
	})

	_ = ws.Close()

	ctx.FatalIfErrorf(err)
}
