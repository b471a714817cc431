package main

import (
	"context"
	"io"

	"github.com/pescuma/cvschanges/lib/changelog"
	"github.com/pescuma/cvschanges/lib/linesource"
	"github.com/pescuma/cvschanges/lib/model"
)

type ParseCmd struct {
	File     string `arg:"" type:"existingfile" help:"File with the output of cvs rlog."`
	Charset  string `help:"Charset of the file. Default is UTF-8, or ISO-8859-1 if the file is not valid UTF-8."`
	Progress bool   `help:"Show progress while reading the file."`

	ParseFlags  `embed:""`
	OutputFlags `embed:""`
}

func (c *ParseCmd) Run(ctx *appContext) error {
	source := linesource.FromFile(c.File, &linesource.FileOptions{
		Charset:  c.Charset,
		Progress: c.Progress,
	})

	cs, err := ctx.ws.Parse(context.Background(), source, c.options())
	if err != nil {
		return err
	}

	return c.write(func(w io.Writer, format changelog.Format) error {
		return changelog.Write(w, cs, format)
	})
}

type ImportCmd struct {
	Files    []string `arg:"" type:"existingfile" help:"Files with the output of cvs rlog."`
	Charset  string   `help:"Charset of the files. Default is UTF-8, or ISO-8859-1 if a file is not valid UTF-8."`
	Progress bool     `help:"Show progress while reading the files."`

	ParseFlags `embed:""`
}

func (c *ImportCmd) Run(ctx *appContext) error {
	var sources []linesource.Source
	for _, f := range c.Files {
		sources = append(sources, linesource.FromFile(f, &linesource.FileOptions{
			Charset:  c.Charset,
			Progress: c.Progress && len(c.Files) == 1,
		}))
	}

	css, err := ctx.ws.Import(context.Background(), sources, c.options())
	if err != nil {
		return err
	}

	printChangeSets(css)
	return nil
}

type RlogCmd struct {
	Modules []string `arg:"" help:"Modules to log."`
	Cvs     string   `default:"cvs" help:"cvs executable."`
	Charset string   `help:"Charset of the cvs output. Default is UTF-8."`

	ParseFlags `embed:""`
}

func (c *RlogCmd) Run(ctx *appContext) error {
	source := linesource.FromCommand(ctx.ws.Console(), c.Root, c.Modules, &linesource.CommandOptions{
		Binary:  c.Cvs,
		Charset: c.Charset,
	})

	css, err := ctx.ws.Import(context.Background(), []linesource.Source{source}, c.options())
	if err != nil {
		return err
	}

	printChangeSets(css)
	return nil
}

func printChangeSets(css []*model.ChangeSet) {
	for _, cs := range css {
		printChangeSet(cs)
	}
}
