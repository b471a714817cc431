package main

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/changelog"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/workspace"
)

type LocationFlags struct {
	Branch            string `help:"Compute the change set for this branch." xor:"location"`
	Tag               string `help:"Compute the change set for this tag." xor:"location"`
	UseHeadIfNotFound bool   `help:"Use HEAD for files where the branch or tag does not exist."`
}

func (l *LocationFlags) location() model.Location {
	switch {
	case l.Branch != "":
		return model.BranchLocation(l.Branch, l.UseHeadIfNotFound)
	case l.Tag != "":
		return model.TagLocation(l.Tag, l.UseHeadIfNotFound)
	default:
		return model.MainlineLocation()
	}
}

type ParseFlags struct {
	Root    string   `required:"" help:"CVSROOT used to create the report, like :pserver:user@host:/cvsroot."`
	Exclude []string `help:"Excluded regions: files that should be ignored. Globs or re:<regexp>."`

	LocationFlags `embed:""`
}

func (p *ParseFlags) options() *workspace.ParseOptions {
	return &workspace.ParseOptions{
		Root:     p.Root,
		Location: p.location(),
		Exclude:  p.Exclude,
	}
}

type OutputFlags struct {
	Format string `default:"xml" enum:"xml,yaml" help:"Change log format (xml or yaml)."`
	Output string `short:"o" type:"path" help:"File to write to. Default is stdout."`
}

func (o *OutputFlags) write(f func(io.Writer, changelog.Format) error) error {
	format, err := changelog.ParseFormat(o.Format)
	if err != nil {
		return err
	}

	if o.Output == "" {
		return f(os.Stdout, format)
	}

	file, err := os.Create(o.Output)
	if err != nil {
		return errors.Wrapf(err, "error creating %v", o.Output)
	}

	err = f(file, format)

	closeErr := file.Close()
	if err != nil {
		return err
	}
	return closeErr
}
