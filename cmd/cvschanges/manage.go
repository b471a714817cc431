package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pescuma/cvschanges/lib/changelog"
	"github.com/pescuma/cvschanges/lib/model"
	"github.com/pescuma/cvschanges/lib/server"
)

type ExportCmd struct {
	ID string `arg:"" help:"Change set to export."`

	OutputFlags `embed:""`
}

func (c *ExportCmd) Run(ctx *appContext) error {
	return c.write(func(w io.Writer, format changelog.Format) error {
		return ctx.ws.Export(model.UUID(c.ID), w, format)
	})
}

type DeleteCmd struct {
	IDs []string `arg:"" name:"id" help:"Change sets to delete."`
}

func (c *DeleteCmd) Run(ctx *appContext) error {
	for _, id := range c.IDs {
		err := ctx.ws.Delete(model.UUID(id))
		if err != nil {
			return err
		}

		ctx.ws.Console().Printf("Deleted change set %v\n", id)
	}

	return nil
}

type NamesCmd struct {
}

func (c *NamesCmd) Run(ctx *appContext) error {
	branches, tags, err := ctx.ws.Names()
	if err != nil {
		return err
	}

	fmt.Printf("Branches: %v\n", strings.Join(branches, ", "))
	fmt.Printf("Tags: %v\n", strings.Join(tags, ", "))
	return nil
}

type ServeCmd struct {
	Port uint `default:"2427" help:"Port to listen to."`
}

func (c *ServeCmd) Run(ctx *appContext) error {
	return ctx.ws.Serve(&server.Options{
		Port: c.Port,
	})
}
