package linesource

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/abiosoft/lineprefix"
	"github.com/pkg/errors"

	"github.com/pescuma/cvschanges/lib/consoles"
)

type CommandOptions struct {
	// Binary defaults to cvs
	Binary string
	// Charset of the command output
	Charset string
	// Stderr receives the command error output, prefixed with the console prefix
	Stderr io.Writer
}

type commandSource struct {
	console consoles.Console
	root    string
	modules []string
	opts    CommandOptions
}

// FromCommand runs cvs rlog against root for the modules.
func FromCommand(console consoles.Console, root string, modules []string, opts *CommandOptions) Source {
	if opts == nil {
		opts = &CommandOptions{}
	}

	result := &commandSource{
		console: console,
		root:    root,
		modules: modules,
		opts:    *opts,
	}
	if result.opts.Binary == "" {
		result.opts.Binary = "cvs"
	}
	if result.opts.Stderr == nil {
		result.opts.Stderr = os.Stderr
	}

	return result
}

func (s *commandSource) Name() string {
	return s.opts.Binary + " " + strings.Join(s.args(), " ")
}

func (s *commandSource) args() []string {
	return append([]string{"-d", s.root, "rlog"}, s.modules...)
}

func (s *commandSource) Open(ctx context.Context) (io.ReadCloser, error) {
	cmd := exec.CommandContext(ctx, s.opts.Binary, s.args()...)

	prefix := lineprefix.PrefixFunc(func() string {
		return s.console.Prepare("")
	})
	cmd.Stderr = lineprefix.New(lineprefix.Writer(s.opts.Stderr), prefix)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, "error creating pipe")
	}

	s.console.Printf("Executing '%v'\n", strings.Join(cmd.Args, "' '"))

	err = cmd.Start()
	if err != nil {
		return nil, errors.Wrapf(err, "error executing %v", s.opts.Binary)
	}

	r, err := decode(stdout, s.opts.Charset)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, err
	}

	return &readCloser{
		Reader: r,
		close: func() error {
			// Drain so the process does not block on a full pipe
			_, _ = io.Copy(io.Discard, stdout)

			err := cmd.Wait()
			if err != nil {
				return errors.Wrapf(err, "error executing %v", s.Name())
			}
			return nil
		},
	}, nil
}
